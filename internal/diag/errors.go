// Package diag holds lumex's fatal error kinds and the diagnostic/warning
// plumbing threaded through a translation.
package diag

import (
	"fmt"

	"github.com/dekarrin/lumex/internal/token"
	"github.com/dekarrin/rosed"
)

// Position is the source location a diagnostic refers to, when one is
// available.
type Position struct {
	Line     int
	Col      int
	FullLine string
}

func posFromToken(t token.Token) Position {
	return Position{Line: t.Line, Col: t.Col, FullLine: t.FullLine}
}

// sourceLineWithCursor renders the offending line and a caret pointing at
// Col.
func (p Position) sourceLineWithCursor() string {
	if p.FullLine == "" {
		return ""
	}
	cursor := ""
	for i := 0; i < p.Col-1; i++ {
		cursor += " "
	}
	return p.FullLine + "\n" + cursor + "^"
}

// LexicalError reports that no pattern in the token catalogue matched at
// the lexer's cursor.
type LexicalError struct {
	Pos       Position
	Remaining string
}

func (e *LexicalError) Error() string {
	remaining := e.Remaining
	if len(remaining) > 40 {
		remaining = remaining[:40] + "..."
	}
	msg := fmt.Sprintf("line %d: no token matches %q", e.Pos.Line, remaining)
	return rosed.Edit(msg).Wrap(100).String()
}

// ParseErrorKind distinguishes the two predictive-parse failure shapes.
type ParseErrorKind int

const (
	// MissingTable: no production predicted for (nonterminal, token).
	MissingTable ParseErrorKind = iota
	// Mismatch: expected terminal differs from the current token.
	Mismatch
)

// ParseError is a fatal error raised by the parser driver.
type ParseError struct {
	Kind    ParseErrorKind
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Message)
}

// FullMessage includes the offending source line and a cursor, for
// terminal-friendly diagnostics.
func (e *ParseError) FullMessage() string {
	if cursor := e.Pos.sourceLineWithCursor(); cursor != "" {
		return cursor + "\n" + e.Error()
	}
	return e.Error()
}

// NewMissingTableError builds a ParseError for an unpredicted
// (nonterminal, token) pair.
func NewMissingTableError(nt string, tok token.Token) *ParseError {
	return &ParseError{
		Kind:    MissingTable,
		Pos:     posFromToken(tok),
		Message: fmt.Sprintf("unexpected %s while parsing %s", tok.Kind.Human(), nt),
	}
}

// NewMismatchError builds a ParseError for a terminal shift that didn't
// match the current token.
func NewMismatchError(want token.Class, tok token.Token) *ParseError {
	return &ParseError{
		Kind:    Mismatch,
		Pos:     posFromToken(tok),
		Message: fmt.Sprintf("expected %s but found %s", want.Human(), tok.Kind.Human()),
	}
}

// GrammarError reports an LL(1) conflict or nullable-propagation
// inconsistency detected while building the predictive table. It is
// always a programmer error in the static grammar definition, never a
// consequence of the input being translated.
type GrammarError struct {
	Message string
}

func (e *GrammarError) Error() string {
	return "grammar error: " + e.Message
}

// ActionError reports that a semantic action's precondition about the
// value/token stacks was violated: wrong variant on top, or stack
// underflow.
type ActionError struct {
	Action  string
	Pos     Position
	Message string
}

func (e *ActionError) Error() string {
	if e.Pos.Line != 0 {
		return fmt.Sprintf("line %d: action %s: %s", e.Pos.Line, e.Action, e.Message)
	}
	return fmt.Sprintf("action %s: %s", e.Action, e.Message)
}

// ConversionError reports that a literal's lexeme could not be converted
// to its declared type.
type ConversionError struct {
	Kind   string
	Lexeme string
	Pos    Position
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("line %d: cannot convert %q to %s", e.Pos.Line, e.Lexeme, e.Kind)
}

// Warning is a non-fatal diagnostic collected during translation (e.g.
// SetProperty's "unrecognized property" notice).
type Warning struct {
	Pos     Position
	Message string
}

func (w Warning) String() string {
	if w.Pos.Line != 0 {
		return fmt.Sprintf("line %d: %s", w.Pos.Line, w.Message)
	}
	return w.Message
}
