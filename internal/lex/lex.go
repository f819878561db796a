// Package lex implements a longest-match lexer: a stateful cursor over
// source text that tokenizes against the fixed pattern catalogue in
// internal/token.
package lex

import (
	"fmt"

	"github.com/dekarrin/lumex/internal/token"
)

// Error is a lexical error: no pattern in the catalogue matched at Pos, and
// Pos was not yet at the end of input.
type Error struct {
	Pos       int
	Line      int
	Col       int
	Remaining string
}

func (e *Error) Error() string {
	remaining := e.Remaining
	if len(remaining) > 20 {
		remaining = remaining[:20] + "..."
	}
	return fmt.Sprintf("no token matches input starting at %q", remaining)
}

// Lexer is a stateful cursor over a rune slice. Advance produces tokens one
// at a time by longest match; ties are broken by catalogue registration
// order (see internal/token.Catalogue).
type Lexer struct {
	src  []rune
	pos  int // rune index of cursor
	line int
	col  int
}

// New creates a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

// Advance consumes and returns the next token at the cursor, including
// Whitespace and Newline tokens. Once the cursor reaches the end of input,
// it returns a token.EndOfFile token on every subsequent call (idempotent
// terminator); this never returns an error once EndOfFile has been reached.
func (lx *Lexer) Advance() (token.Token, error) {
	if lx.pos >= len(lx.src) {
		return token.Token{Kind: token.EndOfFile, Line: lx.line, Col: lx.col}, nil
	}

	remainder := string(lx.src[lx.pos:])

	var bestLen = -1
	var bestClass token.Class
	var bestLexeme string
	for _, cl := range token.Catalogue {
		loc := cl.Pattern().FindStringIndex(remainder)
		if loc == nil || loc[0] != 0 {
			continue
		}
		matchLen := loc[1]
		if matchLen > bestLen {
			bestLen = matchLen
			bestClass = cl
			bestLexeme = remainder[:matchLen]
		}
		// equal-length matches keep the earlier (already chosen) entry,
		// since Catalogue is walked in registration order.
	}

	if bestLen <= 0 {
		return token.Token{}, &Error{
			Pos:       lx.pos,
			Line:      lx.line,
			Col:       lx.col,
			Remaining: remainder,
		}
	}

	tok := token.Token{
		Kind:     bestClass,
		Lexeme:   bestLexeme,
		Line:     lx.line,
		Col:      lx.col,
		FullLine: lx.currentFullLine(),
	}

	for _, r := range bestLexeme {
		lx.pos++
		if r == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
	}

	return tok, nil
}

func (lx *Lexer) currentFullLine() string {
	start := lx.pos
	for start > 0 && lx.src[start-1] != '\n' {
		start--
	}
	end := lx.pos
	for end < len(lx.src) && lx.src[end] != '\n' {
		end++
	}
	return string(lx.src[start:end])
}

// Tokens lexes the entirety of the Lexer's source and returns a restartable
// Stream over the result, with Whitespace and Newline tokens transparently
// dropped. The Lexer's own cursor is left untouched by this call.
func (lx *Lexer) Tokens() (*Stream, error) {
	cp := &Lexer{src: lx.src, pos: lx.pos, line: lx.line, col: lx.col}

	var toks []token.Token
	for {
		tok, err := cp.Advance()
		if err != nil {
			return nil, err
		}
		if tok.Kind.ID() == token.Whitespace.ID() || tok.Kind.ID() == token.Newline.ID() {
			continue
		}
		toks = append(toks, tok)
		if tok.Kind.ID() == token.EndOfFile.ID() {
			break
		}
	}

	return &Stream{tokens: toks}, nil
}

// Tokenize is a convenience wrapper equal to New(src).Tokens().
func Tokenize(src string) (*Stream, error) {
	return New(src).Tokens()
}
