// Package lumex translates scripts written in a small Lumerical-FDTD-style
// scripting dialect into Python source driving the meep FDTD simulation
// library, plus the small runtime support module the emitted script
// imports. It wraps the front end (lexer, LL(1) grammar/table, action
// catalogue, parser driver) and the Selector/Record runtime asset behind
// a single Translate call.
package lumex

import (
	"errors"
	"fmt"

	"github.com/dekarrin/lumex/internal/action"
	"github.com/dekarrin/lumex/internal/config"
	"github.com/dekarrin/lumex/internal/diag"
	"github.com/dekarrin/lumex/internal/grammar"
	"github.com/dekarrin/lumex/internal/lex"
	"github.com/dekarrin/lumex/internal/ll1"
	"github.com/dekarrin/lumex/internal/parse"
	"github.com/dekarrin/lumex/internal/pyast"
	"github.com/dekarrin/lumex/internal/runtime"
	"github.com/google/uuid"
)

// Result is everything a single Translate call produces.
type Result struct {
	// Code is the translated Python source.
	Code string

	// Runtime is the Selector/Record support module's source text, to be
	// written out alongside Code as runtime.py when cfg.WriteRuntime is
	// true (it always is under Default()).
	Runtime string

	// Warnings collects every non-fatal diagnostic raised during the
	// parse (e.g. SetProperty encountering an unrecognized property
	// name), so library consumers don't have to scrape stderr.
	Warnings []diag.Warning

	// ID uniquely identifies this Translate call, so that a batch
	// pipeline driving many invocations can correlate each one's
	// diagnostics in shared log output.
	ID uuid.UUID
}

// Grammar bundles the compiled (or freshly analyzed) LL(1) grammar table
// so repeated Translate calls against the same config don't repeat the
// §4.5 fixed-point computation. The zero value is not usable; build one
// with NewGrammar.
type Grammar struct {
	g     *grammar.Grammar
	table *ll1.Table
}

// NewGrammar builds lumex's concrete LL(1) grammar (internal/parse) and
// runs the analyzer over it once. cachePath, if non-empty, is tried
// first via ll1.Load and written via ll1.Save on a cold build, avoiding
// the fixed-point recomputation on every process invocation.
func NewGrammar(cachePath string) (*Grammar, error) {
	g := parse.New()

	if cachePath != "" {
		if table, err := ll1.Load(cachePath, g); err == nil {
			return &Grammar{g: g, table: table}, nil
		}
	}

	table, err := ll1.Analyze(g)
	if err != nil {
		var conflict *ll1.ConflictError
		if errors.As(err, &conflict) {
			return nil, &diag.GrammarError{Message: conflict.Error()}
		}
		return nil, fmt.Errorf("analyze grammar: %w", err)
	}
	if cachePath != "" {
		_ = ll1.Save(table, cachePath)
	}
	return &Grammar{g: g, table: table}, nil
}

// Translate lexes, parses, and pretty-prints src using g and cfg. Each
// call is independent and safe to run from multiple goroutines provided
// each uses its own Grammar (the parser driver is not reentrant, but
// Translate builds a fresh parse/value/token stack set per call via
// parse.Parser.Parse).
func Translate(src string, g *Grammar, cfg config.Config) (*Result, error) {
	stream, err := lex.Tokenize(src)
	if err != nil {
		var lexErr *lex.Error
		if errors.As(err, &lexErr) {
			return nil, &diag.LexicalError{
				Pos:       diag.Position{Line: lexErr.Line, Col: lexErr.Col},
				Remaining: lexErr.Remaining,
			}
		}
		return nil, err
	}

	catalogue := action.Build(cfg)
	p := parse.New(g.g, g.table, catalogue)

	module, warnings, err := p.Parse(stream)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Code:     pyast.Print(module),
		Warnings: warnings,
		ID:       uuid.New(),
	}
	if cfg.WriteRuntime {
		result.Runtime = runtime.Source()
	}
	return result, nil
}
