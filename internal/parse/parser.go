package parse

import (
	"github.com/dekarrin/lumex/internal/action"
	"github.com/dekarrin/lumex/internal/diag"
	"github.com/dekarrin/lumex/internal/grammar"
	"github.com/dekarrin/lumex/internal/ll1"
	"github.com/dekarrin/lumex/internal/lex"
	"github.com/dekarrin/lumex/internal/pyast"
	"github.com/dekarrin/lumex/internal/token"
	"github.com/dekarrin/lumex/internal/util"
)

// Parser is the table-driven predictive parser: a parse stack of grammar
// symbols, a token stack of shifted terminals, and a value stack of
// partially-built AST nodes, advanced by a single Parse call.
type Parser struct {
	grammar  *grammar.Grammar
	table    *ll1.Table
	actions  map[string]action.Func
	warnings []diag.Warning
}

// New builds a Parser over g's predictive table, resolving action symbols
// against catalogue (action.Catalogue, or action.Build(cfg) as lumex.Translate
// passes; tests may substitute a smaller map to isolate individual actions).
func New(g *grammar.Grammar, table *ll1.Table, catalogue map[string]action.Func) *Parser {
	return &Parser{grammar: g, table: table, actions: catalogue}
}

// Parse runs the predictive-parse loop over stream, returning the root
// Module once the parse stack empties having consumed EndOfFile. It is
// stateless across calls: each call gets its own fresh parse/value/token
// stacks, so a single Parser may be reused sequentially (never
// concurrently).
func (p *Parser) Parse(stream *lex.Stream) (*pyast.Module, []diag.Warning, error) {
	stream.Reset()

	parseStack := util.Stack[grammar.Symbol]{}
	parseStack.Push(grammar.NonTerm(p.grammar.StartSymbol()))

	valueStack := util.Stack[pyast.Node]{}
	rootModule := &pyast.Module{}
	valueStack.Push(rootModule)

	tokenStack := util.Stack[token.Token]{}
	warnings := []diag.Warning{}

	current := stream.Next()

	for !parseStack.Empty() {
		sym := parseStack.Pop()

		switch sym.Kind() {
		case grammar.KindNonTerminal:
			ntName := sym.NonTerminal()
			prod, ok := p.table.Get(ntName, current.Kind.ID())
			if !ok {
				return nil, warnings, diag.NewMissingTableError(ntName, current)
			}
			if prod.IsEpsilon() {
				continue
			}
			for i := len(prod.RHS) - 1; i >= 0; i-- {
				parseStack.Push(prod.RHS[i])
			}

		case grammar.KindTerminal:
			want := sym.Terminal()
			if want.ID() != current.Kind.ID() {
				return nil, warnings, diag.NewMismatchError(want, current)
			}
			tokenStack.Push(current)
			if current.Kind.ID() != token.EndOfFile.ID() {
				current = stream.Next()
			}

		case grammar.KindAction:
			fn, ok := p.actions[sym.ActionOp()]
			if !ok {
				return nil, warnings, &diag.ActionError{Action: sym.ActionOp(), Message: "action not registered in catalogue"}
			}
			stacks := &action.Stacks{Values: &valueStack, Tokens: &tokenStack, Warnings: &warnings}
			if err := fn(stacks); err != nil {
				return nil, warnings, err
			}
		}
	}

	if valueStack.Len() != 1 {
		return nil, warnings, &diag.ActionError{Action: "Parse", Message: "value stack did not reduce to a single Module at end of parse"}
	}
	root, ok := valueStack.Pop().(*pyast.Module)
	if !ok {
		return nil, warnings, &diag.ActionError{Action: "Parse", Message: "final value stack element is not a Module"}
	}
	return root, warnings, nil
}
