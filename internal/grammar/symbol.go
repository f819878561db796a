// Package grammar implements the symbol model and grammar representation:
// productions over a mixed alphabet of terminals, nonterminals, actions,
// and epsilon.
package grammar

import "github.com/dekarrin/lumex/internal/token"

// Kind tags which variant a Symbol holds.
type Kind int

const (
	// KindTerminal wraps a lexical token class.
	KindTerminal Kind = iota
	// KindNonTerminal wraps a grammar variable name.
	KindNonTerminal
	// KindAction wraps the name of a semantic action.
	KindAction
	// KindEpsilon is the empty-string symbol.
	KindEpsilon
)

// Symbol is a single element of a production's right-hand side: a
// terminal, a nonterminal, an embedded action, or epsilon. It is a small
// value type so that it can be pushed onto the parser's stacks and
// compared by value.
type Symbol struct {
	kind     Kind
	term     token.Class
	nonTerm  string
	actionOp string
}

// Term constructs a terminal Symbol wrapping the given token class.
func Term(cl token.Class) Symbol {
	return Symbol{kind: KindTerminal, term: cl}
}

// NonTerm constructs a nonterminal Symbol with the given name.
func NonTerm(name string) Symbol {
	return Symbol{kind: KindNonTerminal, nonTerm: name}
}

// Act constructs an action Symbol identified by op, the name under which
// the action is registered in the action catalogue.
func Act(op string) Symbol {
	return Symbol{kind: KindAction, actionOp: op}
}

// Eps is the singleton epsilon symbol.
var Eps = Symbol{kind: KindEpsilon}

// Kind returns which variant the Symbol holds.
func (s Symbol) Kind() Kind { return s.kind }

// IsTerminal reports whether s is a terminal symbol.
func (s Symbol) IsTerminal() bool { return s.kind == KindTerminal }

// IsNonTerminal reports whether s is a nonterminal symbol.
func (s Symbol) IsNonTerminal() bool { return s.kind == KindNonTerminal }

// IsAction reports whether s is an embedded action symbol.
func (s Symbol) IsAction() bool { return s.kind == KindAction }

// IsEpsilon reports whether s is the epsilon symbol.
func (s Symbol) IsEpsilon() bool { return s.kind == KindEpsilon }

// Terminal returns the wrapped token class. Only meaningful if IsTerminal.
func (s Symbol) Terminal() token.Class { return s.term }

// NonTerminal returns the wrapped nonterminal name. Only meaningful if
// IsNonTerminal.
func (s Symbol) NonTerminal() string { return s.nonTerm }

// ActionOp returns the wrapped action name. Only meaningful if IsAction.
func (s Symbol) ActionOp() string { return s.actionOp }

// Equal reports structural equality: terminals compare by token class ID,
// nonterminals by name, epsilon always equals epsilon, and
// actions compare by operator name (two Action symbols placed at distinct
// grammar positions are distinct stack entries but Equal if they wrap the
// same operator).
func (s Symbol) Equal(o any) bool {
	other, ok := o.(Symbol)
	if !ok {
		return false
	}
	if s.kind != other.kind {
		return false
	}
	switch s.kind {
	case KindTerminal:
		return s.term.Equal(other.term)
	case KindNonTerminal:
		return s.nonTerm == other.nonTerm
	case KindAction:
		return s.actionOp == other.actionOp
	default: // KindEpsilon
		return true
	}
}

// String gives a human-oriented rendering used in grammar dumps and error
// messages.
func (s Symbol) String() string {
	switch s.kind {
	case KindTerminal:
		return s.term.ID()
	case KindNonTerminal:
		return s.nonTerm
	case KindAction:
		return "@" + s.actionOp
	default:
		return "ε"
	}
}
