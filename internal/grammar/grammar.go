package grammar

import "github.com/dekarrin/lumex/internal/util"

// Production is a single grammar rule `LHS -> RHS` (or `LHS -> ε`). ID is a
// monotonically-assigned integer, stable for the lifetime of the Grammar
// that produced it, used to key SELECT sets.
type Production struct {
	LHS string
	RHS []Symbol // nil/empty means epsilon
	ID  uint32
}

// IsEpsilon reports whether this production's right-hand side is ε.
func (p Production) IsEpsilon() bool {
	return len(p.RHS) == 0
}

// Grammar is an ordered list of productions plus the nullable-nonterminal
// set cached incrementally as productions are appended.
type Grammar struct {
	start       string
	prods       []Production
	nextID      uint32
	nullableSet util.StringSet
}

// New creates an empty Grammar whose start symbol is start.
func New(start string) *Grammar {
	return &Grammar{start: start, nullableSet: util.NewStringSet()}
}

// StartSymbol returns the grammar's designated start nonterminal.
func (g *Grammar) StartSymbol() string { return g.start }

// Append adds a production `lhs -> rhs...` to the grammar, scoped-counter
// assigning it a fresh id, and returns the stored Production. Passing no
// symbols (or only grammar.Eps) records an epsilon production.
//
// If the new production is epsilon, lhs is marked
// nullable, and any production already appended for lhs is retroactively
// treated as nullable too (tracked via the shared nullable-nonterminal set,
// since "nullable" here is ultimately a property of lhs, not of the
// individual alternative).
func (g *Grammar) Append(lhs string, rhs ...Symbol) Production {
	var stored []Symbol
	isEps := len(rhs) == 0
	if !isEps {
		if len(rhs) == 1 && rhs[0].IsEpsilon() {
			isEps = true
		} else {
			stored = make([]Symbol, len(rhs))
			copy(stored, rhs)
		}
	}

	p := Production{LHS: lhs, RHS: stored, ID: g.nextID}
	g.nextID++

	if isEps {
		g.nullableSet.Add(lhs)
	}
	// (c): if lhs is already known nullable (from an earlier epsilon
	// production, or this one), nothing further to record here -- nullability
	// is queried per-nonterminal via IsNullable, not cached per production.

	g.prods = append(g.prods, p)
	return p
}

// AppendEpsilon is shorthand for Append(lhs) with no symbols.
func (g *Grammar) AppendEpsilon(lhs string) Production {
	return g.Append(lhs)
}

// IsNullable reports whether nt can derive the empty string.
func (g *Grammar) IsNullable(nt string) bool {
	return g.nullableSet.Has(nt)
}

// Productions returns a copy of every production in append order.
func (g *Grammar) Productions() []Production {
	out := make([]Production, len(g.prods))
	copy(out, g.prods)
	return out
}

// ProductionsFor returns, in append order, the productions whose LHS is nt.
func (g *Grammar) ProductionsFor(nt string) []Production {
	var out []Production
	for _, p := range g.prods {
		if p.LHS == nt {
			out = append(out, p)
		}
	}
	return out
}

// Terminals returns the set of distinct terminal token-class IDs appearing
// anywhere in the grammar's productions.
func (g *Grammar) Terminals() util.StringSet {
	s := util.NewStringSet()
	for _, p := range g.prods {
		for _, sym := range p.RHS {
			if sym.IsTerminal() {
				s.Add(sym.Terminal().ID())
			}
		}
	}
	return s
}

// NonTerminals returns the set of distinct nonterminal names appearing as
// either a production's LHS or within some production's RHS.
func (g *Grammar) NonTerminals() util.StringSet {
	s := util.NewStringSet()
	for _, p := range g.prods {
		s.Add(p.LHS)
		for _, sym := range p.RHS {
			if sym.IsNonTerminal() {
				s.Add(sym.NonTerminal())
			}
		}
	}
	return s
}

// IsNullableSequence reports whether the symbol sequence seq (a production's
// RHS) can derive the empty string: true for an empty/epsilon sequence, or
// when every non-action symbol in it is itself nullable. Action symbols are
// invisible to this computation.
func (g *Grammar) IsNullableSequence(seq []Symbol) bool {
	for _, sym := range seq {
		if sym.IsAction() {
			continue
		}
		if sym.IsEpsilon() {
			continue
		}
		if sym.IsTerminal() {
			return false
		}
		if sym.IsNonTerminal() && !g.IsNullable(sym.NonTerminal()) {
			return false
		}
	}
	return true
}
