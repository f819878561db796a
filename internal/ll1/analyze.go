// Package ll1 implements the LL(1) analyzer: FIRST/FOLLOW/SELECT
// fixed-point computation and predictive parse table construction.
package ll1

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/lumex/internal/grammar"
	"github.com/dekarrin/lumex/internal/util"
)

// ConflictError is a GrammarError: two productions both claim the same
// (nonterminal, terminal) predictive-table cell.
type ConflictError struct {
	NonTerminal string
	Terminal    string
	First       grammar.Production
	Second      grammar.Production
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("grammar is not LL(1): productions %d and %d both predict %s on %s",
		e.First.ID, e.Second.ID, e.NonTerminal, e.Terminal)
}

// Table is the analyzed form of a Grammar: FIRST/FOLLOW sets keyed by
// nonterminal, SELECT sets keyed by production id, and the predictive
// table used by the parser driver.
type Table struct {
	First  map[string]util.StringSet
	Follow map[string]util.StringSet
	Select map[uint32]util.StringSet

	// cells maps nonterminal -> terminal id -> predicted production.
	cells map[string]map[string]grammar.Production
}

// Get returns the production predicted for (nt, termID), and whether one
// exists.
func (t *Table) Get(nt, termID string) (grammar.Production, bool) {
	row, ok := t.cells[nt]
	if !ok {
		return grammar.Production{}, false
	}
	p, ok := row[termID]
	return p, ok
}

// Analyze computes FIRST, FOLLOW, and SELECT for g and builds its
// predictive table. It returns a *ConflictError (a GrammarError) if g is
// not LL(1).
//
// This implementation does NOT add EndOfFile to FOLLOW(start) automatically.
// Grammars are instead written so the start symbol's productions
// explicitly consume the end-of-file terminal (see internal/parse's
// concrete grammar), which is simpler to reason about and keeps FOLLOW a
// pure function of the productions as written.
func Analyze(g *grammar.Grammar) (*Table, error) {
	nullable := computeNullable(g)
	first := computeFirst(g, nullable)
	follow := computeFollow(g, nullable, first)
	sel := computeSelect(g, nullable, first, follow)

	cells := map[string]map[string]grammar.Production{}
	for _, p := range g.Productions() {
		row, ok := cells[p.LHS]
		if !ok {
			row = map[string]grammar.Production{}
			cells[p.LHS] = row
		}
		for _, termID := range sel[p.ID].Elements() {
			if existing, ok := row[termID]; ok && existing.ID != p.ID {
				return nil, &ConflictError{NonTerminal: p.LHS, Terminal: termID, First: existing, Second: p}
			}
			row[termID] = p
		}
	}

	return &Table{First: first, Follow: follow, Select: sel, cells: cells}, nil
}

// computeNullable finds every nonterminal that can derive the empty
// string, including transitively via chains of nullable nonterminals:
// if every Xi in a production A -> X1...Xn is nullable, A is nullable.
func computeNullable(g *grammar.Grammar) util.StringSet {
	nullable := util.NewStringSet()
	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions() {
			if nullable.Has(p.LHS) {
				continue
			}
			if p.IsEpsilon() || isSeqNullableSoFar(p.RHS, nullable) {
				nullable.Add(p.LHS)
				changed = true
			}
		}
	}
	return nullable
}

func isSeqNullableSoFar(seq []grammar.Symbol, nullable util.StringSet) bool {
	for _, sym := range seq {
		if sym.IsAction() || sym.IsEpsilon() {
			continue
		}
		if sym.IsTerminal() {
			return false
		}
		if sym.IsNonTerminal() && !nullable.Has(sym.NonTerminal()) {
			return false
		}
	}
	return true
}

// computeFirst computes FIRST(A) for every nonterminal A by fixed point.
func computeFirst(g *grammar.Grammar, nullable util.StringSet) map[string]util.StringSet {
	first := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals().Elements() {
		first[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions() {
			before := first[p.LHS].Len()
			first[p.LHS].AddAll(firstOfSequence(p.RHS, nullable, first))
			if first[p.LHS].Len() != before {
				changed = true
			}
		}
	}
	return first
}

// firstOfSequence computes FIRST(X1 X2 ... Xn), skipping Action symbols
// (which are invisible to this computation), stopping contribution at
// the first symbol that is not nullable.
func firstOfSequence(seq []grammar.Symbol, nullable util.StringSet, first map[string]util.StringSet) util.StringSet {
	result := util.NewStringSet()
	for _, sym := range seq {
		if sym.IsAction() || sym.IsEpsilon() {
			continue
		}
		if sym.IsTerminal() {
			result.Add(sym.Terminal().ID())
			return result
		}
		// nonterminal
		result.AddAll(first[sym.NonTerminal()])
		if !nullable.Has(sym.NonTerminal()) {
			return result
		}
	}
	return result
}

// computeFollow computes FOLLOW(A) for every nonterminal A by fixed point.
func computeFollow(g *grammar.Grammar, nullable util.StringSet, first map[string]util.StringSet) map[string]util.StringSet {
	follow := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals().Elements() {
		follow[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions() {
			effective := stripActions(p.RHS)
			for i, sym := range effective {
				if !sym.IsNonTerminal() {
					continue
				}
				B := sym.NonTerminal()
				beta := effective[i+1:]

				before := follow[B].Len()
				follow[B].AddAll(firstOfSequence(beta, nullable, first))
				if isSeqNullableSoFar(beta, nullable) {
					follow[B].AddAll(follow[p.LHS])
				}
				if follow[B].Len() != before {
					changed = true
				}
			}
		}
	}
	return follow
}

// computeSelect computes SELECT(p) for every production p: FIRST(rhs) if
// rhs is not nullable, or FIRST(rhs) ∪ FOLLOW(lhs) if it is.
func computeSelect(g *grammar.Grammar, nullable util.StringSet, first, follow map[string]util.StringSet) map[uint32]util.StringSet {
	sel := map[uint32]util.StringSet{}
	for _, p := range g.Productions() {
		s := util.NewStringSet()
		if p.IsEpsilon() {
			s.AddAll(follow[p.LHS])
		} else {
			s.AddAll(firstOfSequence(p.RHS, nullable, first))
			if isSeqNullableSoFar(p.RHS, nullable) {
				s.AddAll(follow[p.LHS])
			}
		}
		sel[p.ID] = s
	}
	return sel
}

func stripActions(seq []grammar.Symbol) []grammar.Symbol {
	out := make([]grammar.Symbol, 0, len(seq))
	for _, sym := range seq {
		if sym.IsAction() {
			continue
		}
		out = append(out, sym)
	}
	return out
}

// Dump renders the table in a stable, sorted form for debugging/testing.
func (t *Table) Dump() string {
	var sb strings.Builder
	nts := make([]string, 0, len(t.cells))
	for nt := range t.cells {
		nts = append(nts, nt)
	}
	sort.Strings(nts)

	for _, nt := range nts {
		terms := make([]string, 0, len(t.cells[nt]))
		for term := range t.cells[nt] {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			fmt.Fprintf(&sb, "%s, %s -> #%d\n", nt, term, t.cells[nt][term].ID)
		}
	}
	return sb.String()
}
