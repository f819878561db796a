package ll1

import (
	"fmt"
	"os"

	"github.com/dekarrin/lumex/internal/grammar"
	"github.com/dekarrin/lumex/internal/util"
	"github.com/dekarrin/rezi"
)

// snapshot is the on-disk shape of a Table: everything needed to
// reconstitute its FIRST/FOLLOW/SELECT sets and predictive cells against a
// grammar that's rebuilt identically from source each run, referenced by
// production id rather than by the (unserializable, regex-bearing) Symbol
// values themselves. It holds only maps and slices of strings/uint32, so
// rezi's own reflection-based struct encoding handles it directly -- no
// intermediate marshaling format is needed.
type snapshot struct {
	Cells  map[string]map[string]uint32
	First  map[string][]string
	Follow map[string][]string
	Select map[uint32][]string
}

func toSnapshot(t *Table) snapshot {
	s := snapshot{
		Cells:  map[string]map[string]uint32{},
		First:  map[string][]string{},
		Follow: map[string][]string{},
		Select: map[uint32][]string{},
	}
	for nt, row := range t.cells {
		r := map[string]uint32{}
		for term, p := range row {
			r[term] = p.ID
		}
		s.Cells[nt] = r
	}
	for nt, set := range t.First {
		s.First[nt] = set.Elements()
	}
	for nt, set := range t.Follow {
		s.Follow[nt] = set.Elements()
	}
	for id, set := range t.Select {
		s.Select[id] = set.Elements()
	}
	return s
}

// fromSnapshot rebuilds a Table from a snapshot, resolving each cached
// production id against g (which must be the same grammar definition that
// produced the snapshot -- see Load).
func fromSnapshot(s snapshot, g *grammar.Grammar) (*Table, error) {
	byID := map[uint32]grammar.Production{}
	for _, p := range g.Productions() {
		byID[p.ID] = p
	}

	t := &Table{
		First:  map[string]util.StringSet{},
		Follow: map[string]util.StringSet{},
		Select: map[uint32]util.StringSet{},
		cells:  map[string]map[string]grammar.Production{},
	}
	for nt, elems := range s.First {
		t.First[nt] = util.StringSetOf(elems)
	}
	for nt, elems := range s.Follow {
		t.Follow[nt] = util.StringSetOf(elems)
	}
	for id, elems := range s.Select {
		t.Select[id] = util.StringSetOf(elems)
	}
	for nt, row := range s.Cells {
		r := map[string]grammar.Production{}
		for term, id := range row {
			p, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("cached table refers to unknown production id %d; grammar definition has changed", id)
			}
			r[term] = p
		}
		t.cells[nt] = r
	}
	return t, nil
}

// Save writes t to path as a rezi-encoded snapshot, so a later process can
// skip re-running the FIRST/FOLLOW/SELECT fixed point (the most expensive
// part of the analyzer) by calling Load against the same grammar.
func Save(t *Table, path string) error {
	data := rezi.EncBinary(toSnapshot(t))
	return os.WriteFile(path, data, 0o644)
}

// Load reads a Table previously written by Save, resolving its cached
// production ids against g. g must be built by the exact same grammar
// construction code that produced the cached table; callers that can't
// guarantee that (e.g. after editing the grammar) should discard the cache
// and call Analyze instead.
func Load(path string, g *grammar.Grammar) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s snapshot
	n, err := rezi.DecBinary(data, &s)
	if err != nil {
		return nil, fmt.Errorf("REZI decode: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}

	return fromSnapshot(s, g)
}
