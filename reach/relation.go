package reach

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/graph"
)

// Triple means Nonterminal derives a word spelled by some path From → To.
type Triple struct {
	Nonterminal grammar.Ident
	From, To    graph.Node
}

func (t Triple) String() string { return fmt.Sprintf("(%v, %v, %v)", t.Nonterminal, t.From, t.To) }

func lessTriple(a, b Triple) bool {
	switch {
	case a.Nonterminal != b.Nonterminal:
		return a.Nonterminal.Cmp(b.Nonterminal) < 0
	case a.From != b.From:
		return a.From < b.From
	default:
		return a.To < b.To
	}
}

// Relation is the derivation relation of a grammar over a graph.
type Relation map[Triple]struct{}

// Add reports whether t is new.
func (r Relation) Add(t Triple) bool {
	if _, ok := r[t]; ok {
		return false
	}
	r[t] = struct{}{}
	return true
}

func (r Relation) Has(t Triple) bool {
	_, ok := r[t]
	return ok
}

func (r Relation) Sorted() []Triple {
	res := maps.Keys(r)
	slices.SortFunc(res, lessTriple)
	return res
}

func (r Relation) Nonterminals() []grammar.Ident {
	set := make(grammar.Set[grammar.Ident])
	for t := range r {
		set[t.Nonterminal] = struct{}{}
	}

	res := maps.Keys(set)
	slices.SortFunc(res, func(a, b grammar.Ident) bool { return a.Cmp(b) < 0 })
	return res
}

// Pairs returns all pairs derived by n.
func (r Relation) Pairs(n grammar.Ident) graph.PairSet { return r.Query(n, nil, nil) }

// Query returns the pairs derived by n with the source in start and the
// target in final. Nil sets mean any node.
func (r Relation) Query(n grammar.Ident, start, final graph.NodeSet) graph.PairSet {
	res := graph.NewPairSet()
	for t := range r {
		if t.Nonterminal != n {
			continue
		}
		if start != nil && !start.Has(t.From) {
			continue
		}
		if final != nil && !final.Has(t.To) {
			continue
		}
		res.Append(graph.Pair{From: t.From, To: t.To})
	}
	return res
}

func (r Relation) String() string {
	buf := bytes.NewBuffer(nil)
	w := tablewriter.NewWriter(buf)
	w.SetAutoFormatHeaders(false)
	w.SetHeader([]string{"nonterminal", "from", "to"})

	for _, t := range r.Sorted() {
		w.Append([]string{t.Nonterminal.String(), t.From.String(), t.To.String()})
	}

	w.Render()

	return buf.String()
}
