package automaton

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/quenbyako/cfpq/graph"
	"github.com/quenbyako/cfpq/matrix"
	cslices "github.com/quenbyako/cfpq/slices"
)

// Decomposition is an automaton split into one adjacency matrix per symbol.
// Row and column i of every matrix stand for States[i].
type Decomposition struct {
	States []State
	Starts []int
	Finals []int

	Matrices map[Symbol]*matrix.Bool
}

// Decompose builds the boolean decomposition over the insertion order of
// states. ε moves, if any, are kept under Epsilon.
func (a *NFA) Decompose() *Decomposition {
	n := len(a.states)
	res := &Decomposition{
		States:   slices.Clone(a.states),
		Starts:   members(a.starts),
		Finals:   members(a.finals),
		Matrices: make(map[Symbol]*matrix.Bool),
	}

	for i, row := range a.delta {
		for symbol, t := range row {
			m, ok := res.Matrices[symbol]
			if !ok {
				m = matrix.Square(n)
				res.Matrices[symbol] = m
			}
			for _, j := range members(t) {
				m.Set(i, j)
			}
		}
	}

	return res
}

func (d *Decomposition) Size() int { return len(d.States) }

// Symbols returns the sorted symbols having a matrix, ε excluded.
func (d *Decomposition) Symbols() []Symbol {
	keys := maps.Keys(d.Matrices)
	keys = cslices.Filter(keys, func(s Symbol) bool { return s != Epsilon })
	slices.Sort(keys)
	return keys
}

// Matrix returns the matrix of symbol, an empty one if there is no such
// symbol.
func (d *Decomposition) Matrix(symbol Symbol) *matrix.Bool {
	if m, ok := d.Matrices[symbol]; ok {
		return m
	}
	return matrix.Square(d.Size())
}

// Adjacency is the union of all symbol matrices: the underlying graph of the
// automaton.
func (d *Decomposition) Adjacency() *matrix.Bool {
	res := matrix.Square(d.Size())
	for _, m := range d.Matrices {
		res.Or(m)
	}
	return res
}

// NFA assembles the automaton back. State i of the result is States[i] even
// if two states share a name.
func (d *Decomposition) NFA() *NFA {
	res := New()
	res.states = slices.Clone(d.States)
	res.delta = make([]map[Symbol]*bitset.BitSet, len(d.States))
	for i, s := range d.States {
		if _, ok := res.index[s]; !ok {
			res.index[s] = i
		}
	}
	for _, i := range d.Starts {
		res.starts.Set(uint(i))
	}
	for _, i := range d.Finals {
		res.finals.Set(uint(i))
	}
	for symbol, m := range d.Matrices {
		m.Each(func(i, j int) { res.addTransition(i, symbol, j) })
	}
	return res
}

// FromGraph treats every node as a state and every edge as a move on its
// label. Nil start or final means all nodes, nodes absent in g are ignored.
func FromGraph(g *graph.Graph, start, final []graph.Node) *NFA {
	res := New()
	for _, n := range g.Nodes() {
		res.AddState(State(n))
	}
	for _, e := range g.Edges() {
		res.AddTransition(State(e.From), Symbol(e.Label), State(e.To))
	}

	for n := range graph.Restrict(g, start) {
		if g.Has(n) {
			res.AddStart(State(n))
		}
	}
	for n := range graph.Restrict(g, final) {
		if g.Has(n) {
			res.AddFinal(State(n))
		}
	}

	return res
}

// DecomposeGraph returns one adjacency matrix per edge label, rows and
// columns follow g.Nodes().
func DecomposeGraph(g *graph.Graph) map[string]*matrix.Bool {
	byLabel := g.EdgesByLabel()

	res := make(map[string]*matrix.Bool, len(byLabel))
	for label, edges := range byLabel {
		m := matrix.Square(g.NumberOfNodes())
		for _, e := range edges {
			i, _ := g.Index(e.From)
			j, _ := g.Index(e.To)
			m.Set(i, j)
		}
		res[label] = m
	}
	return res
}

// Product is a Kronecker product of two decompositions, composite state
// (i, j) has index i*Right+j.
type Product struct {
	*Decomposition
	Left, Right int
}

func (p *Product) Encode(i, j int) int { return i*p.Right + j }

func (p *Product) Decode(k int) (i, j int) { return k / p.Right, k % p.Right }

// pairName quotes a component that could be confused with the separator, so
// different pairs never share a name.
func pairName(a, b State) State {
	part := func(s State) string {
		if s == "" || strings.ContainsAny(string(s), "(), \"") {
			return strconv.Quote(string(s))
		}
		return string(s)
	}
	return State("(" + part(a) + ", " + part(b) + ")")
}

// Kronecker intersects two ε-free decompositions symbol by symbol.
func Kronecker(a, b *Decomposition) *Product {
	res := &Product{
		Decomposition: &Decomposition{
			States:   make([]State, 0, a.Size()*b.Size()),
			Matrices: make(map[Symbol]*matrix.Bool),
		},
		Left:  a.Size(),
		Right: b.Size(),
	}

	for _, sa := range a.States {
		for _, sb := range b.States {
			res.States = append(res.States, pairName(sa, sb))
		}
	}

	for _, symbol := range a.Symbols() {
		if mb, ok := b.Matrices[symbol]; ok {
			res.Matrices[symbol] = a.Matrices[symbol].Kron(mb)
		}
	}

	for _, i := range a.Starts {
		for _, j := range b.Starts {
			res.Starts = append(res.Starts, res.Encode(i, j))
		}
	}
	for _, i := range a.Finals {
		for _, j := range b.Finals {
			res.Finals = append(res.Finals, res.Encode(i, j))
		}
	}

	return res
}

// Intersect returns an automaton of the language L(a) ∩ L(b).
func Intersect(a, b *NFA) *NFA {
	return Kronecker(a.RemoveEpsilon().Decompose(), b.RemoveEpsilon().Decompose()).NFA()
}
