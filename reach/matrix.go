package reach

import (
	"go.uber.org/zap"

	"github.com/quenbyako/cfpq/automaton"
	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/graph"
	"github.com/quenbyako/cfpq/matrix"
)

// Matrix runs the matrix fixpoint: M[H] |= M[A]·M[B] for every H -> A B until
// a pass changes nothing. Grammars which aren't in weak normal form are
// normalized first.
func Matrix(g *grammar.CFG, gr *graph.Graph, opts ...Option) Relation {
	o := newOptions(opts)
	r := splitRules(g)
	nodes := gr.Nodes()
	n := len(nodes)

	ms := make(map[grammar.Ident]*matrix.Bool)
	get := func(i grammar.Ident) *matrix.Bool {
		m, ok := ms[i]
		if !ok {
			m = matrix.Square(n)
			ms[i] = m
		}
		return m
	}

	for _, head := range r.epsilon {
		get(head).Or(matrix.Identity(n))
	}
	for label, m := range automaton.DecomposeGraph(gr) {
		for _, head := range r.terminal[label] {
			get(head).Or(m)
		}
	}
	for _, b := range r.binary {
		get(b.head)
		get(b.left)
		get(b.right)
	}

	for iteration := 1; ; iteration++ {
		prev := snapshot(ms)
		for _, b := range r.binary {
			ms[b.head].Or(ms[b.left].Mul(ms[b.right]))
		}

		if ce := o.log.Check(zap.DebugLevel, "matrix pass"); ce != nil {
			ce.Write(zap.Int("iteration", iteration), zap.Int("relation", nnz(ms)))
		}

		if equal(prev, ms) {
			o.log.Debug("matrix done", zap.Int("iterations", iteration), zap.Int("relation", nnz(ms)))
			break
		}
	}

	res := make(Relation)
	for head, m := range ms {
		m.Each(func(i, j int) {
			res.Add(Triple{Nonterminal: head, From: nodes[i], To: nodes[j]})
		})
	}
	return res
}

func snapshot(ms map[grammar.Ident]*matrix.Bool) map[grammar.Ident]*matrix.Bool {
	res := make(map[grammar.Ident]*matrix.Bool, len(ms))
	for k, m := range ms {
		res[k] = m.Clone()
	}
	return res
}

func equal(a, b map[grammar.Ident]*matrix.Bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, m := range a {
		other, ok := b[k]
		if !ok || !m.Equal(other) {
			return false
		}
	}
	return true
}

func nnz(ms map[grammar.Ident]*matrix.Bool) int {
	res := 0
	for _, m := range ms {
		res += m.Nnz()
	}
	return res
}
