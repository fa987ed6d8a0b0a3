package reach

import (
	"go.uber.org/zap"

	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/graph"
)

// fact is a triple over node indexes.
type fact struct {
	n        grammar.Ident
	from, to int
}

// facts is the relation indexed by both ends, so the worklist step only
// looks at facts touching the popped one.
type facts struct {
	all     map[fact]struct{}
	byStart map[int][]fact
	byEnd   map[int][]fact
}

func (f *facts) add(x fact) bool {
	if _, ok := f.all[x]; ok {
		return false
	}
	f.all[x] = struct{}{}
	f.byStart[x.from] = append(f.byStart[x.from], x)
	f.byEnd[x.to] = append(f.byEnd[x.to], x)
	return true
}

// Hellings runs the worklist algorithm. Grammars which aren't in weak normal
// form are normalized first.
func Hellings(g *grammar.CFG, gr *graph.Graph, opts ...Option) Relation {
	o := newOptions(opts)
	r := splitRules(g)
	nodes := gr.Nodes()

	// H -> left right, keyed by left and by right
	byLeft := make(map[grammar.Ident][]binaryRule)
	byRight := make(map[grammar.Ident][]binaryRule)
	for _, b := range r.binary {
		byLeft[b.left] = append(byLeft[b.left], b)
		byRight[b.right] = append(byRight[b.right], b)
	}

	rel := &facts{
		all:     make(map[fact]struct{}),
		byStart: make(map[int][]fact),
		byEnd:   make(map[int][]fact),
	}
	worklist := make([]fact, 0)
	push := func(x fact) {
		if rel.add(x) {
			worklist = append(worklist, x)
		}
	}

	for _, head := range r.epsilon {
		for i := range nodes {
			push(fact{n: head, from: i, to: i})
		}
	}
	for _, e := range gr.Edges() {
		from, _ := gr.Index(e.From)
		to, _ := gr.Index(e.To)
		for _, head := range r.terminal[e.Label] {
			push(fact{n: head, from: from, to: to})
		}
	}

	o.log.Debug("worklist initialized", zap.Int("relation", len(rel.all)), zap.Int("binary rules", len(r.binary)))

	steps := 0
	for len(worklist) > 0 {
		x := worklist[0]
		worklist = worklist[1:]
		steps++

		// (left, v', v) with H -> left x.n gives (H, v', u)
		for _, left := range rel.byEnd[x.from] {
			for _, b := range byRight[x.n] {
				if b.left == left.n {
					push(fact{n: b.head, from: left.from, to: x.to})
				}
			}
		}
		// (right, u, u') with H -> x.n right gives (H, v, u')
		for _, right := range rel.byStart[x.to] {
			for _, b := range byLeft[x.n] {
				if b.right == right.n {
					push(fact{n: b.head, from: x.from, to: right.to})
				}
			}
		}

		if ce := o.log.Check(zap.DebugLevel, "worklist step"); ce != nil {
			ce.Write(zap.Int("iteration", steps), zap.Int("relation", len(rel.all)), zap.Int("pending", len(worklist)))
		}
	}

	o.log.Debug("worklist done", zap.Int("iterations", steps), zap.Int("relation", len(rel.all)))

	res := make(Relation, len(rel.all))
	for x := range rel.all {
		res.Add(Triple{Nonterminal: x.n, From: nodes[x.from], To: nodes[x.to]})
	}
	return res
}
