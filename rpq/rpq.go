// Package rpq answers regular path queries over edge-labeled graphs.
package rpq

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/quenbyako/cfpq/automaton"
	"github.com/quenbyako/cfpq/graph"
	"github.com/quenbyako/cfpq/regex"
)

type options struct {
	log *zap.Logger
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option { return func(o *options) { o.log = log } }

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// QueryRegex returns the pairs (u, v), u from start and v from final, joined
// by a path whose labels match pattern. Nil start or final means all nodes.
func QueryRegex(g *graph.Graph, start, final []graph.Node, pattern string, opts ...Option) (graph.PairSet, error) {
	dfa, err := regex.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return QueryAutomaton(g, start, final, dfa, opts...), nil
}

// QueryPythonRegex is QueryRegex for a pattern in the character syntax of
// regex.ParsePython: every character is a label.
func QueryPythonRegex(g *graph.Graph, start, final []graph.Node, pattern string, opts ...Option) (graph.PairSet, error) {
	dfa, err := regex.CompilePython(pattern)
	if err != nil {
		return nil, err
	}
	return QueryAutomaton(g, start, final, dfa, opts...), nil
}

// QueryAutomaton is QueryRegex for an already built constraint automaton.
func QueryAutomaton(g *graph.Graph, start, final []graph.Node, constraint *automaton.NFA, opts ...Option) graph.PairSet {
	o := newOptions(opts)
	res := graph.NewPairSet()

	ga := automaton.FromGraph(g, start, final)
	if err := checkBoth(ga, constraint); err != nil {
		o.log.Debug("empty query", zap.Error(err))
		return res
	}

	product := automaton.Kronecker(ga.Decompose(), constraint.RemoveEpsilon().Decompose())
	closure := product.Adjacency().TransitiveClosure()
	o.log.Debug("tensor product built",
		zap.Int("states", product.Size()),
		zap.Int("closure", closure.Nnz()),
	)

	nodes := g.Nodes()
	for _, s := range product.Starts {
		from, _ := product.Decode(s)
		for _, f := range product.Finals {
			if s == f || closure.Test(s, f) {
				to, _ := product.Decode(f)
				res.Append(graph.Pair{From: nodes[from], To: nodes[to]})
			}
		}
	}

	return res
}

// checkBoth turns an empty operand into ErrEmpty.
func checkBoth(a, b *automaton.NFA) error {
	if err := a.Check(); err != nil {
		return errors.Wrap(err, "graph")
	}
	if err := b.Check(); err != nil {
		return errors.Wrap(err, "constraint")
	}
	return nil
}
