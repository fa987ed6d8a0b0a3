// Package cfpq answers context-free and regular path queries over
// edge-labeled graphs: which pairs of nodes are joined by a path whose labels
// spell a word of the language.
package cfpq

import (
	"go.uber.org/zap"

	"github.com/quenbyako/cfpq/cyk"
	"github.com/quenbyako/cfpq/ecfg"
	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/graph"
	"github.com/quenbyako/cfpq/reach"
	"github.com/quenbyako/cfpq/regex"
	"github.com/quenbyako/cfpq/rpq"
)

type config struct {
	start       []graph.Node
	final       []graph.Node
	nonterminal string
	algorithm   reach.Algorithm
	log         *zap.Logger
}

type Option func(*config)

// WithStart restricts sources of the answer. Without it every node is a
// source.
func WithStart(nodes ...graph.Node) Option {
	return func(c *config) { c.start = append([]graph.Node{}, nodes...) }
}

// WithFinal restricts targets of the answer. Without it every node is a
// target.
func WithFinal(nodes ...graph.Node) Option {
	return func(c *config) { c.final = append([]graph.Node{}, nodes...) }
}

// WithNonterminal picks the nonterminal to answer for instead of the start
// symbol.
func WithNonterminal(name string) Option { return func(c *config) { c.nonterminal = name } }

func WithAlgorithm(a reach.Algorithm) Option { return func(c *config) { c.algorithm = a } }

func WithLogger(log *zap.Logger) Option { return func(c *config) { c.log = log } }

func newConfig(opts []Option) config {
	c := config{algorithm: reach.AlgorithmWorklist, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

func nodeSet(nodes []graph.Node) graph.NodeSet {
	if nodes == nil {
		return nil
	}
	return graph.NewNodeSet(nodes...)
}

// Normalize returns the weak Chomsky normal form of g.
func Normalize(g *grammar.CFG) *grammar.CFG { return grammar.Normalize(g) }

// NormalizeText parses and normalizes a grammar.
func NormalizeText(text string, opts ...grammar.ParseOption) (*grammar.CFG, error) {
	g, err := grammar.Parse(text, opts...)
	if err != nil {
		return nil, err
	}
	return grammar.Normalize(g), nil
}

// Reachability computes the derivation relation of the normal form of g over
// gr.
func Reachability(g *grammar.CFG, gr *graph.Graph, opts ...Option) reach.Relation {
	c := newConfig(opts)
	c.log.Debug("reachability", zap.Stringer("algorithm", c.algorithm), zap.Int("nodes", gr.NumberOfNodes()), zap.Int("rules", g.Size()))

	return reach.Run(c.algorithm, grammar.Normalize(g), gr, reach.WithLogger(c.log))
}

// Query returns the pairs derived by the start symbol, or by the nonterminal
// given with WithNonterminal, filtered by WithStart and WithFinal.
func Query(gr *graph.Graph, g *grammar.CFG, opts ...Option) (graph.PairSet, error) {
	c := newConfig(opts)

	nonterminal := g.Start
	if c.nonterminal != "" {
		i, ok := g.Lookup(c.nonterminal)
		if !ok {
			return nil, &grammar.UnknownSymbolError{Symbol: c.nonterminal}
		}
		nonterminal = i
	}

	return Reachability(g, gr, opts...).Query(nonterminal, nodeSet(c.start), nodeSet(c.final)), nil
}

// QueryRegex returns the pairs joined by a path matching pattern.
func QueryRegex(gr *graph.Graph, pattern string, opts ...Option) (graph.PairSet, error) {
	c := newConfig(opts)
	return rpq.QueryRegex(gr, c.start, c.final, pattern, rpq.WithLogger(c.log))
}

// QueryPythonRegex is QueryRegex for a pattern in the usual character
// syntax, every character matching one label.
func QueryPythonRegex(gr *graph.Graph, pattern string, opts ...Option) (graph.PairSet, error) {
	c := newConfig(opts)
	return rpq.QueryPythonRegex(gr, c.start, c.final, pattern, rpq.WithLogger(c.log))
}

// ReachableUnderConstraint returns the nodes reachable from sources by
// a path matching pattern: one NodesResult for all sources together, or a
// PerSourceResult.
func ReachableUnderConstraint(gr *graph.Graph, sources []graph.Node, pattern string, perSource bool, opts ...Option) (Result, error) {
	c := newConfig(opts)

	if perSource {
		res, err := rpq.ReachablePerSource(gr, sources, pattern, rpq.WithLogger(c.log))
		if err != nil {
			return nil, err
		}
		return PerSourceResult{Nodes: res}, nil
	}

	res, err := rpq.Reachable(gr, sources, pattern, rpq.WithLogger(c.log))
	if err != nil {
		return nil, err
	}
	return NodesResult{Nodes: res}, nil
}

// Automaton compiles pattern to its minimal DFA.
func Automaton(pattern string) (Result, error) {
	e, err := regex.Parse(pattern)
	if err != nil {
		return nil, err
	}
	return AutomatonResult{Automaton: regex.ToDFA(e)}, nil
}

// ToRFA builds the recursive automaton of g.
func ToRFA(g *grammar.CFG) *ecfg.RFA { return ecfg.FromCFG(g).ToRFA() }

// Accepts reports whether g derives word.
func Accepts(g *grammar.CFG, word []string) bool { return cyk.Accepts(g, word) }
