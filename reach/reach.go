// Package reach computes the derivation relation of a context-free grammar
// over an edge-labeled graph.
package reach

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/graph"
)

type Algorithm int

const (
	AlgorithmWorklist Algorithm = iota
	AlgorithmMatrix
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmWorklist:
		return "worklist"
	case AlgorithmMatrix:
		return "matrix"
	default:
		return "Algorithm(" + strconv.Itoa(int(a)) + ")"
	}
}

// ParseAlgorithm accepts "worklist" (or "hellings") and "matrix".
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "worklist", "hellings":
		return AlgorithmWorklist, nil
	case "matrix":
		return AlgorithmMatrix, nil
	default:
		return 0, errors.Errorf("unknown algorithm %q", s)
	}
}

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

// Run computes the relation with the chosen algorithm.
func Run(alg Algorithm, g *grammar.CFG, gr *graph.Graph, opts ...Option) Relation {
	switch alg {
	case AlgorithmWorklist:
		return Hellings(g, gr, opts...)
	case AlgorithmMatrix:
		return Matrix(g, gr, opts...)
	default:
		panic("unknown algorithm " + alg.String())
	}
}

// rules is a grammar in weak normal form split by body shape.
type rules struct {
	epsilon  []grammar.Ident
	terminal map[string][]grammar.Ident
	binary   []binaryRule
}

type binaryRule struct{ head, left, right grammar.Ident }

func splitRules(g *grammar.CFG) rules {
	if !g.IsWeakCNF() {
		g = grammar.Normalize(g)
	}

	res := rules{terminal: make(map[string][]grammar.Ident)}
	for _, p := range g.Productions() {
		switch len(p.Rule) {
		case 0:
			res.epsilon = append(res.epsilon, p.Name)
		case 1:
			res.terminal[p.Rule[0].ID] = append(res.terminal[p.Rule[0].ID], p.Name)
		case 2:
			res.binary = append(res.binary, binaryRule{head: p.Name, left: p.Rule[0], right: p.Rule[1]})
		}
	}
	return res
}
