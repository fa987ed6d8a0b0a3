package cfpq

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/quenbyako/cfpq/automaton"
	"github.com/quenbyako/cfpq/graph"
)

type Kind int

const (
	KindPairs Kind = iota + 1
	KindNodes
	KindPerSource
	KindAutomaton
)

func (k Kind) String() string {
	switch k {
	case KindPairs:
		return "pairs"
	case KindNodes:
		return "nodes"
	case KindPerSource:
		return "per-source"
	case KindAutomaton:
		return "automaton"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Result is a closed set of query answers, switch on the concrete type.
type Result interface {
	fmt.Stringer
	Kind() Kind
	result()
}

type PairsResult struct{ Pairs graph.PairSet }

var _ Result = PairsResult{}

func (_ PairsResult) result()        {}
func (_ PairsResult) Kind() Kind     { return KindPairs }
func (r PairsResult) String() string { return r.Pairs.String() }

type NodesResult struct{ Nodes graph.NodeSet }

var _ Result = NodesResult{}

func (_ NodesResult) result()        {}
func (_ NodesResult) Kind() Kind     { return KindNodes }
func (r NodesResult) String() string { return r.Nodes.String() }

type PerSourceResult struct{ Nodes map[graph.Node]graph.NodeSet }

var _ Result = PerSourceResult{}

func (_ PerSourceResult) result()    {}
func (_ PerSourceResult) Kind() Kind { return KindPerSource }
func (r PerSourceResult) String() string {
	sources := maps.Keys(r.Nodes)
	slices.Sort(sources)

	lines := make([]string, len(sources))
	for i, s := range sources {
		lines[i] = s.String() + ": " + r.Nodes[s].String()
	}
	return strings.Join(lines, "\n")
}

type AutomatonResult struct{ Automaton *automaton.NFA }

var _ Result = AutomatonResult{}

func (_ AutomatonResult) result()        {}
func (_ AutomatonResult) Kind() Kind     { return KindAutomaton }
func (r AutomatonResult) String() string { return r.Automaton.String() }
