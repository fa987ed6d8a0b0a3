package cfpq_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	. "github.com/quenbyako/cfpq"
	"github.com/quenbyako/cfpq/automaton"
	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/graph"
	"github.com/quenbyako/cfpq/reach"
)

func pairs(p ...[2]string) graph.PairSet {
	res := graph.NewPairSet()
	for _, item := range p {
		res.Append(graph.Pair{From: graph.Node(item[0]), To: graph.Node(item[1])})
	}
	return res
}

func mustParse(t *testing.T, text string) *grammar.CFG {
	t.Helper()

	g, err := grammar.Parse(text)
	require.NoError(t, err)
	return g
}

var cycles = graph.FromEdges(
	graph.Edge{From: "0", To: "1", Label: "a"},
	graph.Edge{From: "1", To: "2", Label: "a"},
	graph.Edge{From: "2", To: "0", Label: "a"},
	graph.Edge{From: "2", To: "3", Label: "b"},
	graph.Edge{From: "3", To: "2", Label: "b"},
)

var threeEdges = graph.FromEdges(
	graph.Edge{From: "1", To: "4", Label: "a"},
	graph.Edge{From: "2", To: "5", Label: "b"},
	graph.Edge{From: "3", To: "6", Label: "c"},
)

func TestQuery(t *testing.T) {
	// b* a b
	starB := mustParse(t, "S -> A B | B S\nA -> a\nB -> b")
	// a^n b^n, n >= 1
	balanced := mustParse(t, "S -> A B | A S1\nS1 -> S B\nA -> a\nB -> b")

	for _, tt := range []struct {
		name     string
		grammar  *grammar.CFG
		opts     []Option
		expected graph.PairSet
	}{{
		name:     "all",
		grammar:  starB,
		expected: pairs([2]string{"1", "3"}),
	}, {
		name:     "start",
		grammar:  starB,
		opts:     []Option{WithStart("0")},
		expected: pairs(),
	}, {
		name:     "start and final",
		grammar:  starB,
		opts:     []Option{WithStart("1", "2"), WithFinal("3")},
		expected: pairs([2]string{"1", "3"}),
	}, {
		name:     "nonterminal",
		grammar:  starB,
		opts:     []Option{WithNonterminal("B")},
		expected: pairs([2]string{"2", "3"}, [2]string{"3", "2"}),
	}, {
		name:     "empty start",
		grammar:  starB,
		opts:     []Option{WithStart()},
		expected: pairs(),
	}, {
		name:    "balanced",
		grammar: balanced,
		expected: pairs(
			[2]string{"0", "2"}, [2]string{"0", "3"},
			[2]string{"1", "2"}, [2]string{"1", "3"},
			[2]string{"2", "2"}, [2]string{"2", "3"},
		),
	}, {
		name:     "balanced start",
		grammar:  balanced,
		opts:     []Option{WithStart("0")},
		expected: pairs([2]string{"0", "2"}, [2]string{"0", "3"}),
	}, {
		name:     "balanced start and final",
		grammar:  balanced,
		opts:     []Option{WithStart("1", "2"), WithFinal("3")},
		expected: pairs([2]string{"1", "3"}, [2]string{"2", "3"}),
	}} {
		tt := tt // for parallel tests
		t.Run(tt.name, func(t *testing.T) {
			for _, alg := range []reach.Algorithm{reach.AlgorithmWorklist, reach.AlgorithmMatrix} {
				res, err := Query(cycles, tt.grammar, append(tt.opts, WithAlgorithm(alg))...)
				require.NoError(t, err)
				require.Equal(t, tt.expected, res, alg.String())
			}
		})
	}
}

func TestQuery_UnknownNonterminal(t *testing.T) {
	g := mustParse(t, "S -> a")

	_, err := Query(cycles, g, WithNonterminal("X"))
	var uerr *grammar.UnknownSymbolError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, "X", uerr.Symbol)
}

func TestQuery_RemovedNonterminal(t *testing.T) {
	// C generates nothing, so normalization drops it and the answer is empty.
	g := mustParse(t, "S -> A | C\nA -> a\nC -> C c")

	res, err := Query(cycles, g, WithNonterminal("C"))
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestNormalizeText(t *testing.T) {
	g, err := NormalizeText("S->A|B|C\nA->a\nB->b\nC->C")
	require.NoError(t, err)
	require.True(t, g.IsWeakCNF())

	_, hasC := g.Lookup("C")
	require.False(t, hasC)
	for _, term := range g.Terminals() {
		require.NotEqual(t, "c", term.String())
	}

	require.True(t, Accepts(g, []string{"a"}))
	require.True(t, Accepts(g, []string{"b"}))
	require.False(t, Accepts(g, []string{"c"}))

	_, err = NormalizeText("S -> | a")
	var serr *grammar.SyntaxError
	require.ErrorAs(t, err, &serr)
}

func TestQueryRegex(t *testing.T) {
	res, err := QueryRegex(threeEdges, "a|b", WithStart("1", "2", "3"), WithFinal("4", "5", "6"))
	require.NoError(t, err)
	require.Equal(t, pairs([2]string{"1", "4"}, [2]string{"2", "5"}), res)

	_, err = QueryRegex(threeEdges, "(a")
	require.Error(t, err)

	res, err = QueryPythonRegex(threeEdges, "[ab]", WithStart("1", "2", "3"), WithFinal("4", "5", "6"))
	require.NoError(t, err)
	require.Equal(t, pairs([2]string{"1", "4"}, [2]string{"2", "5"}), res)

	_, err = QueryPythonRegex(threeEdges, "a**")
	require.Error(t, err)
}

func TestReachableUnderConstraint(t *testing.T) {
	res, err := ReachableUnderConstraint(threeEdges, []graph.Node{"1", "2", "3"}, "a|b", false)
	require.NoError(t, err)
	require.Equal(t, KindNodes, res.Kind())
	require.Equal(t, graph.NewNodeSet("4", "5"), res.(NodesResult).Nodes)

	res, err = ReachableUnderConstraint(threeEdges, []graph.Node{"1", "2", "3"}, "a|b", true)
	require.NoError(t, err)
	require.Equal(t, KindPerSource, res.Kind())

	perSource := res.(PerSourceResult)
	require.Equal(t, graph.NewNodeSet("4"), perSource.Nodes["1"])
	require.Equal(t, graph.NewNodeSet("5"), perSource.Nodes["2"])
	require.Empty(t, perSource.Nodes["3"])
	require.True(t, strings.HasPrefix(res.String(), "1: "))
}

func TestAutomaton(t *testing.T) {
	res, err := Automaton("a b*")
	require.NoError(t, err)
	require.Equal(t, KindAutomaton, res.Kind())

	nfa := res.(AutomatonResult).Automaton
	require.True(t, nfa.IsDeterministic())
	require.Equal(t, 2, nfa.NumStates())
	require.True(t, nfa.Accepts([]automaton.Symbol{"a", "b", "b"}))
	require.False(t, nfa.Accepts([]automaton.Symbol{"b"}))
}

func TestToRFA(t *testing.T) {
	rfa := ToRFA(mustParse(t, "S -> a S b | $"))
	require.Equal(t, grammar.N("S"), rfa.Start)

	box, err := rfa.Box("S")
	require.NoError(t, err)
	require.True(t, box.Accepts(nil))
	require.True(t, box.Accepts([]automaton.Symbol{"a", "S", "b"}))
	require.False(t, box.Accepts([]automaton.Symbol{"a", "b"}))
}

func TestReachability_Logs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	rel := Reachability(mustParse(t, "S -> a"), cycles, WithLogger(zap.New(core)), WithAlgorithm(reach.AlgorithmMatrix))
	require.Len(t, rel.Pairs(grammar.N("S")), 3)
	require.Equal(t, 1, logs.FilterMessage("reachability").Len())
	require.NotZero(t, logs.FilterMessage("matrix done").Len())
}
