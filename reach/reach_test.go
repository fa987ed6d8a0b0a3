package reach_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/graph"
	. "github.com/quenbyako/cfpq/reach"
)

func edges(triples ...[3]string) *graph.Graph {
	g := graph.New()
	for _, t := range triples {
		g.AddEdge(graph.Node(t[0]), graph.Node(t[1]), t[2])
	}
	return g
}

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

var cycles = edges(
	[3]string{"0", "1", "a"},
	[3]string{"1", "2", "a"},
	[3]string{"2", "0", "a"},
	[3]string{"2", "3", "b"},
	[3]string{"3", "2", "b"},
)

var algorithms = []Algorithm{AlgorithmWorklist, AlgorithmMatrix}

// a^n b^n, n >= 1
const anbn = "S -> A B | A S1\nS1 -> S B\nA -> a\nB -> b"

func TestRun_TwoCycles(t *testing.T) {
	// b* a b: only 1 -a-> 2 -b-> 3 spells it, no b edge enters 1.
	g := mustParse(t, "S -> A B | B S\nA -> a\nB -> b")

	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			rel := Run(alg, g, cycles)
			require.Equal(t, pairs([2]string{"1", "3"}), rel.Pairs(grammar.N("S")))

			require.Equal(t, pairs([2]string{"0", "1"}, [2]string{"1", "2"}, [2]string{"2", "0"}), rel.Pairs(grammar.N("A")))
			require.True(t, rel.Has(Triple{Nonterminal: grammar.N("B"), From: "3", To: "2"}))
		})
	}
}

func TestRun_TwoCyclesBalanced(t *testing.T) {
	g := mustParse(t, anbn)

	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			rel := Run(alg, g, cycles)
			require.Equal(t, pairs(
				[2]string{"0", "2"}, [2]string{"0", "3"},
				[2]string{"1", "2"}, [2]string{"1", "3"},
				[2]string{"2", "2"}, [2]string{"2", "3"},
			), rel.Pairs(grammar.N("S")))
		})
	}
}

func TestRun_Epsilon(t *testing.T) {
	g := mustParse(t, "S -> a S b | $")
	gr := edges(
		[3]string{"0", "1", "a"},
		[3]string{"1", "2", "a"},
		[3]string{"2", "3", "b"},
		[3]string{"3", "4", "b"},
	)

	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			rel := Run(alg, g, gr)
			require.Equal(t, pairs(
				[2]string{"0", "0"}, [2]string{"1", "1"}, [2]string{"2", "2"}, [2]string{"3", "3"}, [2]string{"4", "4"},
				[2]string{"1", "3"}, [2]string{"0", "4"},
			), rel.Pairs(grammar.N("S")))
		})
	}
}

var equivalenceGrammars = []string{
	"S -> A B | B S\nA -> a\nB -> b",
	anbn,
	"S -> a S b | $",
	"S -> a S b S | $",
	"S -> S S | a | b",
	"S -> A | B\nA -> a A | a\nB -> b B c | $",
	"S -> a b c d",
	"S -> X Y\nX -> a X | $\nY -> b | c Y",
	"S -> S a",
}

var equivalenceGraphs = []*graph.Graph{
	cycles,
	graph.TwoCycles(3, 2, [2]string{"a", "b"}),
	graph.TwoCycles(1, 1, [2]string{"a", "c"}),
	edges(
		[3]string{"0", "1", "a"},
		[3]string{"1", "1", "b"},
		[3]string{"1", "2", "c"},
		[3]string{"2", "3", "d"},
		[3]string{"1", "0", "b"},
		[3]string{"0", "1", "c"},
	),
	graph.New(),
}

func TestCrossAlgorithmEquivalence(t *testing.T) {
	for _, text := range equivalenceGrammars {
		g := grammar.Normalize(mustParse(t, text))
		for i, gr := range equivalenceGraphs {
			require.Equal(t, Hellings(g, gr), Matrix(g, gr), "grammar %q on graph #%d", text, i)
		}
	}
}

func TestRun_NormalizesInput(t *testing.T) {
	raw := mustParse(t, "S -> a b c d")
	gr := edges(
		[3]string{"0", "1", "a"},
		[3]string{"1", "2", "b"},
		[3]string{"2", "3", "c"},
		[3]string{"3", "4", "d"},
	)

	for _, alg := range algorithms {
		require.Equal(t, pairs([2]string{"0", "4"}), Run(alg, raw, gr).Pairs(grammar.N("S")), alg.String())
	}
}

func TestMonotonicity(t *testing.T) {
	g := grammar.Normalize(mustParse(t, "S -> a S b S | $"))
	gr := graph.TwoCycles(3, 2, [2]string{"a", "b"})

	for _, tt := range []struct {
		alg     Algorithm
		message string
	}{
		{alg: AlgorithmWorklist, message: "worklist step"},
		{alg: AlgorithmMatrix, message: "matrix pass"},
	} {
		t.Run(tt.alg.String(), func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			rel := Run(tt.alg, g, gr, WithLogger(zap.New(core)))

			steps := logs.FilterMessage(tt.message).All()
			require.NotEmpty(t, steps)

			prev := int64(0)
			for _, entry := range steps {
				size := entry.ContextMap()["relation"].(int64)
				require.GreaterOrEqual(t, size, prev)
				prev = size
			}
			require.Equal(t, int64(len(rel)), prev)
		})
	}
}

func TestRelation_Query(t *testing.T) {
	rel := Run(AlgorithmWorklist, mustParse(t, "S -> A B | B S\nA -> a\nB -> b"), cycles)

	require.Equal(t, pairs([2]string{"1", "3"}), rel.Query(grammar.N("S"), graph.NewNodeSet("0", "1"), graph.NewNodeSet("3")))
	require.Empty(t, rel.Query(grammar.N("S"), graph.NewNodeSet("0"), nil))

	require.Equal(t, []grammar.Ident{grammar.N("A"), grammar.N("B"), grammar.N("S")}, rel.Nonterminals())
	require.Equal(t, Triple{Nonterminal: grammar.N("A"), From: "0", To: "1"}, rel.Sorted()[0])
	require.Contains(t, rel.String(), "nonterminal")
}

func TestParseAlgorithm(t *testing.T) {
	for s, expected := range map[string]Algorithm{
		"worklist": AlgorithmWorklist,
		"Hellings": AlgorithmWorklist,
		" matrix ": AlgorithmMatrix,
	} {
		alg, err := ParseAlgorithm(s)
		require.NoError(t, err)
		require.Equal(t, expected, alg)
	}

	_, err := ParseAlgorithm("tensor")
	require.Error(t, err)
}
