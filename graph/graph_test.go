package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/quenbyako/cfpq/graph"
)

func TestGraph_AddEdge(t *testing.T) {
	g := New()
	g.AddEdge("0", "1", "a")
	g.AddEdge("0", "1", "b")
	g.AddEdge("0", "1", "a")

	require.Equal(t, 2, g.NumberOfNodes())
	require.Equal(t, 2, g.NumberOfEdges())
	require.Equal(t, []Node{"0", "1"}, g.Nodes())
	require.Equal(t, []string{"a", "b"}, g.Labels())

	i, ok := g.Index("1")
	require.True(t, ok)
	require.Equal(t, 1, i)
}

func TestTwoCycles(t *testing.T) {
	for _, tt := range []struct {
		name     string
		n, m     int
		expected Description
	}{{
		name:     "2 and 3",
		n:        2,
		m:        3,
		expected: Description{Nodes: 6, Edges: 7, Labels: []string{"a", "b"}},
	}, {
		name:     "1 and 1",
		n:        1,
		m:        1,
		expected: Description{Nodes: 3, Edges: 4, Labels: []string{"a", "b"}},
	}} {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Describe(TwoCycles(tt.n, tt.m, [2]string{"a", "b"})))
		})
	}
}

func TestReadEdgeList(t *testing.T) {
	g, err := ReadEdgeList(strings.NewReader(`
		# comment
		0 1 a
		1 2 b
	`))
	require.NoError(t, err)
	require.Equal(t, []Edge{{From: "0", To: "1", Label: "a"}, {From: "1", To: "2", Label: "b"}}, g.Edges())

	_, err = ReadEdgeList(strings.NewReader("0 1"))
	require.Error(t, err)
}

func TestReadYAML(t *testing.T) {
	g, err := ReadYAML(strings.NewReader(`
nodes: ["lonely"]
edges:
  - {from: "0", to: "1", label: a}
  - {from: "1", to: "0", label: b}
`))
	require.NoError(t, err)
	require.Equal(t, []Node{"lonely", "0", "1"}, g.Nodes())
	require.Equal(t, 2, g.NumberOfEdges())

	for _, tt := range []struct {
		name  string
		input string
		msg   string
	}{{
		name:  "no end",
		input: "edges:\n  - {from: \"0\", label: a}\n",
		msg:   "both ends are required",
	}, {
		name:  "no label",
		input: "edges:\n  - {from: \"0\", to: \"1\"}\n",
		msg:   "edge 0: label is required",
	}, {
		name:  "empty label",
		input: "edges:\n  - {from: \"0\", to: \"1\", label: a}\n  - {from: \"1\", to: \"2\", label: \"\"}\n",
		msg:   "edge 1: label is required",
	}} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadYAML(strings.NewReader(tt.input))
			require.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestGraph_EdgesByLabel(t *testing.T) {
	g := FromEdges(Edge{"0", "1", "a"}, Edge{"1", "2", "b"}, Edge{"2", "0", "a"})

	require.Equal(t, map[string][]Edge{
		"a": {{"0", "1", "a"}, {"2", "0", "a"}},
		"b": {{"1", "2", "b"}},
	}, g.EdgesByLabel())
}

func TestPairSet_Sorted(t *testing.T) {
	s := NewPairSet(Pair{"1", "2"}, Pair{"0", "3"}, Pair{"0", "2"})
	require.Equal(t, []Pair{{"0", "2"}, {"0", "3"}, {"1", "2"}}, s.Sorted())
	require.Equal(t, "{(0, 2), (0, 3), (1, 2)}", s.String())
}

func TestNodeSet(t *testing.T) {
	a := NewNodeSet("1", "2")
	b := NewNodeSet("2", "3")

	require.Equal(t, NewNodeSet("1", "2", "3"), a.Union(b))
	require.Equal(t, NewNodeSet("2"), a.Intersect(b))
	require.Equal(t, "{1, 2}", a.String())
}

func TestRestrict(t *testing.T) {
	g := FromEdges(Edge{From: "0", To: "1", Label: "a"})
	require.Equal(t, NewNodeSet("0", "1"), Restrict(g, nil))
	require.Equal(t, NewNodeSet("1"), Restrict(g, []Node{"1"}))
}
