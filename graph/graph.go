// Package graph holds the directed edge-labeled multigraph that path queries
// run over.
package graph

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Node string

func (n Node) String() string { return string(n) }

type Edge struct {
	From, To Node
	Label    string
}

func (e Edge) String() string { return fmt.Sprintf("%v -%v-> %v", e.From, e.Label, e.To) }

// Graph is a directed multigraph. Parallel edges are allowed as long as their
// labels differ; adding the very same labeled edge twice is a no-op.
//
// Nodes keep their insertion order, which is the order every matrix built
// from the graph uses.
type Graph struct {
	nodes []Node
	index map[Node]int

	edges   []Edge
	edgeSet map[Edge]struct{}
}

func New() *Graph {
	return &Graph{
		index:   make(map[Node]int),
		edgeSet: make(map[Edge]struct{}),
	}
}

// FromEdges builds a graph out of plain edges, nodes are added in order of
// their first appearance.
func FromEdges(edges ...Edge) *Graph {
	g := New()
	for _, e := range edges {
		g.AddEdge(e.From, e.To, e.Label)
	}

	return g
}

func (g *Graph) AddNode(n Node) int {
	if i, ok := g.index[n]; ok {
		return i
	}
	g.index[n] = len(g.nodes)
	g.nodes = append(g.nodes, n)

	return len(g.nodes) - 1
}

func (g *Graph) AddEdge(from, to Node, label string) {
	g.AddNode(from)
	g.AddNode(to)

	e := Edge{From: from, To: to, Label: label}
	if _, ok := g.edgeSet[e]; ok {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
}

func (g *Graph) Has(n Node) bool {
	_, ok := g.index[n]
	return ok
}

// Index returns the position of n in the node ordering.
func (g *Graph) Index(n Node) (int, bool) {
	i, ok := g.index[n]
	return i, ok
}

func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

func (g *Graph) NumberOfNodes() int { return len(g.nodes) }
func (g *Graph) NumberOfEdges() int { return len(g.edges) }

// Labels returns the sorted set of edge labels.
func (g *Graph) Labels() []string {
	labels := make(map[string]struct{})
	for _, e := range g.edges {
		labels[e.Label] = struct{}{}
	}

	res := maps.Keys(labels)
	slices.Sort(res)

	return res
}

// EdgesByLabel groups edges by their label.
func (g *Graph) EdgesByLabel() map[string][]Edge {
	res := make(map[string][]Edge)
	for _, e := range g.edges {
		res[e.Label] = append(res[e.Label], e)
	}

	return res
}

func (g *Graph) String() string {
	strs := make([]string, len(g.edges))
	for i, e := range g.edges {
		strs[i] = e.String()
	}

	return strings.Join(strs, "\n")
}

// Description is a short summary of a graph.
type Description struct {
	Nodes  int      `yaml:"nodes"`
	Edges  int      `yaml:"edges"`
	Labels []string `yaml:"labels"`
}

func Describe(g *Graph) Description {
	return Description{
		Nodes:  g.NumberOfNodes(),
		Edges:  g.NumberOfEdges(),
		Labels: g.Labels(),
	}
}

// TwoCycles builds two cycles sharing node 0: the first goes through n more
// nodes and is labeled with labels[0], the second goes through m more nodes
// and is labeled with labels[1].
func TwoCycles(n, m int, labels [2]string) *Graph {
	g := New()
	g.AddNode(nodeOf(0))

	prev := 0
	for i := 1; i <= n; i++ {
		g.AddEdge(nodeOf(prev), nodeOf(i), labels[0])
		prev = i
	}
	g.AddEdge(nodeOf(prev), nodeOf(0), labels[0])

	prev = 0
	for i := n + 1; i <= n+m; i++ {
		g.AddEdge(nodeOf(prev), nodeOf(i), labels[1])
		prev = i
	}
	g.AddEdge(nodeOf(prev), nodeOf(0), labels[1])

	return g
}

func nodeOf(i int) Node { return Node(fmt.Sprint(i)) }
