package graph

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type NodeSet map[Node]struct{}

func NewNodeSet(nodes ...Node) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		s[n] = struct{}{}
	}

	return s
}

func (s NodeSet) Append(n ...Node) NodeSet {
	if s == nil {
		s = make(NodeSet, len(n))
	}
	for _, item := range n {
		s[item] = struct{}{}
	}

	return s
}

func (s NodeSet) Has(n Node) bool {
	_, ok := s[n]
	return ok
}

func (s NodeSet) Union(o NodeSet) NodeSet {
	res := make(NodeSet, len(s)+len(o))
	for n := range s {
		res[n] = struct{}{}
	}
	for n := range o {
		res[n] = struct{}{}
	}

	return res
}

func (s NodeSet) Intersect(o NodeSet) NodeSet {
	res := make(NodeSet)
	for n := range s {
		if o.Has(n) {
			res[n] = struct{}{}
		}
	}

	return res
}

func (s NodeSet) Sorted() []Node {
	res := maps.Keys(s)
	slices.Sort(res)

	return res
}

func (s NodeSet) String() string {
	strs := make([]string, 0, len(s))
	for _, n := range s.Sorted() {
		strs = append(strs, n.String())
	}

	return "{" + strings.Join(strs, ", ") + "}"
}

type Pair struct{ From, To Node }

func (p Pair) String() string { return fmt.Sprintf("(%v, %v)", p.From, p.To) }

func cmpPair(a, b Pair) bool {
	if a.From != b.From {
		return a.From < b.From
	}

	return a.To < b.To
}

type PairSet map[Pair]struct{}

func NewPairSet(pairs ...Pair) PairSet {
	s := make(PairSet, len(pairs))
	for _, p := range pairs {
		s[p] = struct{}{}
	}

	return s
}

func (s PairSet) Append(p ...Pair) PairSet {
	if s == nil {
		s = make(PairSet, len(p))
	}
	for _, item := range p {
		s[item] = struct{}{}
	}

	return s
}

func (s PairSet) Has(p Pair) bool {
	_, ok := s[p]
	return ok
}

func (s PairSet) Sorted() []Pair {
	res := maps.Keys(s)
	slices.SortFunc(res, cmpPair)

	return res
}

func (s PairSet) String() string {
	strs := make([]string, 0, len(s))
	for _, p := range s.Sorted() {
		strs = append(strs, p.String())
	}

	return "{" + strings.Join(strs, ", ") + "}"
}

// Restrict picks either the given nodes or, when none are given, every node
// of g.
func Restrict(g *Graph, nodes []Node) NodeSet {
	if nodes == nil {
		return NewNodeSet(g.nodes...)
	}

	return NewNodeSet(nodes...)
}
