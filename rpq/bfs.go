package rpq

import (
	"github.com/bits-and-blooms/bitset"
	"go.uber.org/zap"

	"github.com/quenbyako/cfpq/automaton"
	"github.com/quenbyako/cfpq/graph"
	"github.com/quenbyako/cfpq/matrix"
	"github.com/quenbyako/cfpq/regex"
)

// Reachable returns the nodes reachable from any of sources by a path
// matching pattern.
func Reachable(g *graph.Graph, sources []graph.Node, pattern string, opts ...Option) (graph.NodeSet, error) {
	dfa, err := regex.Compile(pattern)
	if err != nil {
		return nil, err
	}

	res := bfs(g, dfa, [][]graph.Node{sources}, newOptions(opts))
	return res[0], nil
}

// ReachablePerSource is Reachable computed independently for every source,
// all sources in one pass. Sources absent in g are skipped.
func ReachablePerSource(g *graph.Graph, sources []graph.Node, pattern string, opts ...Option) (map[graph.Node]graph.NodeSet, error) {
	dfa, err := regex.Compile(pattern)
	if err != nil {
		return nil, err
	}

	known := graph.NewNodeSet()
	for _, s := range sources {
		if g.Has(s) {
			known.Append(s)
		}
	}
	ordered := known.Sorted()

	seeds := make([][]graph.Node, len(ordered))
	for i, s := range ordered {
		seeds[i] = []graph.Node{s}
	}

	sets := bfs(g, dfa, seeds, newOptions(opts))
	res := make(map[graph.Node]graph.NodeSet, len(ordered))
	for i, s := range ordered {
		res[s] = sets[i]
	}
	return res, nil
}

// QueryBFS answers the same question as QueryRegex with the per-source BFS.
func QueryBFS(g *graph.Graph, start, final []graph.Node, pattern string, opts ...Option) (graph.PairSet, error) {
	perSource, err := ReachablePerSource(g, graph.Restrict(g, start).Sorted(), pattern, opts...)
	if err != nil {
		return nil, err
	}

	finals := graph.Restrict(g, final)
	res := graph.NewPairSet()
	for from, reached := range perSource {
		for to := range reached.Intersect(finals) {
			res.Append(graph.Pair{From: from, To: to})
		}
	}
	return res, nil
}

// bfs runs one frontier block per seed set over the direct sum of the
// constraint and the graph. Row b*m+i of the frontier holds the identity bit
// of constraint state i and the graph nodes reached by block b in state i.
func bfs(g *graph.Graph, constraint *automaton.NFA, seeds [][]graph.Node, o options) []graph.NodeSet {
	res := make([]graph.NodeSet, len(seeds))
	for i := range res {
		res[i] = graph.NewNodeSet()
	}

	if err := constraint.Check(); err != nil {
		o.log.Debug("empty constraint", zap.Error(err))
		return res
	}
	if !constraint.IsDeterministic() {
		constraint = constraint.Minimize()
	}

	c := constraint.Decompose()
	gd := automaton.FromGraph(g, nil, nil).Decompose()
	m, n, k := c.Size(), gd.Size(), len(seeds)
	start := c.Starts[0]

	blocks := make([]*matrix.Bool, 0)
	for _, symbol := range c.Symbols() {
		if gm, ok := gd.Matrices[symbol]; ok {
			blocks = append(blocks, matrix.BlockDiag(c.Matrices[symbol], gm))
		}
	}

	front := matrix.New(k*m, m+n)
	for b, seed := range seeds {
		for i := 0; i < m; i++ {
			front.Set(b*m+i, i)
		}
		for _, node := range seed {
			if j, ok := g.Index(node); ok {
				front.Set(b*m+start, m+j)
			}
		}
	}

	for iteration := 1; ; iteration++ {
		changed := false
		for _, block := range blocks {
			step := front.Mul(block)
			// row i of the step landed in constraint state δ(i, symbol): its
			// identity bit tells which row it belongs to
			for r := 0; r < k*m; r++ {
				row := step.Row(r)
				if row == nil {
					continue
				}
				target, ok := row.NextSet(0)
				if !ok || int(target) >= m {
					continue
				}
				if front.OrRow(r/m*m+int(target), row) {
					changed = true
				}
			}
		}

		if ce := o.log.Check(zap.DebugLevel, "bfs pass"); ce != nil {
			ce.Write(zap.Int("iteration", iteration), zap.Int("frontier", front.Nnz()))
		}
		if !changed {
			break
		}
	}

	reached := front.Columns(m, m+n)
	nodes := g.Nodes()
	for b := range seeds {
		rows := make([]int, 0, len(c.Finals))
		for _, f := range c.Finals {
			rows = append(rows, b*m+f)
		}
		res[b] = toNodes(reached.ReduceRows(rows...), nodes)
	}

	return res
}

func toNodes(set *bitset.BitSet, nodes []graph.Node) graph.NodeSet {
	res := graph.NewNodeSet()
	if set == nil {
		return res
	}
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		res.Append(nodes[i])
	}
	return res
}
