package automaton_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/quenbyako/cfpq/automaton"
	"github.com/quenbyako/cfpq/graph"
	"github.com/quenbyako/cfpq/matrix"
)

func word(s string) []Symbol {
	res := make([]Symbol, 0, len(s))
	for _, r := range s {
		res = append(res, Symbol(r))
	}
	return res
}

// (ab)*|c with ε moves
func sample() *NFA {
	a := New()
	a.AddStart("s")
	a.AddTransition("s", Epsilon, "loop")
	a.AddTransition("s", Epsilon, "c")
	a.AddTransition("loop", "a", "mid")
	a.AddTransition("mid", "b", "loop")
	a.AddTransition("c", "c", "end")
	a.AddFinal("loop")
	a.AddFinal("end")
	return a
}

// a(b|c)* as a redundant DFA
func redundant() *NFA {
	a := New()
	a.AddStart("0")
	a.AddTransition("0", "a", "1")
	a.AddTransition("1", "b", "2")
	a.AddTransition("1", "c", "3")
	a.AddTransition("2", "b", "2")
	a.AddTransition("2", "c", "3")
	a.AddTransition("3", "b", "2")
	a.AddTransition("3", "c", "3")
	a.AddTransition("4", "a", "4")
	a.AddFinal("1")
	a.AddFinal("2")
	a.AddFinal("3")
	return a
}

func TestNFA_Accepts(t *testing.T) {
	a := sample()
	for _, w := range []string{"", "ab", "abab", "c"} {
		require.True(t, a.Accepts(word(w)), w)
	}
	for _, w := range []string{"a", "ba", "cc", "abc"} {
		require.False(t, a.Accepts(word(w)), w)
	}
}

func TestNFA_EpsilonClosure(t *testing.T) {
	require.Equal(t, []State{"s", "loop", "c"}, sample().EpsilonClosure("s"))
	require.Equal(t, []State{"mid"}, sample().EpsilonClosure("mid"))
}

func TestNFA_Determinize(t *testing.T) {
	a := sample()
	require.False(t, a.IsDeterministic())

	d := a.Determinize()
	require.True(t, d.IsDeterministic())
	for _, w := range []string{"", "ab", "abab", "c", "a", "ba", "cc", "abc"} {
		require.Equal(t, a.Accepts(word(w)), d.Accepts(word(w)), w)
	}
}

func TestNFA_RemoveEpsilon(t *testing.T) {
	a := sample()
	r := a.RemoveEpsilon()
	require.Equal(t, a.States(), r.States())
	for _, tr := range r.Transitions() {
		require.NotEqual(t, Epsilon, tr.Symbol)
	}
	for _, w := range []string{"", "ab", "abab", "c", "a", "ba", "cc", "abc"} {
		require.Equal(t, a.Accepts(word(w)), r.Accepts(word(w)), w)
	}
}

func TestNFA_Minimize(t *testing.T) {
	m := redundant().Minimize()

	require.True(t, m.IsDeterministic())
	require.Equal(t, 2, m.NumStates())
	require.Equal(t, []State{"0"}, m.Starts())
	require.Equal(t, []State{"1"}, m.Finals())
	require.Equal(t, []Transition{
		{From: "0", Symbol: "a", To: "1"},
		{From: "1", Symbol: "b", To: "1"},
		{From: "1", Symbol: "c", To: "1"},
	}, m.Transitions())

	// minimal automata of one language are the same
	require.Equal(t, m.Transitions(), m.Minimize().Transitions())
}

func TestNFA_MinimizeEmpty(t *testing.T) {
	a := New()
	a.AddStart("0")
	a.AddTransition("0", "a", "1")

	m := a.Minimize()
	require.Zero(t, m.NumStates())
	require.ErrorIs(t, m.Check(), ErrEmpty)
	require.ErrorIs(t, a.Check(), ErrEmpty)
	require.True(t, a.IsEmpty())

	require.NoError(t, sample().Check())
}

func TestNFA_Trim(t *testing.T) {
	trimmed := redundant().Trim()
	require.Equal(t, []State{"0", "1", "2", "3"}, trimmed.States())
}

func TestNFA_Copy(t *testing.T) {
	a := sample()
	c := a.Copy()
	c.AddTransition("end", "d", "s")

	require.False(t, a.Accepts(word("cdc")))
	require.True(t, c.Accepts(word("cdc")))
}

func TestNFA_String(t *testing.T) {
	s := sample().String()
	require.Contains(t, s, "->")
	require.Contains(t, s, "ε")
	require.True(t, strings.Contains(s, "loop"))
}

func TestIntersect(t *testing.T) {
	ab := New() // (ab)*
	ab.AddStart("0")
	ab.AddFinal("0")
	ab.AddTransition("0", "a", "1")
	ab.AddTransition("1", "b", "0")

	even := New() // words of even length
	even.AddStart("e")
	even.AddFinal("e")
	for _, s := range []Symbol{"a", "b", "c"} {
		even.AddTransition("e", s, "o")
		even.AddTransition("o", s, "e")
	}

	for _, tt := range []struct {
		name string
		a, b *NFA
	}{
		{name: "dfa and dfa", a: ab, b: even},
		{name: "nfa and dfa", a: sample(), b: even},
		{name: "nfa and nfa", a: sample(), b: sample()},
		{name: "disjoint", a: sample(), b: redundant()},
	} {
		t.Run(tt.name, func(t *testing.T) {
			product := Intersect(tt.a, tt.b)
			require.Equal(t, tt.a.NumStates()*tt.b.NumStates(), product.NumStates())

			for _, w := range []string{"", "a", "ab", "abab", "ababab", "c", "cc", "ac", "abc", "b"} {
				expected := tt.a.Accepts(word(w)) && tt.b.Accepts(word(w))
				require.Equal(t, expected, product.Accepts(word(w)), w)
			}
		})
	}
}

func TestKronecker_Decode(t *testing.T) {
	a := New()
	a.AddTransition("x", "a", "y")
	b := New()
	b.AddTransition("p", "a", "q")
	b.AddTransition("q", "a", "r")

	p := Kronecker(a.Decompose(), b.Decompose())
	require.Equal(t, 6, p.Size())
	require.Equal(t, State("(y, q)"), p.States[p.Encode(1, 1)])

	i, j := p.Decode(p.Encode(1, 2))
	require.Equal(t, 1, i)
	require.Equal(t, 2, j)

	m := p.Matrix("a")
	require.True(t, m.Test(p.Encode(0, 0), p.Encode(1, 1)))
	require.True(t, m.Test(p.Encode(0, 1), p.Encode(1, 2)))
	require.Equal(t, 2, m.Nnz())
}

func TestIntersect_CommaStates(t *testing.T) {
	a := New()
	a.AddStart("x, y")
	a.AddTransition("x, y", "a", "x")
	a.AddTransition("x", "b", "w")
	a.AddFinal("w")

	b := New()
	b.AddStart("z")
	b.AddTransition("z", "a", "y, z")
	b.AddTransition("y, z", "b", "y, z")
	b.AddFinal("y, z")

	x := Intersect(a, b)
	require.Len(t, x.States(), 6)
	require.Contains(t, x.States(), State(`("x, y", z)`))
	require.Contains(t, x.States(), State(`(x, "y, z")`))

	require.NotPanics(t, func() {
		require.Equal(t, []State{`(w, "y, z")`}, x.Finals())
		require.NotEmpty(t, x.String())
	})
	require.True(t, x.Accepts(word("ab")))
	require.False(t, x.Accepts(word("a")))

	// duplicate names keep their own index
	d := &Decomposition{States: []State{"s", "s"}, Starts: []int{0}, Finals: []int{1}, Matrices: map[Symbol]*matrix.Bool{}}
	d.Matrices["a"] = matrix.Square(2)
	d.Matrices["a"].Set(0, 1)
	n := d.NFA()
	require.Len(t, n.States(), 2)
	require.True(t, n.Accepts(word("a")))
	require.False(t, n.Accepts(word("")))
}

func TestFromGraph(t *testing.T) {
	g := graph.FromEdges(
		graph.Edge{From: "0", To: "1", Label: "a"},
		graph.Edge{From: "1", To: "2", Label: "b"},
	)

	a := FromGraph(g, []graph.Node{"0", "missing"}, nil)
	require.Equal(t, []State{"0", "1", "2"}, a.States())
	require.Equal(t, []State{"0"}, a.Starts())
	require.Equal(t, []State{"0", "1", "2"}, a.Finals())
	require.True(t, a.Accepts(word("ab")))
	require.False(t, a.Accepts(word("b")))

	d := a.Decompose()
	require.Equal(t, []Symbol{"a", "b"}, d.Symbols())
	require.True(t, d.Matrix("a").Test(0, 1))
	require.True(t, d.Matrix("b").Test(1, 2))
	require.True(t, d.Matrix("c").IsZero())
	require.Equal(t, 2, d.Adjacency().Nnz())

	labels := DecomposeGraph(g)
	require.Len(t, labels, 2)
	require.True(t, labels["a"].Test(0, 1))
	require.Equal(t, 1, labels["a"].Nnz())
	require.True(t, labels["b"].Test(1, 2))
	require.Equal(t, 3, labels["b"].Rows())
}
