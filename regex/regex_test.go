package regex_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quenbyako/cfpq/automaton"
	. "github.com/quenbyako/cfpq/regex"
)

func word(s string) []automaton.Symbol {
	res := []automaton.Symbol{}
	for _, f := range strings.Fields(s) {
		res = append(res, automaton.Symbol(f))
	}
	return res
}

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		pattern  string
		expected Expr
	}{
		{pattern: "a", expected: Symbol("a")},
		{pattern: "abc", expected: Symbol("abc")},
		{pattern: "a|b", expected: Alts{Symbol("a"), Symbol("b")}},
		{pattern: "a+b", expected: Alts{Symbol("a"), Symbol("b")}},
		{pattern: "a b", expected: Seq{Symbol("a"), Symbol("b")}},
		{pattern: "a.b", expected: Seq{Symbol("a"), Symbol("b")}},
		{pattern: "a*", expected: Star{E: Symbol("a")}},
		{pattern: "$", expected: Epsilon{}},
		{pattern: "epsilon | a", expected: Alts{Epsilon{}, Symbol("a")}},
		{pattern: "(a|b)* c", expected: Seq{Star{E: Alts{Symbol("a"), Symbol("b")}}, Symbol("c")}},
		{pattern: "a b|c", expected: Alts{Seq{Symbol("a"), Symbol("b")}, Symbol("c")}},
		{pattern: "((a))", expected: Symbol("a")},
	} {
		t.Run(tt.pattern, func(t *testing.T) {
			e, err := Parse(tt.pattern)
			require.NoError(t, err)
			require.Equal(t, tt.expected, e)

			// printed expression is parsed back to the same tree
			again, err := Parse(e.String())
			require.NoError(t, err)
			require.Equal(t, e, again)
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	for _, pattern := range []string{"", "  ", "a|", "(a", "a)", "*a", "a..b", "|"} {
		t.Run(pattern, func(t *testing.T) {
			_, err := Parse(pattern)
			require.Error(t, err)

			var serr *SyntaxError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, pattern, serr.Pattern)
		})
	}

	require.Panics(t, func() { MustParse("(") })
}

func TestToNFA(t *testing.T) {
	a := ToNFA(MustParse("(a b)* | c"))
	require.Len(t, a.Starts(), 1)
	require.Len(t, a.Finals(), 1)

	for _, w := range []string{"", "a b", "a b a b", "c"} {
		require.True(t, a.Accepts(word(w)), w)
	}
	for _, w := range []string{"a", "b a", "c c", "a b c"} {
		require.False(t, a.Accepts(word(w)), w)
	}
}

func TestToDFA(t *testing.T) {
	for _, tt := range []struct {
		pattern string
		states  int
	}{
		{pattern: "a|b", states: 2},
		{pattern: "a*", states: 1},
		{pattern: "(a|b)*", states: 1},
		{pattern: "a b c", states: 4},
		{pattern: "(a a)* | (a a)* a", states: 1},
		{pattern: "$", states: 1},
	} {
		t.Run(tt.pattern, func(t *testing.T) {
			d := ToDFA(MustParse(tt.pattern))
			require.True(t, d.IsDeterministic())
			require.Equal(t, tt.states, d.NumStates())
		})
	}
}

func TestCompile_Multichar(t *testing.T) {
	d, err := Compile("subClassOf* type")
	require.NoError(t, err)
	require.True(t, d.Accepts(word("subClassOf subClassOf type")))
	require.False(t, d.Accepts(word("subClassOf")))

	_, err = Compile("(")
	require.Error(t, err)
}

var intersectionCases = []string{
	"a*", "a b*", "(a|b)*", "(a b)*", "a|b|c", "(a|b)* c", "a a* b | c", "$",
}

func TestIntersect(t *testing.T) {
	words := []string{"", "a", "b", "c", "a a", "a b", "a b b", "a b a b", "a a b", "b c", "a b c"}

	for _, p1 := range intersectionCases {
		for _, p2 := range intersectionCases {
			d1, d2 := ToDFA(MustParse(p1)), ToDFA(MustParse(p2))
			product := automaton.Intersect(d1, d2)

			for _, w := range words {
				expected := d1.Accepts(word(w)) && d2.Accepts(word(w))
				require.Equal(t, expected, product.Accepts(word(w)), "%q & %q on %q", p1, p2, w)
			}
		}
	}
}

func TestSymbols(t *testing.T) {
	require.Equal(t, []Symbol{"a", "B", "c"}, Symbols(MustParse("a (B | a)* c")))
}

func chars(s string) []automaton.Symbol {
	res := []automaton.Symbol{}
	for _, r := range s {
		res = append(res, automaton.Symbol(string(r)))
	}
	return res
}

func TestParsePython(t *testing.T) {
	for _, tt := range []struct {
		pattern  string
		expected Expr
	}{
		{pattern: "a", expected: Symbol("a")},
		{pattern: "a+", expected: Seq{Symbol("a"), Star{E: Symbol("a")}}},
		{pattern: "ab?", expected: Seq{Symbol("a"), Alts{Symbol("b"), Epsilon{}}}},
		{pattern: "(ab)*", expected: Star{E: Seq{Symbol("a"), Symbol("b")}}},
		{pattern: "[a-c]", expected: Alts{Symbol("a"), Symbol("b"), Symbol("c")}},
		{pattern: "a|bc", expected: Alts{Symbol("a"), Seq{Symbol("b"), Symbol("c")}}},
	} {
		t.Run(tt.pattern, func(t *testing.T) {
			e, err := ParsePython(tt.pattern)
			require.NoError(t, err)
			require.Equal(t, tt.expected, e)
		})
	}
}

func TestCompilePython(t *testing.T) {
	for _, tt := range []struct {
		pattern  string
		accepted []string
		rejected []string
	}{{
		pattern:  "Help .*",
		accepted: []string{"Help me", "Help yourself", "Help "},
		rejected: []string{"Help", "Lol", "Help3"},
	}, {
		pattern:  "x{2,3}",
		accepted: []string{"xx", "xxx"},
		rejected: []string{"", "x", "xxxx"},
	}, {
		pattern:  "(?i)ab",
		accepted: []string{"ab", "AB", "aB"},
		rejected: []string{"a", "ac"},
	}, {
		pattern:  "[^a]b",
		accepted: []string{"bb", "~b", " b"},
		rejected: []string{"ab", "b"},
	}, {
		pattern:  "^a$",
		accepted: []string{"a"},
		rejected: []string{"", "aa"},
	}} {
		t.Run(tt.pattern, func(t *testing.T) {
			dfa, err := CompilePython(tt.pattern)
			require.NoError(t, err)
			require.True(t, dfa.IsDeterministic())

			for _, w := range tt.accepted {
				require.True(t, dfa.Accepts(chars(w)), w)
			}
			for _, w := range tt.rejected {
				require.False(t, dfa.Accepts(chars(w)), w)
			}
		})
	}
}

func TestParsePython_Errors(t *testing.T) {
	for _, pattern := range []string{"(", "a**", `\bword`} {
		t.Run(pattern, func(t *testing.T) {
			_, err := ParsePython(pattern)

			var serr *SyntaxError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, pattern, serr.Pattern)
		})
	}
}
