// Package regex parses regular expressions over word symbols and compiles
// them to finite automata.
package regex

import (
	"fmt"
	"strings"

	"github.com/quenbyako/cfpq/automaton"
	"github.com/quenbyako/cfpq/slices"
)

type Expr interface {
	fmt.Stringer
	expr()

	// thompson adds the fragment of the expression to b and returns its entry
	// and exit states.
	thompson(b *builder) (in, out automaton.State)
}

type Symbol string

var _ Expr = Symbol("")

func (_ Symbol) expr()          {}
func (s Symbol) String() string { return string(s) }
func (s Symbol) thompson(b *builder) (in, out automaton.State) {
	in, out = b.state(), b.state()
	b.nfa.AddTransition(in, automaton.Symbol(s), out)
	return in, out
}

type Epsilon struct{}

var _ Expr = Epsilon{}

func (_ Epsilon) expr()          {}
func (_ Epsilon) String() string { return "$" }
func (_ Epsilon) thompson(b *builder) (in, out automaton.State) {
	in, out = b.state(), b.state()
	b.nfa.AddTransition(in, automaton.Epsilon, out)
	return in, out
}

// Seq is a concatenation, an empty one matches only the empty word.
type Seq []Expr

var _ Expr = Seq{}

func (_ Seq) expr() {}
func (s Seq) String() string {
	if len(s) == 0 {
		return Epsilon{}.String()
	}
	return strings.Join(slices.Remap(s, func(_ int, e Expr) string {
		if alts, ok := e.(Alts); ok && len(alts) > 1 {
			return "(" + e.String() + ")"
		}
		return e.String()
	}), " ")
}

func (s Seq) thompson(b *builder) (in, out automaton.State) {
	if len(s) == 0 {
		return Epsilon{}.thompson(b)
	}

	in, out = s[0].thompson(b)
	for _, e := range s[1:] {
		nextIn, nextOut := e.thompson(b)
		b.nfa.AddTransition(out, automaton.Epsilon, nextIn)
		out = nextOut
	}
	return in, out
}

// Alts is a union, an empty one matches nothing.
type Alts []Expr

var _ Expr = Alts{}

func (_ Alts) expr() {}
func (a Alts) String() string {
	if len(a) == 0 {
		return "∅"
	}
	return strings.Join(slices.Remap(a, func(_ int, e Expr) string { return e.String() }), " | ")
}

func (a Alts) thompson(b *builder) (in, out automaton.State) {
	in, out = b.state(), b.state()
	for _, e := range a {
		altIn, altOut := e.thompson(b)
		b.nfa.AddTransition(in, automaton.Epsilon, altIn)
		b.nfa.AddTransition(altOut, automaton.Epsilon, out)
	}
	return in, out
}

type Star struct{ E Expr }

var _ Expr = Star{}

func (_ Star) expr() {}
func (s Star) String() string {
	switch s.E.(type) {
	case Symbol, Epsilon:
		return s.E.String() + "*"
	default:
		return "(" + s.E.String() + ")*"
	}
}

func (s Star) thompson(b *builder) (in, out automaton.State) {
	in, out = b.state(), b.state()
	innerIn, innerOut := s.E.thompson(b)
	b.nfa.AddTransition(in, automaton.Epsilon, innerIn)
	b.nfa.AddTransition(innerOut, automaton.Epsilon, innerIn)
	b.nfa.AddTransition(innerOut, automaton.Epsilon, out)
	b.nfa.AddTransition(in, automaton.Epsilon, out)
	return in, out
}

// Symbols returns every symbol the expression mentions, in order of first
// occurrence.
func Symbols(e Expr) []Symbol {
	seen := make(map[Symbol]struct{})
	res := make([]Symbol, 0)

	var walk func(Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case Symbol:
			if _, ok := seen[e]; !ok {
				seen[e] = struct{}{}
				res = append(res, e)
			}
		case Seq:
			for _, item := range e {
				walk(item)
			}
		case Alts:
			for _, item := range e {
				walk(item)
			}
		case Star:
			walk(e.E)
		}
	}
	walk(e)

	return res
}
