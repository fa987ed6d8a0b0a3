package regex

import (
	"strconv"

	"github.com/quenbyako/cfpq/automaton"
)

type builder struct {
	nfa  *automaton.NFA
	next int
}

func (b *builder) state() automaton.State {
	s := automaton.State(strconv.Itoa(b.next))
	b.next++
	b.nfa.AddState(s)
	return s
}

// ToNFA builds the Thompson ε-NFA of e: one start state, one final state.
func ToNFA(e Expr) *automaton.NFA {
	b := &builder{nfa: automaton.New()}
	in, out := e.thompson(b)
	b.nfa.AddStart(in)
	b.nfa.AddFinal(out)

	return b.nfa
}

// ToDFA returns the minimal DFA of e.
func ToDFA(e Expr) *automaton.NFA { return ToNFA(e).Minimize() }

// Compile parses pattern and returns its minimal DFA.
func Compile(pattern string) (*automaton.NFA, error) {
	e, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	return ToDFA(e), nil
}

// CompilePython is Compile for ParsePython patterns.
func CompilePython(pattern string) (*automaton.NFA, error) {
	e, err := ParsePython(pattern)
	if err != nil {
		return nil, err
	}
	return ToDFA(e), nil
}
