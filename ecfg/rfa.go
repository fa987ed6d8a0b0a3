package ecfg

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/quenbyako/cfpq/automaton"
	"github.com/quenbyako/cfpq/grammar"
)

// RFA is a recursive automaton: a box automaton per nonterminal, box symbols
// naming other boxes are calls.
type RFA struct {
	Start grammar.Ident
	Boxes map[grammar.Ident]*automaton.NFA
}

func (r *RFA) Nonterminals() []grammar.Ident {
	res := maps.Keys(r.Boxes)
	slices.SortFunc(res, func(a, b grammar.Ident) bool { return a.Cmp(b) < 0 })
	return res
}

// Box returns the automaton of the named nonterminal.
func (r *RFA) Box(name string) (*automaton.NFA, error) {
	box, ok := r.Boxes[grammar.N(name)]
	if !ok {
		return nil, &grammar.UnknownSymbolError{Symbol: name}
	}
	return box, nil
}

// Decompose splits every box into its symbol matrices.
func (r *RFA) Decompose() map[grammar.Ident]*automaton.Decomposition {
	res := make(map[grammar.Ident]*automaton.Decomposition, len(r.Boxes))
	for name, box := range r.Boxes {
		res[name] = box.Decompose()
	}
	return res
}

// Minimize replaces every box with its minimal DFA.
func (r *RFA) Minimize() *RFA {
	res := &RFA{Start: r.Start, Boxes: make(map[grammar.Ident]*automaton.NFA, len(r.Boxes))}
	for name, box := range r.Boxes {
		res.Boxes[name] = box.Minimize()
	}
	return res
}

func (r *RFA) String() string {
	parts := make([]string, 0, len(r.Boxes))
	for _, name := range r.Nonterminals() {
		marker := ""
		if name == r.Start {
			marker = " (start)"
		}
		parts = append(parts, "box "+name.String()+marker+":\n"+r.Boxes[name].String())
	}
	return strings.Join(parts, "\n")
}
