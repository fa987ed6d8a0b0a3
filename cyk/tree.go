package cyk

import (
	"strings"

	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/slices"
)

// Tree is a derivation recovered from the table. Leaves are terminals.
type Tree struct {
	Symbol   grammar.Ident
	Children []*Tree
}

func (t *Tree) String() string {
	if len(t.Children) == 0 {
		return t.Symbol.String()
	}
	return t.Symbol.String() + "(" + strings.Join(slices.Remap(t.Children, func(_ int, c *Tree) string { return c.String() }), " ") + ")"
}

// Yield returns the terminals under t, left to right.
func (t *Tree) Yield() []string {
	if len(t.Children) == 0 {
		return []string{t.Symbol.String()}
	}

	res := make([]string, 0, len(t.Children))
	for _, c := range t.Children {
		res = append(res, c.Yield()...)
	}
	return res
}

// Derive walks back the first derivation of n over the terminals from..to.
func (t *Table) Derive(from, to int, n grammar.Ident) (*Tree, bool) {
	cell := XY{X: to, Y: from}
	i := slices.IndexFunc(t.Data[cell], func(nt NonTerminal) bool { return nt.I == n })
	if i < 0 {
		return nil, false
	}
	return t.tree(cell, t.Data[cell][i]), true
}

func (t *Table) tree(cell XY, nt NonTerminal) *Tree {
	if cell.X == cell.Y {
		return &Tree{Symbol: nt.I, Children: []*Tree{{Symbol: t.terms[cell.X].Type}}}
	}

	left := t.Data[nt.Left.XY][nt.Left.Index]
	bottom := t.Data[nt.Bottom.XY][nt.Bottom.Index]
	return &Tree{Symbol: nt.I, Children: []*Tree{
		t.tree(nt.Left.XY, left),
		t.tree(nt.Bottom.XY, bottom),
	}}
}
