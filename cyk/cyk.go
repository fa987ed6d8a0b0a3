// Package cyk decides word membership for context-free grammars.
package cyk

import (
	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/slices"
)

// Build fills the CYK table of word over the strict normal form of g.
func Build(g *grammar.CNF, word []string) *Table {
	t := NewTable()
	selector := func(left, bottom grammar.Ident) ([]grammar.Ident, bool) {
		res := g.Producers(left, bottom)
		return res, len(res) > 0
	}

	for i, symbol := range word {
		term := grammar.T(symbol)
		t.AddTerminals(Terminal{Index: i, Type: term}, g.Stoppers(term), selector)
	}

	return t
}

// AcceptsCNF reports whether word belongs to the language of g.
func AcceptsCNF(g *grammar.CNF, word []string) bool {
	if len(word) == 0 {
		return g.CanBeEmpty
	}

	return slices.Contains(Build(g, word).Cell(0, len(word)-1), g.Start)
}

// Accepts converts g to the strict normal form and runs AcceptsCNF.
func Accepts(g *grammar.CFG, word []string) bool { return AcceptsCNF(g.ToCNF(), word) }
