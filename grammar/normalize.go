package grammar

// Normalize returns an equivalent grammar in weak Chomsky normal form: every
// body is ε, a single terminal, or two nonterminals. ε bodies stay on the
// nonterminals that had them. The input grammar is left untouched.
func Normalize(g *CFG) *CFG {
	res := g.Clone()

	res.EliminateUnitRules()
	res.RemoveUselessSymbols()
	res.LiftTerminals()
	res.ExplodeLongRules()

	return res
}

// ToCNF converts the grammar to the strict Chomsky normal form, where only
// the start symbol may derive the empty string.
func (g *CFG) ToCNF() *CNF {
	w := g.Clone()
	canBeEmpty := w.Nullable().Has(w.Start)

	w.RemoveEpsilonRules()
	w = Normalize(w)

	res := &CNF{
		Start:      w.Start,
		CanBeEmpty: canBeEmpty,
		Rules:      make(map[Ident]HashSet[DualRule]),
		StopRules:  make(map[Ident]Set[Ident]),
		producers:  make(map[DualRule]Set[Ident]),
	}

	for _, rule := range w.Rules.IterRules() {
		switch len(rule.Rule) {
		case 1:
			res.StopRules[rule.Rule[0]] = res.StopRules[rule.Rule[0]].Append(rule.Name)
		case 2:
			dual := DualRule{rule.Rule[0], rule.Rule[1]}
			res.Rules[rule.Name] = res.Rules[rule.Name].Append(dual)
			res.producers[dual] = res.producers[dual].Append(rule.Name)
		default:
			panic("unexpected rule after normalization: " + rule.String())
		}
	}

	return res
}
