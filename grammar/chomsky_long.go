package grammar

// LiftTerminals replaces every terminal inside a body of two or more symbols
// with a fresh nonterminal, one per terminal, defined by a single production
// to that terminal.
func (g *CFG) LiftTerminals() {
	res := make(RuleSet, len(g.Rules))
	lifted := make(map[Ident]Ident)

	for _, rule := range g.Rules.IterRules() {
		if len(rule.Rule) < 2 {
			res = res.AppendRules(rule.Name, rule.Rule)
			continue
		}

		body := make(IdentSet, len(rule.Rule))
		for i, selector := range rule.Rule {
			if !selector.Terminal {
				body[i] = selector
				continue
			}

			replacer, ok := lifted[selector]
			if !ok {
				replacer = g.Counter.NewIdent(selector.ID)
				lifted[selector] = replacer
				res = res.AppendRules(replacer, IdentSet{selector})
			}
			body[i] = replacer
		}
		res = res.AppendRules(rule.Name, body)
	}

	g.Rules = res
}

// ExplodeLongRules разбивает все длинные правила на несколько коротких. Длинными считаются все правила
// содержащие более 2 селекторов.
//
// https://t.ly/-ilI
func (g *CFG) ExplodeLongRules() {
	res := make(RuleSet, len(g.Rules))

	for _, rule := range g.Rules.IterRules() {
		name := rule.Name
		replaced, more := explodeLongRule(rule.Rule, func() Ident { return g.Counter.NewIdent(name.ID) })
		for head, rules := range more {
			res = res.AppendRules(head, sortedBodies(rules)...)
		}
		res = res.AppendRules(rule.Name, replaced)
	}

	g.Rules = res
}

func explodeLongRule(r IdentSet, identGenerator func() Ident) (replaced IdentSet, moreRules RuleSet) {
	if len(r) <= 2 {
		return r, nil
	}
	explodedIdent := identGenerator()
	explodedRule, evenMore := explodeLongRule(r[1:], identGenerator)
	evenMore = evenMore.AppendRules(explodedIdent, explodedRule)

	return IdentSet{r[0], explodedIdent}, evenMore
}
