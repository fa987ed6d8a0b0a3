package grammar

// RemoveUselessSymbols drops nonterminals that derive no terminal string and
// everything unreachable from the start symbol. A start symbol that derives
// nothing leaves the grammar with no productions at all.
func (g *CFG) RemoveUselessSymbols() {
	generating := g.generating()
	if !generating.Has(g.Start) {
		g.Rules = make(RuleSet)
		return
	}

	productive := make(RuleSet, len(g.Rules))
	for _, rule := range g.Rules.IterRules() {
		if allGenerating(rule.Rule, generating) {
			productive = productive.AppendRules(rule.Name, rule.Rule)
		}
	}

	reachable := Set[Ident]{}.Append(g.Start)
	queue := []Ident{g.Start}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		for _, rule := range productive[name] {
			for _, i := range rule {
				if i.Terminal || reachable.Has(i) {
					continue
				}
				reachable[i] = struct{}{}
				queue = append(queue, i)
			}
		}
	}

	res := make(RuleSet, len(productive))
	for name, rules := range productive {
		if reachable.Has(name) {
			res[name] = rules
		}
	}

	g.Rules = res
}

// generating is the least fixpoint of "some body consists of terminals and
// generating nonterminals only".
func (g *CFG) generating() Set[Ident] {
	res := make(Set[Ident])

	for changed := true; changed; {
		changed = false
		for name, rules := range g.Rules {
			if res.Has(name) {
				continue
			}
			for _, rule := range rules {
				if allGenerating(rule, res) {
					res[name] = struct{}{}
					changed = true
					break
				}
			}
		}
	}

	return res
}

func allGenerating(rule IdentSet, generating Set[Ident]) bool {
	for _, i := range rule {
		if !i.Terminal && !generating.Has(i) {
			return false
		}
	}
	return true
}
