package grammar

import (
	"github.com/quenbyako/cfpq/slices"
)

// Chain is a sequence of unit productions A -> B -> C.
type Chain []Ident

func (c Chain) String() string {
	if len(c) == 0 {
		return epsilonSymbol
	}

	return stringify(c, " -> ")
}

// EliminateUnitRules заменяет все цепочные правила (A -> B, где B
// нетерминал): каждый нетерминал получает все нецепочные правила тех
// нетерминалов, до которых он доходит по цепочкам.
//
// Heads left without any non-unit production disappear from the rule set.
func (g *CFG) EliminateUnitRules() {
	res := make(RuleSet, len(g.Rules))

	for _, name := range g.Rules.names() {
		for _, target := range g.unitReachable(Chain{name}) {
			for _, rule := range g.Rules[target] {
				if rule.isChain() {
					continue
				}
				res = res.AppendRules(name, rule)
			}
		}
	}

	g.Rules = res
}

// unitReachable walks every chain starting with the last item of chain and
// returns all nonterminals met along the way, the first one included. Cycles
// like `A : B ; B : A ;` are cut when the walk comes back to the chain.
func (g *CFG) unitReachable(chain Chain) []Ident {
	res := []Ident{chain[len(chain)-1]}

	for _, rule := range g.Rules[chain[len(chain)-1]] {
		if !rule.isChain() || slices.Contains(chain, rule[0]) {
			continue
		}

		for _, next := range g.unitReachable(append(chain[:len(chain):len(chain)], rule[0])) {
			if !slices.Contains(res, next) {
				res = append(res, next)
			}
		}
	}

	return res
}

// Chains lists every unit chain of the grammar, mainly for debugging.
func (g *CFG) Chains() []Chain {
	var res []Chain
	for _, name := range g.Rules.names() {
		res = append(res, g.chainsFrom(Chain{name})...)
	}
	return res
}

func (g *CFG) chainsFrom(chain Chain) []Chain {
	var res []Chain
	for _, rule := range g.Rules.GetRules(chain[len(chain)-1]) {
		if !rule.isChain() || slices.Contains(chain, rule[0]) {
			continue
		}
		next := append(chain[:len(chain):len(chain)], rule[0])
		res = append(res, next)
		res = append(res, g.chainsFrom(next)...)
	}
	return res
}
