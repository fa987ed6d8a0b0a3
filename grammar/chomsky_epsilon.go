package grammar

import (
	"strconv"

	"github.com/quenbyako/cfpq/slices"
)

// RemoveEpsilonRules ищет все правила, в которых содержатся обнуляемые
// нетерминалы, и добавляет варианты этих правил без них. Пустые правила
// после этого удаляются, в том числе и у стартового нетерминала: узнать, мог
// ли он выводить пустую строку, нужно до вызова через Nullable.
//
// https://t.ly/xM1u
func (g *CFG) RemoveEpsilonRules() {
	potentiallyEmpty := g.Nullable()

	newSet := make(RuleSet, len(g.Rules))
	for _, rule := range g.Rules.IterRules() {
		variants := slices.Remap(rule.Rule, func(_ int, i Ident) IdentSet {
			if !potentiallyEmpty.Has(i) {
				return IdentSet{i}
			}
			return IdentSet{epsilonMarker, i}
		})

		for _, replaced := range slices.Possibles(variants) {
			filtered := slices.Filter(replaced, func(i Ident) bool { return i != epsilonMarker })
			if len(filtered) > 0 {
				newSet = newSet.AppendRules(rule.Name, filtered)
			}
		}
	}

	g.Rules = newSet
}

var epsilonMarker = Ident{ID: epsilonSymbol, Terminal: true}

// Nullable returns nonterminals deriving the empty string.
func (g *CFG) Nullable() Set[Ident] {
	indexes := g.fillEpsilonIndex()

	researchQueue := indexes.popQueue()
	for len(researchQueue) > 0 {
		for item := range researchQueue {
			indexes.decreaseCounter(item)
		}
		researchQueue = indexes.popQueue()
	}

	return indexes.res
}

type counterKey struct {
	id        Ident
	ruleIndex int
}

func (c counterKey) String() string { return c.id.String() + "_" + strconv.Itoa(c.ruleIndex) }

type epsilonIndex struct {
	m   map[Ident]identIndexes
	res Set[Ident]
}

type identIndexes struct {
	isEpsilon bool
	// для каждого идентификатора храним номера тех правил, в правой части
	// которых он встречается, и сколько раз
	concernedRules map[counterKey]int

	counters []int
}

func (g *CFG) fillEpsilonIndex() *epsilonIndex {
	res := &epsilonIndex{
		m:   make(map[Ident]identIndexes, len(g.Rules)),
		res: make(Set[Ident]),
	}

	for name := range g.Rules {
		rules := g.Rules.GetRules(name)

		res.setCounters(name, rules)
		res.setConcernRules(name, rules)
	}

	return res
}

func (i *epsilonIndex) popQueue() Set[Ident] {
	queue := Set[Ident]{}
	for id, c := range i.m {
		if slices.Contains(c.counters, 0) && !c.isEpsilon {
			queue[id] = struct{}{}
			i.setAsEpsilon(id)
			i.res[id] = struct{}{}
		}
	}

	return queue
}

func (i *epsilonIndex) setAsEpsilon(id Ident) {
	i.set(id, func(i *identIndexes) { i.isEpsilon = true })
}

func (i *epsilonIndex) setCounters(id Ident, rules []IdentSet) {
	i.set(id, func(i *identIndexes) {
		i.counters = slices.Remap(rules, func(_ int, i IdentSet) int { return len(i) })
	})
}

func (i *epsilonIndex) decreaseCounter(id Ident) {
	for concerned, times := range i.m[id].concernedRules {
		i.m[concerned.id].counters[concerned.ruleIndex] -= times
	}
}

// Логика:
//
//	S : A B C
//	S : D S
//
// в А в эпсилон-индексе добавляем в concernedRules S и индекс 0.
// То же самое для B и C
// в D в эпсилон-индексе добавляем в concernedRules S и индекс 1
// в S в эпсилон-индексе добавляем в concernedRules S и индекс 1
func (i *epsilonIndex) setConcernRules(id Ident, rules []IdentSet) {
	for ruleIndex, rule := range rules {
		for _, selector := range rule {
			if selector.Terminal {
				continue
			}

			i.set(selector, func(i *identIndexes) {
				i.concernedRules[counterKey{id: id, ruleIndex: ruleIndex}]++
			})
		}
	}
}

func (i *epsilonIndex) set(id Ident, f func(i *identIndexes)) {
	x, ok := i.m[id]
	if !ok {
		x = identIndexes{
			concernedRules: map[counterKey]int{},
		}
	}
	f(&x)
	i.m[id] = x
}
