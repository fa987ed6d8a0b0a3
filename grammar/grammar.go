package grammar

import (
	"fmt"
	"strings"

	"github.com/quenbyako/cfpq/slices"
	"golang.org/x/exp/maps"
	xslices "golang.org/x/exp/slices"
)

const stringPadding = 4

func pad(minus int) string { return strings.Repeat(" ", stringPadding-minus) }

type RuleSet map[Ident]HashSet[IdentSet]

func (r RuleSet) String() string {
	strs := make([]string, 0, len(r))

	for _, name := range r.names() {
		rules := r[name]

		if len(rules) == 0 {
			continue
		}

		str := name.String()
		if len(str) <= 4 {
			str += pad(len(str)) + ":"
		} else {
			str += "\n" + pad(0) + ":"
		}

		str += stringIdentSet(rules) + "\n" + pad(0) + ";"

		strs = append(strs, str)
	}

	return strings.Join(strs, "\n")
}

func stringIdentSet(s HashSet[IdentSet]) string {
	rules := sortedBodies(s)

	str := " " + rules[0].String()

	for _, rule := range rules[1:] {
		str += "\n" + pad(0) + "| " + rule.String()
	}

	return str
}

func sortedBodies(s HashSet[IdentSet]) []IdentSet {
	return s.Sorted(func(a, b IdentSet) bool { return a.Cmp(b) < 0 })
}

func (r RuleSet) AppendRules(name Ident, rule ...IdentSet) RuleSet {
	if r == nil {
		r = make(RuleSet, 1)
	}

	r[name] = r[name].Append(rule...)

	return r
}

func (r RuleSet) names() []Ident {
	names := maps.Keys(r)
	xslices.SortFunc(names, func(a, b Ident) bool { return a.Cmp(b) < 0 })
	return names
}

// CanonicalRule is a single production.
type CanonicalRule struct {
	Name Ident
	Rule IdentSet
}

func (r CanonicalRule) String() string { return r.Name.String() + " -> " + r.Rule.String() }

// IterRules returns every production ordered by head, then by body.
func (r RuleSet) IterRules() []CanonicalRule {
	res := make([]CanonicalRule, 0, len(r))
	for _, name := range r.names() {
		for _, rule := range sortedBodies(r[name]) {
			res = append(res, CanonicalRule{Name: name, Rule: rule})
		}
	}

	return res
}

func (r RuleSet) GetRules(name Ident) []IdentSet {
	rules, ok := r[name]
	if !ok {
		return []IdentSet{}
	}

	return sortedBodies(rules)
}

func (r RuleSet) clone() RuleSet {
	res := make(RuleSet, len(r))
	for name, rules := range r {
		res[name] = maps.Clone(rules)
	}
	return res
}

// CFG is a context-free grammar. Values are treated as immutable by every
// package except the normalization steps below, which only ever run on a
// private clone.
type CFG struct {
	Start   Ident
	Rules   RuleSet
	Counter IdentCounter
}

func New(start Ident) *CFG {
	return &CFG{
		Start:   start,
		Rules:   make(RuleSet),
		Counter: make(IdentCounter),
	}
}

// Add appends the production head -> body.
func (g *CFG) Add(head Ident, body ...Ident) *CFG {
	if head.Terminal {
		panic(fmt.Sprintf("terminal %v can't be a head of a production", head))
	}
	g.Rules = g.Rules.AppendRules(head, IdentSet(body))
	return g
}

func (g *CFG) Clone() *CFG {
	return &CFG{
		Start:   g.Start,
		Rules:   g.Rules.clone(),
		Counter: g.Counter.clone(),
	}
}

func (g *CFG) Productions() []CanonicalRule { return g.Rules.IterRules() }

// Size is the number of productions.
func (g *CFG) Size() int {
	var n int
	for _, rules := range g.Rules {
		n += len(rules)
	}
	return n
}

func (g *CFG) symbols() Set[Ident] {
	res := Set[Ident]{}.Append(g.Start)
	for name, rules := range g.Rules {
		res = res.Append(name)
		for _, rule := range rules {
			res = res.Append(rule...)
		}
	}
	return res
}

// Nonterminals returns every nonterminal mentioned in the grammar, the start
// symbol included.
func (g *CFG) Nonterminals() []Ident {
	res := make(Set[Ident])
	for i := range g.symbols() {
		if !i.Terminal {
			res[i] = struct{}{}
		}
	}
	return sortedIdents(res)
}

func (g *CFG) Terminals() []Ident {
	res := make(Set[Ident])
	for i := range g.symbols() {
		if i.Terminal {
			res[i] = struct{}{}
		}
	}
	return sortedIdents(res)
}

func (g *CFG) HasNonterminal(i Ident) bool {
	return !i.Terminal && slices.Contains(g.Nonterminals(), i)
}

// Lookup finds a nonterminal by its printed name.
func (g *CFG) Lookup(name string) (Ident, bool) {
	for _, i := range g.Nonterminals() {
		if i.String() == name {
			return i, true
		}
	}
	return Ident{}, false
}

// IsWeakCNF reports whether every body is ε, one terminal, or two
// nonterminals.
func (g *CFG) IsWeakCNF() bool {
	for _, rules := range g.Rules {
		for _, rule := range rules {
			if !rule.isWeakCNF() {
				return false
			}
		}
	}
	return true
}

// String prints the grammar in the text form Parse accepts, start symbol
// first. Fresh symbols print as "name#n" and read back as plain symbols of
// that name, so the parsed grammar derives the same words but is not equal
// to g: its symbols are no longer Generated.
func (g *CFG) String() string {
	names := g.Rules.names()
	if i := xslices.Index(names, g.Start); i > 0 {
		names = append([]Ident{g.Start}, append(names[:i:i], names[i+1:]...)...)
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		rules := g.Rules.GetRules(name)
		if len(rules) == 0 {
			continue
		}
		lines = append(lines, name.String()+" -> "+stringify(slices.Remap(rules, func(_ int, r IdentSet) textBody { return textBody(r) }), " | "))
	}

	return strings.Join(lines, "\n")
}

// textBody prints ε as "$" so the output can be parsed back.
type textBody IdentSet

func (b textBody) String() string {
	if len(b) == 0 {
		return "$"
	}
	return stringify(slices.Remap(b, func(_ int, i Ident) textIdent { return textIdent(i) }), " ")
}

// textIdent forces the kind prefix on symbols whose case would be misread.
type textIdent Ident

func (i textIdent) String() string {
	s := Ident(i).String()
	switch parsed := identFromText(s); {
	case Ident(i).Terminal && !parsed.Terminal:
		return "TER:" + s
	case !Ident(i).Terminal && parsed.Terminal:
		return "VAR:" + s
	default:
		return s
	}
}

// CNF is the strict Chomsky normal form: only binary rules and single
// terminal rules, emptiness of the start symbol kept aside.
type CNF struct {
	Start      Ident
	CanBeEmpty bool

	Rules map[Ident]HashSet[DualRule]

	// стоп правила это те, которые состоят только из одного терминала.
	// ключ: терминал, значения: все нетерминалы, которые в него
	// разворачиваются
	StopRules map[Ident]Set[Ident]

	producers map[DualRule]Set[Ident]
}

// Producers returns the heads of all rules H -> left right.
func (g *CNF) Producers(left, right Ident) []Ident {
	return sortedIdents(g.producers[DualRule{left, right}])
}

// Stoppers returns the heads of all rules H -> term.
func (g *CNF) Stoppers(term Ident) []Ident { return sortedIdents(g.StopRules[term]) }

func (g *CNF) String() string {
	rulesStr := make([]string, 0, len(g.Rules))
	keys := maps.Keys(g.Rules)
	xslices.SortFunc(keys, func(a, b Ident) bool { return a.Cmp(b) < 0 })

	for _, name := range keys {
		for _, rule := range g.Rules[name].Sorted(func(a, b DualRule) bool { return a.Cmp(b) < 0 }) {
			rulesStr = append(rulesStr, fmt.Sprintf("%v -> %v %v .", name, rule[0], rule[1]))
		}
	}

	stopKeys := maps.Keys(g.StopRules)
	xslices.SortFunc(stopKeys, func(a, b Ident) bool { return a.Cmp(b) < 0 })
	for _, name := range stopKeys {
		for _, ident := range sortedIdents(g.StopRules[name]) {
			rulesStr = append(rulesStr, fmt.Sprintf(". %v <- %v", name, ident))
		}
	}

	if g.CanBeEmpty {
		rulesStr = append(rulesStr, fmt.Sprintf("%v -> %v", g.Start, epsilonSymbol))
	}

	return strings.Join(rulesStr, "\n")
}

func stringify[S ~[]T, T fmt.Stringer](s S, sep string) string {
	return strings.Join(slices.Remap(s, func(_ int, v T) string { return v.String() }), sep)
}

func fmtString(v any) string { return fmt.Sprint(v) }
