// Package automaton implements finite automata over string symbols: ε-NFA
// construction, subset construction, minimization and the boolean matrix
// decomposition used by the reachability algorithms.
package automaton

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	cslices "github.com/quenbyako/cfpq/slices"
)

// ErrEmpty is returned by Check for an automaton which has no states or
// accepts nothing.
var ErrEmpty = errors.New("automaton is empty")

type State string

func (s State) String() string { return string(s) }

type Symbol string

// Epsilon labels the empty move.
const Epsilon Symbol = ""

func (s Symbol) String() string {
	if s == Epsilon {
		return "ε"
	}
	return string(s)
}

type Transition struct {
	From   State
	Symbol Symbol
	To     State
}

// NFA is a nondeterministic automaton with ε moves. States are kept in
// insertion order, which is the order of the matrices of Decompose.
type NFA struct {
	states []State
	index  map[State]int

	starts *bitset.BitSet
	finals *bitset.BitSet

	// delta[i][symbol] is the set of targets of state i.
	delta []map[Symbol]*bitset.BitSet
}

func New() *NFA {
	return &NFA{
		index:  make(map[State]int),
		starts: bitset.New(0),
		finals: bitset.New(0),
	}
}

func stateName(i int) State { return State(strconv.Itoa(i)) }

// AddState returns the index of s, adding it when it's new.
func (a *NFA) AddState(s State) int {
	if i, ok := a.index[s]; ok {
		return i
	}

	a.index[s] = len(a.states)
	a.states = append(a.states, s)
	a.delta = append(a.delta, nil)

	return len(a.states) - 1
}

func (a *NFA) AddStart(s State) { a.starts.Set(uint(a.AddState(s))) }
func (a *NFA) AddFinal(s State) { a.finals.Set(uint(a.AddState(s))) }

func (a *NFA) AddTransition(from State, symbol Symbol, to State) {
	i, j := a.AddState(from), a.AddState(to)
	a.addTransition(i, symbol, j)
}

func (a *NFA) addTransition(i int, symbol Symbol, j int) {
	if a.delta[i] == nil {
		a.delta[i] = make(map[Symbol]*bitset.BitSet)
	}

	row, ok := a.delta[i][symbol]
	if !ok {
		row = bitset.New(uint(len(a.states)))
		a.delta[i][symbol] = row
	}
	row.Set(uint(j))
}

func (a *NFA) NumStates() int { return len(a.states) }

func (a *NFA) States() []State { return slices.Clone(a.states) }

func (a *NFA) Index(s State) (int, bool) {
	i, ok := a.index[s]
	return i, ok
}

func (a *NFA) Starts() []State { return a.names(a.starts) }
func (a *NFA) Finals() []State { return a.names(a.finals) }

func (a *NFA) IsStart(s State) bool { return a.test(a.starts, s) }
func (a *NFA) IsFinal(s State) bool { return a.test(a.finals, s) }

func (a *NFA) test(set *bitset.BitSet, s State) bool {
	i, ok := a.index[s]
	return ok && set.Test(uint(i))
}

func (a *NFA) names(set *bitset.BitSet) []State {
	return cslices.Remap(members(set), func(_ int, i int) State { return a.states[i] })
}

// Symbols returns the sorted alphabet, without ε.
func (a *NFA) Symbols() []Symbol {
	res := make(map[Symbol]struct{})
	for _, row := range a.delta {
		for symbol := range row {
			if symbol != Epsilon {
				res[symbol] = struct{}{}
			}
		}
	}

	keys := maps.Keys(res)
	slices.Sort(keys)

	return keys
}

// Transitions lists every move ordered by source, symbol and target.
func (a *NFA) Transitions() []Transition {
	res := make([]Transition, 0)
	for i, row := range a.delta {
		symbols := maps.Keys(row)
		slices.Sort(symbols)
		for _, symbol := range symbols {
			for _, j := range members(row[symbol]) {
				res = append(res, Transition{From: a.states[i], Symbol: symbol, To: a.states[j]})
			}
		}
	}
	return res
}

func (a *NFA) hasEpsilon() bool {
	for _, row := range a.delta {
		if t, ok := row[Epsilon]; ok && t.Any() {
			return true
		}
	}
	return false
}

func (a *NFA) epsilonClosure(set *bitset.BitSet) *bitset.BitSet {
	res := set.Clone()
	stack := members(set)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if a.delta[i] == nil {
			continue
		}
		for _, j := range members(a.delta[i][Epsilon]) {
			if !res.Test(uint(j)) {
				res.Set(uint(j))
				stack = append(stack, j)
			}
		}
	}
	return res
}

func (a *NFA) move(set *bitset.BitSet, symbol Symbol) *bitset.BitSet {
	res := bitset.New(uint(len(a.states)))
	for _, i := range members(set) {
		if t, ok := a.delta[i][symbol]; ok {
			res.InPlaceUnion(t)
		}
	}
	return res
}

// EpsilonClosure returns every state reachable from states by ε moves only.
func (a *NFA) EpsilonClosure(states ...State) []State {
	set := bitset.New(uint(len(a.states)))
	for _, s := range states {
		if i, ok := a.index[s]; ok {
			set.Set(uint(i))
		}
	}
	return a.names(a.epsilonClosure(set))
}

func (a *NFA) Accepts(word []Symbol) bool {
	current := a.epsilonClosure(a.starts)
	for _, symbol := range word {
		if symbol == Epsilon {
			continue
		}
		current = a.epsilonClosure(a.move(current, symbol))
		if current.None() {
			return false
		}
	}
	return current.IntersectionCardinality(a.finals) > 0
}

// IsDeterministic reports whether the automaton has at most one start state,
// no ε moves and at most one target per state and symbol.
func (a *NFA) IsDeterministic() bool {
	if a.starts.Count() > 1 || a.hasEpsilon() {
		return false
	}
	for _, row := range a.delta {
		for _, t := range row {
			if t.Count() > 1 {
				return false
			}
		}
	}
	return true
}

// Determinize runs the subset construction. Only subsets reachable from the
// start are built, named by the order they were found in.
func (a *NFA) Determinize() *NFA {
	res := New()
	if a.starts.None() {
		return res
	}

	symbols := a.Symbols()
	start := a.epsilonClosure(a.starts)
	subsets := []*bitset.BitSet{start}
	ids := map[string]int{start.String(): res.AddState(stateName(0))}
	res.starts.Set(0)

	for k := 0; k < len(subsets); k++ {
		current := subsets[k]
		if current.IntersectionCardinality(a.finals) > 0 {
			res.finals.Set(uint(k))
		}

		for _, symbol := range symbols {
			next := a.epsilonClosure(a.move(current, symbol))
			if next.None() {
				continue
			}

			key := next.String()
			j, ok := ids[key]
			if !ok {
				j = res.AddState(stateName(len(subsets)))
				ids[key] = j
				subsets = append(subsets, next)
			}
			res.addTransition(k, symbol, j)
		}
	}

	return res
}

// RemoveEpsilon returns an equivalent automaton over the same states without
// ε moves.
func (a *NFA) RemoveEpsilon() *NFA {
	if !a.hasEpsilon() {
		return a.Copy()
	}

	res := New()
	for _, s := range a.states {
		res.AddState(s)
	}
	res.starts = a.starts.Clone()

	for i := range a.states {
		single := bitset.New(uint(len(a.states))).Set(uint(i))
		closure := a.epsilonClosure(single)
		if closure.IntersectionCardinality(a.finals) > 0 {
			res.finals.Set(uint(i))
		}

		for _, symbol := range a.Symbols() {
			for _, j := range members(a.move(closure, symbol)) {
				res.addTransition(i, symbol, j)
			}
		}
	}

	return res
}

func (a *NFA) successors(i int) *bitset.BitSet {
	res := bitset.New(uint(len(a.states)))
	for _, t := range a.delta[i] {
		res.InPlaceUnion(t)
	}
	return res
}

func (a *NFA) predecessors() []*bitset.BitSet {
	res := make([]*bitset.BitSet, len(a.states))
	for i := range res {
		res[i] = bitset.New(uint(len(a.states)))
	}
	for i, row := range a.delta {
		for _, t := range row {
			for _, j := range members(t) {
				res[j].Set(uint(i))
			}
		}
	}
	return res
}

func reach(from *bitset.BitSet, next func(i int) *bitset.BitSet) *bitset.BitSet {
	res := from.Clone()
	queue := members(from)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		for _, j := range members(next(i)) {
			if !res.Test(uint(j)) {
				res.Set(uint(j))
				queue = append(queue, j)
			}
		}
	}
	return res
}

// Trim drops states that are unreachable from a start state or can't reach
// any final state.
func (a *NFA) Trim() *NFA {
	preds := a.predecessors()
	keep := reach(a.starts, a.successors).Intersection(reach(a.finals, func(i int) *bitset.BitSet { return preds[i] }))

	res := New()
	for _, i := range members(keep) {
		res.AddState(a.states[i])
	}
	for _, i := range members(keep) {
		s := a.states[i]
		if a.starts.Test(uint(i)) {
			res.AddStart(s)
		}
		if a.finals.Test(uint(i)) {
			res.AddFinal(s)
		}
		for symbol, t := range a.delta[i] {
			for _, j := range members(t) {
				if keep.Test(uint(j)) {
					res.AddTransition(s, symbol, a.states[j])
				}
			}
		}
	}

	return res
}

func (a *NFA) target(i int, symbol Symbol) (int, bool) {
	t, ok := a.delta[i][symbol]
	if !ok {
		return 0, false
	}
	j, ok := t.NextSet(0)
	return int(j), ok
}

// Minimize returns the minimal trim DFA of the language. States are named by
// breadth-first order from the start over the sorted alphabet, so equal
// languages give equal automata. The empty language gives an automaton
// without states.
func (a *NFA) Minimize() *NFA {
	d := a.Determinize().Trim()
	if d.NumStates() == 0 {
		return New()
	}

	symbols := d.Symbols()
	class := make([]int, d.NumStates())
	classes := 1
	for i := range class {
		if d.finals.Test(uint(i)) {
			class[i] = 1
		}
	}
	if d.finals.Count() > 0 && d.finals.Count() < uint(d.NumStates()) {
		classes = 2
	}

	// Moore refinement: split classes by the classes of their targets, a
	// missing move counts as its own class.
	for {
		signatures := make(map[string]int)
		next := make([]int, len(class))
		for i := range class {
			var key strings.Builder
			key.WriteString(strconv.Itoa(class[i]))
			for _, symbol := range symbols {
				t := -1
				if j, ok := d.target(i, symbol); ok {
					t = class[j]
				}
				key.WriteByte(',')
				key.WriteString(strconv.Itoa(t))
			}

			c, ok := signatures[key.String()]
			if !ok {
				c = len(signatures)
				signatures[key.String()] = c
			}
			next[i] = c
		}

		class = next
		if len(signatures) == classes {
			break
		}
		classes = len(signatures)
	}

	representative := make(map[int]int)
	for i, c := range class {
		if _, ok := representative[c]; !ok {
			representative[c] = i
		}
	}

	start, _ := d.starts.NextSet(0)
	res := New()
	order := map[int]int{class[start]: res.AddState(stateName(0))}
	res.starts.Set(0)

	queue := []int{class[start]}
	for k := 0; k < len(queue); k++ {
		c := queue[k]
		i := representative[c]
		if d.finals.Test(uint(i)) {
			res.finals.Set(uint(order[c]))
		}

		for _, symbol := range symbols {
			j, ok := d.target(i, symbol)
			if !ok {
				continue
			}
			idx, seen := order[class[j]]
			if !seen {
				idx = res.AddState(stateName(len(queue)))
				order[class[j]] = idx
				queue = append(queue, class[j])
			}
			res.addTransition(order[c], symbol, idx)
		}
	}

	return res
}

// IsEmpty reports whether no final state is reachable from a start state.
func (a *NFA) IsEmpty() bool {
	return reach(a.starts, a.successors).IntersectionCardinality(a.finals) == 0
}

// Check returns ErrEmpty when the automaton can't accept anything.
func (a *NFA) Check() error {
	if len(a.states) == 0 {
		return errors.Wrap(ErrEmpty, "no states")
	}
	if a.IsEmpty() {
		return errors.Wrap(ErrEmpty, "no final state is reachable")
	}
	return nil
}

func (a *NFA) Copy() *NFA {
	res := &NFA{
		states: slices.Clone(a.states),
		index:  maps.Clone(a.index),
		starts: a.starts.Clone(),
		finals: a.finals.Clone(),
		delta:  make([]map[Symbol]*bitset.BitSet, len(a.delta)),
	}
	if res.index == nil {
		res.index = make(map[State]int)
	}

	for i, row := range a.delta {
		if row == nil {
			continue
		}
		res.delta[i] = make(map[Symbol]*bitset.BitSet, len(row))
		for symbol, t := range row {
			res.delta[i][symbol] = t.Clone()
		}
	}

	return res
}

// String draws the transition table, start states are marked with "->" and
// final ones with "*".
func (a *NFA) String() string {
	symbols := a.Symbols()
	if a.hasEpsilon() {
		symbols = append([]Symbol{Epsilon}, symbols...)
	}

	buf := bytes.NewBuffer(nil)
	w := tablewriter.NewWriter(buf)
	w.SetAutoFormatHeaders(false)
	w.SetHeader(append([]string{"", "state"}, cslices.Remap(symbols, func(_ int, s Symbol) string { return s.String() })...))

	for i, s := range a.states {
		marker := ""
		if a.starts.Test(uint(i)) {
			marker += "->"
		}
		if a.finals.Test(uint(i)) {
			marker += "*"
		}

		row := []string{marker, s.String()}
		for _, symbol := range symbols {
			var targets []State
			if t, ok := a.delta[i][symbol]; ok {
				targets = a.names(t)
			}
			row = append(row, strings.Join(cslices.Remap(targets, func(_ int, s State) string { return s.String() }), ","))
		}
		w.Append(row)
	}

	w.Render()

	return buf.String()
}

func members(set *bitset.BitSet) []int {
	if set == nil {
		return nil
	}

	res := make([]int, 0, set.Count())
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		res = append(res, int(i))
	}
	return res
}
