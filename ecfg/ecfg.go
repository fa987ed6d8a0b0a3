// Package ecfg keeps grammars whose right-hand sides are regular expressions
// and compiles them to recursive automata, one box per nonterminal.
package ecfg

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/quenbyako/cfpq/automaton"
	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/regex"
)

// ECFG is an extended context-free grammar: every nonterminal has exactly one
// regular right-hand side.
type ECFG struct {
	Start       grammar.Ident
	Productions map[grammar.Ident]regex.Expr

	// Symbols keeps the grammar symbol behind a right-hand side symbol when
	// it's known, as after FromCFG. Symbols missing here are nonterminals iff
	// they name a head.
	Symbols map[regex.Symbol]grammar.Ident
}

func New(start grammar.Ident) *ECFG {
	return &ECFG{
		Start:       start,
		Productions: make(map[grammar.Ident]regex.Expr),
		Symbols:     make(map[regex.Symbol]grammar.Ident),
	}
}

// Add unions expr with the right-hand side head already has.
func (e *ECFG) Add(head grammar.Ident, expr regex.Expr) {
	old, ok := e.Productions[head]
	switch {
	case !ok:
		e.Productions[head] = expr
	default:
		if alts, isAlts := old.(regex.Alts); isAlts {
			e.Productions[head] = append(slices.Clone(alts), expr)
		} else {
			e.Productions[head] = regex.Alts{old, expr}
		}
	}
}

// Heads returns sorted nonterminals having a right-hand side.
func (e *ECFG) Heads() []grammar.Ident {
	res := maps.Keys(e.Productions)
	slices.SortFunc(res, func(a, b grammar.Ident) bool { return a.Cmp(b) < 0 })
	return res
}

// IsNonterminal reports whether a symbol of a right-hand side calls a head.
func (e *ECFG) IsNonterminal(s regex.Symbol) bool {
	_, ok := e.Call(s)
	return ok
}

// Call returns the head a right-hand side symbol stands for.
func (e *ECFG) Call(s regex.Symbol) (grammar.Ident, bool) {
	if i, ok := e.Symbols[s]; ok {
		if i.Terminal {
			return grammar.Ident{}, false
		}
		_, ok := e.Productions[i]
		return i, ok
	}

	for head := range e.Productions {
		if head.String() == string(s) {
			return head, true
		}
	}
	return grammar.Ident{}, false
}

// String prints the grammar in the form Parse reads, start first.
func (e *ECFG) String() string {
	lines := make([]string, 0, len(e.Productions))
	if expr, ok := e.Productions[e.Start]; ok {
		lines = append(lines, e.Start.String()+" -> "+expr.String())
	}
	for _, head := range e.Heads() {
		if head != e.Start {
			lines = append(lines, head.String()+" -> "+e.Productions[head].String())
		}
	}
	return strings.Join(lines, "\n")
}

// FromCFG joins all bodies of a nonterminal into one alternation. An empty
// body becomes ε. Symbols print as in the grammar, a terminal that prints
// like a nonterminal gets a "TER:" prefix.
func FromCFG(g *grammar.CFG) *ECFG {
	res := New(g.Start)

	heads := make(map[string]struct{})
	for _, n := range g.Nonterminals() {
		heads[n.String()] = struct{}{}
	}
	symbol := func(i grammar.Ident) regex.Symbol {
		s := regex.Symbol(i.String())
		if _, ok := heads[string(s)]; ok && i.Terminal {
			s = "TER:" + s
		}
		res.Symbols[s] = i
		return s
	}

	for _, rule := range g.Productions() {
		var body regex.Expr
		switch len(rule.Rule) {
		case 0:
			body = regex.Epsilon{}
		case 1:
			body = symbol(rule.Rule[0])
		default:
			seq := make(regex.Seq, len(rule.Rule))
			for i, ident := range rule.Rule {
				seq[i] = symbol(ident)
			}
			body = seq
		}
		res.Add(rule.Name, body)
	}

	return res
}

// text is a sequence of lines like
//
//	S -> a S* b | c
type text struct {
	P []*production `parser:"( @@ | EOL )*"`
}

type production struct {
	Head string       `parser:"@Symbol Arrow"`
	Body *regex.Union `parser:"@@"`
}

var textLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "EOL", Pattern: `\n+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Punct", Pattern: `[|+*.()]`},
	// a dash is allowed inside of a symbol unless it starts an arrow
	{Name: "Symbol", Pattern: `[^\s|+*.()\-]+(?:-[^\s|+*.()>\-][^\s|+*.()\-]*)*`},
})

var parser = participle.MustBuild[text](
	participle.Lexer(textLexer),
	participle.Elide("Whitespace"),
)

// Parse reads lines "Head -> regex". The first head is the start symbol, a
// head written twice gets the union of its right-hand sides.
func Parse(input string) (*ECFG, error) {
	t, err := parser.ParseString("", input)
	if err != nil {
		return nil, grammar.NewSyntaxError(input, err)
	}
	if len(t.P) == 0 {
		return nil, &grammar.SyntaxError{Msg: "no productions"}
	}

	res := New(grammar.N(t.P[0].Head))
	for _, p := range t.P {
		res.Add(grammar.N(p.Head), p.Body.Expr())
	}
	return res, nil
}

func ParseReader(r io.Reader) (*ECFG, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading grammar")
	}
	return Parse(string(data))
}

func ParseFile(path string) (*ECFG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening grammar %q", path)
	}
	defer f.Close()

	return ParseReader(f)
}

// ToRFA compiles every right-hand side to its own ε-NFA box.
func (e *ECFG) ToRFA() *RFA {
	res := &RFA{Start: e.Start, Boxes: make(map[grammar.Ident]*automaton.NFA, len(e.Productions))}
	for head, expr := range e.Productions {
		res.Boxes[head] = regex.ToNFA(expr)
	}
	return res
}
