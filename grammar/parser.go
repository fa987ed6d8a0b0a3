package grammar

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

const defaultStart = "S"

// text is a sequence of lines like
//
//	S -> A B | B S | $
type text struct {
	P []*production `parser:"( @@ | EOL )*"`
}

type production struct {
	Pos  lexer.Position
	Head string         `parser:"@Symbol Arrow"`
	Alts []*alternative `parser:"@@ ( Pipe @@ )*"`
}

type alternative struct {
	Symbols []string `parser:"@Symbol+"`
}

func (a *alternative) body() IdentSet {
	res := make(IdentSet, 0, len(a.Symbols))
	for _, s := range a.Symbols {
		if isEpsilonWord(s) {
			continue
		}
		res = append(res, identFromText(s))
	}
	return res
}

var textLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "EOL", Pattern: `\n+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Pipe", Pattern: `\|`},
	// a dash is allowed inside of a symbol unless it starts an arrow
	{Name: "Symbol", Pattern: `[^\s|\-]+(?:-[^\s|>\-][^\s|\-]*)*`},
})

var parser = participle.MustBuild[text](
	participle.Lexer(textLexer),
	participle.Elide("Whitespace"),
)

type parseConfig struct {
	start string
}

type ParseOption func(*parseConfig)

// WithStart overrides the start symbol. By default it's S, or the first
// head of the text when S is never defined.
func WithStart(name string) ParseOption { return func(c *parseConfig) { c.start = name } }

// Parse reads a grammar written one head per line. Heads are always
// nonterminals; in bodies an uppercase initial letter marks a nonterminal,
// "VAR:" and "TER:" prefixes force the kind, and "$", "eps", "epsilon", "ε"
// stand for the empty body.
func Parse(input string, opts ...ParseOption) (*CFG, error) {
	cfg := parseConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	t, err := parser.ParseString("", input)
	if err != nil {
		return nil, NewSyntaxError(input, err)
	}

	g := New(N(defaultStart))
	for _, p := range t.P {
		head := strings.TrimPrefix(p.Head, "VAR:")
		for _, alt := range p.Alts {
			g.Add(N(head), alt.body()...)
		}
	}

	switch {
	case cfg.start != "":
		g.Start = N(cfg.start)
	case len(t.P) > 0 && len(g.Rules[N(defaultStart)]) == 0:
		g.Start = N(strings.TrimPrefix(t.P[0].Head, "VAR:"))
	}

	return g, nil
}

func ParseReader(r io.Reader, opts ...ParseOption) (*CFG, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading grammar")
	}
	return Parse(string(data), opts...)
}

func ParseFile(path string, opts ...ParseOption) (*CFG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening grammar %q", path)
	}
	defer f.Close()

	return ParseReader(f, opts...)
}

// NewSyntaxError turns a participle error over input into a SyntaxError
// pointing at the offending line.
func NewSyntaxError(input string, err error) error {
	res := &SyntaxError{Msg: err.Error()}

	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		res.Line, res.Column, res.Msg = pos.Line, pos.Column, perr.Message()
		if lines := strings.Split(input, "\n"); pos.Line >= 1 && pos.Line <= len(lines) {
			res.Text = lines[pos.Line-1]
		}
	}

	return res
}
