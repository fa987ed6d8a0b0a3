package regex

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// Union is a chain of alternatives split by "|" or "+". It's the top rule of
// a pattern and can be embedded into other participle grammars whose lexer
// has Punct and Symbol tokens of patternLexer.
type Union struct {
	Alts []*concat `parser:"@@ ( ( '|' | '+' ) @@ )*"`
}

// concat is either juxtaposition or an explicit "."
type concat struct {
	Items []*repeat `parser:"@@ ( '.'? @@ )*"`
}

type repeat struct {
	Atom  *atom    `parser:"@@"`
	Stars []string `parser:"( @'*' )*"`
}

type atom struct {
	Symbol *string `parser:"  @Symbol"`
	Group  *Union  `parser:"| '(' @@ ')'"`
}

var patternLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Punct", Pattern: `[|+*.()]`},
	{Name: "Symbol", Pattern: `[^\s|+*.()]+`},
})

var parser = participle.MustBuild[Union](
	participle.Lexer(patternLexer),
	participle.Elide("Whitespace"),
)

var epsilonWords = map[string]struct{}{
	"$":       {},
	"epsilon": {},
	"eps":     {},
	"ε":       {},
}

// SyntaxError is returned for a malformed pattern. Pos is the byte offset of
// the offending token.
type SyntaxError struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("regex syntax error in %q at %d: %s", e.Pattern, e.Pos, e.Msg)
}

// Parse reads a pattern. Symbols are words: "ab" is one symbol, "a b" is a
// concatenation of two. Union is "|" or "+", concatenation is "." or
// juxtaposition, "*" is the Kleene star and "$", "eps", "epsilon" or "ε" is
// the empty word.
func Parse(pattern string) (Expr, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, &SyntaxError{Pattern: pattern, Msg: "empty pattern"}
	}

	u, err := parser.ParseString("", pattern)
	if err != nil {
		res := &SyntaxError{Pattern: pattern, Msg: err.Error()}

		var perr participle.Error
		if errors.As(err, &perr) {
			res.Pos, res.Msg = perr.Position().Offset, perr.Message()
		}
		return nil, res
	}

	return u.Expr(), nil
}

// MustParse is like Parse but panics on error, for patterns known at compile
// time.
func MustParse(pattern string) Expr {
	e, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

func (u *Union) Expr() Expr {
	if len(u.Alts) == 1 {
		return u.Alts[0].expr()
	}

	res := make(Alts, len(u.Alts))
	for i, alt := range u.Alts {
		res[i] = alt.expr()
	}
	return res
}

func (c *concat) expr() Expr {
	if len(c.Items) == 1 {
		return c.Items[0].expr()
	}

	res := make(Seq, len(c.Items))
	for i, item := range c.Items {
		res[i] = item.expr()
	}
	return res
}

func (r *repeat) expr() Expr {
	e := r.Atom.expr()
	if len(r.Stars) > 0 {
		return Star{E: e}
	}
	return e
}

func (a *atom) expr() Expr {
	if a.Group != nil {
		return a.Group.Expr()
	}
	if _, ok := epsilonWords[*a.Symbol]; ok {
		return Epsilon{}
	}
	return Symbol(*a.Symbol)
}
