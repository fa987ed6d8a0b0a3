package regex

import (
	"regexp/syntax"
	"unicode"

	"github.com/pkg/errors"
)

// Every character of a Python-style pattern is a symbol of its own. "." and
// classes wider than maxClassRunes stand for their printable ASCII members
// only.
const (
	printableFirst = ' '
	printableLast  = '~'
	maxClassRunes  = 256
)

// ParsePython reads a pattern in the usual character syntax: "Help .*" is
// the word H, e, l, p, space followed by any printable characters.
// Anchors are ignored since a pattern always covers a whole path. Word
// boundaries and other assertions are rejected.
func ParsePython(pattern string) (Expr, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		res := &SyntaxError{Pattern: pattern, Msg: err.Error()}

		var serr *syntax.Error
		if errors.As(err, &serr) {
			res.Msg = string(serr.Code)
			if serr.Expr != "" {
				res.Msg += ": " + serr.Expr
			}
		}
		return nil, res
	}

	e, err := lower(re.Simplify())
	if err != nil {
		return nil, &SyntaxError{Pattern: pattern, Msg: err.Error()}
	}
	return e, nil
}

func lower(re *syntax.Regexp) (Expr, error) {
	switch re.Op {
	case syntax.OpNoMatch:
		return Alts{}, nil
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText:
		return Epsilon{}, nil
	case syntax.OpLiteral:
		res := make(Seq, len(re.Rune))
		for i, r := range re.Rune {
			res[i] = literal(r, re.Flags&syntax.FoldCase != 0)
		}
		return single(res), nil
	case syntax.OpCharClass:
		return charClass(re.Rune), nil
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return charClass([]rune{printableFirst, printableLast}), nil
	case syntax.OpCapture:
		return lower(re.Sub[0])
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest:
		sub, err := lower(re.Sub[0])
		if err != nil {
			return nil, err
		}
		switch re.Op {
		case syntax.OpStar:
			return Star{E: sub}, nil
		case syntax.OpPlus:
			return Seq{sub, Star{E: sub}}, nil
		default:
			return Alts{sub, Epsilon{}}, nil
		}
	case syntax.OpConcat, syntax.OpAlternate:
		subs := make([]Expr, len(re.Sub))
		for i, s := range re.Sub {
			e, err := lower(s)
			if err != nil {
				return nil, err
			}
			subs[i] = e
		}
		if re.Op == syntax.OpConcat {
			return single(Seq(subs)), nil
		}
		return Alts(subs), nil
	default:
		return nil, errors.Errorf("unsupported %v", re)
	}
}

func literal(r rune, fold bool) Expr {
	if !fold {
		return Symbol(string(r))
	}

	res := Alts{Symbol(string(r))}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		res = append(res, Symbol(string(f)))
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

// charClass enumerates the pairs of inclusive bounds syntax keeps for a
// class.
func charClass(ranges []rune) Expr {
	var size int
	for i := 0; i+1 < len(ranges); i += 2 {
		size += int(ranges[i+1]-ranges[i]) + 1
	}

	res := Alts{}
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if size > maxClassRunes {
			lo, hi = max(lo, printableFirst), min(hi, printableLast)
		}
		for r := lo; r <= hi; r++ {
			res = append(res, Symbol(string(r)))
		}
	}

	if len(res) == 1 {
		return res[0]
	}
	return res
}

func single(s Seq) Expr {
	if len(s) == 1 {
		return s[0]
	}
	return s
}
