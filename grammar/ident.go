package grammar

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zeebo/xxh3"
	"golang.org/x/exp/constraints"
)

// xxh3 of an empty input.
const emptyHash uint64 = 0x2d06800538d394c2

// IdentCounter hands out fresh nonterminals derived from an existing name.
type IdentCounter map[string]uint64

func (c IdentCounter) NewIdent(id string) Ident {
	c[id]++
	return Ident{ID: id, Index: c[id]}
}

func (c IdentCounter) clone() IdentCounter {
	res := make(IdentCounter, len(c))
	for k, v := range c {
		res[k] = v
	}
	return res
}

// Ident is either a terminal or a nonterminal symbol. Symbols are interned by
// value: two idents are the same symbol iff all their fields are equal.
type Ident struct {
	ID string
	// Index is non-zero only for nonterminals generated during normalization.
	Index    uint64
	Terminal bool
}

// N is a shortcut for a user defined nonterminal.
func N(id string) Ident { return Ident{ID: id} }

// T is a shortcut for a terminal.
func T(id string) Ident { return Ident{ID: id, Terminal: true} }

func (i Ident) Generated() bool { return i.Index > 0 }

func (i Ident) String() string {
	if i.Index == 0 {
		return i.ID
	}

	return fmt.Sprintf("%v#%d", i.ID, i.Index)
}

func (i Ident) Eq(k Ident) bool { return i == k }

// Cmp orders nonterminals before terminals, then by name and index.
func (i Ident) Cmp(k Ident) int {
	switch {
	case i.Terminal != k.Terminal:
		if k.Terminal {
			return -1
		}
		return 1
	case i.ID != k.ID:
		return comparator(i.ID, k.ID)
	case i.Index != k.Index:
		return comparator(i.Index, k.Index)
	default:
		return 0
	}
}

func (i Ident) Hash() (uint64, error) {
	res := []byte(i.ID)
	res = binary.LittleEndian.AppendUint64(res, i.Index)
	if i.Terminal {
		res = append(res, 1)
	} else {
		res = append(res, 0)
	}

	return xxh3.Hash(res), nil
}

func comparator[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

var epsilonWords = map[string]struct{}{
	"$":       {},
	"epsilon": {},
	"eps":     {},
	"ε":       {},
	"ϵ":       {},
}

func isEpsilonWord(s string) bool {
	_, ok := epsilonWords[s]
	return ok
}

// identFromText classifies a body symbol: "VAR:x" and "TER:x" force the kind,
// otherwise uppercase initial letter means a nonterminal.
func identFromText(s string) Ident {
	switch {
	case strings.HasPrefix(s, "VAR:"):
		return N(strings.TrimPrefix(s, "VAR:"))
	case strings.HasPrefix(s, "TER:"):
		return T(strings.TrimPrefix(s, "TER:"))
	}

	if r, _ := utf8.DecodeRuneInString(s); unicode.IsUpper(r) {
		return N(s)
	}

	return T(s)
}
