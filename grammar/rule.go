package grammar

import (
	"encoding/binary"

	"github.com/quenbyako/cfpq/slices"
	"github.com/zeebo/xxh3"
)

const epsilonSymbol = "ε"

// IdentSet is a production body.
type IdentSet []Ident

func (s IdentSet) String() string {
	if len(s) == 0 {
		return epsilonSymbol
	}

	return stringify(s, " ")
}

func (r IdentSet) Cmp(j IdentSet) int {
	for i := 0; i < len(r) && i < len(j); i++ {
		if res := r[i].Cmp(j[i]); res != 0 {
			return res
		}
	}

	return comparator(len(r), len(j))
}

func (r IdentSet) Eq(j IdentSet) bool { return slices.Equal(r, j) }

func (r IdentSet) isChain() bool { return len(r) == 1 && !r[0].Terminal }

// isWeakCNF is true for ε, a single terminal, or two nonterminals.
func (r IdentSet) isWeakCNF() bool {
	switch len(r) {
	case 0:
		return true
	case 1:
		return r[0].Terminal
	case 2:
		return !r[0].Terminal && !r[1].Terminal
	default:
		return false
	}
}

func (s IdentSet) Hash() (uint64, error) {
	if len(s) == 0 {
		return emptyHash, nil
	}

	res := make([]byte, 0, len(s)*8)
	for _, ident := range s {
		h, _ := ident.Hash()
		res = binary.LittleEndian.AppendUint64(res, h)
	}

	return xxh3.Hash(res), nil
}

// DualRule is the body of a binary rule.
type DualRule [2]Ident

func (r DualRule) Eq(j DualRule) bool { return r[0].Eq(j[0]) && r[1].Eq(j[1]) }

func (r DualRule) Cmp(j DualRule) int {
	if res := r[0].Cmp(j[0]); res != 0 {
		return res
	}

	return r[1].Cmp(j[1])
}

func (r DualRule) Hash() (uint64, error) {
	const uint64Size = 8
	res := make([]byte, uint64Size*2)
	h0, _ := r[0].Hash()
	binary.LittleEndian.PutUint64(res[0:8], h0)
	h1, _ := r[1].Hash()
	binary.LittleEndian.PutUint64(res[8:16], h1)

	return xxh3.Hash(res), nil
}
