package grammar

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// WTF??? https://github.com/golang/go/issues/46477
type Set[T comparable] map[T]struct{}

func (s Set[T]) Append(k ...T) Set[T] {
	if s == nil {
		s = make(Set[T])
	}
	for _, item := range k {
		s[item] = struct{}{}
	}
	return s
}

func (s Set[T]) Has(k T) bool {
	_, ok := s[k]
	return ok
}

type Hasher interface {
	Hash() (uint64, error)
}

// HashSet keeps values which are not comparable (slices mostly) keyed by
// their hash.
type HashSet[T Hasher] map[uint64]T

func (s HashSet[T]) Has(k T) bool {
	if s == nil {
		return false
	}

	h, err := k.Hash()
	if err != nil {
		panic(err)
	}

	_, ok := s[h]
	return ok
}

func (s HashSet[T]) Append(k ...T) HashSet[T] {
	if s == nil {
		s = make(HashSet[T])
	}

	for _, item := range k {
		h, err := item.Hash()
		if err != nil {
			panic(err)
		}

		s[h] = item
	}

	return s
}

func (s HashSet[T]) Remove(k T) {
	h, err := k.Hash()
	if err != nil {
		panic(err)
	}
	delete(s, h)
}

// Sorted returns values of the set ordered by less.
func (s HashSet[T]) Sorted(less func(a, b T) bool) []T {
	values := maps.Values(s)
	slices.SortFunc(values, less)
	return values
}

func sortedIdents(s Set[Ident]) []Ident {
	keys := maps.Keys(s)
	slices.SortFunc(keys, func(a, b Ident) bool { return a.Cmp(b) < 0 })
	return keys
}

func (s Set[T]) String() string {
	strs := make([]string, 0, len(s))
	for k := range s {
		strs = append(strs, fmtString(k))
	}
	slices.Sort(strs)
	return "set[" + strings.Join(strs, " ") + "]"
}
