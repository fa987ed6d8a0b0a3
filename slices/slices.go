// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slices defines various functions useful with slices of any type.
// Unless otherwise specified, these functions all apply to the elements
// of a slice at index 0 <= i < len(s).
package slices

// Equal reports whether two slices are equal: the same length and all
// elements equal. If the lengths are different, Equal returns false.
// Otherwise, the elements are compared in increasing index order, and the
// comparison stops at the first unequal pair.
func Equal[E comparable](s1, s2 []E) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			return false
		}
	}
	return true
}

// Index returns the index of the first occurrence of v in s,
// or -1 if not present.
func Index[S ~[]T, T comparable](s S, v T) int {
	return IndexFunc(s, func(item T) bool { return item == v })
}

// IndexFunc returns the first index i satisfying f(s[i]),
// or -1 if none do.
func IndexFunc[S ~[]T, T any](s S, f func(T) bool) int {
	for i, v := range s {
		if f(v) {
			return i
		}
	}
	return -1
}

// Contains reports whether v is present in s.
func Contains[S ~[]T, T comparable](s S, v T) bool { return Index(s, v) >= 0 }

// Clip removes unused capacity from the slice, returning s[:len(s):len(s)].
func Clip[S ~[]E, E any](s S) S { return s[:len(s):len(s)] }

func Remap[S ~[]T, T, U any](s S, f func(int, T) U) []U {
	res := make([]U, len(s))
	for i, item := range s {
		res[i] = f(i, item)
	}
	return res
}

// Possibles возвращает все возможные сочетания элементов: по одному элементу
// из каждого непустого подсписка z.
func Possibles[S ~[]T, T any](z []S) []S {
	if len(z) == 0 {
		return []S{}
	}
	if len(z[0]) == 0 {
		return Possibles(z[1:])
	}

	res := []S{}
	for _, elem := range z[0] {
		morePossibilities := Possibles(z[1:])
		if len(morePossibilities) == 0 {
			res = append(res, S{elem})
		}
		for _, nextItems := range morePossibilities {
			res = append(res, append(S{elem}, nextItems...))
		}
	}
	return res
}

// Filter MODIFIES s, so only one possible way to use func is s = Filter(s, ...)
func Filter[S ~[]T, T any](s S, f func(T) bool) S {
	i := 0
	for _, item := range s {
		if f(item) {
			s[i] = item
			i++
		}
	}

	return Clip(s[:i])
}
