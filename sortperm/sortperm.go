// Package sortperm produces the Morton-key-ordered permutation of primitive
// indices the hierarchy builder sorts leaves by (spec.md §4.4).
package sortperm

import "sort"

// Keyed pairs a primitive index with its Morton key.
type Keyed struct {
	Index int
	Key   uint64
}

// SortByKey returns a permutation of [0, n) ordered by ascending key(i),
// ties broken by primitive index so the ordering is effectively stable
// regardless of the sort algorithm used.
func SortByKey(n int, key func(i int) uint64) []Keyed {
	perm := make([]Keyed, n)
	for i := 0; i < n; i++ {
		perm[i] = Keyed{Index: i, Key: key(i)}
	}
	sort.Slice(perm, func(i, j int) bool {
		if perm[i].Key != perm[j].Key {
			return perm[i].Key < perm[j].Key
		}
		return perm[i].Index < perm[j].Index
	})
	return perm
}

// Indices extracts just the primitive-index column of a sorted Keyed slice.
func Indices(sorted []Keyed) []int {
	out := make([]int, len(sorted))
	for i, k := range sorted {
		out[i] = k.Index
	}
	return out
}

// Keys extracts just the Morton-key column of a sorted Keyed slice.
func Keys(sorted []Keyed) []uint64 {
	out := make([]uint64, len(sorted))
	for i, k := range sorted {
		out[i] = k.Key
	}
	return out
}
