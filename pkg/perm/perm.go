package perm

import (
	"slices"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
)

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1], the
// identity permutation of length n.
//
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	if n <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1.
//
// Factorials grow fast: 21! overflows a 64-bit int.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Generate returns permutations of [0, 1, ..., n-1] using Heap's algorithm.
//
// If limit > 0, Generate returns at most limit permutations.
// If limit <= 0, Generate returns all n! permutations.
//
// Each returned slice is a separate allocation, safe to modify without
// affecting others. For n = 0 the result is one empty permutation.
//
// For n >= 13 the number of permutations runs into billions, so always pass
// a limit when n is large.
func Generate(n, limit int) [][]int {
	if n <= 0 {
		return [][]int{{}}
	}
	if n == 1 {
		return [][]int{{0}}
	}

	p := Seq(n)
	state := make([]int, n)

	capacity := limit
	if capacity <= 0 || n <= 12 {
		capacity = Factorial(min(n, 12))
	}
	if limit > 0 {
		capacity = min(capacity, limit)
	}
	result := make([][]int, 0, capacity)
	result = append(result, slices.Clone(p))

	for i := 0; i < n && (limit <= 0 || len(result) < limit); {
		if state[i] < i {
			if i&1 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[state[i]], p[i] = p[i], p[state[i]]
			}
			result = append(result, slices.Clone(p))
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
	return result
}

// Validate reports whether p is a permutation of [0, len(p)). The error
// carries the INVALID_PERMUTATION code and names the first offending index.
func Validate(p []int) error {
	seen := make([]bool, len(p))
	for i, v := range p {
		if v < 0 || v >= len(p) {
			return apperrors.New(apperrors.ErrCodeInvalidPermutation,
				"element %d at index %d outside [0, %d)", v, i, len(p))
		}
		if seen[v] {
			return apperrors.New(apperrors.ErrCodeInvalidPermutation,
				"element %d repeated at index %d", v, i)
		}
		seen[v] = true
	}
	return nil
}

// Inverse returns q with q[p[i]] = i. p must be a valid permutation.
func Inverse(p []int) []int {
	inv := make([]int, len(p))
	for i, v := range p {
		inv[v] = i
	}
	return inv
}

// Reverse returns a reversed copy of p.
func Reverse(p []int) []int {
	r := slices.Clone(p)
	slices.Reverse(r)
	return r
}
