// Package kendall computes the Kendall tau sequence distance: the minimum
// number of adjacent swaps that transform one sequence into another.
//
// # Overview
//
// Unlike the classic Kendall tau distance between permutations, the two
// sequences may contain duplicate values. They must have the same length and
// hold the same multiset of values. The distance is computed in O(n log n)
// by a three stage pipeline:
//
//  1. Relabel: map every value to a dense integer label in [0, k), where k is
//     the number of distinct values in the first sequence.
//  2. Map positions: pair the i-th occurrence of each label in the first
//     sequence with the i-th occurrence of the same label in the second one.
//     This yields a correspondence permutation of positions.
//  3. Count inversions of the correspondence permutation with a merge sort.
//
// The inversion count equals the adjacent swap distance (Cicirello, 2019).
//
// # Basic Usage
//
// For element types that are comparable, use [Distance] or build a reusable
// [Measurer] with [New]:
//
//	d, err := kendall.Distance([]int{2, 1, 0}, []int{0, 1, 2})
//	// d == 3
//
//	m := kendall.New[string]()
//	d, err = m.Distance(words1, words2)
//
// Text is compared rune by rune with [Strings], bytes with [Bytes]:
//
//	d, err := kendall.Strings("abcdaabb", "dcbababa", kendall.StrategyHash)
//	// d == 9
//
// # Relabeling Strategies
//
// Two [Relabeler] implementations are available, selected when the
// [Measurer] is built:
//
//   - [StrategyHash] ([HashRelabeler]): labels values by first appearance
//     using a map. Requires equality and hashing (Go's comparable). O(n)
//     expected.
//   - [StrategySort] ([SortRelabeler]): sorts a copy of the first sequence
//     and labels runs of equal values, looking values up by binary search.
//     Requires only a total order. O(n log n).
//
// Both strategies report the same distances. They differ for values that
// are not equal to themselves under ==, such as floating point NaN: the
// hash strategy rejects them, the sort strategy (using [cmp.Compare])
// treats all NaNs as one value.
//
// # Errors
//
// [Measurer.Distance] fails with exactly one of two errors and never returns
// a partial result:
//
//   - [ErrLengthMismatch]: the sequences differ in length.
//   - [ErrIncompatibleElements]: the second sequence holds a value absent
//     from the first, or some value occurs a different number of times.
//
// Both wrap coded errors from the errors package and can be matched with
// errors.Is against the sentinels.
//
// # Concurrency
//
// A [Measurer] holds only its immutable relabeling strategy. All working
// arrays are allocated per call, so one Measurer may be used from many
// goroutines without locking.
package kendall
