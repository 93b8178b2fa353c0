package kendall

import (
	apperrors "github.com/matzehuels/seqdist/pkg/errors"
)

// MapPositions builds the correspondence permutation for a relabeling with
// k labels. In the result m, m[p] is the position in the second sequence
// paired with position p of the first: the i-th occurrence of a label in the
// first sequence is paired with the i-th occurrence of that label in the
// second, in left-to-right order.
//
// Positions are grouped per label and side with a two-pass counting sort
// (count, then fill in position order), which keeps each group in FIFO
// order in one contiguous array. Groups are then drained label by label in
// lock-step. If a label occurs a different number of times in the two
// sequences, MapPositions fails with an error wrapping
// [ErrIncompatibleElements]. Labels outside [0, k) are reported as invalid
// input.
//
// On success m is a permutation of [0, len(rel)).
func MapPositions(rel Relabeling, k int) ([]int, error) {
	n := len(rel)
	if k < 0 || (k == 0 && n > 0) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid label count %d for %d positions", k, n)
	}

	// start[l] is where the bucket of label l begins; start[k] == n.
	startA := make([]int, k+1)
	startB := make([]int, k+1)
	for i, p := range rel {
		if p.A < 0 || p.A >= k || p.B < 0 || p.B >= k {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
				"label pair (%d, %d) at position %d outside [0, %d)", p.A, p.B, i, k)
		}
		startA[p.A+1]++
		startB[p.B+1]++
	}
	for l := 0; l < k; l++ {
		startA[l+1] += startA[l]
		startB[l+1] += startB[l]
	}

	bucketsA := make([]int, n)
	bucketsB := make([]int, n)
	nextA := make([]int, k)
	nextB := make([]int, k)
	copy(nextA, startA)
	copy(nextB, startB)
	for i, p := range rel {
		bucketsA[nextA[p.A]] = i
		nextA[p.A]++
		bucketsB[nextB[p.B]] = i
		nextB[p.B]++
	}

	m := make([]int, n)
	for l := 0; l < k; l++ {
		ia, endA := startA[l], startA[l+1]
		ib, endB := startB[l], startB[l+1]
		for ; ia < endA; ia, ib = ia+1, ib+1 {
			if ib == endB {
				return nil, countMismatch(l, endA-startA[l], endB-startB[l])
			}
			m[bucketsA[ia]] = bucketsB[ib]
		}
		if ib != endB {
			return nil, countMismatch(l, endA-startA[l], endB-startB[l])
		}
	}
	return m, nil
}
