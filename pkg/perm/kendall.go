package perm

import (
	"fmt"

	"github.com/matzehuels/seqdist/pkg/kendall"
)

// Workspace provides reusable buffers for permutation distance calculations
// to avoid repeated allocations. Create with [NewWorkspace] and reuse across
// calls to [Workspace.KendallTau]. Buffers grow on demand.
//
// The workspace is not safe for concurrent use - each goroutine should have
// its own.
type Workspace struct {
	ft  []int // Fenwick tree over relabeled positions
	inv []int // inverse of the first permutation
}

// NewWorkspace creates a workspace sized for permutations of length n.
func NewWorkspace(n int) *Workspace {
	ws := &Workspace{}
	ws.grow(n)
	return ws
}

func (ws *Workspace) grow(n int) {
	if len(ws.inv) >= n {
		return
	}
	ws.ft = make([]int, n+1)
	ws.inv = make([]int, n)
}

// KendallTau returns the number of element pairs whose relative order
// differs between p1 and p2, which equals the number of adjacent swaps
// needed to turn p1 into p2.
//
// Both arguments must be permutations of [0, n) of the same length;
// otherwise KendallTau returns an error wrapping [kendall.ErrLengthMismatch]
// or carrying the INVALID_PERMUTATION code.
func KendallTau(p1, p2 []int) (int, error) {
	return NewWorkspace(len(p1)).KendallTau(p1, p2)
}

// KendallTau is [KendallTau] using the workspace buffers.
//
// p2 is relabeled through the inverse of p1, so p1 maps to the identity,
// and the inversions of the result are counted with a Fenwick tree in
// O(n log n).
func (ws *Workspace) KendallTau(p1, p2 []int) (int, error) {
	if err := checkPair(p1, p2); err != nil {
		return 0, err
	}
	n := len(p1)
	if n < 2 {
		return 0, nil
	}
	ws.grow(n)

	for i, v := range p1 {
		ws.inv[v] = i
	}
	clear(ws.ft[:n+1])

	// For each element, count earlier elements with a larger label.
	inversions := 0
	for seen, v := range p2 {
		label := ws.inv[v]
		lessOrEqual := 0
		for q := label + 1; q > 0; q -= q & (-q) {
			lessOrEqual += ws.ft[q]
		}
		inversions += seen - lessOrEqual
		for idx := label + 1; idx <= n; idx += idx & (-idx) {
			ws.ft[idx]++
		}
	}
	return inversions, nil
}

// MaxKendallTau returns n(n-1)/2, the distance between a permutation of
// length n and its reversal.
func MaxKendallTau(n int) int {
	return kendall.MaxDistance(n)
}

// NormalizedKendallTau returns [KendallTau] divided by [MaxKendallTau],
// a value in [0, 1]. Permutations of length 0 or 1 have distance 0.
func NormalizedKendallTau(p1, p2 []int) (float64, error) {
	d, err := KendallTau(p1, p2)
	if err != nil {
		return 0, err
	}
	return kendall.Normalized(d, len(p1)), nil
}

func checkPair(p1, p2 []int) error {
	if len(p1) != len(p2) {
		return fmt.Errorf("%w: len(p1)=%d, len(p2)=%d", kendall.ErrLengthMismatch, len(p1), len(p2))
	}
	if err := Validate(p1); err != nil {
		return fmt.Errorf("p1: %w", err)
	}
	if err := Validate(p2); err != nil {
		return fmt.Errorf("p2: %w", err)
	}
	return nil
}
