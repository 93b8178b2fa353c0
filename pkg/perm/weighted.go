package perm

import (
	"fmt"
	"math"
	"slices"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
	"github.com/matzehuels/seqdist/pkg/kendall"
)

// WeightedKendallTau is a Kendall tau distance in which each element carries
// a weight. A pair of elements x and y ordered differently by the two
// permutations contributes weights[x]*weights[y] instead of 1, so with all
// weights equal to 1 it reduces to [KendallTau].
//
// A WeightedKendallTau supports exactly one permutation length, the number
// of weights. It is immutable and safe for concurrent use.
type WeightedKendallTau struct {
	weights []float64
	max     float64
}

// NewWeightedKendallTau returns a measure over the given weights, indexed by
// element. The slice is copied.
func NewWeightedKendallTau(weights []float64) *WeightedKendallTau {
	w := slices.Clone(weights)
	total, maxDist := 0.0, 0.0
	for i := len(w) - 1; i >= 0; i-- {
		maxDist += w[i] * total
		total += w[i]
	}
	return &WeightedKendallTau{weights: w, max: maxDist}
}

// SupportedLength returns the only permutation length Distance accepts.
func (wk *WeightedKendallTau) SupportedLength() int { return len(wk.weights) }

// Max returns the sum of weights[i]*weights[j] over all pairs i < j, the
// distance between a permutation and its reversal.
func (wk *WeightedKendallTau) Max() float64 { return wk.max }

// Distance returns the weighted number of discordant pairs between p1 and
// p2. Both must be permutations of length [WeightedKendallTau.SupportedLength].
func (wk *WeightedKendallTau) Distance(p1, p2 []int) (float64, error) {
	if len(p1) != len(wk.weights) || len(p2) != len(wk.weights) {
		return 0, fmt.Errorf("%w: weighted distance supports length %d, got %d and %d",
			kendall.ErrLengthMismatch, len(wk.weights), len(p1), len(p2))
	}
	if err := checkPair(p1, p2); err != nil {
		return 0, err
	}
	n := len(p1)
	if n < 2 {
		return 0, nil
	}

	inv := Inverse(p1)
	// ft accumulates the weights of elements already seen, by label.
	ft := make([]float64, n+1)
	seen := 0.0
	dist := 0.0
	for _, v := range p2 {
		label, w := inv[v], wk.weights[v]
		lessOrEqual := 0.0
		for q := label + 1; q > 0; q -= q & (-q) {
			lessOrEqual += ft[q]
		}
		dist += w * (seen - lessOrEqual)
		seen += w
		for idx := label + 1; idx <= n; idx += idx & (-idx) {
			ft[idx] += w
		}
	}
	return dist, nil
}

// Normalized returns Distance divided by Max, or 0 when Max is 0.
func (wk *WeightedKendallTau) Normalized(p1, p2 []int) (float64, error) {
	d, err := wk.Distance(p1, p2)
	if err != nil || wk.max == 0 {
		return 0, err
	}
	return d / wk.max, nil
}

// ValidateWeights checks that every weight is finite and non-negative.
func ValidateWeights(weights []float64) error {
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "weight %d is %v, want a finite non-negative number", i, w)
		}
	}
	return nil
}
