// Package pipeline runs distance computations for the CLI and the HTTP API.
//
// This package turns decoded input ([seqio.Pair]) into typed sequences,
// dispatches them to package kendall, and wraps the result with caching,
// history recording and observability hooks. By centralizing this logic,
// the CLI and the server behave the same way for the same input.
//
// # Element kinds
//
// A pair names the kind of its elements:
//
//   - ints, floats, bools, bytes: scalar lists
//   - strings: lists of tokens compared as whole strings
//   - text: strings compared rune by rune
//
// Scalar kinds accept either JSON/TOML lists or one comma separated
// string per side. The bytes kind treats a string as its raw bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	res, err := runner.Compute(ctx, seqio.Pair{
//	    Kind: pipeline.KindText,
//	    A:    seqio.Text("abcdaabb"),
//	    B:    seqio.Text("dcbababa"),
//	}, pipeline.Options{})
//	fmt.Println(res.Distance) // 9
//
// Run many pairs with bounded concurrency:
//
//	items, err := runner.Batch(ctx, jobs.Pairs, opts, 4)
package pipeline

import (
	"time"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
	"github.com/matzehuels/seqdist/pkg/kendall"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultKind is used when neither the pair nor the options name a kind.
	DefaultKind = KindText

	// DefaultWorkers is the batch concurrency when none is configured.
	DefaultWorkers = 4

	// MaxWorkers bounds batch concurrency.
	MaxWorkers = 1024

	// DefaultMaxLength bounds sequence length for API requests.
	DefaultMaxLength = 1_000_000
)

// Kind constants for element kinds.
const (
	KindInts    = "ints"
	KindFloats  = "floats"
	KindStrings = "strings"
	KindText    = "text"
	KindBools   = "bools"
	KindBytes   = "bytes"
)

// ValidKinds is the set of supported element kinds.
var ValidKinds = map[string]bool{
	KindInts:    true,
	KindFloats:  true,
	KindStrings: true,
	KindText:    true,
	KindBools:   true,
	KindBytes:   true,
}

// Kinds lists the supported kinds in display order.
var Kinds = []string{KindText, KindStrings, KindInts, KindFloats, KindBools, KindBytes}

// =============================================================================
// Options - Computation Configuration
// =============================================================================

// Options configures a computation. Fields left empty fall back to the
// pair's own settings and then to the defaults above.
type Options struct {
	Kind      string `json:"kind,omitempty"`
	Strategy  string `json:"strategy,omitempty"`
	MaxLength int    `json:"max_length,omitempty"` // 0 means unlimited
	Refresh   bool   `json:"refresh,omitempty"`    // bypass cache lookup
}

// ValidateKind checks that kind names a supported element kind.
func ValidateKind(kind string) error {
	if !ValidKinds[kind] {
		return apperrors.New(apperrors.ErrCodeInvalidKind, "unknown kind %q (want one of %v)", kind, Kinds)
	}
	return nil
}

// resolve picks the effective kind and strategy for one pair.
func (o Options) resolve(pairKind, pairStrategy string) (string, kendall.Strategy, error) {
	kind := pairKind
	if kind == "" {
		kind = o.Kind
	}
	if kind == "" {
		kind = DefaultKind
	}
	if err := ValidateKind(kind); err != nil {
		return "", 0, err
	}

	name := pairStrategy
	if name == "" {
		name = o.Strategy
	}
	s, err := kendall.ParseStrategy(name)
	if err != nil {
		return "", 0, err
	}
	return kind, s, nil
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of one distance computation.
type Result struct {
	Name       string        `json:"name,omitempty"`
	Kind       string        `json:"kind"`
	Strategy   string        `json:"strategy"`
	Length     int           `json:"length"`
	Distance   int           `json:"distance"`
	Normalized float64       `json:"normalized"`
	Cached     bool          `json:"cached"`
	Duration   time.Duration `json:"duration_ns"`
}

// BatchItem is the outcome of one pair in a batch. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Index  int
	Name   string
	Result *Result
	Err    error
}

// PermRequest asks for the Kendall tau distance between two permutations,
// optionally weighted per element.
type PermRequest struct {
	P1      []int     `json:"p1"`
	P2      []int     `json:"p2"`
	Weights []float64 `json:"weights,omitempty"`
}

// PermResult is the outcome of a permutation distance computation.
type PermResult struct {
	Length     int     `json:"length"`
	Distance   float64 `json:"distance"`
	Max        float64 `json:"max"`
	Normalized float64 `json:"normalized"`
	Weighted   bool    `json:"weighted"`
	Cached     bool    `json:"cached"`
}
