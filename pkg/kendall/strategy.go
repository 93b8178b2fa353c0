package kendall

import (
	"strings"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
)

// Strategy selects how a [Measurer] relabels values.
type Strategy int

const (
	// StrategyHash relabels through a hash map. Requires comparable values.
	StrategyHash Strategy = iota

	// StrategySort relabels by sorting. Requires a total order.
	StrategySort
)

// Strategy names as accepted by [ParseStrategy].
const (
	StrategyNameHash = "hash"
	StrategyNameSort = "sort"
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyHash:
		return StrategyNameHash
	case StrategySort:
		return StrategyNameSort
	default:
		return "unknown"
	}
}

// ParseStrategy parses a strategy name. Matching is case-insensitive and an
// empty name selects [StrategyHash].
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyNameHash:
		return StrategyHash, nil
	case StrategyNameSort:
		return StrategySort, nil
	default:
		return 0, apperrors.New(apperrors.ErrCodeInvalidStrategy,
			"unknown strategy %q (want %q or %q)", name, StrategyNameHash, StrategyNameSort)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if s != StrategyHash && s != StrategySort {
		return nil, apperrors.New(apperrors.ErrCodeInvalidStrategy, "unknown strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
