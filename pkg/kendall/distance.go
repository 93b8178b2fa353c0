package kendall

import (
	"cmp"
	"unicode/utf8"
)

// Measurer computes Kendall tau sequence distances with a fixed relabeling
// strategy. It holds no other state and is safe for concurrent use.
type Measurer[T any] struct {
	relabeler Relabeler[T]
}

// New returns a Measurer using the hash strategy.
func New[T comparable]() *Measurer[T] {
	return &Measurer[T]{relabeler: HashRelabeler[T]{}}
}

// NewOrdered returns a Measurer for ordered values using strategy s.
// Unknown strategies fall back to [StrategyHash].
func NewOrdered[T cmp.Ordered](s Strategy) *Measurer[T] {
	if s == StrategySort {
		return &Measurer[T]{relabeler: NewSortRelabeler[T]()}
	}
	return &Measurer[T]{relabeler: HashRelabeler[T]{}}
}

// NewFunc returns a Measurer using the sort strategy with a caller supplied
// ordering. See [NewSortRelabelerFunc] for the contract of compare.
func NewFunc[T any](compare func(x, y T) int) *Measurer[T] {
	return &Measurer[T]{relabeler: NewSortRelabelerFunc(compare)}
}

// NewWithRelabeler returns a Measurer using r. It panics if r is nil.
func NewWithRelabeler[T any](r Relabeler[T]) *Measurer[T] {
	if r == nil {
		panic("kendall: nil relabeler")
	}
	return &Measurer[T]{relabeler: r}
}

// Distance returns the minimum number of adjacent swaps that transform a
// into b.
//
// It fails with [ErrLengthMismatch] when the lengths differ (before any
// other work) and with [ErrIncompatibleElements] when the sequences do not
// hold the same multiset of values. Empty sequences have distance 0.
func (m *Measurer[T]) Distance(a, b []T) (int, error) {
	if len(a) != len(b) {
		return 0, lengthMismatch(len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	rel, k, err := m.relabeler.Relabel(a, b)
	if err != nil {
		return 0, err
	}
	mapping, err := MapPositions(rel, k)
	if err != nil {
		return 0, err
	}
	return countInversions(mapping), nil
}

// Match is the full outcome of one distance computation.
type Match struct {
	// Labels is the per-position relabeling of both sequences.
	Labels Relabeling

	// LabelCount is the number of distinct values in the first sequence.
	LabelCount int

	// Mapping is the correspondence permutation: Mapping[p] is the position
	// in the second sequence paired with position p of the first.
	Mapping []int

	// Distance is the number of inversions of Mapping.
	Distance int
}

// Len returns the length of the matched sequences.
func (m *Match) Len() int { return len(m.Mapping) }

// Match runs the same steps as [Measurer.Distance] but also returns the
// intermediate relabeling and correspondence permutation.
func (m *Measurer[T]) Match(a, b []T) (*Match, error) {
	if len(a) != len(b) {
		return nil, lengthMismatch(len(a), len(b))
	}
	if len(a) == 0 {
		return &Match{Labels: Relabeling{}, Mapping: []int{}}, nil
	}
	rel, k, err := m.relabeler.Relabel(a, b)
	if err != nil {
		return nil, err
	}
	mapping, err := MapPositions(rel, k)
	if err != nil {
		return nil, err
	}
	return &Match{
		Labels:     rel,
		LabelCount: k,
		Mapping:    mapping,
		Distance:   CountInversions(mapping),
	}, nil
}

// =============================================================================
// Convenience entry points
// =============================================================================

// Distance computes the distance between two sequences of comparable values
// with the hash strategy.
func Distance[T comparable](a, b []T) (int, error) {
	return New[T]().Distance(a, b)
}

// DistanceOrdered computes the distance between two sequences of ordered
// values with strategy s.
func DistanceOrdered[T cmp.Ordered](a, b []T, s Strategy) (int, error) {
	return NewOrdered[T](s).Distance(a, b)
}

// DistanceFunc computes the distance with the sort strategy over compare.
func DistanceFunc[T any](a, b []T, compare func(x, y T) int) (int, error) {
	return NewFunc(compare).Distance(a, b)
}

// Strings computes the distance between two texts, treating each as a
// sequence of runes. Texts that are not valid UTF-8 fail with
// [ErrIncompatibleElements], since invalid bytes have no rune to compare.
func Strings(a, b string, s Strategy) (int, error) {
	if na, nb := utf8.RuneCountInString(a), utf8.RuneCountInString(b); na != nb {
		return 0, lengthMismatch(na, nb)
	}
	if !utf8.ValidString(a) {
		return 0, invalidText("a")
	}
	if !utf8.ValidString(b) {
		return 0, invalidText("b")
	}
	return NewOrdered[rune](s).Distance([]rune(a), []rune(b))
}

// NewBytes returns a Measurer for bytes. The hash strategy uses the
// table-driven [ByteRelabeler].
func NewBytes(s Strategy) *Measurer[byte] {
	if s == StrategySort {
		return NewOrdered[byte](s)
	}
	return NewWithRelabeler[byte](ByteRelabeler{})
}

// NewBools returns a Measurer for bools. The sort strategy orders false
// before true.
func NewBools(s Strategy) *Measurer[bool] {
	if s == StrategySort {
		return NewFunc(compareBools)
	}
	return New[bool]()
}

// Bytes computes the distance between two byte sequences.
func Bytes(a, b []byte, s Strategy) (int, error) {
	return NewBytes(s).Distance(a, b)
}

// Bools computes the distance between two boolean sequences.
func Bools(a, b []bool, s Strategy) (int, error) {
	return NewBools(s).Distance(a, b)
}

func compareBools(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	default:
		return 1
	}
}

// MaxDistance returns n(n-1)/2, the largest distance possible between two
// sequences of length n. It is reached by a permutation and its reversal.
func MaxDistance(n int) int {
	if n <= 1 {
		return 0
	}
	return n * (n - 1) / 2
}

// Normalized scales a distance between sequences of length n into [0, 1]
// by [MaxDistance]. It returns 0 for n <= 1.
func Normalized(d, n int) float64 {
	limit := MaxDistance(n)
	if limit == 0 {
		return 0
	}
	return float64(d) / float64(limit)
}
