package kendall

import (
	"cmp"
	"slices"
)

// SortRelabeler relabels values using only a total order. It sorts a copy
// of the first sequence, gives each run of equal values one label, and finds
// the label of every element by binary search.
//
// Use it for element types that are not comparable with == (slices of
// structs with a custom ordering, for example) or when hashing is
// undesirable. Build it with [NewSortRelabeler] or [NewSortRelabelerFunc];
// the zero value is not usable.
type SortRelabeler[T any] struct {
	cmp func(x, y T) int
}

// NewSortRelabeler returns a SortRelabeler ordering values with [cmp.Compare].
func NewSortRelabeler[T cmp.Ordered]() SortRelabeler[T] {
	return SortRelabeler[T]{cmp: cmp.Compare[T]}
}

// NewSortRelabelerFunc returns a SortRelabeler ordering values with compare,
// which must be a strict weak ordering returning a negative number when
// x < y, zero when x and y are equal and a positive number when x > y.
// It panics if compare is nil.
func NewSortRelabelerFunc[T any](compare func(x, y T) int) SortRelabeler[T] {
	if compare == nil {
		panic("kendall: nil compare function")
	}
	return SortRelabeler[T]{cmp: compare}
}

// Relabel implements [Relabeler].
func (r SortRelabeler[T]) Relabel(a, b []T) (Relabeling, int, error) {
	if len(a) != len(b) {
		return nil, 0, lengthMismatch(len(a), len(b))
	}
	if len(a) == 0 {
		return Relabeling{}, 0, nil
	}

	sorted := slices.Clone(a)
	slices.SortFunc(sorted, r.cmp)

	// labels[j] is the label of sorted[j]; it increments at every boundary
	// between unequal neighbours.
	labels := make([]int, len(sorted))
	current := 0
	for j := 1; j < len(sorted); j++ {
		if r.cmp(sorted[j], sorted[j-1]) != 0 {
			current++
		}
		labels[j] = current
	}

	rel := make(Relabeling, len(a))
	for i := range a {
		j, _ := slices.BinarySearchFunc(sorted, a[i], r.cmp)
		rel[i].A = labels[j]

		j, found := slices.BinarySearchFunc(sorted, b[i], r.cmp)
		if !found {
			return nil, 0, unknownElement(i)
		}
		rel[i].B = labels[j]
	}
	return rel, current + 1, nil
}

var _ Relabeler[float64] = SortRelabeler[float64]{}
