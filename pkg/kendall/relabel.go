package kendall

// LabelPair holds the labels of the elements found at one position of the
// two sequences.
type LabelPair struct {
	A int // label of a[i]
	B int // label of b[i]
}

// Relabeling is the per-position label pairs of two sequences, expressed in
// the label space derived from the first sequence.
type Relabeling []LabelPair

// Relabeler maps two equal-length sequences into a shared dense label space.
//
// Relabel returns the relabeling and the number of labels k, which equals
// the number of distinct values in a. Every label in the result lies in
// [0, k). If b holds a value that does not occur in a, Relabel fails with an
// error wrapping [ErrIncompatibleElements]. Implementations must not keep
// per-call state, so one Relabeler can serve concurrent callers.
type Relabeler[T any] interface {
	Relabel(a, b []T) (Relabeling, int, error)
}

// HashRelabeler relabels comparable values through a map. Labels are
// assigned in order of first appearance in the first sequence.
type HashRelabeler[T comparable] struct{}

// Relabel implements [Relabeler].
func (HashRelabeler[T]) Relabel(a, b []T) (Relabeling, int, error) {
	if len(a) != len(b) {
		return nil, 0, lengthMismatch(len(a), len(b))
	}

	labels := make(map[T]int, len(a))
	for _, v := range a {
		if _, ok := labels[v]; !ok {
			labels[v] = len(labels)
		}
	}

	rel := make(Relabeling, len(a))
	for i := range a {
		la, ok := labels[a[i]]
		if !ok {
			// Only values with v != v (NaN) miss their own entry.
			return nil, 0, unlabelable(i)
		}
		lb, ok := labels[b[i]]
		if !ok {
			return nil, 0, unknownElement(i)
		}
		rel[i] = LabelPair{A: la, B: lb}
	}
	return rel, len(labels), nil
}

// ByteRelabeler is a [HashRelabeler] for bytes that replaces the map with a
// direct 256-entry table.
type ByteRelabeler struct{}

// Relabel implements [Relabeler].
func (ByteRelabeler) Relabel(a, b []byte) (Relabeling, int, error) {
	if len(a) != len(b) {
		return nil, 0, lengthMismatch(len(a), len(b))
	}

	// table holds label+1; zero marks a byte absent from a.
	var table [256]int
	k := 0
	for _, v := range a {
		if table[v] == 0 {
			k++
			table[v] = k
		}
	}

	rel := make(Relabeling, len(a))
	for i := range a {
		lb := table[b[i]]
		if lb == 0 {
			return nil, 0, unknownElement(i)
		}
		rel[i] = LabelPair{A: table[a[i]] - 1, B: lb - 1}
	}
	return rel, k, nil
}

var (
	_ Relabeler[string] = HashRelabeler[string]{}
	_ Relabeler[byte]   = ByteRelabeler{}
)
