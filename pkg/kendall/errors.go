package kendall

import (
	"fmt"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
)

// Sentinel errors for distance computations. Returned errors wrap one of
// these with positional detail, so match them with errors.Is.
var (
	// ErrLengthMismatch indicates the two sequences differ in length.
	ErrLengthMismatch error = apperrors.New(apperrors.ErrCodeLengthMismatch,
		"sequences must be the same length")

	// ErrIncompatibleElements indicates the sequences do not hold the same
	// multiset of values.
	ErrIncompatibleElements error = apperrors.New(apperrors.ErrCodeIncompatibleElements,
		"sequences must contain the same elements")
)

func lengthMismatch(na, nb int) error {
	return fmt.Errorf("%w: len(a)=%d, len(b)=%d", ErrLengthMismatch, na, nb)
}

func unknownElement(i int) error {
	return fmt.Errorf("%w: b[%d] does not occur in a", ErrIncompatibleElements, i)
}

func unlabelable(i int) error {
	return fmt.Errorf("%w: a[%d] is not equal to itself", ErrIncompatibleElements, i)
}

func countMismatch(label, na, nb int) error {
	return fmt.Errorf("%w: label %d occurs %d times in a and %d times in b",
		ErrIncompatibleElements, label, na, nb)
}

func invalidText(name string) error {
	return fmt.Errorf("%w: %s is not valid UTF-8", ErrIncompatibleElements, name)
}
