package pipeline

import (
	"strconv"
	"unicode/utf8"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
	"github.com/matzehuels/seqdist/pkg/kendall"
	"github.com/matzehuels/seqdist/pkg/seqio"
)

// Explanation is a distance computation with its intermediate structures,
// plus a display label for every element of both sequences.
type Explanation struct {
	Match   *kendall.Match
	LabelsA []string
	LabelsB []string
}

// sequences is a typed pair ready for measuring.
type sequences interface {
	Len() int
	Distance() (int, error)
	Explain() (*Explanation, error)

	// Canonical encodes both sequences unambiguously for cache keys.
	Canonical() []byte
}

type typedPair[T any] struct {
	m      *kendall.Measurer[T]
	a, b   []T
	format func(T) string
}

func (p typedPair[T]) Len() int { return len(p.a) }

func (p typedPair[T]) Distance() (int, error) { return p.m.Distance(p.a, p.b) }

func (p typedPair[T]) Explain() (*Explanation, error) {
	match, err := p.m.Match(p.a, p.b)
	if err != nil {
		return nil, err
	}
	return &Explanation{
		Match:   match,
		LabelsA: formatAll(p.a, p.format),
		LabelsB: formatAll(p.b, p.format),
	}, nil
}

func (p typedPair[T]) Canonical() []byte {
	var buf []byte
	for _, side := range [][]T{p.a, p.b} {
		buf = strconv.AppendInt(buf, int64(len(side)), 10)
		buf = append(buf, '|')
		for _, v := range side {
			label := p.format(v)
			buf = strconv.AppendInt(buf, int64(len(label)), 10)
			buf = append(buf, ':')
			buf = append(buf, label...)
		}
	}
	return buf
}

func formatAll[T any](s []T, format func(T) string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = format(v)
	}
	return out
}

// items returns the list form of v; a text value is read as a comma
// separated list.
func items(v seqio.Values) []any {
	if v.IsText {
		return seqio.ListOf(seqio.SplitList(v.Text)).Items
	}
	return v.Items
}

// parseBoth applies parse to both sides, naming the failing side.
func parseBoth[T any](pair seqio.Pair, parse func([]any) ([]T, error)) ([]T, []T, error) {
	a, err := parse(items(pair.A))
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "sequence a")
	}
	b, err := parse(items(pair.B))
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "sequence b")
	}
	return a, b, nil
}

// typed converts pair into sequences of the given kind.
func typed(kind string, s kendall.Strategy, pair seqio.Pair) (sequences, error) {
	switch kind {
	case KindText:
		if !pair.A.IsText || !pair.B.IsText {
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "kind %q needs string values for a and b", kind)
		}
		if !utf8.ValidString(pair.A.Text) || !utf8.ValidString(pair.B.Text) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "text is not valid UTF-8")
		}
		return typedPair[rune]{
			m: kendall.NewOrdered[rune](s), a: []rune(pair.A.Text), b: []rune(pair.B.Text),
			format: func(r rune) string { return string(r) },
		}, nil

	case KindStrings:
		a, b, err := parseBoth(pair, seqio.ParseStrings)
		if err != nil {
			return nil, err
		}
		return typedPair[string]{
			m: kendall.NewOrdered[string](s), a: a, b: b,
			format: func(v string) string { return v },
		}, nil

	case KindInts:
		a, b, err := parseBoth(pair, seqio.ParseInts)
		if err != nil {
			return nil, err
		}
		return typedPair[int]{m: kendall.NewOrdered[int](s), a: a, b: b, format: strconv.Itoa}, nil

	case KindFloats:
		a, b, err := parseBoth(pair, seqio.ParseFloats)
		if err != nil {
			return nil, err
		}
		return typedPair[float64]{
			m: kendall.NewOrdered[float64](s), a: a, b: b,
			format: func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) },
		}, nil

	case KindBools:
		a, b, err := parseBoth(pair, seqio.ParseBools)
		if err != nil {
			return nil, err
		}
		return typedPair[bool]{m: kendall.NewBools(s), a: a, b: b, format: strconv.FormatBool}, nil

	case KindBytes:
		var a, b []byte
		if pair.A.IsText && pair.B.IsText {
			a, b = []byte(pair.A.Text), []byte(pair.B.Text)
		} else {
			var err error
			if a, b, err = parseBoth(pair, seqio.ParseBytes); err != nil {
				return nil, err
			}
		}
		return typedPair[byte]{
			m: kendall.NewBytes(s), a: a, b: b,
			format: func(c byte) string { return strconv.Itoa(int(c)) },
		}, nil
	}
	return nil, ValidateKind(kind)
}
