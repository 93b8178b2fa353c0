package seqio

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
)

func badItem(i int, v any, want string) error {
	return apperrors.New(apperrors.ErrCodeInvalidFormat, "item %d: cannot use %v (%T) as %s", i, v, v, want)
}

// ParseInts converts items to ints. Accepted item types are Go integers,
// integral float64 values, json.Number and decimal strings.
func ParseInts(items []any) ([]int, error) {
	out := make([]int, len(items))
	for i, v := range items {
		n, ok := toInt(v)
		if !ok {
			return nil, badItem(i, v, "integer")
		}
		out[i] = n
	}
	return out, nil
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case int32:
		return int(x), true
	case float64:
		if x != math.Trunc(x) || x < math.MinInt || x >= -math.MinInt {
			return 0, false
		}
		return int(x), true
	case json.Number:
		n, err := strconv.Atoi(x.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}

// ParseFloats converts items to float64. Integers, floats, json.Number and
// strings accepted by [strconv.ParseFloat] (including "NaN") are allowed.
func ParseFloats(items []any) ([]float64, error) {
	out := make([]float64, len(items))
	for i, v := range items {
		f, ok := toFloat(v)
		if !ok {
			return nil, badItem(i, v, "number")
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// ParseBools converts items to bools. Strings are parsed with
// [strconv.ParseBool], so "1", "t" and "true" are all true.
func ParseBools(items []any) ([]bool, error) {
	out := make([]bool, len(items))
	for i, v := range items {
		switch x := v.(type) {
		case bool:
			out[i] = x
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return nil, badItem(i, v, "bool")
			}
			out[i] = b
		default:
			return nil, badItem(i, v, "bool")
		}
	}
	return out, nil
}

// ParseStrings converts items to strings. Strings pass through unchanged;
// numbers and bools are formatted.
func ParseStrings(items []any) ([]string, error) {
	out := make([]string, len(items))
	for i, v := range items {
		switch x := v.(type) {
		case string:
			out[i] = x
		case json.Number:
			out[i] = x.String()
		case int, int64, float64, bool:
			out[i] = strings.TrimSpace(jsonScalar(x))
		default:
			return nil, badItem(i, v, "string")
		}
	}
	return out, nil
}

func jsonScalar(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// ParseBytes converts integers in [0, 255] to bytes.
func ParseBytes(items []any) ([]byte, error) {
	out := make([]byte, len(items))
	for i, v := range items {
		n, ok := toInt(v)
		if !ok || n < 0 || n > 255 {
			return nil, badItem(i, v, "byte")
		}
		out[i] = byte(n)
	}
	return out, nil
}
