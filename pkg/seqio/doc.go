// Package seqio reads sequence pairs and batch job files.
//
// # Formats
//
// A single pair is a JSON object:
//
//	{"name": "demo", "kind": "ints", "a": [3, 1, 2], "b": [1, 2, 3]}
//
// For the "text" kind, "a" and "b" may be plain strings. A batch job file
// is TOML with one [[pair]] table per pair and optional top-level defaults:
//
//	strategy = "sort"
//	workers  = 4
//
//	[[pair]]
//	name = "letters"
//	kind = "text"
//	a    = "abcdaabb"
//	b    = "dcbababa"
//
// Token files hold whitespace-separated tokens and are read by
// [ReadTokens] for the "strings" kind.
//
// # Typed values
//
// Decoded values stay untyped ([Values]) until a caller knows the element
// kind. [ParseInts], [ParseFloats], [ParseBools], [ParseStrings] and
// [ParseBytes] convert them, accepting JSON numbers, TOML integers and
// floats, and numeric strings. Conversion errors carry the INVALID_FORMAT
// code and name the offending index.
package seqio
