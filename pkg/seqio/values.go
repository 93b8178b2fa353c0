package seqio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Values is one side of a pair as decoded from JSON or TOML: either a list
// of scalars or a single text string.
type Values struct {
	Items  []any
	Text   string
	IsText bool
}

// List returns Values holding items.
func List(items ...any) Values {
	return Values{Items: items}
}

// Text returns Values holding a text string.
func Text(s string) Values {
	return Values{Text: s, IsText: true}
}

// Len returns the number of items, or the byte length of text.
func (v Values) Len() int {
	if v.IsText {
		return len(v.Text)
	}
	return len(v.Items)
}

// UnmarshalJSON accepts a JSON array or string. Numbers are kept as
// [json.Number] so integers survive without float rounding.
func (v *Values) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return fmt.Errorf("want array or string: %w", err)
	}
	*v = Values{Items: items}
	return nil
}

// MarshalJSON writes text as a JSON string and items as an array.
func (v Values) MarshalJSON() ([]byte, error) {
	if v.IsText {
		return json.Marshal(v.Text)
	}
	if v.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Items)
}

// UnmarshalTOML implements the BurntSushi/toml Unmarshaler interface.
func (v *Values) UnmarshalTOML(data any) error {
	switch d := data.(type) {
	case string:
		*v = Text(d)
	case []any:
		*v = Values{Items: d}
	default:
		return fmt.Errorf("want array or string, got %T", data)
	}
	return nil
}

// SplitList splits a comma separated list, trimming space around each item.
// An empty or blank string yields an empty list.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// ListOf converts strings into untyped Values.
func ListOf(items []string) Values {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return Values{Items: out}
}
