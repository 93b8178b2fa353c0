package seqio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
)

// Pair is one distance request: two sequences of the same element kind.
type Pair struct {
	Name     string `json:"name,omitempty" toml:"name"`
	Kind     string `json:"kind,omitempty" toml:"kind"`
	Strategy string `json:"strategy,omitempty" toml:"strategy"`
	A        Values `json:"a" toml:"a"`
	B        Values `json:"b" toml:"b"`
}

// JobFile is a decoded batch job file.
type JobFile struct {
	Strategy string `toml:"strategy"`
	Kind     string `toml:"kind"`
	Workers  int    `toml:"workers"`
	Pairs    []Pair `toml:"pair"`
}

// ReadPair decodes one JSON pair from r. Unknown fields are rejected.
// ReadPair does not close r.
func ReadPair(r io.Reader) (*Pair, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var p Pair
	if err := dec.Decode(&p); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode pair")
	}
	return &p, nil
}

// ImportPair reads a JSON pair from the file at path.
func ImportPair(path string) (*Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadPair(f)
}

// ReadJobs decodes a TOML job file from r. Top-level kind and strategy
// fill in pairs that leave them empty. Keys the decoder does not know are
// reported as INVALID_FORMAT so typos do not pass silently.
func ReadJobs(r io.Reader) (*JobFile, error) {
	var jf JobFile
	md, err := toml.NewDecoder(r).Decode(&jf)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode job file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown keys in job file: %s", strings.Join(keys, ", "))
	}
	for i := range jf.Pairs {
		p := &jf.Pairs[i]
		if p.Kind == "" {
			p.Kind = jf.Kind
		}
		if p.Strategy == "" {
			p.Strategy = jf.Strategy
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("pair-%d", i+1)
		}
	}
	return &jf, nil
}

// ImportJobs reads a TOML job file from path.
func ImportJobs(path string) (*JobFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJobs(f)
}

// ReadTokens returns the whitespace separated tokens of r.
func ReadTokens(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)
	tokens := []string{}
	for sc.Scan() {
		tokens = append(tokens, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}
	return tokens, nil
}
