package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/seqdist/pkg/observability"
)

// isolate points config and cache lookups at fresh temporary directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)
}

// runCLI executes the root command with args and returns what the command
// wrote to its output stream.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeJSON(t *testing.T, s string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
}

func TestDistanceCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "distance", "--json", "abcdaabb", "dcbababa")
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	var res map[string]any
	decodeJSON(t, out, &res)
	if res["distance"] != float64(9) || res["kind"] != "text" || res["cached"] != false {
		t.Errorf("result = %v", res)
	}

	// The file cache serves the second run.
	out, err = runCLI(t, "distance", "--json", "abcdaabb", "dcbababa")
	if err != nil {
		t.Fatal(err)
	}
	decodeJSON(t, out, &res)
	if res["cached"] != true {
		t.Errorf("second run should be cached: %v", res)
	}

	out, err = runCLI(t, "distance", "--json", "--kind", "ints", "--strategy", "sort", "3,1,2", "1,2,3")
	if err != nil {
		t.Fatal(err)
	}
	decodeJSON(t, out, &res)
	if res["distance"] != float64(2) || res["strategy"] != "sort" {
		t.Errorf("ints result = %v", res)
	}
}

func TestDistanceCommandExplain(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "distance", "--explain", "--json", "--no-cache", "abcdaabb", "dcbababa")
	if err != nil {
		t.Fatal(err)
	}
	var ex explanationJSON
	decodeJSON(t, out, &ex)
	want := []int{3, 2, 1, 0, 5, 7, 4, 6}
	if ex.Distance != 9 || len(ex.Mapping) != len(want) {
		t.Fatalf("explanation = %+v", ex)
	}
	for i := range want {
		if ex.Mapping[i] != want[i] {
			t.Errorf("Mapping[%d] = %d, want %d", i, ex.Mapping[i], want[i])
		}
	}

	out, err = runCLI(t, "distance", "--explain", "--no-cache", "ab", "ba")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "distance") || !strings.Contains(out, "A pos") {
		t.Errorf("table output = %q", out)
	}
}

func TestDistanceCommandFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "pair.json")
	if err := os.WriteFile(path, []byte(`{"kind":"strings","a":["x","y","z"],"b":["z","y","x"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "distance", "--json", "--file", path)
	if err != nil {
		t.Fatal(err)
	}
	var res map[string]any
	decodeJSON(t, out, &res)
	if res["distance"] != float64(3) || res["kind"] != "strings" {
		t.Errorf("result = %v", res)
	}

	if _, err := runCLI(t, "distance", "--file", path, "a", "b"); err == nil {
		t.Error("file plus arguments should fail")
	}
}

func TestDistanceCommandErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"one argument", []string{"distance", "abc"}},
		{"length mismatch", []string{"distance", "abc", "ab"}},
		{"incompatible", []string{"distance", "abc", "abd"}},
		{"bad kind", []string{"distance", "--kind", "matrix", "a", "a"}},
		{"missing file", []string{"distance", "--file", "/does/not/exist.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "distance", "abc", "ab")
	if got := ExitCode(err); got != ExitInvalidData {
		t.Errorf("length mismatch exit = %d, want %d (err %v)", got, ExitInvalidData, err)
	}
	if got := ExitCode(nil); got != ExitOK {
		t.Errorf("nil exit = %d", got)
	}
	if got := ExitCode(fmt.Errorf("batch: %w", context.Canceled)); got != ExitInterrupted {
		t.Errorf("cancelled exit = %d", got)
	}
	if got := ExitCode(errors.New("disk full")); got != ExitFailure {
		t.Errorf("plain error exit = %d", got)
	}
}

func TestBatchCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.toml")
	if err := os.WriteFile(good, []byte(`
kind = "ints"

[[pair]]
name = "rev"
a = [2, 1, 0]
b = [0, 1, 2]

[[pair]]
name = "text"
kind = "text"
a = "abcdaabb"
b = "dcbababa"
`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "batch", "--json", "--workers", "2", good)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	var entries []batchEntryJSON
	decodeJSON(t, out, &entries)
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Name != "rev" || entries[0].Result.Distance != 3 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Name != "text" || entries[1].Result.Distance != 9 {
		t.Errorf("entries[1] = %+v", entries[1])
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte(`
[[pair]]
a = "abc"
b = "ab"

[[pair]]
a = "ab"
b = "ba"
`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "batch", "--json", bad)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 pairs failed") {
		t.Errorf("err = %v, want one failed pair", err)
	}
	decodeJSON(t, out, &entries)
	if entries[0].Error == "" || entries[1].Result == nil || entries[1].Name != "pair-2" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestPermCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "perm", "--json", "0,1,2,3", "3,1,2,0")
	if err != nil {
		t.Fatal(err)
	}
	var res map[string]any
	decodeJSON(t, out, &res)
	if res["distance"] != float64(5) || res["max"] != float64(6) {
		t.Errorf("result = %v", res)
	}

	out, err = runCLI(t, "perm", "--json", "--weights", "1,2,3", "0,1,2", "2,1,0")
	if err != nil {
		t.Fatal(err)
	}
	decodeJSON(t, out, &res)
	if res["distance"] != float64(11) || res["weighted"] != true {
		t.Errorf("weighted result = %v", res)
	}

	if _, err := runCLI(t, "perm", "0,0", "0,1"); err == nil {
		t.Error("non-permutation should fail")
	}
}

func TestPermRequest(t *testing.T) {
	req, err := permRequest("0, 1, 2", "2,1,0", "1.5,2,3")
	if err != nil {
		t.Fatal(err)
	}
	if len(req.P1) != 3 || req.P2[0] != 2 || req.Weights[0] != 1.5 {
		t.Errorf("req = %+v", req)
	}

	for _, args := range [][3]string{{"0,x", "0,1", ""}, {"0,1", "1,y", ""}, {"0,1", "1,0", "1,z"}} {
		if _, err := permRequest(args[0], args[1], args[2]); err == nil {
			t.Errorf("permRequest%v should fail", args)
		}
	}
}

func TestVisualizeCommandDOT(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "visualize", "--format", "dot", "abc", "cba")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "distance = 3") {
		t.Errorf("dot output = %q", out)
	}

	path := filepath.Join(t.TempDir(), "out.dot")
	if _, err := runCLI(t, "visualize", "-o", path, "ab", "ba"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph") {
		t.Errorf("file does not hold DOT: %q", data)
	}

	if _, err := runCLI(t, "visualize", "--format", "pdf", "ab", "ba"); err == nil {
		t.Error("unknown format should fail")
	}
	if _, err := runCLI(t, "visualize", "--format", "png", "ab", "ba"); err == nil {
		t.Error("png without output should fail")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"":          "svg",
		"out.svg":   "svg",
		"out.png":   "png",
		"graph.dot": "dot",
		"graph.gv":  "dot",
	}
	for path, want := range tests {
		if got := formatFromPath(path); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[engine]") || !strings.Contains(out, `strategy = "hash"`) {
		t.Errorf("config show = %q", out)
	}

	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[engine]\nstrategy = \"sort\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `strategy = "sort"`) {
		t.Errorf("config show with file = %q", out)
	}

	out, err = runCLI(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}

	if err := os.WriteFile(path, []byte("[engine]\nstrategy = \"radix\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "--config", path, "distance", "a", "a"); err == nil {
		t.Error("invalid config should fail every command")
	}
}

func TestCacheCommands(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	dir := strings.TrimSpace(out)
	if want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName); dir != want {
		t.Errorf("cache path = %q, want %q", dir, want)
	}

	if _, err := runCLI(t, "distance", "ab", "ba"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("cache dir should hold entries: %v", err)
	}

	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "distance", "--json", "ab", "ba")
	if err != nil {
		t.Fatal(err)
	}
	var res map[string]any
	decodeJSON(t, out, &res)
	if res["cached"] != false {
		t.Error("cleared cache should not serve results")
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "completion", "zsh")
	if err != nil {
		t.Errorf("completion zsh: %v", err)
	}
	if !strings.Contains(out, "seqdist") {
		t.Error("zsh script should name the seqdist command")
	}

	// Cobra's hidden __complete command drives dynamic completion.
	out, err = runCLI(t, "__complete", "distance", "--strategy", "")
	if err != nil {
		t.Fatalf("__complete: %v", err)
	}
	if !strings.Contains(out, "hash") || !strings.Contains(out, "sort") {
		t.Errorf("strategy completions = %q", out)
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
