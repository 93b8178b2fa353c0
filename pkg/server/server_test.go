package server

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdist/pkg/cache"
	"github.com/matzehuels/seqdist/pkg/pipeline"
	"github.com/matzehuels/seqdist/pkg/store"
)

func newTestServer(t *testing.T, st store.Store, cfg Config) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := pipeline.NewRunner(fc, nil, st, logger)
	ts := httptest.NewServer(New(runner, cfg, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, decodeBody(t, resp)
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDEcho(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "trace-42" {
		t.Errorf("request id = %q, want trace-42", got)
	}

	if validRequestID("has space") || validRequestID(strings.Repeat("x", 129)) {
		t.Error("invalid ids accepted")
	}
}

func TestDistance(t *testing.T) {
	ts := newTestServer(t, nil, Config{})

	resp, body := post(t, ts, "/v1/distance", `{"a":"abcdaabb","b":"dcbababa"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["distance"] != float64(9) || body["length"] != float64(8) || body["kind"] != "text" {
		t.Errorf("body = %v", body)
	}

	_, body = post(t, ts, "/v1/distance", `{"a":"abcdaabb","b":"dcbababa"}`)
	if body["cached"] != true {
		t.Error("second request should be served from cache")
	}
	_, body = post(t, ts, "/v1/distance?refresh=true", `{"a":"abcdaabb","b":"dcbababa"}`)
	if body["cached"] != false {
		t.Error("refresh should bypass the cache")
	}

	_, body = post(t, ts, "/v1/distance", `{"kind":"ints","strategy":"sort","a":[2,1,0],"b":[0,1,2]}`)
	if body["distance"] != float64(3) || body["strategy"] != "sort" {
		t.Errorf("ints body = %v", body)
	}
}

func TestDistanceErrors(t *testing.T) {
	ts := newTestServer(t, nil, Config{MaxLength: 4})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"length mismatch", "/v1/distance", `{"a":"abc","b":"ab"}`, 422, "LENGTH_MISMATCH"},
		{"incompatible", "/v1/distance", `{"a":"abc","b":"abd"}`, 422, "INCOMPATIBLE_ELEMENTS"},
		{"bad kind", "/v1/distance", `{"kind":"matrix","a":[],"b":[]}`, 400, "INVALID_KIND"},
		{"bad strategy", "/v1/distance", `{"strategy":"radix","a":"a","b":"a"}`, 400, "INVALID_STRATEGY"},
		{"unknown field", "/v1/distance", `{"a":"a","b":"a","c":1}`, 400, "INVALID_FORMAT"},
		{"trailing data", "/v1/distance", `{"a":"a","b":"a"} {}`, 400, "INVALID_FORMAT"},
		{"not json", "/v1/distance", `abc`, 400, "INVALID_FORMAT"},
		{"too long", "/v1/distance", `{"a":"abcde","b":"edcba"}`, 400, "INVALID_INPUT"},
		{"bad refresh", "/v1/distance?refresh=maybe", `{"a":"a","b":"a"}`, 400, "INVALID_INPUT"},
		{"perm too long", "/v1/permutations/kendall", `{"p1":[0,1,2,3,4],"p2":[0,1,2,3,4]}`, 400, "INVALID_INPUT"},
		{"not a permutation", "/v1/permutations/kendall", `{"p1":[0,0],"p2":[0,1]}`, 400, "INVALID_PERMUTATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (body %v)", resp.StatusCode, tt.status, body)
			}
			if got := errorCode(body); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, nil, Config{MaxBodyBytes: 16})
	resp, body := post(t, ts, "/v1/distance", `{"a":"abcdefgh","b":"hgfedcba"}`)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413 (body %v)", resp.StatusCode, body)
	}
}

func TestExplain(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	resp, body := post(t, ts, "/v1/explain", `{"a":"abcdaabb","b":"dcbababa"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["distance"] != float64(9) || body["label_count"] != float64(4) {
		t.Errorf("body = %v", body)
	}
	mapping, _ := body["mapping"].([]any)
	want := []float64{3, 2, 1, 0, 5, 7, 4, 6}
	if len(mapping) != len(want) {
		t.Fatalf("mapping = %v", mapping)
	}
	for i, v := range want {
		if mapping[i] != v {
			t.Errorf("mapping[%d] = %v, want %v", i, mapping[i], v)
		}
	}
	if a, _ := body["a"].([]any); len(a) != 8 || a[0] != "a" {
		t.Errorf("labels a = %v", body["a"])
	}
}

func TestBatch(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	resp, body := post(t, ts, "/v1/batch", `{
		"kind": "ints",
		"workers": 2,
		"pairs": [
			{"name": "rev", "a": [2,1,0], "b": [0,1,2]},
			{"name": "bad", "a": [1,2], "b": [1]},
			{"name": "same", "a": "1,2,3", "b": "1,2,3"}
		]
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["failed"] != float64(1) {
		t.Errorf("failed = %v, want 1", body["failed"])
	}
	results, _ := body["results"].([]any)
	if len(results) != 3 {
		t.Fatalf("results = %v", results)
	}
	names := []string{"rev", "bad", "same"}
	for i, r := range results {
		entry := r.(map[string]any)
		if entry["name"] != names[i] {
			t.Errorf("results[%d].name = %v, want %s", i, entry["name"], names[i])
		}
	}
	first := results[0].(map[string]any)["result"].(map[string]any)
	if first["distance"] != float64(3) {
		t.Errorf("rev distance = %v", first["distance"])
	}
	bad := results[1].(map[string]any)
	if e, _ := bad["error"].(map[string]any); e["code"] != "LENGTH_MISMATCH" {
		t.Errorf("bad error = %v", bad["error"])
	}
}

func TestPermutation(t *testing.T) {
	ts := newTestServer(t, nil, Config{})

	_, body := post(t, ts, "/v1/permutations/kendall", `{"p1":[0,1,2,3],"p2":[3,2,1,0]}`)
	if body["distance"] != float64(6) || body["normalized"] != float64(1) || body["weighted"] != false {
		t.Errorf("plain body = %v", body)
	}

	_, body = post(t, ts, "/v1/permutations/kendall", `{"p1":[0,1,2],"p2":[2,1,0],"weights":[1,2,3]}`)
	if body["distance"] != float64(11) || body["max"] != float64(11) || body["weighted"] != true {
		t.Errorf("weighted body = %v", body)
	}

	_, body = post(t, ts, "/v1/permutations/kendall", `{"p1":[0,1,2,3],"p2":[3,2,1,0]}`)
	if body["cached"] != true {
		t.Errorf("repeated request should be cached, body = %v", body)
	}

	// Finite weights whose products overflow float64.
	resp, body := post(t, ts, "/v1/permutations/kendall", `{"p1":[0,1],"p2":[1,0],"weights":[1e200,1e200]}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(body) != "INVALID_INPUT" {
		t.Errorf("overflow: status = %d, body %v", resp.StatusCode, body)
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"x": math.Inf(1)})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q: %v", rec.Body.String(), err)
	}
	if errorCode(body) != "INTERNAL_ERROR" {
		t.Errorf("body = %v", body)
	}
}

func TestResults(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		ts := newTestServer(t, nil, Config{})
		resp, body := get(t, ts, "/v1/results")
		if resp.StatusCode != http.StatusNotFound || errorCode(body) != "NOT_FOUND" {
			t.Errorf("status = %d, body %v", resp.StatusCode, body)
		}
	})

	t.Run("history", func(t *testing.T) {
		st := store.NewMemoryStore(10)
		ts := newTestServer(t, st, Config{})
		post(t, ts, "/v1/distance", `{"name":"one","a":"ab","b":"ba"}`)
		post(t, ts, "/v1/distance", `{"name":"two","a":"abc","b":"cba"}`)

		resp, body := get(t, ts, "/v1/results?limit=1")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		results, _ := body["results"].([]any)
		if len(results) != 1 {
			t.Fatalf("results = %v", results)
		}
		if st.Len() != 2 {
			t.Errorf("store holds %d records, want 2", st.Len())
		}

		resp, _ = get(t, ts, "/v1/results?limit=zero")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("bad limit status = %d", resp.StatusCode)
		}
	})
}

func TestRouting(t *testing.T) {
	ts := newTestServer(t, nil, Config{})

	resp, body := get(t, ts, "/v2/nothing")
	if resp.StatusCode != http.StatusNotFound || errorCode(body) != "NOT_FOUND" {
		t.Errorf("unknown route: status %d, body %v", resp.StatusCode, body)
	}

	resp, body = get(t, ts, "/v1/distance")
	if resp.StatusCode != http.StatusMethodNotAllowed || errorCode(body) != "METHOD_NOT_ALLOWED" {
		t.Errorf("wrong method: status %d, body %v", resp.StatusCode, body)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	s := New(pipeline.NewRunner(nil, nil, nil, logger), Config{Addr: "127.0.0.1:0"}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Errorf("ListenAndServe after cancel = %v", err)
	}
}
