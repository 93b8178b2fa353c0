package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache("--no-cache")
	defer c.Close()

	if reason, ok := DisabledReason(c); !ok || reason != "--no-cache" {
		t.Errorf("DisabledReason = %q, %v", reason, ok)
	}
	if _, ok := DisabledReason(&FileCache{}); ok {
		t.Error("a file cache is not disabled")
	}

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k1", []byte(`{"distance":9}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k1")
	if err != nil || !hit {
		t.Fatalf("Get(k1) = hit %v, err %v", hit, err)
	}
	if string(data) != `{"distance":9}` {
		t.Errorf("Get(k1) = %s", data)
	}

	// Overwrite
	if err := c.Set(ctx, "k1", []byte("v2"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k1"); string(data) != "v2" {
		t.Errorf("after overwrite Get(k1) = %s", data)
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry returned as hit")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry present after Clear")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("cache dir should survive Clear: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	d1 := k.DistanceKey(DistanceKeyOpts{Kind: "ints", Strategy: "hash", Input: []byte("[1,2]")})
	d2 := k.DistanceKey(DistanceKeyOpts{Kind: "ints", Strategy: "sort", Input: []byte("[1,2]")})
	d3 := k.DistanceKey(DistanceKeyOpts{Kind: "floats", Strategy: "hash", Input: []byte("[1,2]")})
	d4 := k.DistanceKey(DistanceKeyOpts{Kind: "ints", Strategy: "hash", Input: []byte("[2,1]")})
	if d1 == d2 || d1 == d3 || d1 == d4 {
		t.Error("every option should change the distance key")
	}
	if !strings.HasPrefix(d1, "distance:") {
		t.Errorf("DistanceKey unexpected: %s", d1)
	}
	if d1 != k.DistanceKey(DistanceKeyOpts{Kind: "ints", Strategy: "hash", Input: []byte("[1,2]")}) {
		t.Error("DistanceKey should be deterministic")
	}

	p1 := k.PermKey(PermKeyOpts{P1: []int{0, 1}, P2: []int{1, 0}})
	p2 := k.PermKey(PermKeyOpts{P1: []int{0, 1}, P2: []int{1, 0}, Weights: []float64{1, 2}})
	if p1 == p2 {
		t.Error("weights should change the perm key")
	}
	if !strings.HasPrefix(p1, "perm:") {
		t.Errorf("PermKey unexpected: %s", p1)
	}
	if k.PermKey(PermKeyOpts{}) == k.PermKey(PermKeyOpts{Weights: []float64{}}) {
		t.Error("empty weights should not share the unweighted key")
	}
	if k.PermKey(PermKeyOpts{P1: []int{0, 1}, P2: []int{2}}) == k.PermKey(PermKeyOpts{P1: []int{0}, P2: []int{1, 2}}) {
		t.Error("the split between p1 and p2 should change the perm key")
	}
}

func TestHashKeyPartBoundaries(t *testing.T) {
	if hashKey("x", []byte("ab"), []byte("c")) == hashKey("x", []byte("a"), []byte("bc")) {
		t.Error("moving bytes between parts should change the key")
	}
	if got := Hash([]byte("abc")); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("Hash(abc) = %s", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:1:")

	opts := DistanceKeyOpts{Kind: "text", Strategy: "hash", Input: []byte("ab")}
	if got, want := scoped.DistanceKey(opts), "tenant:1:"+inner.DistanceKey(opts); got != want {
		t.Errorf("ScopedKeyer DistanceKey = %s, want %s", got, want)
	}
	if got := scoped.PermKey(PermKeyOpts{}); !strings.HasPrefix(got, "tenant:1:perm:") {
		t.Errorf("ScopedKeyer PermKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.PermKey(PermKeyOpts{})
	if !strings.HasPrefix(key, "prefix:perm:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()
	fast := RetryPolicy{Attempts: 3, Delay: time.Millisecond}

	calls := 0
	if err := fast.Do(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	// Non-retryable errors stop immediately.
	calls = 0
	errPermanent := errors.New("WRONGTYPE")
	err := fast.Do(ctx, func() error { calls++; return errPermanent })
	if err != errPermanent || calls != 1 {
		t.Errorf("permanent: err %v, calls %d", err, calls)
	}

	calls = 0
	err = fast.Do(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("recovered: err %v, calls %d", err, calls)
	}

	calls = 0
	err = fast.Do(ctx, func() error { calls++; return Retryable(ErrUnavailable) })
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}

	// A zero policy still makes one attempt.
	calls = 0
	_ = RetryPolicy{}.Do(ctx, func() error { calls++; return Retryable(ErrUnavailable) })
	if calls != 1 {
		t.Errorf("zero policy made %d attempts", calls)
	}
}

func TestRetryPolicyContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DefaultRetry.Do(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if err := classify(redis.Nil); !errors.Is(err, redis.Nil) || IsRetryable(err) {
		t.Errorf("redis.Nil should pass through: %v", err)
	}
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	if err := classify(netErr); !IsRetryable(err) || !errors.Is(err, ErrUnavailable) {
		t.Errorf("network error should be retryable: %v", err)
	}
	if err := classify(errors.New("WRONGTYPE")); IsRetryable(err) {
		t.Errorf("command error should not be retryable: %v", err)
	}
}

func TestRedisCacheKeyAndClearGuard(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	c := NewRedisCacheFromClient(client, "seqdist:")
	if got := c.Key("distance:abc"); got != "seqdist:distance:abc" {
		t.Errorf("Key = %s", got)
	}

	bare := NewRedisCacheFromClient(client, "")
	if _, err := bare.Clear(context.Background()); err == nil {
		t.Error("Clear without prefix should refuse")
	}
}
