// Package cache stores computed distance results keyed by their inputs.
//
// A [Cache] holds opaque byte payloads with an optional TTL. Three backends
// are provided:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//
// Keys are produced by a [Keyer] so that all callers agree on the layout.
// [ScopedKeyer] prefixes every key, which lets several deployments share
// one Redis database.
//
// Cache errors are never fatal to a computation: callers treat a failed
// Get as a miss and ignore failed Sets.
package cache

import (
	"context"
	"time"
)

// TTL values for cached entries. Distances never change for the same input,
// so the TTLs only bound disk and memory growth.
const (
	TTLDistance = 7 * 24 * time.Hour
	TTLPerm     = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the payload stored under key. A miss is reported as
	// (nil, false, nil), not as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys for the cached operations.
type Keyer interface {
	// DistanceKey returns the key for a sequence distance result.
	DistanceKey(opts DistanceKeyOpts) string

	// PermKey returns the key for a permutation distance result.
	PermKey(opts PermKeyOpts) string
}

// DistanceKeyOpts identifies a sequence distance computation.
type DistanceKeyOpts struct {
	Kind     string // element kind, e.g. "ints" or "text"
	Strategy string // relabeling strategy name
	Input    []byte // canonical encoding of both sequences
}

// PermKeyOpts identifies a permutation distance computation.
type PermKeyOpts struct {
	P1, P2  []int
	Weights []float64
}

// DefaultKeyer is the standard [Keyer].
//
// Keys have the form "<operation>:<sha256 hex>" where the hash covers every
// field that influences the result.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DistanceKey implements [Keyer].
func (DefaultKeyer) DistanceKey(opts DistanceKeyOpts) string {
	return hashKey("distance", []byte(opts.Kind), []byte(opts.Strategy), opts.Input)
}

// PermKey implements [Keyer].
func (DefaultKeyer) PermKey(opts PermKeyOpts) string {
	return hashKey("perm", intsBytes(opts.P1), intsBytes(opts.P2), floatsBytes(opts.Weights))
}
