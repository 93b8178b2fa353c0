package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// tenants can share one backend without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "seqdist:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DistanceKey generates a prefixed key for a sequence distance.
func (k *ScopedKeyer) DistanceKey(opts DistanceKeyOpts) string {
	return k.prefix + k.inner.DistanceKey(opts)
}

// PermKey generates a prefixed key for a permutation distance.
func (k *ScopedKeyer) PermKey(opts PermKeyOpts) string {
	return k.prefix + k.inner.PermKey(opts)
}
