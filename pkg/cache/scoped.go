package cache

// ScopedKeyer wraps a Keyer with a prefix.
// A shared Redis instance serving several repositories uses one prefix per
// repository so their entries can be listed and flushed independently.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "wsgraph:my-repo:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DescriptionKey generates a prefixed description key.
func (k *ScopedKeyer) DescriptionKey(fingerprint string, opts DescriptionKeyOpts) string {
	return k.prefix + k.inner.DescriptionKey(fingerprint, opts)
}
