package cache

import "slices"

// DescriptionKeyOpts are the inputs, besides the workspace fingerprint, that
// determine the extractor's output.
type DescriptionKeyOpts struct {
	Extractor string   `json:"extractor"`
	Excluded  []string `json:"excluded"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DescriptionKey returns the key for a graph description.
	DescriptionKey(fingerprint string, opts DescriptionKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DescriptionKey implements Keyer. The exclusion set is sorted first so the
// key does not depend on enumeration order.
func (DefaultKeyer) DescriptionKey(fingerprint string, opts DescriptionKeyOpts) string {
	excluded := slices.Clone(opts.Excluded)
	slices.Sort(excluded)
	return hashKey("dot", fingerprint, opts.Extractor, excluded)
}
