// Package exclude turns excluded package names into extractor arguments.
package exclude

import "strings"

// Flag is the extractor's exclusion directive.
const Flag = "--exclude"

// Fragment is the argument list produced for a set of names, e.g.
// ["--exclude", "a", "--exclude", "b"]. An empty Fragment excludes nothing.
type Fragment []string

// New maps each name to an exclusion directive, preserving input order.
// Callers pass a sorted set so the resulting command line is stable.
func New(names []string) Fragment {
	if len(names) == 0 {
		return nil
	}
	f := make(Fragment, 0, 2*len(names))
	for _, name := range names {
		f = append(f, Flag, name)
	}
	return f
}

// String joins the fragment with single spaces.
func (f Fragment) String() string {
	return strings.Join(f, " ")
}

// Names returns the package names named by the fragment.
func (f Fragment) Names() []string {
	names := make([]string, 0, len(f)/2)
	for i := 0; i+1 < len(f); i += 2 {
		if f[i] == Flag {
			names = append(names, f[i+1])
		}
	}
	return names
}
