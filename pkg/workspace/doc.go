// Package workspace inspects the source tree whose dependency graph is drawn.
//
// [Scan] enumerates the immediate subdirectories of the examples root. Their
// names form the [ExcludedSet]: packages that are part of the workspace but
// must not appear in the published graph. The set is derived from the
// directory listing on every run, never maintained by hand, so the graph
// follows the workspace layout automatically.
//
// [Fingerprint] hashes the workspace contents. It is used as a cache key
// component so an unchanged workspace does not re-run the extractor.
//
// All functions take an [afero.Fs] so they can be exercised against an
// in-memory filesystem.
//
// [afero.Fs]: https://pkg.go.dev/github.com/spf13/afero#Fs
package workspace
