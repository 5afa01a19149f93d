package workspace

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/matzehuels/wsgraph/pkg/errors"
)

// DefaultExamplesDir is the examples root relative to the workspace root.
const DefaultExamplesDir = "examples"

// ExcludedSet is the sorted, duplicate-free list of package names to exclude.
type ExcludedSet []string

// Contains reports whether name is excluded.
func (s ExcludedSet) Contains(name string) bool {
	_, found := slices.BinarySearch(s, name)
	return found
}

// Len returns the number of excluded packages.
func (s ExcludedSet) Len() int {
	return len(s)
}

// NewExcludedSet sorts and deduplicates names.
func NewExcludedSet(names []string) ExcludedSet {
	out := slices.Clone(names)
	slices.Sort(out)
	return ExcludedSet(slices.Compact(out))
}

// Scan lists the immediate subdirectories of root/examplesDir.
//
// A missing examples root is a configuration error rather than an empty set:
// it usually means the layout moved and the exclusions would silently stop
// applying. Regular files in the examples root are ignored.
func Scan(fs afero.Fs, root, examplesDir string) (ExcludedSet, error) {
	if examplesDir == "" {
		examplesDir = DefaultExamplesDir
	}
	dir := filepath.Join(root, examplesDir)

	info, err := fs.Stat(dir)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeConfiguration, "examples root %s does not exist", dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "stat examples root %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeConfiguration, "examples root %s is not a directory", dir)
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "read examples root %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return NewExcludedSet(names), nil
}
