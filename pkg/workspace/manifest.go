package workspace

import (
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// ManifestFile is the workspace manifest at the workspace root.
const ManifestFile = "Cargo.toml"

type cargoWorkspace struct {
	Workspace struct {
		Members []string `toml:"members"`
		Exclude []string `toml:"exclude"`
	} `toml:"workspace"`
}

// Members returns the member paths declared in the workspace manifest, in
// declaration order. Glob members ("crates/*") are expanded against fs.
//
// Only the [workspace] table is read; dependency edges are the extractor's
// business.
func Members(fs afero.Fs, root string) ([]string, error) {
	data, err := afero.ReadFile(fs, filepath.Join(root, ManifestFile))
	if err != nil {
		return nil, err
	}

	var m cargoWorkspace
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(m.Workspace.Exclude))
	for _, e := range m.Workspace.Exclude {
		excluded[filepath.Clean(e)] = true
	}

	var members []string
	for _, pattern := range m.Workspace.Members {
		matches, err := afero.Glob(fs, filepath.Join(root, pattern))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			matches = []string{filepath.Join(root, pattern)}
		}
		for _, match := range matches {
			rel, err := filepath.Rel(root, match)
			if err != nil {
				return nil, err
			}
			if !excluded[rel] {
				members = append(members, filepath.ToSlash(rel))
			}
		}
	}
	return members, nil
}

// Unlisted returns the names in excluded whose examples/<name> directory is
// not a workspace member. Excluding such a package is a no-op for the
// extractor, which usually means the manifest and the directory layout have
// drifted apart.
func Unlisted(members []string, examplesDir string, excluded ExcludedSet) []string {
	if examplesDir == "" {
		examplesDir = DefaultExamplesDir
	}
	listed := make(map[string]bool, len(members))
	for _, m := range members {
		listed[filepath.ToSlash(filepath.Clean(m))] = true
	}

	var out []string
	for _, name := range excluded {
		if !listed[filepath.ToSlash(filepath.Join(examplesDir, name))] {
			out = append(out, name)
		}
	}
	return out
}
