package workspace

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// skipDirs are never part of the fingerprint: VCS metadata and build output.
var skipDirs = map[string]bool{
	".git":         true,
	".direnv":      true,
	"target":       true,
	"node_modules": true,
}

// Fingerprint hashes the relative path and content of every regular file
// under root. Directories named in skipDirs, names starting with "result"
// (build symlinks), and any directories in extraSkip (relative to root) are
// ignored. Walk order is lexical, so the hash is stable across hosts.
func Fingerprint(fs afero.Fs, root string, extraSkip ...string) (string, error) {
	skip := make(map[string]bool, len(extraSkip))
	for _, p := range extraSkip {
		skip[filepath.Clean(p)] = true
	}

	h := sha256.New()
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if rel != "." && (skipDirs[info.Name()] || skip[rel]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || strings.HasPrefix(info.Name(), "result") {
			return nil
		}

		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}

		// Length prefixes keep path and content boundaries unambiguous.
		name := filepath.ToSlash(rel)
		binary.Write(h, binary.BigEndian, uint64(len(name)))
		io.WriteString(h, name)
		binary.Write(h, binary.BigEndian, uint64(len(data)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
