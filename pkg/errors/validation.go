package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// graphNameRegex matches names usable as an artifact basename.
var graphNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateGraphName validates the name used for media/<name>.svg.
func ValidateGraphName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "graph name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidName, "graph name too long (max 128 characters)")
	}
	if !graphNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid graph name: %q", name)
	}
	return nil
}

// ValidatePackageName validates a directory name before it is passed to the
// extractor as an exclusion. Names that look like flags or contain separators
// would change the meaning of the extractor's command line.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "package name cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidName, "package name %q contains whitespace or control characters", name)
		}
	}

	if strings.HasPrefix(name, "-") {
		return New(ErrCodeInvalidName, "package name %q cannot start with '-'", name)
	}

	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidName, "package name %q cannot contain path separators", name)
	}

	return nil
}

// ValidatePath validates a repository-relative path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
