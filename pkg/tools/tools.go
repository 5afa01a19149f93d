// Package tools resolves the external executables the pipeline drives.
//
// Tool discovery happens once, up front, and the resulting [Toolchain] is
// passed into the pipeline explicitly. Tests build a Toolchain from stub
// scripts instead of consulting PATH.
package tools

import (
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/matzehuels/wsgraph/pkg/errors"
)

// Default command lines for the external collaborators.
const (
	DefaultExtractor = "cargo depgraph"
	DefaultRenderer  = "dot"
)

// Tool is a resolved executable plus the leading arguments that select its
// subcommand (for example "cargo" + ["depgraph"]).
type Tool struct {
	Path string
	Args []string
}

// Command returns the argument vector for invoking the tool with extra args.
func (t Tool) Command(extra ...string) []string {
	argv := make([]string, 0, 1+len(t.Args)+len(extra))
	argv = append(argv, t.Path)
	argv = append(argv, t.Args...)
	return append(argv, extra...)
}

// String renders the tool as a shell-like command line.
func (t Tool) String() string {
	return strings.Join(t.Command(), " ")
}

// IsZero reports whether the tool has not been resolved.
func (t Tool) IsZero() bool {
	return t.Path == ""
}

// Toolchain holds the resolved extractor and renderer.
// A zero Renderer is valid when the in-process renderer is used.
type Toolchain struct {
	Extractor Tool
	Renderer  Tool
}

// Resolve parses a command line and looks its executable up on PATH.
// An empty or unresolvable command is a configuration error.
func Resolve(command string) (Tool, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return Tool{}, errors.Wrap(errors.ErrCodeConfiguration, err, "parse tool command %q", command)
	}
	if len(argv) == 0 {
		return Tool{}, errors.New(errors.ErrCodeConfiguration, "tool command is empty")
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return Tool{}, errors.Wrap(errors.ErrCodeConfiguration, err, "tool %q not found", argv[0])
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	return Tool{Path: path, Args: argv[1:]}, nil
}

// ResolveToolchain resolves both collaborators. When renderer is empty only the
// extractor is resolved.
func ResolveToolchain(extractor, renderer string) (Toolchain, error) {
	var tc Toolchain
	var err error

	if tc.Extractor, err = Resolve(extractor); err != nil {
		return Toolchain{}, err
	}
	if renderer == "" {
		return tc, nil
	}
	if tc.Renderer, err = Resolve(renderer); err != nil {
		return Toolchain{}, err
	}
	return tc, nil
}
