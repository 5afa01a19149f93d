// Package extract runs the external dependency-graph extractor.
//
// The extractor reads the workspace manifests and writes a DOT graph to
// stdout. This package only assembles its command line and collects the
// result; the graph text is passed on untouched as a [Description].
package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/wsgraph/internal/proc"
	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/exclude"
	"github.com/matzehuels/wsgraph/pkg/tools"
)

// Extractor flags.
const (
	FlagWorkspaceOnly = "--workspace-only"
	FlagAllDeps       = "--all-deps"
)

// Description is the extractor's graph output. It is never parsed or edited.
type Description []byte

// Extractor invokes the dependency-graph extractor.
type Extractor struct {
	Tool tools.Tool

	// Env is appended to the inherited environment.
	Env []string
}

// New returns an Extractor for the given tool.
func New(tool tools.Tool) *Extractor {
	return &Extractor{Tool: tool}
}

// Args returns the extractor arguments for the given exclusions:
// --workspace-only --all-deps followed by the fragment.
func Args(f exclude.Fragment) []string {
	args := make([]string, 0, 2+len(f))
	args = append(args, FlagWorkspaceOnly, FlagAllDeps)
	return append(args, f...)
}

// Extract runs the extractor in root and returns its stdout.
//
// A non-zero exit or empty output is a build error carrying the extractor's
// stderr. Failures are not retried: they come from missing tooling or broken
// manifests, which a second attempt does not fix.
func (e *Extractor) Extract(ctx context.Context, root string, f exclude.Fragment) (Description, error) {
	if e.Tool.IsZero() {
		return nil, errors.New(errors.ErrCodeConfiguration, "extractor not configured")
	}

	res, err := proc.Run(ctx, proc.Cmd{
		Argv: e.Tool.Command(Args(f)...),
		Dir:  root,
		Env:  e.Env,
	})
	if ctx.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "extractor interrupted")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuild, err, "extractor %s failed", e.Tool).
			WithOutput(string(res.Stderr))
	}

	out := bytes.TrimSpace(res.Stdout)
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeBuild, "extractor %s produced no output", e.Tool).
			WithOutput(string(res.Stderr))
	}
	return Description(res.Stdout), nil
}

// String returns the description as text.
func (d Description) String() string {
	return string(d)
}

// Summary returns a short human-readable size description.
func (d Description) Summary() string {
	return fmt.Sprintf("%d bytes, %d lines", len(d), bytes.Count(d, []byte("\n")))
}
