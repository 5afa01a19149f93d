package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/extract"
)

// Format is the only output format produced.
const Format = "svg"

// Backend names accepted by [New].
const (
	BackendExec    = "exec"
	BackendBuiltin = "builtin"
)

// Image is a rendered SVG document.
type Image []byte

// Renderer renders a graph description.
type Renderer interface {
	Render(ctx context.Context, desc extract.Description) (Image, error)
	Name() string
}

// maxDescriptionInError bounds how much of a failing description is attached
// to an error.
const maxDescriptionInError = 64 << 10

// failure builds a render error carrying stderr and the description.
func failure(cause error, stderr []byte, desc extract.Description, format string, args ...any) error {
	var out strings.Builder
	if s := strings.TrimSpace(string(stderr)); s != "" {
		out.WriteString(s)
		out.WriteString("\n")
	}
	out.WriteString("graph description:\n")
	if len(desc) > maxDescriptionInError {
		out.Write(desc[:maxDescriptionInError])
		fmt.Fprintf(&out, "\n... (%d bytes truncated)", len(desc)-maxDescriptionInError)
	} else {
		out.Write(desc)
	}

	var err *errors.Error
	if cause != nil {
		err = errors.Wrap(errors.ErrCodeBuild, cause, format, args...)
	} else {
		err = errors.New(errors.ErrCodeBuild, format, args...)
	}
	return err.WithOutput(out.String())
}

// emptyDescription rejects an empty input before any rendering work.
func emptyDescription(desc extract.Description) error {
	if len(strings.TrimSpace(string(desc))) == 0 {
		return errors.New(errors.ErrCodeBuild, "graph description is empty")
	}
	return nil
}
