package render

import (
	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/tools"
)

// New returns the renderer for backend. The exec backend requires a resolved
// tool; the builtin backend ignores it.
func New(backend string, tool tools.Tool, fontDirs []string) (Renderer, error) {
	switch backend {
	case BackendExec, "":
		if tool.IsZero() {
			return nil, errors.New(errors.ErrCodeConfiguration, "exec renderer requires a renderer tool")
		}
		return NewExec(tool, fontDirs), nil
	case BackendBuiltin:
		return NewBuiltin(), nil
	default:
		return nil, errors.New(errors.ErrCodeConfiguration, "unknown renderer backend %q (must be exec or builtin)", backend)
	}
}
