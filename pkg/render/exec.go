package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/matzehuels/wsgraph/internal/proc"
	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/extract"
	"github.com/matzehuels/wsgraph/pkg/fonts"
	"github.com/matzehuels/wsgraph/pkg/tools"
)

// EnvCacheHome is the XDG cache location honored by the renderer.
const EnvCacheHome = "XDG_CACHE_HOME"

// ExecRenderer renders with an external Graphviz-compatible binary.
type ExecRenderer struct {
	Tool tools.Tool

	// FontDirs are extra font directories listed after the bundled fonts.
	FontDirs []string

	// TempDir is the parent for per-run directories. Empty means os.TempDir().
	TempDir string
}

// NewExec returns an ExecRenderer for the given tool and extra font directories.
func NewExec(tool tools.Tool, fontDirs []string) *ExecRenderer {
	return &ExecRenderer{Tool: tool, FontDirs: fontDirs}
}

// Name implements Renderer.
func (r *ExecRenderer) Name() string { return BackendExec }

// Render writes desc and the bundled fonts to a fresh run directory and runs
// "<tool> -Tsvg -o <out> <in>" with FONTCONFIG_FILE and XDG_CACHE_HOME
// pointing into that directory. The directory is removed afterwards.
func (r *ExecRenderer) Render(ctx context.Context, desc extract.Description) (Image, error) {
	if r.Tool.IsZero() {
		return nil, errors.New(errors.ErrCodeConfiguration, "renderer not configured")
	}
	if err := emptyDescription(desc); err != nil {
		return nil, err
	}

	runDir, err := r.newRunDir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuild, err, "create render directory")
	}
	defer os.RemoveAll(runDir)

	in := filepath.Join(runDir, "graph.dot")
	out := filepath.Join(runDir, "graph."+Format)
	if err := os.WriteFile(in, desc, 0644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuild, err, "write graph description")
	}

	fontConf, err := fonts.WriteConfig(runDir, r.FontDirs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuild, err, "write font configuration")
	}
	cacheHome := filepath.Join(runDir, "cache")
	if err := os.Mkdir(cacheHome, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuild, err, "create cache home")
	}

	res, err := proc.Run(ctx, proc.Cmd{
		Argv: r.Tool.Command("-T"+Format, "-o", out, in),
		Dir:  runDir,
		Env: []string{
			fonts.EnvConfigFile + "=" + fontConf,
			EnvCacheHome + "=" + cacheHome,
		},
	})
	if ctx.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "renderer interrupted")
	}
	if err != nil {
		return nil, failure(err, res.Stderr, desc, "renderer %s failed", r.Tool)
	}

	img, err := os.ReadFile(out)
	if err != nil {
		return nil, failure(err, res.Stderr, desc, "renderer %s wrote no image", r.Tool)
	}
	if len(bytes.TrimSpace(img)) == 0 {
		return nil, failure(nil, res.Stderr, desc, "renderer %s produced an empty image", r.Tool)
	}
	return Image(img), nil
}

// newRunDir creates a uniquely named, private run directory.
func (r *ExecRenderer) newRunDir() (string, error) {
	parent := r.TempDir
	if parent == "" {
		parent = os.TempDir()
	}
	dir := filepath.Join(parent, "wsgraph-render-"+uuid.NewString())
	if err := os.Mkdir(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

var _ Renderer = (*ExecRenderer)(nil)
