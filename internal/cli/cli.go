package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/buildinfo"
	"github.com/matzehuels/wsgraph/pkg/cache"
	"github.com/matzehuels/wsgraph/pkg/config"
	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/extract"
	"github.com/matzehuels/wsgraph/pkg/pipeline"
	"github.com/matzehuels/wsgraph/pkg/render"
	"github.com/matzehuels/wsgraph/pkg/tools"
)

// appName is the application name used for directories and display.
const appName = "wsgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	repo    string
	noCache bool
	backend string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "wsgraph renders a workspace's dependency graph",
		Long: `wsgraph runs the dependency-graph extractor over a multi-package workspace,
excluding every package under the examples directory, renders the result with
an isolated font configuration, and publishes it to media/<name>.svg.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVarP(&c.repo, "repo", "C", "", "repository root (default: nearest directory with wsgraph.toml, Cargo.toml or .git)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable extractor memoization")
	pf.StringVar(&c.backend, "backend", "", "renderer backend: exec or builtin (overrides config)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.excludesCommand())
	root.AddCommand(c.doctorCommand())
	root.AddCommand(c.menuCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the repository root and reads its configuration.
// Flags override file and environment settings.
func (c *CLI) loadConfig() (*config.Config, error) {
	fs := afero.NewOsFs()
	start := c.repo
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "get working directory")
		}
		start = config.FindRepoRoot(fs, wd)
	}

	cfg, err := config.Load(fs, start, os.LookupEnv)
	if err != nil {
		return nil, err
	}
	if c.backend != "" {
		cfg.Tools.Backend = c.backend
	}
	if c.noCache {
		cfg.Cache.Backend = cache.BackendNone
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "repo", cfg.RepoRoot, "backend", cfg.Tools.Backend, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// newRunner resolves the toolchain and builds a pipeline runner. Tools are
// resolved before anything else so a missing tool aborts the run before any
// subprocess starts. Without withRenderer the runner can only Describe.
// The caller must close the returned cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, withRenderer bool) (*pipeline.Runner, cache.Cache, error) {
	rendererCmd := cfg.Tools.Renderer
	if !withRenderer || cfg.Tools.Backend == render.BackendBuiltin {
		rendererCmd = ""
	}
	tc, err := tools.ResolveToolchain(cfg.Tools.Extractor, rendererCmd)
	if err != nil {
		return nil, nil, err
	}

	var r render.Renderer
	if withRenderer {
		if r, err = render.New(cfg.Tools.Backend, tc.Renderer, cfg.FontDirs()); err != nil {
			return nil, nil, err
		}
	}

	store, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var keyer cache.Keyer
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}

	runner := pipeline.NewRunner(extract.New(tc.Extractor), r, store, keyer, c.Logger)
	if cfg.Cache.TTL > 0 {
		runner.TTL = cfg.Cache.TTL
	}
	return runner, store, nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case cache.BackendNone:
		return cache.NewNullCache(), nil
	case cache.BackendMemory:
		mc, err := cache.NewMemoryCache(cache.DefaultMemoryEntries)
		if err != nil {
			return nil, err
		}
		return mc, nil
	case cache.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "connect to redis cache")
		}
		return rc, nil
	default:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			c.Logger.Warn("cache directory unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "create cache directory")
		}
		return fc, nil
	}
}

// fileCacheDir returns the configured cache directory or the XDG default.
func fileCacheDir(cfg *config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		if filepath.IsAbs(cfg.Cache.Dir) {
			return cfg.Cache.Dir, nil
		}
		return filepath.Join(cfg.RepoRoot, cfg.Cache.Dir), nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/wsgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
