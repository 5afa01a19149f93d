// Package config loads wsgraph settings.
//
// Sources, lowest precedence first:
//
//  1. built-in defaults
//  2. wsgraph.toml at the repository root
//  3. WSGRAPH_* variables from a .env file next to it
//  4. WSGRAPH_* variables from the process environment
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/matzehuels/wsgraph/pkg/cache"
	"github.com/matzehuels/wsgraph/pkg/devshell"
	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/pipeline"
	"github.com/matzehuels/wsgraph/pkg/publish"
	"github.com/matzehuels/wsgraph/pkg/render"
	"github.com/matzehuels/wsgraph/pkg/tools"
	"github.com/matzehuels/wsgraph/pkg/workspace"
)

const (
	// FileName is the configuration file looked up at the repository root.
	FileName = "wsgraph.toml"

	// DotEnvFile holds local environment overrides.
	DotEnvFile = ".env"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "WSGRAPH_"

	// DefaultPreviewAddr is the preview server listen address.
	DefaultPreviewAddr = "127.0.0.1:8377"
)

// Environment variables, without EnvPrefix.
const (
	envRoot        = "ROOT"
	envExamples    = "EXAMPLES_DIR"
	envGraphName   = "GRAPH_NAME"
	envMediaDir    = "MEDIA_DIR"
	envExtractor   = "EXTRACTOR"
	envRenderer    = "RENDERER"
	envBackend     = "RENDER_BACKEND"
	envFontDir     = "FONT_DIR"
	envCache       = "CACHE"
	envCacheDir    = "CACHE_DIR"
	envCacheTTL    = "CACHE_TTL"
	envCachePrefix = "CACHE_PREFIX"
	envRedisURL    = "REDIS_URL"
	envPreviewAddr = "PREVIEW_ADDR"
)

// Config is the resolved configuration.
type Config struct {
	Workspace Workspace     `toml:"workspace"`
	Graph     Graph         `toml:"graph"`
	Tools     Tools         `toml:"tools"`
	Cache     Cache         `toml:"cache"`
	Preview   Preview       `toml:"preview"`
	Menu      devshell.Menu `toml:"menu"`

	// RepoRoot is the directory the configuration was loaded from.
	RepoRoot string `toml:"-"`
}

// Workspace locates the source tree.
type Workspace struct {
	// Root is the workspace root, relative to the repository root.
	Root        string `toml:"root"`
	ExamplesDir string `toml:"examples_dir"`
}

// Graph names the published artifact.
type Graph struct {
	Name     string `toml:"name"`
	MediaDir string `toml:"media_dir"`
}

// Tools selects the external tools and renderer backend.
type Tools struct {
	Extractor string   `toml:"extractor"`
	Renderer  string   `toml:"renderer"`
	Backend   string   `toml:"backend"`
	FontDirs  []string `toml:"font_dirs"`
}

// Cache configures extractor memoization.
type Cache struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
	Prefix   string        `toml:"prefix"`
}

// Preview configures the local preview server.
type Preview struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Workspace: Workspace{Root: ".", ExamplesDir: workspace.DefaultExamplesDir},
		Graph:     Graph{Name: pipeline.DefaultGraphName, MediaDir: publish.DefaultMediaDir},
		Tools: Tools{
			Extractor: tools.DefaultExtractor,
			Renderer:  tools.DefaultRenderer,
			Backend:   render.BackendExec,
		},
		Cache:   Cache{Backend: cache.BackendFile, TTL: cache.TTLDescription},
		Preview: Preview{Addr: DefaultPreviewAddr},
		Menu:    devshell.Default(),
	}
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads the configuration for the repository at dir.
// env is consulted for overrides; pass os.LookupEnv in production.
func Load(fs afero.Fs, dir string, env LookupFunc) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "resolve %s", dir)
	}

	cfg := Default()
	cfg.RepoRoot = abs

	if err := cfg.loadFile(fs, filepath.Join(abs, FileName)); err != nil {
		return nil, err
	}

	dotenv, err := loadDotEnv(fs, filepath.Join(abs, DotEnvFile))
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := env(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[EnvPrefix+key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "read %s", path)
	}

	// The file extends the built-in menu rather than replacing it.
	base := c.Menu
	c.Menu = devshell.Menu{}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeConfiguration, "%s: unknown key %q", path, undecoded[0].String())
	}
	c.Menu = base.Merge(c.Menu)
	return nil
}

// loadDotEnv reads KEY=VALUE pairs from path. A missing file yields nothing.
func loadDotEnv(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "read %s", path)
	}
	envs, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse %s", path)
	}
	return envs, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		envRoot:        &c.Workspace.Root,
		envExamples:    &c.Workspace.ExamplesDir,
		envGraphName:   &c.Graph.Name,
		envMediaDir:    &c.Graph.MediaDir,
		envExtractor:   &c.Tools.Extractor,
		envRenderer:    &c.Tools.Renderer,
		envBackend:     &c.Tools.Backend,
		envCache:       &c.Cache.Backend,
		envCacheDir:    &c.Cache.Dir,
		envCachePrefix: &c.Cache.Prefix,
		envRedisURL:    &c.Cache.RedisURL,
		envPreviewAddr: &c.Preview.Addr,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup(envFontDir); ok && strings.TrimSpace(v) != "" {
		c.Tools.FontDirs = filepath.SplitList(strings.TrimSpace(v))
	}
	if v, ok := lookup(envCacheTTL); ok {
		ttl, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "%s%s", EnvPrefix, envCacheTTL)
		}
		c.Cache.TTL = ttl
	}
	return nil
}

// Validate checks option values that would otherwise fail mid-run.
func (c *Config) Validate() error {
	if err := errors.ValidateGraphName(c.Graph.Name); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "graph.name")
	}
	if c.Workspace.ExamplesDir == "" {
		return errors.New(errors.ErrCodeConfiguration, "workspace.examples_dir must not be empty")
	}
	if strings.TrimSpace(c.Tools.Extractor) == "" {
		return errors.New(errors.ErrCodeConfiguration, "tools.extractor must not be empty")
	}

	switch c.Tools.Backend {
	case render.BackendExec:
		if strings.TrimSpace(c.Tools.Renderer) == "" {
			return errors.New(errors.ErrCodeConfiguration, "tools.renderer must be set for the exec backend")
		}
	case render.BackendBuiltin:
	default:
		return errors.New(errors.ErrCodeConfiguration, "tools.backend %q must be %s or %s",
			c.Tools.Backend, render.BackendExec, render.BackendBuiltin)
	}

	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendMemory, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeConfiguration, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeConfiguration, "cache.backend %q must be one of file, redis, memory, none", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeConfiguration, "cache.ttl must not be negative")
	}
	return c.Menu.Validate()
}

// WorkspaceRoot returns the absolute workspace root.
func (c *Config) WorkspaceRoot() string {
	return c.abs(c.Workspace.Root)
}

// FontDirs returns the extra font directories made absolute. The renderer
// always lists the bundled fonts ahead of them.
func (c *Config) FontDirs() []string {
	dirs := make([]string, 0, len(c.Tools.FontDirs))
	for _, d := range c.Tools.FontDirs {
		dirs = append(dirs, c.abs(d))
	}
	return dirs
}

// PipelineOptions maps the configuration onto a pipeline run.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Root:        c.WorkspaceRoot(),
		ExamplesDir: c.Workspace.ExamplesDir,
		GraphName:   c.Graph.Name,
		MediaDir:    c.Graph.MediaDir,
		RepoRoot:    c.RepoRoot,
	}
}

func (c *Config) abs(p string) string {
	if p == "" {
		return c.RepoRoot
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.RepoRoot, p)
}

// FindRepoRoot walks up from start to the nearest directory containing
// wsgraph.toml, Cargo.toml, or .git. It returns start when none
// is found.
func FindRepoRoot(fs afero.Fs, start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for dir := abs; ; {
		for _, marker := range []string{FileName, workspace.ManifestFile, ".git"} {
			if ok, _ := afero.Exists(fs, filepath.Join(dir, marker)); ok {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		dir = parent
	}
}
