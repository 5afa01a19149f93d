package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/matzehuels/wsgraph/pkg/cache"
	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/exclude"
	"github.com/matzehuels/wsgraph/pkg/extract"
	"github.com/matzehuels/wsgraph/pkg/observability"
	"github.com/matzehuels/wsgraph/pkg/publish"
	"github.com/matzehuels/wsgraph/pkg/render"
	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// cacheKeyType labels description entries in cache hooks.
const cacheKeyType = "dot"

// Runner executes the pipeline.
//
// The Runner holds no per-run state; all results are returned in [Result].
// Runs against the same repository are not serialized: the published path is
// last-writer-wins.
type Runner struct {
	Extractor *extract.Extractor
	Renderer  render.Renderer
	Publisher *publish.Publisher
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger

	// TTL bounds how long a cached description is reused.
	TTL time.Duration

	// Fs is used for scanning and fingerprinting.
	Fs afero.Fs
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(ex *extract.Extractor, r render.Renderer, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	fs := afero.NewOsFs()
	return &Runner{
		Extractor: ex,
		Renderer:  r,
		Publisher: publish.New(fs),
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		TTL:       cache.TTLDescription,
		Fs:        fs,
	}
}

// Execute runs every stage and publishes the rendered image.
// The returned Result is never nil.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	res, frag, err := r.prepare(ctx, &opts)
	if err != nil {
		return res, err
	}

	if err := r.stage(ctx, res, StateExtracting, func() error {
		return r.extract(ctx, res, opts, frag)
	}); err != nil {
		return res, err
	}

	if err := r.stage(ctx, res, StateRendering, func() error {
		if r.Renderer == nil {
			return errors.New(errors.ErrCodeConfiguration, "renderer not configured")
		}
		img, err := r.Renderer.Render(ctx, res.Description)
		if err != nil {
			return err
		}
		res.Image = img
		r.Logger.Info("rendered graph", "backend", r.Renderer.Name(), "bytes", len(img))
		return nil
	}); err != nil {
		return res, err
	}

	dest := opts.ArtifactPath()
	if err := r.stage(ctx, res, StatePublishing, func() error {
		if err := r.Publisher.Publish(res.Image, dest); err != nil {
			return err
		}
		res.PublishedPath = dest
		r.Logger.Info("published graph", "path", dest)
		return nil
	}); err != nil {
		return res, err
	}

	res.State = StateDone
	return res, nil
}

// Describe runs scanning, filtering and extraction only and returns the
// graph description in Result.Description.
func (r *Runner) Describe(ctx context.Context, opts Options) (*Result, error) {
	res, frag, err := r.prepare(ctx, &opts)
	if err != nil {
		return res, err
	}
	if err := r.stage(ctx, res, StateExtracting, func() error {
		return r.extract(ctx, res, opts, frag)
	}); err != nil {
		return res, err
	}
	res.State = StateDone
	return res, nil
}

// prepare validates options and runs the scanning and filtering stages.
func (r *Runner) prepare(ctx context.Context, opts *Options) (*Result, exclude.Fragment, error) {
	res := &Result{State: StateIdle}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		res.State = StateFailed
		res.FailedStage = StateIdle
		return res, nil, err
	}
	if r.Extractor == nil {
		res.State = StateFailed
		res.FailedStage = StateIdle
		return res, nil, errors.New(errors.ErrCodeConfiguration, "extractor not configured")
	}

	if err := r.stage(ctx, res, StateScanning, func() error {
		excluded, err := workspace.Scan(r.Fs, opts.Root, opts.ExamplesDir)
		if err != nil {
			return err
		}
		res.Excluded = excluded
		r.Logger.Info("scanned examples", "dir", opts.ExamplesDir, "excluded", excluded.Len())
		return nil
	}); err != nil {
		return res, nil, err
	}

	var frag exclude.Fragment
	if err := r.stage(ctx, res, StateFiltering, func() error {
		frag = exclude.New(res.Excluded)
		if len(frag) > 0 {
			r.Logger.Debug("exclusions", "args", frag.String())
		}
		return nil
	}); err != nil {
		return res, nil, err
	}
	return res, frag, nil
}

// stage moves res into state, runs fn, and records timing. A canceled
// context fails the stage before fn starts, and an error from fn after
// cancellation is reported as a cancellation. A stage whose fn returned nil
// has succeeded even if the context was canceled meanwhile.
func (r *Runner) stage(ctx context.Context, res *Result, state State, fn func() error) error {
	res.State = state
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, state.String())
	start := time.Now()

	err := ctx.Err()
	if err == nil {
		err = fn()
	}
	if err != nil && ctx.Err() != nil && !errors.Is(err, errors.ErrCodeCanceled) {
		err = errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "interrupted while %s", state)
	}

	d := time.Since(start)
	res.Stats.record(state, d)
	hooks.OnStageComplete(ctx, state.String(), d, err)

	if err != nil {
		res.State = StateFailed
		res.FailedStage = state
		r.Logger.Debug("stage failed", "stage", state, "duration", d, "err", err)
	}
	return err
}

// extract returns the graph description, from the cache when the workspace
// fingerprint, extractor and exclusions match a previous run.
func (r *Runner) extract(ctx context.Context, res *Result, opts Options, frag exclude.Fragment) error {
	start := time.Now()
	key := r.descriptionKey(opts, res.Excluded)
	hooks := observability.Cache()

	if key != "" && !opts.Refresh {
		data, ok, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "err", err)
		case ok:
			hooks.OnCacheHit(ctx, cacheKeyType)
			res.Description = extract.Description(data)
			res.CacheHit = true
			r.Logger.Info("extracted graph", "size", res.Description.Summary(), "cached", true)
			return nil
		default:
			hooks.OnCacheMiss(ctx, cacheKeyType)
		}
	}

	desc, err := r.Extractor.Extract(ctx, opts.Root, frag)
	if err != nil {
		return err
	}
	res.Description = desc
	r.Logger.Info("extracted graph", "size", desc.Summary(), "duration", time.Since(start).Round(time.Millisecond))

	if key != "" {
		if err := r.Cache.Set(ctx, key, desc, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, cacheKeyType, len(desc))
		}
	}
	return nil
}

// descriptionKey returns the cache key for this run, or "" when caching is
// disabled or the workspace cannot be fingerprinted.
func (r *Runner) descriptionKey(opts Options, excluded workspace.ExcludedSet) string {
	if _, ok := r.Cache.(*cache.NullCache); ok {
		return ""
	}

	var skip []string
	media := filepath.Join(opts.RepoRoot, filepath.FromSlash(opts.MediaDir))
	if rel, err := filepath.Rel(opts.Root, media); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		skip = append(skip, rel)
	}

	fp, err := workspace.Fingerprint(r.Fs, opts.Root, skip...)
	if err != nil {
		r.Logger.Warn("cannot fingerprint workspace, caching disabled", "err", err)
		return ""
	}
	return r.Keyer.DescriptionKey(fp, cache.DescriptionKeyOpts{
		Extractor: r.Extractor.Tool.String(),
		Excluded:  excluded,
	})
}
