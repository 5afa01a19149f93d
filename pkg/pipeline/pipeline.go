// Package pipeline runs the workspace dependency-graph pipeline.
//
// The pipeline is a single forward pass:
//
//  1. Scanning: list the example directories under the workspace
//  2. Filtering: turn them into extractor --exclude arguments
//  3. Extracting: run the extractor and capture its DOT output
//  4. Rendering: lay the DOT out as SVG
//  5. Publishing: replace media/<graph-name>.svg
//
// Any failure moves the run to [StateFailed] and nothing is published.
// Publishing starts only once rendering has fully succeeded.
//
// # Usage
//
//	runner := pipeline.NewRunner(extractor, renderer, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Root:      "/src/repo",
//	    GraphName: "deps",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.PublishedPath)
//
// [Runner.Describe] stops after extraction and returns only the graph
// description.
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/extract"
	"github.com/matzehuels/wsgraph/pkg/publish"
	"github.com/matzehuels/wsgraph/pkg/render"
	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// DefaultGraphName is the artifact base name when none is configured.
const DefaultGraphName = "workspace"

// State is a pipeline stage.
type State string

// Pipeline states, in execution order. Failed is terminal and reachable from
// every state except Done.
const (
	StateIdle       State = "idle"
	StateScanning   State = "scanning"
	StateFiltering  State = "filtering"
	StateExtracting State = "extracting"
	StateRendering  State = "rendering"
	StatePublishing State = "publishing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

func (s State) String() string { return string(s) }

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Options configures one pipeline run.
type Options struct {
	// Root is the workspace root. The extractor runs here.
	Root string `json:"root"`

	// ExamplesDir holds the example packages to exclude, relative to Root.
	ExamplesDir string `json:"examples_dir,omitempty"`

	// GraphName is the artifact base name: media/<GraphName>.svg.
	GraphName string `json:"graph_name,omitempty"`

	// MediaDir is the publish directory, relative to RepoRoot.
	MediaDir string `json:"media_dir,omitempty"`

	// RepoRoot anchors MediaDir. Defaults to Root.
	RepoRoot string `json:"repo_root,omitempty"`

	// Refresh skips the cache lookup but still stores the fresh result.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Root == "" {
		return errors.New(errors.ErrCodeConfiguration, "workspace root is required")
	}
	root, err := filepath.Abs(o.Root)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "resolve workspace root")
	}
	o.Root = root

	if o.ExamplesDir == "" {
		o.ExamplesDir = workspace.DefaultExamplesDir
	}
	if o.GraphName == "" {
		o.GraphName = DefaultGraphName
	}
	if err := errors.ValidateGraphName(o.GraphName); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid graph name")
	}
	if o.MediaDir == "" {
		o.MediaDir = publish.DefaultMediaDir
	}
	if o.RepoRoot == "" {
		o.RepoRoot = o.Root
	}
	return nil
}

// ArtifactPath returns the absolute destination of the published image.
func (o Options) ArtifactPath() string {
	rel := publish.ArtifactPath(o.MediaDir, o.GraphName, render.Format)
	return filepath.Join(o.RepoRoot, filepath.FromSlash(rel))
}

// Result describes a pipeline run. It is returned even when the run fails so
// callers can report how far it got.
type Result struct {
	State       State `json:"state"`
	FailedStage State `json:"failed_stage,omitempty"`

	Excluded      workspace.ExcludedSet `json:"excluded"`
	Description   extract.Description   `json:"-"`
	Image         render.Image          `json:"-"`
	PublishedPath string                `json:"published_path,omitempty"`

	CacheHit bool  `json:"cache_hit"`
	Stats    Stats `json:"stats"`
}

// Stats records per-stage wall time.
type Stats struct {
	ScanTime    time.Duration `json:"scan_time"`
	ExtractTime time.Duration `json:"extract_time"`
	RenderTime  time.Duration `json:"render_time"`
	PublishTime time.Duration `json:"publish_time"`
}

// Total returns the summed stage time.
func (s Stats) Total() time.Duration {
	return s.ScanTime + s.ExtractTime + s.RenderTime + s.PublishTime
}

func (s *Stats) record(state State, d time.Duration) {
	switch state {
	case StateScanning:
		s.ScanTime = d
	case StateExtracting:
		s.ExtractTime = d
	case StateRendering:
		s.RenderTime = d
	case StatePublishing:
		s.PublishTime = d
	}
}
