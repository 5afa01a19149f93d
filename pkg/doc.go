// Package pkg provides the libraries behind wsgraph, which renders the
// dependency graph of a multi-package workspace into a committed SVG.
//
// # Overview
//
// The pkg directory is organized by pipeline stage plus supporting packages:
//
//  1. [workspace] - example-package discovery, fingerprinting, manifest members
//  2. [exclude] - --exclude argument construction
//  3. [extract] - dependency extractor invocation
//  4. [render] - SVG rendering with isolated fonts ([fonts])
//  5. [publish] - atomic replacement of media/<name>.svg
//  6. [pipeline] - orchestration and the stage state machine
//
// Supporting packages: [cache] (extractor memoization), [config],
// [devshell] (dev-shell menu), [tools] (executable discovery),
// [errors], [observability], [preview] and [buildinfo].
//
// # Architecture
//
//	examples/ directory listing
//	         ↓
//	    [workspace] ExcludedSet
//	         ↓
//	    [exclude] Fragment
//	         ↓
//	    [extract] Description (DOT)      ← [cache]
//	         ↓
//	    [render] Image (SVG)
//	         ↓
//	    [publish] media/<name>.svg
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/wsgraph/pkg/extract"
//	    "github.com/matzehuels/wsgraph/pkg/pipeline"
//	    "github.com/matzehuels/wsgraph/pkg/render"
//	    "github.com/matzehuels/wsgraph/pkg/tools"
//	)
//
//	tc, err := tools.ResolveToolchain(tools.DefaultExtractor, tools.DefaultRenderer)
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(extract.New(tc.Extractor), render.NewExec(tc.Renderer, nil), nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Root: ".", GraphName: "deps"})
//
// [workspace]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/workspace
// [exclude]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/exclude
// [extract]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/extract
// [render]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/render
// [fonts]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/fonts
// [publish]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/publish
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/config
// [devshell]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/devshell
// [tools]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/tools
// [errors]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/observability
// [preview]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/preview
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/wsgraph/pkg/buildinfo
package pkg
