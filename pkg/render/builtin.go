package render

import (
	"bytes"
	"context"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/wsgraph/pkg/extract"
)

// BuiltinRenderer renders with the embedded Graphviz build.
type BuiltinRenderer struct{}

// NewBuiltin returns an in-process renderer.
func NewBuiltin() *BuiltinRenderer {
	return &BuiltinRenderer{}
}

// Name implements Renderer.
func (r *BuiltinRenderer) Name() string { return BackendBuiltin }

// Render parses desc and lays it out with the dot engine.
func (r *BuiltinRenderer) Render(ctx context.Context, desc extract.Description) (Image, error) {
	if err := emptyDescription(desc); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, failure(err, nil, desc, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(desc)
	if err != nil {
		return nil, failure(err, nil, desc, "parse graph description")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, failure(err, nil, desc, "render graph")
	}
	if buf.Len() == 0 {
		return nil, failure(nil, nil, desc, "graphviz produced an empty image")
	}
	return Image(buf.Bytes()), nil
}

var _ Renderer = (*BuiltinRenderer)(nil)
