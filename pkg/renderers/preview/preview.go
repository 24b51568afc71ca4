// Package preview renders the JSON projection of a schema tree. The output is
// the same 2-space indented document the editor shows and submits.
package preview

import (
	"context"
	"fmt"

	"github.com/goliatone/go-schemabuilder/pkg/projection"
	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithCompact switches to single-line output.
func WithCompact() Option {
	return func(r *Renderer) {
		r.compact = true
	}
}

// Renderer implements render.Renderer for the JSON projection.
type Renderer struct {
	compact bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the JSON preview renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(_ context.Context, tree schema.Tree, _ render.RenderOptions) ([]byte, error) {
	obj := projection.ProjectTree(tree)
	var (
		out []byte
		err error
	)
	if r.compact {
		out, err = obj.MarshalJSON()
	} else {
		out, err = obj.MarshalIndent()
	}
	if err != nil {
		return nil, fmt.Errorf("preview renderer: %w", err)
	}
	return out, nil
}
