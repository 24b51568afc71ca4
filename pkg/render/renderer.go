package render

import (
	"context"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// Renderer converts a schema tree into a byte representation (JSON preview,
// YAML, OpenAPI, HTML editor page).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tree schema.Tree, options RenderOptions) ([]byte, error)
}

// RendererFunc adapts a plain function into a Renderer.
type RendererFunc struct {
	RendererName string
	Type         string
	Fn           func(ctx context.Context, tree schema.Tree, options RenderOptions) ([]byte, error)
}

func (f RendererFunc) Name() string        { return f.RendererName }
func (f RendererFunc) ContentType() string { return f.Type }

func (f RendererFunc) Render(ctx context.Context, tree schema.Tree, options RenderOptions) ([]byte, error) {
	return f.Fn(ctx, tree, options)
}
