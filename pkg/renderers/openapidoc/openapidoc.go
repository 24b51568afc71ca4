// Package openapidoc renders a schema tree as an OpenAPI 3 document with the
// tree exported under components.schemas.
package openapidoc

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemabuilder/pkg/openapi"
	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// DefaultComponentName names the exported schema when RenderOptions.Title is
// empty.
const DefaultComponentName = "Schema"

// Option configures the renderer.
type Option func(*Renderer)

// WithComponentName sets the fallback component name.
func WithComponentName(name string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			r.component = trimmed
		}
	}
}

// Renderer implements render.Renderer for OpenAPI output.
type Renderer struct {
	component string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the OpenAPI renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{component: DefaultComponentName}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "openapi"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(_ context.Context, tree schema.Tree, options render.RenderOptions) ([]byte, error) {
	name := ComponentName(options.Title, r.component)
	out, err := json.MarshalIndent(openapi.Document(name, options.Title, tree), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi renderer: %w", err)
	}
	return out, nil
}

// ComponentName turns a free-form title into an identifier by dropping
// anything outside [A-Za-z0-9_.-]. An empty result yields fallback.
func ComponentName(title, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
