// Package renderers assembles the built-in renderers into a registry.
package renderers

import (
	"fmt"

	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/openapidoc"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/page"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/preview"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/yamldoc"
)

// Option configures the built-in renderers.
type Option func(*config)

type config struct {
	page       []page.Option
	yamlIndent int
	component  string
}

// WithPageOptions forwards options to the html renderer.
func WithPageOptions(options ...page.Option) Option {
	return func(cfg *config) {
		cfg.page = append(cfg.page, options...)
	}
}

// WithYAMLIndent sets the indent of both yaml renderers.
func WithYAMLIndent(spaces int) Option {
	return func(cfg *config) {
		cfg.yamlIndent = spaces
	}
}

// WithComponentName sets the OpenAPI component name used when a render has
// no title.
func WithComponentName(name string) Option {
	return func(cfg *config) {
		cfg.component = name
	}
}

// NewRegistry returns a registry holding json, yaml, yaml-document, openapi,
// and html.
func NewRegistry(options ...Option) (*render.Registry, error) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	htmlRenderer, err := page.New(cfg.page...)
	if err != nil {
		return nil, fmt.Errorf("renderers: page renderer: %w", err)
	}
	return render.NewRegistry(
		preview.New(),
		yamldoc.New(yamldoc.WithIndent(cfg.yamlIndent)),
		yamldoc.New(yamldoc.WithMode(yamldoc.ModeDocument), yamldoc.WithIndent(cfg.yamlIndent)),
		openapidoc.New(openapidoc.WithComponentName(cfg.component)),
		htmlRenderer,
	), nil
}
