package server

import (
	"log"
	"strings"
	"time"

	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/renderers"
)

// Option configures a Server.
type Option func(*Server)

// WithRegistry replaces the default renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithRenderers configures the built-in registry. Ignored with WithRegistry.
func WithRenderers(options ...renderers.Option) Option {
	return func(s *Server) {
		s.renderOpts = append(s.renderOpts, options...)
	}
}

// WithComponentName names the OpenAPI component exported for untitled
// editors and read back by PUT /api/schema?format=openapi.
func WithComponentName(name string) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.component = trimmed
		}
	}
}

// WithLogger overrides the request/stream logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTitle sets the page title and OpenAPI component name.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithTheme selects the default theme and variant for the editor page.
// Requests may override both with ?theme= and ?variant=.
func WithTheme(name, variant string) Option {
	return func(s *Server) {
		s.theme = name
		s.themeVariant = variant
	}
}

// WithCacheSize bounds the rendered preview cache.
func WithCacheSize(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithPingInterval overrides the websocket keepalive interval. The read
// deadline is derived from it.
func WithPingInterval(every time.Duration) Option {
	return func(s *Server) {
		if every > 0 {
			s.pingEvery = every
		}
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}
