// Package server exposes an editor session over HTTP: a JSON API for edits,
// rendered previews, the HTML editor page, and a websocket snapshot stream.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-schemabuilder/pkg/editor"
	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/renderers"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/openapidoc"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/page"
)

// requiredRenderers back the page route and the default preview format.
var requiredRenderers = []string{"html", "json"}

const (
	defaultCacheSize = 128
	defaultPingEvery = 54 * time.Second
	defaultMaxBody   = 1 << 20
	writeWait        = 10 * time.Second
)

// Server serves one session.
type Server struct {
	session    *editor.Session
	registry   *render.Registry
	renderOpts []renderers.Option
	logger     *log.Logger
	cache      *lru.Cache[string, []byte]
	upgrader   websocket.Upgrader

	title        string
	component    string
	theme        string
	themeVariant string
	cacheSize    int
	pingEvery    time.Duration
	maxBody      int64
}

// New constructs a Server. Without WithRegistry it registers the json, yaml,
// yaml-document, openapi, and html renderers.
func New(session *editor.Session, options ...Option) (*Server, error) {
	if session == nil {
		return nil, fmt.Errorf("server: session is required")
	}
	s := &Server{
		session:   session,
		component: openapidoc.DefaultComponentName,
		logger:    log.Default(),
		cacheSize: defaultCacheSize,
		pingEvery: defaultPingEvery,
		maxBody:   defaultMaxBody,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.registry == nil {
		registry, err := renderers.NewRegistry(append(s.renderOpts, renderers.WithComponentName(s.component))...)
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.registry = registry
	}
	for _, name := range requiredRenderers {
		if !s.registry.Has(name) {
			return nil, fmt.Errorf("server: %w: %q is required", render.ErrRendererNotFound, name)
		}
	}

	cache, err := lru.New[string, []byte](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("server: preview cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(page.AssetsFS())))
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/schema", s.handleGetSchema)
	mux.HandleFunc("PUT /api/schema", s.handlePutSchema)
	mux.HandleFunc("GET /api/preview", s.handlePreview)
	mux.HandleFunc("GET /api/issues", s.handleIssues)
	mux.HandleFunc("POST /api/nodes", s.handleInsert)
	mux.HandleFunc("PATCH /api/nodes/{path}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/nodes/{path}", s.handleRemove)
	mux.HandleFunc("POST /api/move", s.handleMove)
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("GET /ws", s.handleStream)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// rendered returns the cached output for format at the current revision,
// rendering on a miss. Revisions only grow, so stale keys simply age out.
func (s *Server) rendered(r *http.Request, format string, options render.RenderOptions) ([]byte, string, error) {
	renderer, err := s.registry.Get(format)
	if err != nil {
		return nil, "", err
	}

	snap := s.session.Snapshot()
	options.Revision = snap.Revision
	options.Issues = snap.Issues
	if options.Title == "" {
		options.Title = s.title
	}

	key := format + "@" + strconv.FormatUint(snap.Revision, 10) + "|" + options.Title + "|" + options.Theme + "|" + options.ThemeVariant
	if cached, ok := s.cache.Get(key); ok {
		return cached, renderer.ContentType(), nil
	}
	out, contentType, err := s.registry.Render(r.Context(), format, snap.Tree, options)
	if err != nil {
		return nil, "", err
	}
	s.cache.Add(key, out)
	return out, contentType, nil
}
