// Package page renders the HTML editor page: one row per field node, the
// live JSON preview with a copy button, and a script that drives the HTTP API
// and websocket stream.
package page

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-schemabuilder/pkg/projection"
	"github.com/goliatone/go-schemabuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-schemabuilder/pkg/render/template"
	"github.com/goliatone/go-schemabuilder/pkg/render/template/gotemplate"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// DefaultTitle heads the page when RenderOptions.Title is empty.
const DefaultTitle = "Schema Builder"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	selector         theme.ThemeSelector
	apiPrefix        string
	assetPrefix      string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector resolves RenderOptions.Theme/ThemeVariant through
// selector instead of the built-in manifest.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		if selector != nil {
			cfg.selector = selector
		}
	}
}

// WithThemeProvider builds a go-theme Selector over provider, falling back to
// defaultTheme and defaultVariant when a request names neither.
func WithThemeProvider(provider theme.ThemeProvider, defaultTheme, defaultVariant string) Option {
	return func(cfg *config) {
		if provider == nil {
			return
		}
		cfg.selector = theme.Selector{
			Registry:       provider,
			DefaultTheme:   defaultTheme,
			DefaultVariant: defaultVariant,
		}
	}
}

// WithAPIPrefix sets the path the page script prefixes API calls with.
func WithAPIPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.apiPrefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	}
}

// WithAssetPrefix sets the URL the stylesheet and script are served under.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			cfg.assetPrefix = strings.TrimSuffix(trimmed, "/")
		}
	}
}

// Renderer implements render.Renderer for the HTML editor page.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	selector    theme.ThemeSelector
	apiPrefix   string
	assetPrefix string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the page renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		assetPrefix: "/assets",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("page renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	selector := cfg.selector
	if selector == nil {
		registry, err := DefaultThemeRegistry()
		if err != nil {
			return nil, err
		}
		selector = theme.Selector{Registry: registry, DefaultTheme: DefaultThemeName}
	}

	return &Renderer{
		templates:   renderer,
		selector:    selector,
		apiPrefix:   cfg.apiPrefix,
		assetPrefix: cfg.assetPrefix,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, tree schema.Tree, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("page renderer: template renderer is nil")
	}

	selection, err := r.selector.Select(options.Theme, options.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("page renderer: select theme: %w", err)
	}
	themeCfg := selection.RendererTheme(nil)

	stylesheet := r.assetPrefix + "/" + StylesheetName
	if url := themeCfg.AssetURL(StylesheetAsset); url != "" {
		stylesheet = url
	}

	preview, err := projection.ProjectTree(tree).MarshalIndent()
	if err != nil {
		return nil, fmt.Errorf("page renderer: project tree: %w", err)
	}

	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = DefaultTitle
	}
	issues := render.MapIssues(tree, options.Issues)

	result, err := r.templates.RenderTemplate("page", map[string]any{
		"title":         title,
		"revision":      options.Revision,
		"api":           r.apiPrefix,
		"preview":       string(preview),
		"rows":          buildRows(tree, issues),
		"types":         typeNames(),
		"tree_messages": stringsToAny(issues.Tree),
		"theme":         themeContext(themeCfg),
		"assets": map[string]any{
			"stylesheet": stylesheet,
			"script":     r.assetPrefix + "/" + ScriptName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("page renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// buildRows flattens tree depth-first into template rows.
func buildRows(tree schema.Tree, issues render.IssueMapping) []any {
	var rows []any
	var walk func(group schema.Tree, prefix schema.Path, depth int)
	walk = func(group schema.Tree, prefix schema.Path, depth int) {
		for i, node := range group {
			path := prefix.Child(i)
			key := path.String()
			rows = append(rows, map[string]any{
				"path":     key,
				"depth":    depth,
				"key_name": node.KeyName,
				"type":     string(node.Type),
				"nested":   node.Type.IsNested(),
				"first":    i == 0,
				"last":     i == len(group)-1,
				"issues":   stringsToAny(issues.Fields[key]),
			})
			if node.Type.IsNested() {
				walk(node.Children, path, depth+1)
			}
		}
	}
	walk(tree, nil, 0)
	return rows
}

func themeContext(cfg theme.RendererConfig) map[string]any {
	return map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"css":     cssVarsStyle(cfg.CSSVars),
	}
}

func typeNames() []any {
	types := schema.FieldTypes()
	out := make([]any, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

func stringsToAny(values []string) []any {
	if len(values) == 0 {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
