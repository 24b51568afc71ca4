package schemabuilder

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-schemabuilder/pkg/editor"
	"github.com/goliatone/go-schemabuilder/pkg/loader"
	"github.com/goliatone/go-schemabuilder/pkg/projection"
	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/renderers"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/page"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// FieldNode aliases schema.FieldNode for callers that only import the root
// package.
type FieldNode = schema.FieldNode

// Tree aliases schema.Tree.
type Tree = schema.Tree

// Path aliases schema.Path.
type Path = schema.Path

// Session aliases editor.Session.
type Session = editor.Session

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// NewSession starts an editor session over the default tree unless
// editor.WithTree says otherwise.
func NewSession(options ...editor.Option) (*Session, error) {
	return editor.NewSession(options...)
}

// Project returns the pretty-printed JSON object for tree, the same text the
// preview and submissions carry.
func Project(tree Tree) (string, error) {
	out, err := projection.ProjectTree(tree).MarshalIndent()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// LoadTree reads a JSON or YAML schema document from src.
func LoadTree(ctx context.Context, src loader.Source, options ...loader.Option) (Tree, error) {
	return loader.New(options...).Load(ctx, src)
}

// NewRegistry returns a registry with the json, yaml, yaml-document, openapi,
// and html renderers.
func NewRegistry(options ...renderers.Option) (*render.Registry, error) {
	return renderers.NewRegistry(options...)
}

// Render renders tree with the named built-in renderer.
func Render(ctx context.Context, name string, tree Tree, options RenderOptions) ([]byte, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	out, _, err := registry.Render(ctx, name, tree, options)
	return out, err
}

// EmbeddedTemplates exposes the editor page templates so callers can extend
// them and pass the result through page.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return page.TemplatesFS()
}

// AssetsFS exposes the editor page stylesheet and script.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(schemabuilder.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return page.AssetsFS()
}
