package render

import "github.com/goliatone/go-schemabuilder/pkg/store"

// RenderOptions carry per-request data that renderers can use without
// touching the store.
type RenderOptions struct {
	// Title labels the document. HTML pages use it as the heading and OpenAPI
	// output uses it as the component name.
	Title string
	// Revision is the store revision the tree was read at. Renderers embed it
	// so clients can detect stale previews.
	Revision uint64
	// Issues surfaces naming problems found by the store validator. The page
	// renderer marks the affected rows inline; other renderers ignore them.
	Issues []store.Issue
	// Theme and ThemeVariant pick a go-theme manifest for HTML output.
	Theme        string
	ThemeVariant string
}
