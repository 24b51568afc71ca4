// Package yamldoc renders a schema tree as YAML, either the projected object
// or the editable {schema: [...]} document that the loader reads back.
package yamldoc

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemabuilder/pkg/projection"
	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// Mode selects what gets rendered.
type Mode int

const (
	// ModeProjection renders the key -> type tag object.
	ModeProjection Mode = iota
	// ModeDocument renders the schema document.
	ModeDocument
)

// Option configures the renderer.
type Option func(*Renderer)

// WithMode selects projection or document output.
func WithMode(mode Mode) Option {
	return func(r *Renderer) {
		r.mode = mode
	}
}

// WithIndent overrides the two-space indent.
func WithIndent(spaces int) Option {
	return func(r *Renderer) {
		if spaces > 0 {
			r.indent = spaces
		}
	}
}

// Renderer implements render.Renderer for YAML output.
type Renderer struct {
	mode   Mode
	indent int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a YAML renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{indent: 2}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	if r.mode == ModeDocument {
		return "yaml-document"
	}
	return "yaml"
}

func (r *Renderer) ContentType() string {
	return "application/yaml"
}

func (r *Renderer) Render(_ context.Context, tree schema.Tree, _ render.RenderOptions) ([]byte, error) {
	var value any
	switch r.mode {
	case ModeDocument:
		if tree == nil {
			tree = schema.Tree{}
		}
		value = schema.Document{Schema: tree}
	default:
		value = objectNode(projection.ProjectTree(tree))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(r.indent)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("yaml renderer: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml renderer: close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// objectNode builds a mapping node so entry order survives encoding.
func objectNode(obj projection.Object) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(obj) == 0 {
		node.Style = yaml.FlowStyle
	}
	for _, entry := range obj {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Key}
		var value *yaml.Node
		switch v := entry.Value.(type) {
		case projection.Object:
			value = objectNode(v)
		default:
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v)}
		}
		node.Content = append(node.Content, key, value)
	}
	return node
}
