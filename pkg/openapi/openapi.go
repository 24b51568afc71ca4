// Package openapi converts schema trees to and from OpenAPI 3 component
// schemas. Property maps are unordered in OpenAPI, so sibling order travels in
// the x-schemabuilder-order extension.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// OrderExtension lists property names in sibling order.
const OrderExtension = "x-schemabuilder-order"

// ErrUnsupportedSchema is returned when an imported property uses a type the
// editor cannot represent.
var ErrUnsupportedSchema = errors.New("openapi: unsupported schema")

// Export builds an object schema for tree following the projection rules:
// empty names are skipped and a repeated name keeps its first position with
// the last definition.
func Export(tree schema.Tree) *openapi3.Schema {
	return exportGroup(tree)
}

func exportGroup(nodes []schema.FieldNode) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	order := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if node.KeyName == "" {
			continue
		}
		if _, exists := out.Properties[node.KeyName]; !exists {
			order = append(order, node.KeyName)
		}
		out.Properties[node.KeyName] = openapi3.NewSchemaRef("", exportNode(node))
	}
	if len(order) > 0 {
		out.Extensions = map[string]any{OrderExtension: order}
	}
	return out
}

func exportNode(node schema.FieldNode) *openapi3.Schema {
	switch node.Type {
	case schema.FieldTypeNested:
		return exportGroup(node.Children)
	case schema.FieldTypeNumber:
		return openapi3.NewFloat64Schema()
	default:
		return openapi3.NewStringSchema()
	}
}

// Document wraps the exported schema in a minimal OpenAPI document under
// components.schemas[name]. The result marshals with any JSON encoder.
func Document(name, title string, tree schema.Tree) map[string]any {
	if title == "" {
		title = name
	}
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   title,
			"version": "1.0.0",
		},
		"paths": map[string]any{},
		"components": map[string]any{
			"schemas": map[string]any{
				name: Export(tree),
			},
		},
	}
}

// Import converts an object schema back into a tree. Properties follow the
// order extension when present and sort by name otherwise.
func Import(s *openapi3.Schema) (schema.Tree, error) {
	if s == nil {
		return schema.Tree{}, nil
	}
	if !isType(s, openapi3.TypeObject) && len(s.Properties) == 0 {
		return nil, fmt.Errorf("%w: root must be an object", ErrUnsupportedSchema)
	}
	return importGroup(s, "")
}

func importGroup(s *openapi3.Schema, prefix string) (schema.Tree, error) {
	tree := make(schema.Tree, 0, len(s.Properties))
	for _, name := range PropertyOrder(s) {
		ref := s.Properties[name]
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("%w: property %q has no resolved schema", ErrUnsupportedSchema, prefix+name)
		}
		node, err := importNode(name, ref.Value, prefix)
		if err != nil {
			return nil, err
		}
		tree = append(tree, node)
	}
	return tree, nil
}

func importNode(name string, s *openapi3.Schema, prefix string) (schema.FieldNode, error) {
	switch {
	case isType(s, openapi3.TypeString):
		return schema.NewField(name, schema.FieldTypeString), nil
	case isType(s, openapi3.TypeNumber), isType(s, openapi3.TypeInteger):
		return schema.NewField(name, schema.FieldTypeNumber), nil
	case isType(s, openapi3.TypeObject), s.Type == nil && len(s.Properties) > 0:
		children, err := importGroup(s, prefix+name+".")
		if err != nil {
			return schema.FieldNode{}, err
		}
		return schema.NewNested(name, children...), nil
	default:
		return schema.FieldNode{}, fmt.Errorf("%w: property %q has type %v", ErrUnsupportedSchema, prefix+name, typeNames(s))
	}
}

// PropertyOrder lists the property names of s: names from the order extension
// first, then any remaining names sorted.
func PropertyOrder(s *openapi3.Schema) []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(s.Properties))
	order := make([]string, 0, len(s.Properties))
	for _, name := range orderFromExtension(s.Extensions[OrderExtension]) {
		if _, ok := s.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}

	var rest []string
	for name := range s.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func orderFromExtension(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if name, ok := item.(string); ok {
				out = append(out, name)
			}
		}
		return out
	default:
		return nil
	}
}

func isType(s *openapi3.Schema, name string) bool {
	return s.Type != nil && s.Type.Is(name)
}

func typeNames(s *openapi3.Schema) []string {
	if s.Type == nil {
		return nil
	}
	return s.Type.Slice()
}

// ImportDocument loads an OpenAPI document and imports components.schemas[name].
func ImportDocument(ctx context.Context, data []byte, name string) (schema.Tree, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, errors.New("openapi: document has no component schemas")
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: component schema %q not found", name)
	}
	return Import(ref.Value)
}
