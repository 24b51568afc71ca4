package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
	"github.com/goliatone/go-schemabuilder/pkg/store"
)

func TestRegistry_RegisterAndRender(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(render.RendererFunc{
		RendererName: "count",
		Type:         "text/plain",
		Fn: func(_ context.Context, tree schema.Tree, _ render.RenderOptions) ([]byte, error) {
			return []byte{byte('0' + len(tree))}, nil
		},
	})

	out, contentType, err := registry.Render(context.Background(), "count", schema.DefaultTree(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "3" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q (%s)", out, contentType)
	}

	if err := registry.Register(render.RendererFunc{RendererName: "count"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, _, err := registry.Render(context.Background(), "missing", nil, render.RenderOptions{}); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"count"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestMapIssues(t *testing.T) {
	tree := schema.Tree{
		schema.NewField("dup", schema.FieldTypeString),
		schema.NewField("dup", schema.FieldTypeNumber),
		schema.NewNested("nested", schema.NewField("", schema.FieldTypeString)),
	}
	issues := store.ValidateTree(tree, nil)
	issues = append(issues, store.Issue{
		Path:    schema.Path{9},
		Code:    store.IssueEmptyKeyName,
		Message: "field name is required",
	})

	mapped := render.MapIssues(tree, issues)

	wantFields := map[string][]string{
		"0":   {`field name "dup" is already used by a sibling`},
		"1":   {`field name "dup" is already used by a sibling`},
		"2.0": {"field name is required"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field issues mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"9: field name is required"}, mapped.Tree); diff != "" {
		t.Fatalf("tree issues mismatch (-want +got):\n%s", diff)
	}
}
