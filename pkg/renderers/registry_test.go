package renderers

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

func TestNewRegistry_Defaults(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	want := []string{"html", "json", "openapi", "yaml", "yaml-document"}
	if diff := cmp.Diff(want, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRegistry_RendererOptions(t *testing.T) {
	registry, err := NewRegistry(WithYAMLIndent(4), WithComponentName("Person"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	tree := schema.DefaultTree()

	out, _, err := registry.Render(context.Background(), "yaml", tree, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render yaml: %v", err)
	}
	if !strings.Contains(string(out), "address:\n    street: STRING\n") {
		t.Fatalf("expected four-space indent, got %q", out)
	}

	out, _, err = registry.Render(context.Background(), "openapi", tree, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render openapi: %v", err)
	}
	if !strings.Contains(string(out), `"Person": {`) {
		t.Fatalf("expected configured component name\n%s", out)
	}
}
