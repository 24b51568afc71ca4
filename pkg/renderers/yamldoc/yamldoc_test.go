package yamldoc

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemabuilder/pkg/loader"
	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

func TestRenderer_ProjectionKeepsOrder(t *testing.T) {
	tree := schema.Tree{
		schema.NewField("zeta", schema.FieldTypeString),
		schema.NewField("alpha", schema.FieldTypeNumber),
		schema.NewNested("address", schema.NewField("street", schema.FieldTypeString)),
		schema.NewNested("empty"),
	}

	out, err := New().Render(context.Background(), tree, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "zeta: STRING\nalpha: NUMBER\naddress:\n  street: STRING\nempty: {}\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_ProjectionQuotesAmbiguousKeys(t *testing.T) {
	tree := schema.Tree{schema.NewField("true", schema.FieldTypeString)}

	out, err := New().Render(context.Background(), tree, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded map[string]string
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["true"] != "STRING" {
		t.Fatalf("expected string key to survive, got %v", decoded)
	}
}

func TestRenderer_DocumentRoundTripsThroughLoader(t *testing.T) {
	tree := schema.DefaultTree()

	r := New(WithMode(ModeDocument))
	if r.Name() != "yaml-document" {
		t.Fatalf("unexpected name %q", r.Name())
	}
	out, err := r.Render(context.Background(), tree, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	decoded, err := loader.Decode(out, loader.FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(tree, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
