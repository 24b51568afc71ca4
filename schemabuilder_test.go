package schemabuilder

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

func TestProject_DefaultTree(t *testing.T) {
	got, err := Project(schema.DefaultTree())
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	want := "{\n  \"firstName\": \"STRING\",\n  \"age\": \"NUMBER\",\n  \"address\": {\n    \"street\": \"STRING\"\n  }\n}"
	if got != want {
		t.Fatalf("unexpected projection\nwant: %s\n got: %s", want, got)
	}
}

func TestSessionPreviewMatchesProject(t *testing.T) {
	session, err := NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := session.AddNestedField(nil); err != nil {
		t.Fatalf("add nested: %v", err)
	}
	want, err := Project(session.Tree())
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if session.Preview() != want {
		t.Fatalf("preview diverged from projection:\n%s\n%s", session.Preview(), want)
	}
}

func TestRender_BuiltinNames(t *testing.T) {
	for _, name := range []string{"json", "yaml", "yaml-document", "openapi", "html"} {
		out, err := Render(context.Background(), name, schema.DefaultTree(), RenderOptions{Title: "Person"})
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if len(out) == 0 {
			t.Fatalf("render %s: empty output", name)
		}
	}
	if _, err := Render(context.Background(), "csv", schema.DefaultTree(), RenderOptions{}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestAssetsFSContainsEditorBundle(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "schemabuilder.js")
	if err != nil {
		t.Fatalf("expected editor script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "WebSocket") {
		t.Fatalf("expected editor script to open the snapshot stream")
	}
	if _, err := fs.ReadFile(EmbeddedTemplates(), "page.tpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
}
