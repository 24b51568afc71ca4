package projection

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
	"github.com/goliatone/go-schemabuilder/pkg/testsupport"
)

func TestProject_Empty(t *testing.T) {
	got := Project(nil)
	if got.Len() != 0 {
		t.Fatalf("expected empty object, got %v", got)
	}
	data, err := got.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Fatalf("expected {}, got %s", data)
	}
}

func TestProject_DefaultTreeGolden(t *testing.T) {
	const golden = "testdata/default_tree.golden.json"

	out, err := Project(schema.DefaultTree()).MarshalIndent()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if testsupport.WriteMaybeGolden(t, golden, append(out, '\n')) {
		return
	}

	want := strings.TrimRight(testsupport.MustReadGoldenString(t, golden), "\n")
	if diff := testsupport.CompareGolden(want, string(out)); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_Compact(t *testing.T) {
	data, err := Project(schema.DefaultTree()).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"firstName":"STRING","age":"NUMBER","address":{"street":"STRING"}}`
	if string(data) != want {
		t.Fatalf("want %s, got %s", want, data)
	}
}

func TestProject_PreservesSiblingOrder(t *testing.T) {
	nodes := []schema.FieldNode{
		schema.NewField("zeta", schema.FieldTypeString),
		schema.NewField("alpha", schema.FieldTypeNumber),
		schema.NewField("mid", schema.FieldTypeString),
	}
	got := Project(nodes).Keys()
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, got); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_DuplicateLastWriteWins(t *testing.T) {
	nodes := []schema.FieldNode{
		schema.NewField("a", schema.FieldTypeString),
		schema.NewField("b", schema.FieldTypeString),
		schema.NewField("a", schema.FieldTypeNumber),
	}
	got := Project(nodes)

	want := Object{{Key: "a", Value: "NUMBER"}, {Key: "b", Value: "STRING"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_DuplicatePair(t *testing.T) {
	nodes := []schema.FieldNode{
		schema.NewField("a", schema.FieldTypeString),
		schema.NewField("a", schema.FieldTypeNumber),
	}
	data, err := Project(nodes).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":"NUMBER"}` {
		t.Fatalf("unexpected output %s", data)
	}
}

func TestProject_SkipsEmptyNames(t *testing.T) {
	nodes := []schema.FieldNode{
		schema.NewField("", schema.FieldTypeString),
		schema.NewField("b", schema.FieldTypeNumber),
	}
	data, err := Project(nodes).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"b":"NUMBER"}` {
		t.Fatalf("unexpected output %s", data)
	}
}

func TestProject_NestedWithoutChildren(t *testing.T) {
	nodes := []schema.FieldNode{
		{KeyName: "absent", Type: schema.FieldTypeNested},
		schema.NewNested("empty"),
	}
	out, err := Project(nodes).MarshalIndent()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := "{\n  \"absent\": {},\n  \"empty\": {}\n}"
	if string(out) != want {
		t.Fatalf("want %q, got %q", want, out)
	}
}

func TestProject_DeepNesting(t *testing.T) {
	nodes := []schema.FieldNode{
		schema.NewNested("a", schema.NewNested("b", schema.NewNested("c", schema.NewField("d", schema.FieldTypeNumber)))),
	}
	got := Project(nodes).ToMap()
	want := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": map[string]any{"d": "NUMBER"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_EscapesLikeJSONStringify(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{key: `<a&"b">`, want: `{"<a&\"b\">":"STRING"}`},
		{key: "a<b", want: `{"a<b":"STRING"}`},
		{key: "x&y", want: `{"x&y":"STRING"}`},
		{key: "l\u2028s\u2029p", want: "{\"l\u2028s\u2029p\":\"STRING\"}"},
		{key: `back\u2028slash`, want: `{"back\\u2028slash":"STRING"}`},
		{key: "t\tn\nb\bf\fu\x1f", want: `{"t\tn\nb\bf\fu\u001f":"STRING"}`},
		{key: "ünï", want: `{"ünï":"STRING"}`},
	}
	for _, tc := range cases {
		data, err := Project([]schema.FieldNode{schema.NewField(tc.key, schema.FieldTypeString)}).MarshalJSON()
		if err != nil {
			t.Fatalf("marshal %q: %v", tc.key, err)
		}
		if string(data) != tc.want {
			t.Fatalf("key %q: want %s, got %s", tc.key, tc.want, data)
		}
	}
}

func TestProject_IsPure(t *testing.T) {
	tree := schema.DefaultTree()
	before := tree.Clone()

	first := Project(tree).String()
	second := Project(tree).String()

	if first != second {
		t.Fatalf("projection not deterministic:\n%s\n%s", first, second)
	}
	if diff := cmp.Diff(before, tree); diff != "" {
		t.Fatalf("projection mutated input (-want +got):\n%s", diff)
	}
}
