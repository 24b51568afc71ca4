package schema

import "testing"

func TestParsePath(t *testing.T) {
	path, err := ParsePath("2.0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !path.Equal(Path{2, 0}) {
		t.Fatalf("unexpected path %v", path)
	}
	if path.String() != "2.0" {
		t.Fatalf("unexpected string %q", path.String())
	}

	root, err := ParsePath("")
	if err != nil || !root.IsRoot() {
		t.Fatalf("expected root path, got %v (%v)", root, err)
	}

	for _, raw := range []string{"a", "1.-1", "1..x"} {
		if _, err := ParsePath(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestMustParsePath(t *testing.T) {
	if got := MustParsePath("0.3.1"); !got.Equal(Path{0, 3, 1}) {
		t.Fatalf("unexpected path %v", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for malformed path")
		}
	}()
	MustParsePath("x.1")
}

func TestPathChildDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = 1
	a := base.Child(0)
	b := base.Child(1)
	if a[1] != 0 || b[1] != 1 {
		t.Fatalf("child paths alias each other: %v %v", a, b)
	}
}

func TestTreeLookup(t *testing.T) {
	tree := DefaultTree()

	node, ok := tree.Lookup(Path{2, 0})
	if !ok || node.KeyName != "street" {
		t.Fatalf("expected street, got %+v (ok=%v)", node, ok)
	}
	if _, ok := tree.Lookup(Path{0, 0}); ok {
		t.Fatalf("expected lookup through primitive to fail")
	}
	if _, ok := tree.Lookup(Path{9}); ok {
		t.Fatalf("expected out of range lookup to fail")
	}
	if _, ok := tree.Lookup(nil); ok {
		t.Fatalf("expected root lookup to fail")
	}
}

func TestTreeKeyPath(t *testing.T) {
	tree := DefaultTree()
	tree[2].Children = append(tree[2].Children, NewField("", FieldTypeString))

	if got, _ := tree.KeyPath(Path{2, 0}); got != "address.street" {
		t.Fatalf("unexpected key path %q", got)
	}
	if got, _ := tree.KeyPath(Path{2, 1}); got != "address.#1" {
		t.Fatalf("unexpected key path for unnamed node %q", got)
	}
}
