package schema

import (
	"fmt"
	"strings"
)

// FieldType enumerates the kinds a node can take. String and Number are
// primitive tags; Nested marks a node that owns a child tree.
type FieldType string

const (
	FieldTypeString FieldType = "String"
	FieldTypeNumber FieldType = "Number"
	FieldTypeNested FieldType = "Nested"
)

// DefaultKeyName is assigned to nodes created through the "add field" action.
const DefaultKeyName = "newNestedField"

var primitiveTypes = []FieldType{FieldTypeString, FieldTypeNumber}

// PrimitiveTypes returns the closed set of primitive tags in display order.
func PrimitiveTypes() []FieldType {
	return append([]FieldType(nil), primitiveTypes...)
}

// FieldTypes returns every selectable type, primitives first.
func FieldTypes() []FieldType {
	return append(PrimitiveTypes(), FieldTypeNested)
}

// IsPrimitive reports whether the type is one of the primitive tags.
func (t FieldType) IsPrimitive() bool {
	for _, candidate := range primitiveTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// IsNested reports whether the type owns children.
func (t FieldType) IsNested() bool {
	return t == FieldTypeNested
}

// Valid reports whether t belongs to the closed type set.
func (t FieldType) Valid() bool {
	return t.IsPrimitive() || t.IsNested()
}

// Tag returns the projected leaf value for a primitive type ("STRING").
func (t FieldType) Tag() string {
	return strings.ToUpper(string(t))
}

// ParseFieldType resolves a type name case-insensitively.
func ParseFieldType(raw string) (FieldType, error) {
	trimmed := strings.TrimSpace(raw)
	for _, candidate := range FieldTypes() {
		if strings.EqualFold(trimmed, string(candidate)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("schema: unknown field type %q", raw)
}

// FieldNode is one entry in the schema tree. Children is only meaningful when
// Type is Nested.
type FieldNode struct {
	KeyName  string      `json:"keyName" yaml:"keyName"`
	Type     FieldType   `json:"type" yaml:"type"`
	Children []FieldNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree is the root sibling group. It has no key of its own.
type Tree []FieldNode

// NewField returns a primitive node.
func NewField(keyName string, typ FieldType) FieldNode {
	return FieldNode{KeyName: keyName, Type: typ}
}

// NewNested returns a nested node owning the supplied children.
func NewNested(keyName string, children ...FieldNode) FieldNode {
	if children == nil {
		children = []FieldNode{}
	}
	return FieldNode{KeyName: keyName, Type: FieldTypeNested, Children: children}
}

// DefaultField mirrors the "add field" action of the editor.
func DefaultField() FieldNode {
	return NewField(DefaultKeyName, FieldTypeString)
}

// DefaultNestedField mirrors the "add field" action for nested rows.
func DefaultNestedField() FieldNode {
	return NewNested(DefaultKeyName)
}

// DefaultTree returns the tree the editor starts with.
func DefaultTree() Tree {
	return Tree{
		NewField("firstName", FieldTypeString),
		NewField("age", FieldTypeNumber),
		NewNested("address", NewField("street", FieldTypeString)),
	}
}

// Clone returns a deep copy of the node.
func (n FieldNode) Clone() FieldNode {
	out := FieldNode{KeyName: n.KeyName, Type: n.Type}
	if n.Children != nil {
		out.Children = Tree(n.Children).Clone()
	}
	return out
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for i, node := range t {
		out[i] = node.Clone()
	}
	return out
}

// Normalize returns a copy where nested nodes always carry a non-nil child
// slice and primitive nodes carry none.
func (t Tree) Normalize() Tree {
	out := make(Tree, len(t))
	for i, node := range t {
		out[i] = node.Normalize()
	}
	return out
}

// Normalize returns a normalized copy of the node.
func (n FieldNode) Normalize() FieldNode {
	out := FieldNode{KeyName: n.KeyName, Type: n.Type}
	if n.Type.IsNested() {
		out.Children = []FieldNode(Tree(n.Children).Normalize())
	}
	return out
}

// Validate checks that every node uses a known type. Names are not checked
// (see store.ValidateUniqueness) and stray children on primitive nodes are
// left for Normalize to drop.
func (t Tree) Validate() error {
	return t.validate(nil)
}

func (t Tree) validate(prefix Path) error {
	for i, node := range t {
		path := prefix.Child(i)
		if !node.Type.Valid() {
			return fmt.Errorf("schema: node %s: unknown field type %q", path.Display(), node.Type)
		}
		if err := Tree(node.Children).validate(path); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every node depth-first in sibling order. Returning false from fn
// skips the node's children.
func (t Tree) Walk(fn func(path Path, node FieldNode) bool) {
	t.walk(nil, fn)
}

func (t Tree) walk(prefix Path, fn func(Path, FieldNode) bool) {
	for i, node := range t {
		path := prefix.Child(i)
		if !fn(path, node) {
			continue
		}
		if node.Type.IsNested() {
			Tree(node.Children).walk(path, fn)
		}
	}
}
