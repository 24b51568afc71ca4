package schema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Document is the wire shape used for seeds and the HTTP API:
// {"schema": [{"keyName": "...", "type": "String"}]}.
type Document struct {
	Schema Tree `json:"schema" yaml:"schema"`
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// UnmarshalText accepts any casing of a known type name.
func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DecodeJSON parses a schema document. A bare array is accepted as well as the
// wrapped {"schema": [...]} form.
func DecodeJSON(data []byte) (Tree, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("schema: document is empty")
	}

	var tree Tree
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &tree); err != nil {
			return nil, fmt.Errorf("schema: decode tree: %w", err)
		}
	} else {
		var doc Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("schema: decode document: %w", err)
		}
		tree = doc.Schema
	}

	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree.Normalize(), nil
}

// EncodeJSON writes the wrapped document form with two-space indentation.
func EncodeJSON(tree Tree) ([]byte, error) {
	if tree == nil {
		tree = Tree{}
	}
	return json.MarshalIndent(Document{Schema: tree}, "", "  ")
}
