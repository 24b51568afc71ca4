// Package projection derives the JSON preview of a schema tree. Project is
// pure: the live preview and the final submission call it on the same tree and
// always obtain byte-identical output.
package projection

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// Entry is one key/value pair of an Object. Value is either a string (an
// uppercased primitive tag) or a nested Object.
type Entry struct {
	Key   string
	Value any
}

// Object is an ordered JSON object. Keys appear in first-assignment order.
type Object []Entry

// Project maps a sibling group to an ordered object:
//   - nodes with an empty key name are skipped;
//   - nested nodes project their children recursively (nil children give {});
//   - primitive nodes project to their uppercased tag.
//
// A repeated key overwrites the earlier value but keeps the earlier position.
func Project(nodes []schema.FieldNode) Object {
	out := Object{}
	for _, node := range nodes {
		if node.KeyName == "" {
			continue
		}
		if node.Type.IsNested() {
			out = out.set(node.KeyName, Project(node.Children))
			continue
		}
		out = out.set(node.KeyName, node.Type.Tag())
	}
	return out
}

// ProjectTree is Project for a whole tree.
func ProjectTree(tree schema.Tree) Object {
	return Project(tree)
}

func (o Object) set(key string, value any) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, entry := range o {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in output order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, entry := range o {
		keys[i] = entry.Key
	}
	return keys
}

// Len reports the number of entries.
func (o Object) Len() int {
	return len(o)
}

// ToMap converts the object into plain maps, dropping order.
func (o Object) ToMap() map[string]any {
	out := make(map[string]any, len(o))
	for _, entry := range o {
		if nested, ok := entry.Value.(Object); ok {
			out[entry.Key] = nested.ToMap()
			continue
		}
		out[entry.Key] = entry.Value
	}
	return out
}

// MarshalJSON renders the compact form, preserving entry order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.write(&buf, "", 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent renders the preview form: two-space indentation, matching
// JSON.stringify(value, null, 2).
func (o Object) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.write(&buf, "  ", 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the indented form, or "{}" if encoding fails.
func (o Object) String() string {
	data, err := o.MarshalIndent()
	if err != nil {
		return "{}"
	}
	return string(data)
}

func (o Object) write(buf *bytes.Buffer, indent string, depth int) error {
	if len(o) == 0 {
		buf.WriteString("{}")
		return nil
	}

	buf.WriteByte('{')
	for i, entry := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		newline(buf, indent, depth+1)

		key, err := encodeString(entry.Key)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if indent != "" {
			buf.WriteByte(' ')
		}

		switch value := entry.Value.(type) {
		case Object:
			if err := value.write(buf, indent, depth+1); err != nil {
				return err
			}
		case string:
			encoded, err := encodeString(value)
			if err != nil {
				return err
			}
			buf.Write(encoded)
		default:
			return fmt.Errorf("projection: unsupported value %T for key %q", entry.Value, entry.Key)
		}
	}
	newline(buf, indent, depth)
	buf.WriteByte('}')
	return nil
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		buf.WriteString(indent)
	}
}

// encodeString quotes value the way JSON.stringify does: <, >, &, U+2028 and
// U+2029 stay literal, \b and \f use their short escapes, and remaining
// \u escapes use lowercase hex.
func encodeString(value string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("projection: encode %q: %w", value, err)
	}
	return restoreEscapes(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

var stringifyEscapes = map[string]string{
	`\u2028`: "\u2028",
	`\u2029`: "\u2029",
	`\u0008`: `\b`,
	`\u000c`: `\f`,
}

// restoreEscapes rewrites the \u escapes of an encoded string. Escape pairs
// are consumed whole so an escaped backslash followed by "u" is left alone.
func restoreEscapes(encoded []byte) []byte {
	if !bytes.Contains(encoded, []byte(`\u`)) {
		return encoded
	}
	out := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); i++ {
		if encoded[i] != '\\' || i+1 == len(encoded) {
			out = append(out, encoded[i])
			continue
		}
		if encoded[i+1] == 'u' && i+6 <= len(encoded) {
			escape := strings.ToLower(string(encoded[i : i+6]))
			if literal, ok := stringifyEscapes[escape]; ok {
				escape = literal
			}
			out = append(out, escape...)
			i += 5
			continue
		}
		out = append(out, encoded[i], encoded[i+1])
		i++
	}
	return out
}
