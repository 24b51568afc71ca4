package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a node by sibling indices from the root. The empty path is
// the root sibling group itself.
type Path []int

// ParsePath reads the dotted form produced by Path.String ("0.2.1"). The empty
// string parses to the root path.
func ParsePath(raw string) (Path, error) {
	trimmed := strings.Trim(strings.TrimSpace(raw), ".")
	if trimmed == "" {
		return Path{}, nil
	}
	parts := strings.Split(trimmed, ".")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("schema: invalid path segment %q in %q", part, raw)
		}
		out = append(out, idx)
	}
	return out, nil
}

// MustParsePath panics when raw is not a valid path. Useful for tests.
func MustParsePath(raw string) Path {
	path, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return path
}

// String renders the dotted form; the root renders as "".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Display is String with the root spelled out, for messages.
func (p Path) Display() string {
	if len(p) == 0 {
		return "(root)"
	}
	return p.String()
}

// IsRoot reports whether p addresses the root group.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Child returns a new path with idx appended. p is never mutated.
func (p Path) Child(idx int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = idx
	return out
}

// Parent splits p into its parent path and last index. ok is false for root.
func (p Path) Parent() (parent Path, index int, ok bool) {
	if len(p) == 0 {
		return nil, 0, false
	}
	parent = make(Path, len(p)-1)
	copy(parent, p[:len(p)-1])
	return parent, p[len(p)-1], true
}

// Equal reports whether both paths address the same position.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Lookup resolves the node at path. ok is false when any segment is out of
// range or descends through a primitive node.
func (t Tree) Lookup(path Path) (FieldNode, bool) {
	if len(path) == 0 {
		return FieldNode{}, false
	}
	group := t
	var node FieldNode
	for depth, idx := range path {
		if idx < 0 || idx >= len(group) {
			return FieldNode{}, false
		}
		node = group[idx]
		if depth < len(path)-1 {
			if !node.Type.IsNested() {
				return FieldNode{}, false
			}
			group = node.Children
		}
	}
	return node, true
}

// KeyPath renders the dotted key names along path ("address.street"), using
// "#i" for nodes without a name. ok is false when path does not resolve.
func (t Tree) KeyPath(path Path) (string, bool) {
	if len(path) == 0 {
		return "", true
	}
	group := t
	names := make([]string, 0, len(path))
	for depth, idx := range path {
		if idx < 0 || idx >= len(group) {
			return "", false
		}
		node := group[idx]
		name := node.KeyName
		if name == "" {
			name = "#" + strconv.Itoa(idx)
		}
		names = append(names, name)
		if depth < len(path)-1 {
			if !node.Type.IsNested() {
				return "", false
			}
			group = node.Children
		}
	}
	return strings.Join(names, "."), true
}
