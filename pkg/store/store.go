// Package store holds the live, editable schema tree and exposes insert,
// remove, reorder, and in-place edit operations addressed by index paths.
package store

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// Position value that appends to the end of a sibling group.
const Append = -1

// Store owns one schema tree. Every successful mutation bumps Revision.
type Store struct {
	mu       sync.RWMutex
	tree     schema.Tree
	revision uint64
}

// New returns a store seeded with a normalized copy of tree. Seeds holding a
// type outside the closed set are rejected with ErrInvalidType.
func New(tree schema.Tree) (*Store, error) {
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidType, err)
	}
	return &Store{tree: tree.Normalize()}, nil
}

// Tree returns a deep copy of the current tree.
func (s *Store) Tree() schema.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Clone()
}

// Revision reports how many mutations have been applied.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Current returns a copy of the tree together with the revision it belongs to.
func (s *Store) Current() (schema.Tree, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Clone(), s.revision
}

// Node returns a copy of the node at path.
func (s *Store) Node(path schema.Path) (schema.FieldNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.tree.Lookup(path)
	if !ok {
		return schema.FieldNode{}, pathError(path)
	}
	return node.Clone(), nil
}

// Children returns a copy of the sibling group at parent.
func (s *Store) Children(parent schema.Path) (schema.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, err := s.group(parent)
	if err != nil {
		return nil, err
	}
	return (*group).Clone(), nil
}

// Replace swaps the whole tree.
func (s *Store) Replace(tree schema.Tree) error {
	if err := tree.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidType, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree = tree.Normalize()
	s.revision++
	return nil
}

// Insert places node into the sibling group at parent. position Append (-1)
// appends; otherwise it must lie within [0, len(group)]. The returned path
// addresses the inserted node.
func (s *Store) Insert(parent schema.Path, node schema.FieldNode, position int) (schema.Path, error) {
	if err := (schema.Tree{node}).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidType, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	group, err := s.group(parent)
	if err != nil {
		return nil, err
	}
	if position == Append {
		position = len(*group)
	}
	if position < 0 || position > len(*group) {
		return nil, fmt.Errorf("%w: insert at %d into %s (len %d)", ErrIndexOutOfRange, position, parent.Display(), len(*group))
	}

	updated := make(schema.Tree, 0, len(*group)+1)
	updated = append(updated, (*group)[:position]...)
	updated = append(updated, node.Normalize())
	updated = append(updated, (*group)[position:]...)
	*group = updated

	s.revision++
	return parent.Child(position), nil
}

// AppendNode is Insert at the end of the group.
func (s *Store) AppendNode(parent schema.Path, node schema.FieldNode) (schema.Path, error) {
	return s.Insert(parent, node, Append)
}

// Remove deletes the node at path together with its subtree and returns it.
func (s *Store) Remove(path schema.Path) (schema.FieldNode, error) {
	parent, index, ok := path.Parent()
	if !ok {
		return schema.FieldNode{}, pathError(path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	group, err := s.group(parent)
	if err != nil {
		return schema.FieldNode{}, pathError(path)
	}
	if index < 0 || index >= len(*group) {
		return schema.FieldNode{}, pathError(path)
	}

	removed := (*group)[index]
	updated := make(schema.Tree, 0, len(*group)-1)
	updated = append(updated, (*group)[:index]...)
	updated = append(updated, (*group)[index+1:]...)
	*group = updated

	s.revision++
	return removed, nil
}

// Move reorders one sibling within its group: the node at from is taken out
// and reinserted at to. Nodes are neither created, destroyed, nor modified.
func (s *Store) Move(parent schema.Path, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, err := s.group(parent)
	if err != nil {
		return err
	}
	n := len(*group)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d in %s (len %d)", ErrIndexOutOfRange, from, to, parent.Display(), n)
	}
	if from == to {
		return nil
	}

	items := *group
	moved := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = moved

	s.revision++
	return nil
}

// SetKeyName renames the node at path. Empty and duplicate names are accepted
// here; ValidateUniqueness reports them.
func (s *Store) SetKeyName(path schema.Path, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, err := s.node(path)
	if err != nil {
		return err
	}
	node.KeyName = value
	s.revision++
	return nil
}

// SetKind changes the type of the node at path. Switching a nested node to a
// primitive discards its children; switching to Nested starts with an empty
// child group. Re-selecting the current type leaves the node untouched.
func (s *Store) SetKind(path schema.Path, kind schema.FieldType) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, err := s.node(path)
	if err != nil {
		return err
	}
	if node.Type == kind {
		return nil
	}

	node.Type = kind
	if kind.IsNested() {
		node.Children = []schema.FieldNode{}
	} else {
		node.Children = nil
	}
	s.revision++
	return nil
}

// group resolves the sibling slice at parent. Callers hold the lock.
func (s *Store) group(parent schema.Path) (*schema.Tree, error) {
	if parent.IsRoot() {
		return &s.tree, nil
	}
	node, err := s.node(parent)
	if err != nil {
		return nil, err
	}
	if !node.Type.IsNested() {
		return nil, fmt.Errorf("%w: %s", ErrNotNested, parent.Display())
	}
	return (*schema.Tree)(&node.Children), nil
}

// node returns a pointer into the live tree. Callers hold the lock.
func (s *Store) node(path schema.Path) (*schema.FieldNode, error) {
	if path.IsRoot() {
		return nil, pathError(path)
	}
	group := s.tree
	var current *schema.FieldNode
	for depth, idx := range path {
		if idx < 0 || idx >= len(group) {
			return nil, pathError(path)
		}
		current = &group[idx]
		if depth < len(path)-1 {
			if !current.Type.IsNested() {
				return nil, pathError(path)
			}
			group = current.Children
		}
	}
	return current, nil
}

func pathError(path schema.Path) error {
	return fmt.Errorf("%w: %s", ErrPathNotFound, path.Display())
}
