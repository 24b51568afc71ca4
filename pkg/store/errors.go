package store

import "errors"

var (
	// ErrPathNotFound is returned when a path does not resolve to a node. Under
	// correct editor usage this indicates a caller bug rather than user error.
	ErrPathNotFound = errors.New("store: path not found")
	// ErrNotNested is returned when a parent path resolves to a primitive node.
	ErrNotNested = errors.New("store: parent is not a nested field")
	// ErrIndexOutOfRange is returned for insert or move positions outside the
	// sibling group.
	ErrIndexOutOfRange = errors.New("store: index out of range")
	// ErrInvalidType is returned when a node or kind change uses an unknown type.
	ErrInvalidType = errors.New("store: invalid field type")
)
