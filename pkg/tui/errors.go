package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSession is returned when the editor is built without a session.
	ErrNoSession = errors.New("tui: editor session is required")
	// ErrEmptyKeyName rejects blank answers to field name prompts.
	ErrEmptyKeyName = errors.New("tui: field name is required")
)
