package editor

import (
	"log"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// Option configures a Session.
type Option func(*Session)

// WithTree seeds the session. Defaults to schema.DefaultTree().
func WithTree(tree schema.Tree) Option {
	return func(s *Session) {
		s.seed = tree
		s.seeded = true
	}
}

// WithSink routes submissions. Defaults to a LogSink on the standard logger.
func WithSink(sink Sink) Option {
	return func(s *Session) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger overrides the logger used for session diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber channel capacity.
func WithSubscriberBuffer(size int) Option {
	return func(s *Session) {
		if size > 0 {
			s.bufferSize = size
		}
	}
}
