package editor

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// Submission is what the submit action emits.
type Submission struct {
	Revision    uint64
	JSON        string
	SubmittedAt time.Time
}

// Sink receives submissions.
type Sink interface {
	Emit(ctx context.Context, submission Submission) error
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(context.Context, Submission) error

// Emit calls the underlying function.
func (fn SinkFunc) Emit(ctx context.Context, submission Submission) error {
	return fn(ctx, submission)
}

// LogSink writes submissions to a logger, mirroring a console log.
type LogSink struct {
	Logger *log.Logger
}

// Emit logs the generated schema.
func (s LogSink) Emit(ctx context.Context, submission Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("Final Generated Schema: %s", submission.JSON)
	return nil
}

// WriterSink writes each submission followed by a newline.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Emit writes the submission JSON.
func (s *WriterSink) Emit(ctx context.Context, submission Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.w == nil {
		return fmt.Errorf("editor: writer sink has no writer")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, submission.JSON+"\n")
	return err
}

// MultiSink fans a submission out to every sink, stopping at the first error.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, submission Submission) error {
		for _, sink := range sinks {
			if sink == nil {
				continue
			}
			if err := sink.Emit(ctx, submission); err != nil {
				return err
			}
		}
		return nil
	})
}
