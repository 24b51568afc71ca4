package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goliatone/go-schemabuilder/pkg/projection"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
	"github.com/goliatone/go-schemabuilder/pkg/store"
)

const defaultSubscriberBuffer = 8

// Snapshot is the derived state after a transition: the tree, its projection,
// and the inline validation issues.
type Snapshot struct {
	Revision uint64
	Tree     schema.Tree
	Preview  projection.Object
	JSON     string
	Issues   []store.Issue
}

// Session is one editing session over a single tree.
type Session struct {
	store  *store.Store
	sink   Sink
	logger *log.Logger

	seed   schema.Tree
	seeded bool

	mu          sync.Mutex
	current     Snapshot
	subscribers map[int]chan Snapshot
	nextID      int
	bufferSize  int

	now func() time.Time
}

// NewSession constructs a Session seeded with the default tree unless
// WithTree is supplied. A seed with an unknown field type fails with
// store.ErrInvalidType.
func NewSession(options ...Option) (*Session, error) {
	s := &Session{
		sink:        LogSink{},
		logger:      log.Default(),
		subscribers: make(map[int]chan Snapshot),
		bufferSize:  defaultSubscriberBuffer,
		now:         time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	seed := s.seed
	if !s.seeded {
		seed = schema.DefaultTree()
	}
	st, err := store.New(seed)
	if err != nil {
		return nil, fmt.Errorf("editor: seed: %w", err)
	}
	s.store = st
	s.current = derive(s.store)
	return s, nil
}

// Store exposes the underlying store for read access.
func (s *Session) Store() *store.Store {
	return s.store
}

// Snapshot returns the latest derived state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Preview returns the pretty JSON preview of the current tree.
func (s *Session) Preview() string {
	return s.Snapshot().JSON
}

// Tree returns a copy of the current tree.
func (s *Session) Tree() schema.Tree {
	return s.store.Tree()
}

// Issues returns the inline validation issues for the current tree.
func (s *Session) Issues() []store.Issue {
	return s.Snapshot().Issues
}

// Insert adds node under parent at position (store.Append to append).
func (s *Session) Insert(parent schema.Path, node schema.FieldNode, position int) (schema.Path, error) {
	path, err := s.store.Insert(parent, node, position)
	if err != nil {
		return nil, err
	}
	s.publish()
	return path, nil
}

// AddField appends the default field ("newNestedField", String) under parent.
func (s *Session) AddField(parent schema.Path) (schema.Path, error) {
	return s.Insert(parent, schema.DefaultField(), store.Append)
}

// AddNestedField appends an empty nested field under parent.
func (s *Session) AddNestedField(parent schema.Path) (schema.Path, error) {
	return s.Insert(parent, schema.DefaultNestedField(), store.Append)
}

// Remove deletes the node at path and its subtree.
func (s *Session) Remove(path schema.Path) (schema.FieldNode, error) {
	node, err := s.store.Remove(path)
	if err != nil {
		return schema.FieldNode{}, err
	}
	s.publish()
	return node, nil
}

// Move reorders a sibling within parent.
func (s *Session) Move(parent schema.Path, from, to int) error {
	if err := s.store.Move(parent, from, to); err != nil {
		return err
	}
	s.publish()
	return nil
}

// SetKeyName renames the node at path.
func (s *Session) SetKeyName(path schema.Path, value string) error {
	if err := s.store.SetKeyName(path, value); err != nil {
		return err
	}
	s.publish()
	return nil
}

// SetKind changes the type of the node at path.
func (s *Session) SetKind(path schema.Path, kind schema.FieldType) error {
	if err := s.store.SetKind(path, kind); err != nil {
		return err
	}
	s.publish()
	return nil
}

// Replace swaps the whole tree.
func (s *Session) Replace(tree schema.Tree) error {
	if err := s.store.Replace(tree); err != nil {
		return err
	}
	s.publish()
	return nil
}

// Submit projects the current tree and emits it to the sink. The emitted JSON
// is the same string the preview shows for this revision.
func (s *Session) Submit(ctx context.Context) (Submission, error) {
	if ctx == nil {
		return Submission{}, errors.New("editor: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}

	snap := derive(s.store)
	submission := Submission{
		Revision:    snap.Revision,
		JSON:        snap.JSON,
		SubmittedAt: s.now(),
	}
	if err := s.sink.Emit(ctx, submission); err != nil {
		return Submission{}, fmt.Errorf("editor: emit submission: %w", err)
	}
	return submission, nil
}

// Subscribe returns a channel receiving the current snapshot followed by one
// snapshot per mutation. A subscriber that falls behind only misses
// intermediate snapshots; the newest is always delivered. The channel closes
// when ctx is done.
func (s *Session) Subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, s.bufferSize)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch
	ch <- s.current
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subscribers, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

func (s *Session) publish() {
	snap := derive(s.store)

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Revision < s.current.Revision {
		return
	}
	s.current = snap
	for id, ch := range s.subscribers {
		deliver(ch, snap)
		if len(ch) == cap(ch) {
			s.logger.Printf("editor: subscriber %d is lagging at revision %d", id, snap.Revision)
		}
	}
}

// deliver drops the oldest pending snapshot when the buffer is full so the
// newest always gets through. Callers hold s.mu, the only sender.
func deliver(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func derive(st *store.Store) Snapshot {
	tree, revision := st.Current()
	preview := projection.ProjectTree(tree)
	return Snapshot{
		Revision: revision,
		Tree:     tree,
		Preview:  preview,
		JSON:     preview.String(),
		Issues:   store.ValidateTree(tree, nil),
	}
}
