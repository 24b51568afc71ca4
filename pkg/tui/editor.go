// Package tui is the terminal editing surface: a prompt loop over an editor
// session that adds, renames, retypes, removes, and moves fields, shows the
// live JSON preview, and submits it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-schemabuilder/pkg/editor"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
	"github.com/goliatone/go-schemabuilder/pkg/store"
)

type action int

const (
	actionAdd action = iota
	actionAddNested
	actionRename
	actionRetype
	actionRemove
	actionMove
	actionPreview
	actionSubmit
	actionQuit
)

var actionLabels = []string{
	actionAdd:       "Add field",
	actionAddNested: "Add nested field",
	actionRename:    "Rename field",
	actionRetype:    "Change field type",
	actionRemove:    "Remove field",
	actionMove:      "Move field",
	actionPreview:   "Show preview",
	actionSubmit:    "Submit",
	actionQuit:      "Quit",
}

// Editor drives a session through a PromptDriver.
type Editor struct {
	session          *editor.Session
	driver           PromptDriver
	theme            Theme
	pageSize         int
	exitOnSubmit     bool
	previewAfterEdit bool
	submissions      []editor.Submission
}

// New constructs a terminal editor with the survey driver unless overridden.
func New(session *editor.Session, options ...Option) (*Editor, error) {
	if session == nil {
		return nil, ErrNoSession
	}
	e := &Editor{
		session:  session,
		theme:    DefaultTheme,
		pageSize: 12,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	return e, nil
}

// Submissions returns what Run submitted so far.
func (e *Editor) Submissions() []editor.Submission {
	return append([]editor.Submission(nil), e.submissions...)
}

// Run loops until the user quits, aborts, or (with WithExitOnSubmit) submits.
// Failed edits are reported and the loop continues; prompt failures end it.
func (e *Editor) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if err := e.showOutline(ctx); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:  "Action",
			Options:  actionLabels,
			PageSize: e.pageSize,
		})
		if err != nil {
			return err
		}

		done, err := e.dispatch(ctx, action(idx))
		if err != nil {
			var issue errEdit
			if !errors.As(err, &issue) {
				return err
			}
			if err := e.info(ctx, e.theme.ErrorPrefix+issue.Error()); err != nil {
				return err
			}
		}
		if done {
			return nil
		}
	}
}

// errEdit marks store failures that should not end the loop.
type errEdit struct{ err error }

func (e errEdit) Error() string { return e.err.Error() }
func (e errEdit) Unwrap() error { return e.err }

func editErr(err error) error {
	if err == nil {
		return nil
	}
	return errEdit{err: err}
}

func (e *Editor) dispatch(ctx context.Context, act action) (bool, error) {
	switch act {
	case actionAdd, actionAddNested:
		return false, e.edited(ctx, e.add(ctx, act == actionAddNested))
	case actionRename:
		return false, e.edited(ctx, e.rename(ctx))
	case actionRetype:
		return false, e.edited(ctx, e.retype(ctx))
	case actionRemove:
		return false, e.edited(ctx, e.remove(ctx))
	case actionMove:
		return false, e.edited(ctx, e.move(ctx))
	case actionPreview:
		return false, e.info(ctx, e.session.Preview())
	case actionSubmit:
		submission, err := e.session.Submit(ctx)
		if err != nil {
			return false, editErr(err)
		}
		e.submissions = append(e.submissions, submission)
		if err := e.info(ctx, fmt.Sprintf("Submitted revision %d", submission.Revision)); err != nil {
			return false, err
		}
		return e.exitOnSubmit, nil
	case actionQuit:
		return true, nil
	default:
		return false, fmt.Errorf("tui: unknown action %d", act)
	}
}

// edited reports the outline (and optionally the preview) after a change.
func (e *Editor) edited(ctx context.Context, err error) error {
	if err != nil {
		if errors.Is(err, errSkipped) {
			return nil
		}
		return err
	}
	if err := e.showOutline(ctx); err != nil {
		return err
	}
	if e.previewAfterEdit {
		return e.info(ctx, e.session.Preview())
	}
	return nil
}

var errSkipped = errors.New("tui: nothing to edit")

const keyNameHelp = "Names should be unique among siblings. Duplicates are flagged, and the last one wins in the preview."

func validateKeyName(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyKeyName
	}
	return nil
}

func (e *Editor) add(ctx context.Context, nested bool) error {
	parent, err := e.pickParent(ctx)
	if err != nil {
		return err
	}
	name, err := e.driver.Input(ctx, InputConfig{
		Message:   "Field name",
		Default:   schema.DefaultKeyName,
		Help:      keyNameHelp,
		Validator: validateKeyName,
	})
	if err != nil {
		return err
	}

	node := schema.NewField(name, schema.FieldTypeString)
	if nested {
		node = schema.NewNested(name)
	}
	_, err = e.session.Insert(parent, node, store.Append)
	return editErr(err)
}

func (e *Editor) rename(ctx context.Context) error {
	path, node, err := e.pickNode(ctx, "Field to rename")
	if err != nil {
		return err
	}
	name, err := e.driver.Input(ctx, InputConfig{
		Message:   "New name",
		Default:   node.KeyName,
		Help:      keyNameHelp,
		Validator: validateKeyName,
	})
	if err != nil {
		return err
	}
	return editErr(e.session.SetKeyName(path, name))
}

func (e *Editor) retype(ctx context.Context) error {
	path, node, err := e.pickNode(ctx, "Field to retype")
	if err != nil {
		return err
	}
	types := schema.FieldTypes()
	labels := make([]string, len(types))
	current := 0
	for i, t := range types {
		labels[i] = string(t)
		if t == node.Type {
			current = i
		}
	}
	idx, err := e.driver.Select(ctx, SelectConfig{
		Message:      "Type",
		Options:      labels,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(types) {
		return editErr(fmt.Errorf("%w: option %d", store.ErrInvalidType, idx))
	}

	kind := types[idx]
	if node.Type.IsNested() && !kind.IsNested() && len(node.Children) > 0 {
		ok, err := e.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Discard %d nested field(s)?", len(node.Children)),
		})
		if err != nil {
			return err
		}
		if !ok {
			return errSkipped
		}
	}
	return editErr(e.session.SetKind(path, kind))
}

func (e *Editor) remove(ctx context.Context) error {
	path, node, err := e.pickNode(ctx, "Field to remove")
	if err != nil {
		return err
	}
	ok, err := e.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Remove %s?", label(node)),
	})
	if err != nil {
		return err
	}
	if !ok {
		return errSkipped
	}
	_, err = e.session.Remove(path)
	return editErr(err)
}

func (e *Editor) move(ctx context.Context) error {
	path, _, err := e.pickNode(ctx, "Field to move")
	if err != nil {
		return err
	}
	parent, from, _ := path.Parent()
	siblings, err := e.session.Store().Children(parent)
	if err != nil {
		return editErr(err)
	}
	if len(siblings) < 2 {
		if err := e.info(ctx, "Nothing to reorder at this level"); err != nil {
			return err
		}
		return errSkipped
	}

	positions := make([]string, len(siblings))
	for i, sibling := range siblings {
		positions[i] = fmt.Sprintf("%d. %s", i+1, label(sibling))
	}
	to, err := e.driver.Select(ctx, SelectConfig{
		Message:      "New position",
		Options:      positions,
		DefaultIndex: from,
		PageSize:     e.pageSize,
	})
	if err != nil {
		return err
	}
	if to == from {
		return errSkipped
	}
	return editErr(e.session.Move(parent, from, to))
}

// pickParent offers the root and every nested node as insertion targets.
func (e *Editor) pickParent(ctx context.Context) (schema.Path, error) {
	labels := []string{"(root)"}
	paths := []schema.Path{nil}
	tree := e.session.Tree()
	tree.Walk(func(path schema.Path, node schema.FieldNode) bool {
		if node.Type.IsNested() {
			labels = append(labels, outlineLabel(tree, path, node))
			paths = append(paths, path)
		}
		return true
	})
	if len(paths) == 1 {
		return nil, nil
	}

	idx, err := e.driver.Select(ctx, SelectConfig{
		Message:  "Parent",
		Options:  labels,
		PageSize: e.pageSize,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(paths) {
		return nil, editErr(fmt.Errorf("%w: option %d", store.ErrPathNotFound, idx))
	}
	return paths[idx], nil
}

func (e *Editor) pickNode(ctx context.Context, message string) (schema.Path, schema.FieldNode, error) {
	var (
		labels []string
		paths  []schema.Path
		nodes  []schema.FieldNode
	)
	tree := e.session.Tree()
	tree.Walk(func(path schema.Path, node schema.FieldNode) bool {
		labels = append(labels, outlineLabel(tree, path, node))
		paths = append(paths, path)
		nodes = append(nodes, node)
		return true
	})
	if len(paths) == 0 {
		if err := e.info(ctx, "No fields yet"); err != nil {
			return nil, schema.FieldNode{}, err
		}
		return nil, schema.FieldNode{}, errSkipped
	}

	idx, err := e.driver.Select(ctx, SelectConfig{
		Message:  message,
		Options:  labels,
		PageSize: e.pageSize,
	})
	if err != nil {
		return nil, schema.FieldNode{}, err
	}
	if idx < 0 || idx >= len(paths) {
		return nil, schema.FieldNode{}, editErr(fmt.Errorf("%w: option %d", store.ErrPathNotFound, idx))
	}
	return paths[idx], nodes[idx], nil
}

func (e *Editor) showOutline(ctx context.Context) error {
	snap := e.session.Snapshot()
	if len(snap.Tree) == 0 {
		return e.info(ctx, "(empty schema)")
	}

	issues := store.IssuesByPath(snap.Issues)
	var b strings.Builder
	snap.Tree.Walk(func(path schema.Path, node schema.FieldNode) bool {
		b.WriteString(strings.Repeat("  ", len(path)-1))
		b.WriteString(label(node))
		for _, issue := range issues[path.String()] {
			b.WriteString("  ")
			b.WriteString(e.theme.IssuePrefix)
			b.WriteString(issue.Message)
		}
		b.WriteByte('\n')
		return true
	})
	return e.info(ctx, strings.TrimSuffix(b.String(), "\n"))
}

func (e *Editor) info(ctx context.Context, msg string) error {
	return e.driver.Info(ctx, e.theme.InfoPrefix+msg)
}

func label(node schema.FieldNode) string {
	name := node.KeyName
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s [%s]", name, node.Type)
}

func outlineLabel(tree schema.Tree, path schema.Path, node schema.FieldNode) string {
	keyPath, _ := tree.KeyPath(path)
	return fmt.Sprintf("%s [%s]", keyPath, node.Type)
}
