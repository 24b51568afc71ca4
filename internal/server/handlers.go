package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemabuilder/pkg/editor"
	"github.com/goliatone/go-schemabuilder/pkg/loader"
	"github.com/goliatone/go-schemabuilder/pkg/openapi"
	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/openapidoc"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
	"github.com/goliatone/go-schemabuilder/pkg/store"
)

// stateResponse is returned by reads and every mutation, and pushed over the
// websocket with Type set.
type stateResponse struct {
	Type     string        `json:"type,omitempty"`
	Revision uint64        `json:"revision"`
	Schema   schema.Tree   `json:"schema"`
	Preview  string        `json:"preview"`
	Issues   []store.Issue `json:"issues"`
	Path     *string       `json:"path,omitempty"`
}

func stateFrom(snap editor.Snapshot) stateResponse {
	tree := snap.Tree
	if tree == nil {
		tree = schema.Tree{}
	}
	issues := snap.Issues
	if issues == nil {
		issues = []store.Issue{}
	}
	return stateResponse{
		Revision: snap.Revision,
		Schema:   tree,
		Preview:  snap.JSON,
		Issues:   issues,
	}
}

func (s *Server) writeState(w http.ResponseWriter, status int, path schema.Path) {
	state := stateFrom(s.session.Snapshot())
	if path != nil {
		p := path.String()
		state.Path = &p
	}
	writeJSON(w, s.logger, status, state)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	options := render.RenderOptions{
		Theme:        firstNonEmpty(query.Get("theme"), s.theme),
		ThemeVariant: firstNonEmpty(query.Get("variant"), s.themeVariant),
	}
	out, contentType, err := s.rendered(r, "html", options)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(out); err != nil {
		s.logger.Printf("server: write page: %v", err)
	}
}

func (s *Server) handleGetSchema(w http.ResponseWriter, _ *http.Request) {
	s.writeState(w, http.StatusOK, nil)
}

// handlePutSchema replaces the tree. JSON and YAML schema documents are
// accepted; ?format=openapi imports components.schemas[?component=], which
// defaults to the name the openapi preview exports.
func (s *Server) handlePutSchema(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	var tree schema.Tree
	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "openapi":
		component := firstNonEmpty(r.URL.Query().Get("component"), openapidoc.ComponentName(s.title, s.component))
		tree, err = openapi.ImportDocument(r.Context(), body, component)
	default:
		tree, err = loader.Decode(body, requestFormat(format, r.Header.Get("Content-Type")))
	}
	if err != nil {
		writeError(w, s.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	if err := s.session.Replace(tree); err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.writeState(w, http.StatusOK, nil)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format := firstNonEmpty(strings.ToLower(query.Get("format")), "json")
	out, contentType, err := s.rendered(r, format, render.RenderOptions{
		Title:        query.Get("title"),
		Theme:        firstNonEmpty(query.Get("theme"), s.theme),
		ThemeVariant: firstNonEmpty(query.Get("variant"), s.themeVariant),
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(out); err != nil {
		s.logger.Printf("server: write preview: %v", err)
	}
}

func (s *Server) handleIssues(w http.ResponseWriter, _ *http.Request) {
	state := stateFrom(s.session.Snapshot())
	writeJSON(w, s.logger, http.StatusOK, map[string]any{
		"revision": state.Revision,
		"issues":   state.Issues,
	})
}

type insertRequest struct {
	Parent   string            `json:"parent"`
	Position *int              `json:"position,omitempty"`
	Nested   bool              `json:"nested,omitempty"`
	Node     *schema.FieldNode `json:"node,omitempty"`
}

// handleInsert adds a node. Without an explicit node it creates the default
// field, or the default nested field when nested is set.
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	parent, err := schema.ParsePath(req.Parent)
	if err != nil {
		writeError(w, s.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	node := schema.DefaultField()
	switch {
	case req.Node != nil:
		if !req.Node.Type.Valid() {
			writeError(w, s.logger, fmt.Errorf("%w: %q", store.ErrInvalidType, req.Node.Type))
			return
		}
		node = req.Node.Normalize()
	case req.Nested:
		node = schema.DefaultNestedField()
	}
	position := store.Append
	if req.Position != nil {
		position = *req.Position
	}

	path, err := s.session.Insert(parent, node, position)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.writeState(w, http.StatusCreated, path)
}

type updateRequest struct {
	KeyName *string `json:"keyName,omitempty"`
	Type    *string `json:"type,omitempty"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	path, err := nodePath(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req updateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if req.KeyName == nil && req.Type == nil {
		writeError(w, s.logger, fmt.Errorf("%w: keyName or type is required", errBadRequest))
		return
	}

	if req.Type != nil {
		kind, err := schema.ParseFieldType(*req.Type)
		if err != nil {
			writeError(w, s.logger, fmt.Errorf("%w: %v", store.ErrInvalidType, err))
			return
		}
		if err := s.session.SetKind(path, kind); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}
	if req.KeyName != nil {
		if err := s.session.SetKeyName(path, *req.KeyName); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}
	s.writeState(w, http.StatusOK, path)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	path, err := nodePath(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if _, err := s.session.Remove(path); err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.writeState(w, http.StatusOK, nil)
}

type moveRequest struct {
	Parent string `json:"parent"`
	From   int    `json:"from"`
	To     int    `json:"to"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	parent, err := schema.ParsePath(req.Parent)
	if err != nil {
		writeError(w, s.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := s.session.Move(parent, req.From, req.To); err != nil {
		writeError(w, s.logger, err)
		return
	}
	s.writeState(w, http.StatusOK, parent.Child(req.To))
}

type submitResponse struct {
	Revision    uint64    `json:"revision"`
	JSON        string    `json:"json"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	submission, err := s.session.Submit(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, submitResponse{
		Revision:    submission.Revision,
		JSON:        submission.JSON,
		SubmittedAt: submission.SubmittedAt,
	})
}

func nodePath(r *http.Request) (schema.Path, error) {
	path, err := schema.ParsePath(r.PathValue("path"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return path, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	return body, nil
}

// decode reads a JSON body; an empty body leaves dst untouched.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return nil
}

func requestFormat(format, contentType string) loader.Format {
	switch format {
	case "json":
		return loader.FormatJSON
	case "yaml", "yml":
		return loader.FormatYAML
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch {
	case strings.Contains(mediaType, "yaml"):
		return loader.FormatYAML
	case strings.Contains(mediaType, "json"):
		return loader.FormatJSON
	default:
		return loader.FormatAuto
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
