package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-schemabuilder/pkg/editor"
	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/renderers"
	"github.com/goliatone/go-schemabuilder/pkg/renderers/preview"
	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

type wireIssue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	KeyName string `json:"keyName"`
	Message string `json:"message"`
}

type wireState struct {
	Type     string      `json:"type"`
	Revision uint64      `json:"revision"`
	Schema   schema.Tree `json:"schema"`
	Preview  string      `json:"preview"`
	Issues   []wireIssue `json:"issues"`
	Path     *string     `json:"path"`
	Error    string      `json:"error"`
}

type fixture struct {
	t         *testing.T
	server    *httptest.Server
	session   *editor.Session
	submitted []editor.Submission
}

func newFixture(t *testing.T, options ...Option) *fixture {
	t.Helper()

	f := &fixture{t: t}
	session, err := editor.NewSession(editor.WithSink(editor.SinkFunc(func(_ context.Context, s editor.Submission) error {
		f.submitted = append(f.submitted, s)
		return nil
	})))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	f.session = session
	options = append([]Option{WithLogger(log.New(io.Discard, "", 0))}, options...)
	srv, err := New(f.session, options...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	f.server = httptest.NewServer(srv.Handler())
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) do(method, path, contentType, body string) (*http.Response, []byte) {
	f.t.Helper()

	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	if err != nil {
		f.t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		f.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		f.t.Fatalf("read body: %v", err)
	}
	return res, data
}

func (f *fixture) state(method, path, body string, wantStatus int) wireState {
	f.t.Helper()

	res, data := f.do(method, path, "application/json", body)
	if res.StatusCode != wantStatus {
		f.t.Fatalf("%s %s: status %d, want %d: %s", method, path, res.StatusCode, wantStatus, data)
	}
	var state wireState
	if err := json.Unmarshal(data, &state); err != nil {
		f.t.Fatalf("decode %s: %v", data, err)
	}
	return state
}

func TestServer_GetSchemaDefaults(t *testing.T) {
	f := newFixture(t)

	state := f.state(http.MethodGet, "/api/schema", "", http.StatusOK)
	if state.Revision != 0 {
		t.Fatalf("expected revision 0, got %d", state.Revision)
	}
	if diff := cmp.Diff(schema.DefaultTree(), state.Schema); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
	if state.Preview != f.session.Preview() {
		t.Fatalf("preview mismatch: %s", state.Preview)
	}
	if len(state.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", state.Issues)
	}
}

func TestServer_EditFlow(t *testing.T) {
	f := newFixture(t)

	state := f.state(http.MethodPost, "/api/nodes", `{}`, http.StatusCreated)
	if state.Path == nil || *state.Path != "3" {
		t.Fatalf("expected created path 3, got %v", state.Path)
	}
	if got := state.Schema[3]; got.KeyName != schema.DefaultKeyName || got.Type != schema.FieldTypeString {
		t.Fatalf("unexpected default node %+v", got)
	}

	state = f.state(http.MethodPost, "/api/nodes", `{"parent":"2","position":0,"node":{"keyName":"zip","type":"Number"}}`, http.StatusCreated)
	if *state.Path != "2.0" {
		t.Fatalf("expected created path 2.0, got %s", *state.Path)
	}

	state = f.state(http.MethodPatch, "/api/nodes/0", `{"keyName":"age"}`, http.StatusOK)
	wantIssues := []wireIssue{
		{Path: "0", Code: "DuplicateKeyName", KeyName: "age", Message: `field name "age" is already used by a sibling`},
		{Path: "1", Code: "DuplicateKeyName", KeyName: "age", Message: `field name "age" is already used by a sibling`},
	}
	if diff := cmp.Diff(wantIssues, state.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	state = f.state(http.MethodPatch, "/api/nodes/3", `{"type":"nested"}`, http.StatusOK)
	if state.Schema[3].Type != schema.FieldTypeNested || len(state.Schema[3].Children) != 0 {
		t.Fatalf("expected nested node without children, got %+v", state.Schema[3])
	}

	state = f.state(http.MethodPost, "/api/move", `{"parent":"","from":2,"to":0}`, http.StatusOK)
	if state.Schema[0].KeyName != "address" || *state.Path != "0" {
		t.Fatalf("expected address moved first, got %+v", state.Schema)
	}

	state = f.state(http.MethodDelete, "/api/nodes/0", "", http.StatusOK)
	want := "{\n  \"age\": \"NUMBER\",\n  \"newNestedField\": {}\n}"
	if state.Preview != want {
		t.Fatalf("unexpected preview\nwant: %s\n got: %s", want, state.Preview)
	}
	if state.Revision != 6 {
		t.Fatalf("expected revision 6, got %d", state.Revision)
	}
}

func TestServer_ErrorStatuses(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodPatch, "/api/nodes/9", `{"keyName":"x"}`, http.StatusNotFound},
		{http.MethodDelete, "/api/nodes/0.1", "", http.StatusNotFound},
		{http.MethodPost, "/api/nodes", `{"parent":"0"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/nodes", `{"position":12}`, http.StatusBadRequest},
		{http.MethodPost, "/api/nodes", `{"node":{"keyName":"x","type":"Boolean"}}`, http.StatusBadRequest},
		{http.MethodPatch, "/api/nodes/0", `{"type":"Date"}`, http.StatusBadRequest},
		{http.MethodPatch, "/api/nodes/0", `{}`, http.StatusBadRequest},
		{http.MethodPatch, "/api/nodes/a.b", `{"keyName":"x"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/move", `{"from":0,"to":5}`, http.StatusBadRequest},
		{http.MethodPost, "/api/move", `not json`, http.StatusBadRequest},
		{http.MethodGet, "/api/preview?format=bogus", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		state := f.state(tc.method, tc.path, tc.body, tc.status)
		if state.Error == "" {
			t.Fatalf("%s %s: expected error message", tc.method, tc.path)
		}
	}
	if rev := f.session.Store().Revision(); rev != 0 {
		t.Fatalf("failed requests must not mutate, revision=%d", rev)
	}
}

func TestServer_PreviewFormats(t *testing.T) {
	f := newFixture(t, WithTitle("Person"))

	res, body := f.do(http.MethodGet, "/api/preview", "", "")
	if res.Header.Get("Content-Type") != "application/json" || string(body) != f.session.Preview() {
		t.Fatalf("unexpected json preview %q (%s)", body, res.Header.Get("Content-Type"))
	}

	_, body = f.do(http.MethodGet, "/api/preview?format=yaml", "", "")
	if string(body) != "firstName: STRING\nage: NUMBER\naddress:\n  street: STRING\n" {
		t.Fatalf("unexpected yaml preview %q", body)
	}

	_, body = f.do(http.MethodGet, "/api/preview?format=openapi", "", "")
	if !bytes.Contains(body, []byte(`"Person"`)) || !bytes.Contains(body, []byte("x-schemabuilder-order")) {
		t.Fatalf("unexpected openapi preview %s", body)
	}

	res, body = f.do(http.MethodGet, "/", "", "")
	if !strings.HasPrefix(res.Header.Get("Content-Type"), "text/html") || !bytes.Contains(body, []byte("<title>Person</title>")) {
		t.Fatalf("unexpected page (%s): %s", res.Header.Get("Content-Type"), body)
	}

	_, body = f.do(http.MethodGet, "/?variant=dark", "", "")
	if !bytes.Contains(body, []byte(`data-variant="dark"`)) {
		t.Fatalf("expected dark variant page")
	}
}

func TestServer_PreviewCacheFollowsRevision(t *testing.T) {
	f := newFixture(t)

	_, first := f.do(http.MethodGet, "/api/preview?format=yaml", "", "")
	f.state(http.MethodPatch, "/api/nodes/0", `{"keyName":"givenName"}`, http.StatusOK)
	_, second := f.do(http.MethodGet, "/api/preview?format=yaml", "", "")

	if bytes.Equal(first, second) || !bytes.HasPrefix(second, []byte("givenName: STRING\n")) {
		t.Fatalf("stale preview after edit: %q", second)
	}
}

func TestServer_PutSchema(t *testing.T) {
	f := newFixture(t)

	yamlDoc := "schema:\n  - keyName: id\n    type: number\n  - keyName: meta\n    type: Nested\n"
	res, body := f.do(http.MethodPut, "/api/schema", "application/yaml", yamlDoc)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("put yaml: %d %s", res.StatusCode, body)
	}
	want := schema.Tree{
		schema.NewField("id", schema.FieldTypeNumber),
		schema.NewNested("meta"),
	}
	if diff := cmp.Diff(want, f.session.Tree(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	res, _ = f.do(http.MethodPut, "/api/schema", "application/json", `{"schema":[{"keyName":"x","type":"Date"}]}`)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", res.StatusCode)
	}

	_, openapiDoc := f.do(http.MethodGet, "/api/preview?format=openapi", "", "")
	f.state(http.MethodPut, "/api/schema", `[]`, http.StatusOK)
	res, body = f.do(http.MethodPut, "/api/schema?format=openapi", "application/json", string(openapiDoc))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("put openapi: %d %s", res.StatusCode, body)
	}
	if diff := cmp.Diff(want, f.session.Tree(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("openapi import mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_SubmitMatchesPreview(t *testing.T) {
	f := newFixture(t)

	res, body := f.do(http.MethodPost, "/api/submit", "", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("submit: %d %s", res.StatusCode, body)
	}
	var out struct {
		Revision uint64 `json:"revision"`
		JSON     string `json:"json"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.JSON != f.session.Preview() || len(f.submitted) != 1 || f.submitted[0].JSON != out.JSON {
		t.Fatalf("submission does not match preview: %+v", out)
	}
}

func TestServer_StreamPushesSnapshots(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() wireState {
		t.Helper()
		if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			t.Fatalf("deadline: %v", err)
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var state wireState
		if err := json.Unmarshal(data, &state); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return state
	}

	initial := read()
	if initial.Type != "snapshot" || initial.Revision != 0 {
		t.Fatalf("unexpected initial message %+v", initial)
	}

	f.state(http.MethodPatch, "/api/nodes/1", `{"keyName":"years"}`, http.StatusOK)
	next := read()
	if next.Revision != 1 || !strings.Contains(next.Preview, `"years": "NUMBER"`) {
		t.Fatalf("unexpected pushed snapshot %+v", next)
	}
}

func TestServer_HealthAndAssets(t *testing.T) {
	f := newFixture(t)

	res, body := f.do(http.MethodGet, "/healthz", "", "")
	if res.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health response %d %q", res.StatusCode, body)
	}
	res, _ = f.do(http.MethodGet, "/assets/schemabuilder.js", "", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected script asset, got %d", res.StatusCode)
	}
}

func TestServer_ComponentNameRoundTrip(t *testing.T) {
	f := newFixture(t, WithComponentName(" Order "))

	_, openapiDoc := f.do(http.MethodGet, "/api/preview?format=openapi", "", "")
	if !bytes.Contains(openapiDoc, []byte(`"Order"`)) {
		t.Fatalf("expected Order component, got %s", openapiDoc)
	}

	want := f.session.Tree()
	f.state(http.MethodPut, "/api/schema", `[]`, http.StatusOK)
	res, body := f.do(http.MethodPut, "/api/schema?format=openapi", "application/json", string(openapiDoc))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("put openapi: %d %s", res.StatusCode, body)
	}
	if diff := cmp.Diff(want, f.session.Tree(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("openapi import mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_RendererOptions(t *testing.T) {
	f := newFixture(t, WithRenderers(renderers.WithYAMLIndent(4)))

	_, body := f.do(http.MethodGet, "/api/preview?format=yaml", "", "")
	if string(body) != "firstName: STRING\nage: NUMBER\naddress:\n    street: STRING\n" {
		t.Fatalf("unexpected yaml preview %q", body)
	}
}

func TestNew_RequiresPageAndJSONRenderers(t *testing.T) {
	session, err := editor.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	_, err = New(session, WithRegistry(render.NewRegistry(preview.New())))
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestNew_RequiresSession(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error without session")
	}
}
