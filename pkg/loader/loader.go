// Package loader reads seed schema documents (JSON or YAML) from files, fs.FS
// entries, or HTTP endpoints.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// Format selects the decoder for a document.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the filesystem used for SourceKindFS sources.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.http = client
	}
}

// WithRequestTimeout bounds URL fetches.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithFormat forces a decoder instead of guessing from the location.
func WithFormat(format Format) Option {
	return func(l *Loader) {
		l.format = format
	}
}

// Loader fetches and decodes schema documents.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
	format  Format
}

// New constructs a Loader. URL sources are disabled unless an HTTP client is
// configured.
func New(options ...Option) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Load fetches the document at src and decodes it into a normalized tree.
func (l *Loader) Load(ctx context.Context, src Source) (schema.Tree, error) {
	if src == nil {
		return nil, errors.New("loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = loadFile(src.Location())
	case SourceKindFS:
		data, err = loadFromFS(l.fs, src.Location())
	case SourceKindURL:
		if l.http == nil {
			return nil, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return nil, err
	}

	format := l.format
	if format == FormatAuto {
		format = detectFormat(src.Location(), data)
	}
	tree, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", src.Location(), err)
	}
	return tree, nil
}

// Decode parses data in the given format. FormatAuto sniffs the payload.
func Decode(data []byte, format Format) (schema.Tree, error) {
	if format == FormatAuto {
		format = detectFormat("", data)
	}
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	case FormatJSON:
		return schema.DecodeJSON(data)
	default:
		return nil, fmt.Errorf("loader: unsupported format %q", format)
	}
}

func decodeYAML(data []byte) (schema.Tree, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, errors.New("decode yaml: document is empty")
	}

	body := root.Content[0]
	var tree schema.Tree
	switch body.Kind {
	case yaml.SequenceNode:
		if err := body.Decode(&tree); err != nil {
			return nil, fmt.Errorf("decode yaml tree: %w", err)
		}
	case yaml.MappingNode:
		var doc schema.Document
		if err := body.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml document: %w", err)
		}
		tree = doc.Schema
	default:
		return nil, errors.New("decode yaml: expected a list or a mapping with a schema key")
	}

	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree.Normalize(), nil
}

func detectFormat(location string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

func loadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("loader: file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return data, nil
}

func loadFromFS(fsys fs.FS, name string) ([]byte, error) {
	if fsys == nil {
		return nil, errors.New("loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", name, err)
	}
	return data, nil
}

func loadHTTP(ctx context.Context, client *http.Client, rawURL string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("loader: fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
