package render

import (
	"strings"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
	"github.com/goliatone/go-schemabuilder/pkg/store"
)

// IssueMapping splits validation issues into per-node messages keyed by the
// dotted index path ("0.2") and tree-level messages for paths that no longer
// resolve.
type IssueMapping struct {
	Fields map[string][]string
	Tree   []string
}

// MapIssues groups issues for inline rendering against tree. Messages are
// trimmed and de-duplicated while preserving order.
func MapIssues(tree schema.Tree, issues []store.Issue) IssueMapping {
	mapping := IssueMapping{
		Fields: make(map[string][]string),
	}
	for _, issue := range issues {
		if _, ok := tree.Lookup(issue.Path); !ok || issue.Path.IsRoot() {
			mapping.Tree = append(mapping.Tree, issue.Error())
			continue
		}
		key := issue.Path.String()
		mapping.Fields[key] = append(mapping.Fields[key], issue.Message)
	}

	for key, messages := range mapping.Fields {
		mapping.Fields[key] = normalizeMessages(messages)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Tree = normalizeMessages(mapping.Tree)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
