package store

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

// IssueCode classifies a validation finding.
type IssueCode string

const (
	IssueEmptyKeyName     IssueCode = "EmptyKeyName"
	IssueDuplicateKeyName IssueCode = "DuplicateKeyName"
)

// Issue is a non-fatal validation finding attached to one node. Issues never
// block edits or the preview; editors surface them inline.
type Issue struct {
	Path    schema.Path `json:"-"`
	Code    IssueCode   `json:"code"`
	KeyName string      `json:"keyName"`
	Message string      `json:"message"`
}

// Error implements error so issues can flow through error-aware plumbing.
func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Path.Display(), i.Message)
}

// MarshalJSON renders Path in its dotted form.
func (i Issue) MarshalJSON() ([]byte, error) {
	type wire struct {
		Path    string    `json:"path"`
		Code    IssueCode `json:"code"`
		KeyName string    `json:"keyName,omitempty"`
		Message string    `json:"message"`
	}
	return json.Marshal(wire{
		Path:    i.Path.String(),
		Code:    i.Code,
		KeyName: i.KeyName,
		Message: i.Message,
	})
}

// ValidateUniqueness checks the sibling group at parent and every group below
// it. Empty names are flagged, and every node whose name matches another
// sibling's (case-sensitive) is flagged.
func (s *Store) ValidateUniqueness(parent schema.Path) ([]Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, err := s.group(parent)
	if err != nil {
		return nil, err
	}
	return ValidateTree(*group, parent), nil
}

// Validate checks the whole tree.
func (s *Store) Validate() []Issue {
	issues, _ := s.ValidateUniqueness(nil)
	return issues
}

// ValidateTree runs the sibling rules over group (addressed at prefix) and all
// nested groups, returning issues in depth-first order.
func ValidateTree(group schema.Tree, prefix schema.Path) []Issue {
	var issues []Issue
	validateGroup(group, prefix, &issues)
	return issues
}

func validateGroup(group schema.Tree, prefix schema.Path, issues *[]Issue) {
	counts := make(map[string]int, len(group))
	for _, node := range group {
		if node.KeyName != "" {
			counts[node.KeyName]++
		}
	}

	for i, node := range group {
		path := prefix.Child(i)
		switch {
		case node.KeyName == "":
			*issues = append(*issues, Issue{
				Path:    path,
				Code:    IssueEmptyKeyName,
				Message: "field name is required",
			})
		case counts[node.KeyName] > 1:
			*issues = append(*issues, Issue{
				Path:    path,
				Code:    IssueDuplicateKeyName,
				KeyName: node.KeyName,
				Message: fmt.Sprintf("field name %q is already used by a sibling", node.KeyName),
			})
		}
		if node.Type.IsNested() {
			validateGroup(node.Children, path, issues)
		}
	}
}

// IssuesByPath indexes issues by their dotted path for inline rendering.
func IssuesByPath(issues []Issue) map[string][]Issue {
	if len(issues) == 0 {
		return nil
	}
	out := make(map[string][]Issue, len(issues))
	for _, issue := range issues {
		key := issue.Path.String()
		out[key] = append(out[key], issue)
	}
	return out
}
