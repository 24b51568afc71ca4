package store

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemabuilder/pkg/schema"
)

func TestValidateUniqueness_FlagsEmptyAndDuplicates(t *testing.T) {
	s := mustNew(schema.Tree{
		schema.NewField("a", schema.FieldTypeString),
		schema.NewField("", schema.FieldTypeString),
		schema.NewField("a", schema.FieldTypeNumber),
		schema.NewNested("nested",
			schema.NewField("x", schema.FieldTypeString),
			schema.NewField("x", schema.FieldTypeString),
			schema.NewField("X", schema.FieldTypeString),
		),
	})

	issues, err := s.ValidateUniqueness(nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	type flagged struct {
		Path string
		Code IssueCode
	}
	var got []flagged
	for _, issue := range issues {
		got = append(got, flagged{Path: issue.Path.String(), Code: issue.Code})
	}
	want := []flagged{
		{Path: "0", Code: IssueDuplicateKeyName},
		{Path: "1", Code: IssueEmptyKeyName},
		{Path: "2", Code: IssueDuplicateKeyName},
		{Path: "3.0", Code: IssueDuplicateKeyName},
		{Path: "3.1", Code: IssueDuplicateKeyName},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateUniqueness_ScopedToParent(t *testing.T) {
	s := mustNew(schema.Tree{
		schema.NewField("", schema.FieldTypeString),
		schema.NewNested("nested", schema.NewField("", schema.FieldTypeString)),
	})

	issues, err := s.ValidateUniqueness(schema.Path{1})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(issues) != 1 || !issues[0].Path.Equal(schema.Path{1, 0}) {
		t.Fatalf("expected only nested issue, got %+v", issues)
	}

	if _, err := s.ValidateUniqueness(schema.Path{0}); !errors.Is(err, ErrNotNested) {
		t.Fatalf("expected ErrNotNested, got %v", err)
	}
}

func TestValidate_CleanTree(t *testing.T) {
	if issues := mustNew(schema.DefaultTree()).Validate(); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestIssueMarshalJSON(t *testing.T) {
	issue := Issue{Path: schema.Path{3, 1}, Code: IssueDuplicateKeyName, KeyName: "x", Message: "dup"}
	data, err := json.Marshal(issue)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"path":"3.1","code":"DuplicateKeyName","keyName":"x","message":"dup"}`
	if string(data) != want {
		t.Fatalf("want %s, got %s", want, data)
	}
}

func TestIssuesByPath(t *testing.T) {
	indexed := IssuesByPath([]Issue{
		{Path: schema.Path{0}, Code: IssueEmptyKeyName},
		{Path: schema.Path{2, 1}, Code: IssueDuplicateKeyName},
	})
	if len(indexed["0"]) != 1 || len(indexed["2.1"]) != 1 {
		t.Fatalf("unexpected index %+v", indexed)
	}
}
