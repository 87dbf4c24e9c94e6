package mondoc_test

import (
	"errors"
	"testing"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/fields"
)

func TestSchemaBuildRejectsDuplicateNames(t *testing.T) {
	_, err := mondoc.NewSchema().
		Field(fields.Str("name")).
		Field(fields.Int("name")).
		Build()
	var ce *mondoc.ContractError
	if !errors.As(err, &ce) {
		t.Fatalf("want ContractError, got %v", err)
	}
}

func TestSchemaBuildRejectsConflictingAttributes(t *testing.T) {
	_, err := mondoc.NewSchema().
		Field(fields.Str("id", fields.Attribute("_id"))).
		Field(fields.Str("legacy", fields.Attribute("_id"))).
		Build()
	var ce *mondoc.ContractError
	if !errors.As(err, &ce) {
		t.Fatalf("want ContractError, got %v", err)
	}
}

func TestSchemaOrderAndLookup(t *testing.T) {
	s := mondoc.NewSchema().
		Field(fields.Str("b")).
		Field(fields.Str("a")).
		MustBuild()
	names := s.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("insertion order lost: %v", names)
	}
	if _, ok := s.FieldByName("a"); !ok {
		t.Fatalf("lookup by name failed")
	}
}

func TestMapToFieldPaths(t *testing.T) {
	et := &mondoc.EmbeddedType{
		Name: "Address",
		Schema: mondoc.NewSchema().
			Field(fields.Str("city", fields.Attribute("c"))).
			MustBuild(),
	}
	s := mondoc.NewSchema().
		Field(fields.Str("name", fields.Attribute("n"))).
		Field(fields.List("tags", fields.Str("tag"))).
		Field(fields.Embedded("address", et)).
		MustBuild()

	type hop struct{ mongo, decl string }
	var got []hop
	s.MapToField(func(mongoPath, path string, _ mondoc.Field) {
		got = append(got, hop{mongoPath, path})
	})

	want := []hop{
		{"n", "name"},
		{"tags", "tags"},
		{"tags", "tags"}, // list elements share the container's paths
		{"address", "address"},
		{"address.c", "address.city"},
	}
	if len(got) != len(want) {
		t.Fatalf("want %d visits, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visit %d: want %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRequiredValidate(t *testing.T) {
	s := mondoc.NewSchema().
		Field(fields.Str("name", fields.Required())).
		Field(fields.Int("age")).
		MustBuild()

	err := s.RequiredValidate(map[string]any{"age": int64(3)})
	iss, ok := mondoc.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "name" || iss[0].Code != mondoc.CodeRequired {
		t.Fatalf("want required issue at name, got %v", err)
	}

	if err := s.RequiredValidate(map[string]any{"name": "x"}); err != nil {
		t.Fatalf("satisfied record must pass, got %v", err)
	}

	err = s.RequiredValidate(map[string]any{"name": nil})
	iss, _ = mondoc.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != mondoc.CodeNull {
		t.Fatalf("nil on a non-nullable field must fail with null, got %v", err)
	}
}

func TestRequiredValidateRecursesIntoEmbedded(t *testing.T) {
	et := &mondoc.EmbeddedType{
		Name: "Address",
		Schema: mondoc.NewSchema().
			Field(fields.Str("city", fields.Required())).
			MustBuild(),
	}
	s := mondoc.NewSchema().
		Field(fields.Embedded("address", et)).
		MustBuild()

	doc, err := et.Load(map[string]any{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	err = s.RequiredValidate(map[string]any{"address": doc})
	iss, ok := mondoc.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "address.city" {
		t.Fatalf("want required issue at address.city, got %v", err)
	}
}
