package mondoc_test

import (
	"testing"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/fields"
	"github.com/mondoc/mondoc/registry"
)

func addressType() *mondoc.EmbeddedType {
	return &mondoc.EmbeddedType{
		Name: "Address",
		Schema: mondoc.NewSchema().
			Field(fields.Str("city", fields.Required())).
			Field(fields.Str("zip", fields.Attribute("postal"))).
			MustBuild(),
	}
}

func TestEmbeddedTypeLoad(t *testing.T) {
	et := addressType()
	doc, err := et.Load(map[string]any{"city": "Kyoto", "zip": "600"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Get("city") != "Kyoto" {
		t.Fatalf("unexpected city %v", doc.Get("city"))
	}
	if doc.IsModified() {
		t.Fatalf("freshly loaded doc must not be modified")
	}

	_, err = et.Load(map[string]any{"city": "Kyoto", "nope": 1})
	iss, ok := mondoc.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "nope" || iss[0].Code != mondoc.CodeUnknownField {
		t.Fatalf("want unknown_field at nope, got %v", err)
	}
}

func TestEmbeddedDocSetAndModificationTracking(t *testing.T) {
	et := addressType()
	doc, err := et.Load(map[string]any{"city": "Kyoto"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := doc.Set("zip", "600"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !doc.IsModified() {
		t.Fatalf("set must mark the doc modified")
	}
	doc.ClearModified()
	if doc.IsModified() {
		t.Fatalf("clear must reset the flag")
	}
	if err := doc.Set("bogus", 1); err == nil {
		t.Fatalf("setting an undeclared name must fail")
	}
}

func TestEmbeddedDocToMongoUsesAttributes(t *testing.T) {
	et := addressType()
	doc, err := et.Load(map[string]any{"city": "Kyoto", "zip": "600"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m, err := doc.ToMongo()
	if err != nil {
		t.Fatalf("to mongo: %v", err)
	}
	if m["postal"] != "600" {
		t.Fatalf("storage record must use attribute keys, got %v", m)
	}
	if _, tagged := m[mondoc.MongoClsKey]; tagged {
		t.Fatalf("non-child type must not self-tag")
	}
}

func polymorphicTypes(t *testing.T) (*registry.Registry, *mondoc.EmbeddedType, *mondoc.EmbeddedType) {
	t.Helper()
	reg := registry.New()
	child := &mondoc.EmbeddedType{
		Name: "B",
		Schema: mondoc.NewSchema().
			Field(fields.Str("kind")).
			Field(fields.Int("extra")).
			MustBuild(),
	}
	parent := &mondoc.EmbeddedType{
		Name: "A",
		Schema: mondoc.NewSchema().
			Field(fields.Str("kind")).
			MustBuild(),
		Offspring: []string{"B"},
	}
	if err := reg.RegisterEmbedded(child); err != nil {
		t.Fatalf("register child: %v", err)
	}
	if err := reg.RegisterEmbedded(parent); err != nil {
		t.Fatalf("register parent: %v", err)
	}
	return reg, parent, child
}

func TestBuildFromMongoDispatchesOnDiscriminator(t *testing.T) {
	reg, parent, child := polymorphicTypes(t)
	if !child.IsChild {
		t.Fatalf("registered offspring must be marked as child")
	}

	doc, err := parent.BuildFromMongo(reg, map[string]any{
		mondoc.MongoClsKey: "B",
		"kind":             "b",
		"extra":            int64(7),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if doc.Type() != child {
		t.Fatalf("want concrete type B, got %v", doc.Type().Name)
	}

	m, err := doc.ToMongo()
	if err != nil {
		t.Fatalf("to mongo: %v", err)
	}
	if m[mondoc.MongoClsKey] != "B" {
		t.Fatalf("child doc must self-tag on encode, got %v", m)
	}
}

func TestBuildFromMongoRejectsUnknownDiscriminator(t *testing.T) {
	reg, parent, _ := polymorphicTypes(t)
	_, err := parent.BuildFromMongo(reg, map[string]any{mondoc.MongoClsKey: "C"})
	iss, ok := mondoc.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != mondoc.CodeUnknownDocument {
		t.Fatalf("want unknown_document, got %v", err)
	}
}
