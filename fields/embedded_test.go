package fields_test

import (
	"errors"
	"testing"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/fields"
	"github.com/mondoc/mondoc/registry"
)

func shapeTypes(t *testing.T) (*registry.Registry, *mondoc.EmbeddedType, *mondoc.EmbeddedType) {
	t.Helper()
	reg := registry.New()
	circle := &mondoc.EmbeddedType{
		Name: "Circle",
		Schema: mondoc.NewSchema().
			Field(fields.Str("label")).
			Field(fields.Float("radius", fields.Required())).
			MustBuild(),
	}
	shape := &mondoc.EmbeddedType{
		Name: "Shape",
		Schema: mondoc.NewSchema().
			Field(fields.Str("label")).
			MustBuild(),
		Offspring: []string{"Circle"},
	}
	if err := reg.RegisterEmbedded(circle); err != nil {
		t.Fatalf("register circle: %v", err)
	}
	if err := reg.RegisterEmbedded(shape); err != nil {
		t.Fatalf("register shape: %v", err)
	}
	return reg, shape, circle
}

func TestEmbeddedFieldLoadsRecords(t *testing.T) {
	_, shape, _ := shapeTypes(t)
	f := fields.Embedded("shape", shape)

	v, err := f.Deserialize(map[string]any{"label": "s"})
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	doc := v.(*mondoc.EmbeddedDoc)
	if doc.Type() != shape || doc.Get("label") != "s" {
		t.Fatalf("unexpected doc %v", doc)
	}

	if c := firstCode(t, errOf(f.Deserialize("not a record"))); c != mondoc.CodeInvalidInput {
		t.Fatalf("want invalid_input, got %s", c)
	}
}

func TestEmbeddedFieldFieldErrorsCarryPaths(t *testing.T) {
	_, shape, _ := shapeTypes(t)
	f := fields.Embedded("shape", shape)
	_, err := f.Deserialize(map[string]any{"label": 5})
	iss, ok := mondoc.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "label" || iss[0].Code != mondoc.CodeInvalidType {
		t.Fatalf("want invalid_type at label, got %v", err)
	}
}

func TestEmbeddedFieldDispatchesOnCls(t *testing.T) {
	reg, shape, circle := shapeTypes(t)
	f := fields.Embedded("shape", shape)
	f.Bind(reg)

	v, err := f.Deserialize(map[string]any{
		mondoc.ClsKey: "Circle",
		"label":       "c",
		"radius":      1.5,
	})
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	doc := v.(*mondoc.EmbeddedDoc)
	if doc.Type() != circle || doc.Get("radius") != 1.5 {
		t.Fatalf("want a Circle with radius, got %v of %v", doc.Get("radius"), doc.Type().Name)
	}

	c := firstCode(t, errOf(f.Deserialize(map[string]any{mondoc.ClsKey: "Square"})))
	if c != mondoc.CodeUnknownDocument {
		t.Fatalf("want unknown_document, got %s", c)
	}
}

func TestEmbeddedFieldAcceptsCompatibleInstances(t *testing.T) {
	reg, shape, circle := shapeTypes(t)
	f := fields.Embedded("shape", shape)
	f.Bind(reg)

	sub, err := circle.Load(map[string]any{"label": "c", "radius": 2.0})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := f.Deserialize(sub); err != nil {
		t.Fatalf("offspring instance must be accepted, got %v", err)
	}

	alien := &mondoc.EmbeddedType{
		Name:   "Alien",
		Schema: mondoc.NewSchema().Field(fields.Str("x")).MustBuild(),
	}
	stranger, err := alien.Load(map[string]any{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c := firstCode(t, errOf(f.Deserialize(stranger))); c != mondoc.CodeInvalidType {
		t.Fatalf("want invalid_type for foreign instance, got %s", c)
	}
}

func TestEmbeddedFieldMongoCodec(t *testing.T) {
	reg, shape, circle := shapeTypes(t)
	f := fields.Embedded("shape", shape)
	f.Bind(reg)

	sub, err := circle.Load(map[string]any{"radius": 3.0})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	mv, err := f.SerializeToMongo(sub)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	m := mv.(map[string]any)
	if m[mondoc.MongoClsKey] != "Circle" {
		t.Fatalf("child value must self-tag in storage, got %v", m)
	}

	back, err := f.DeserializeFromMongo(m)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	doc := back.(*mondoc.EmbeddedDoc)
	if doc.Type() != circle || doc.Get("radius") != 3.0 {
		t.Fatalf("round trip lost the concrete type: %v", doc.Type().Name)
	}
}

func TestEmbeddedFieldStorageDecodeWithoutRegistry(t *testing.T) {
	shape := &mondoc.EmbeddedType{
		Name: "Shape",
		Schema: mondoc.NewSchema().
			Field(fields.Str("label")).
			MustBuild(),
		Offspring: []string{"Circle"},
	}
	f := fields.Embedded("shape", shape)

	_, err := f.DeserializeFromMongo(map[string]any{mondoc.MongoClsKey: "Circle", "radius": 1.0})
	var ce *mondoc.ContractError
	if !errors.As(err, &ce) {
		t.Fatalf("unbound polymorphic decode must fail the contract, got %v", err)
	}
}

func TestEmbeddedFieldValidationProjection(t *testing.T) {
	_, shape, _ := shapeTypes(t)
	f := fields.Embedded("shape", shape)
	vf := f.AsValidationField(nil, mondoc.WorldObject)
	if vf.Nested == nil {
		t.Fatalf("projection must carry the nested schema")
	}
	err := vf.Validate(map[string]any{"label": 7})
	iss, ok := mondoc.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "label" {
		t.Fatalf("nested validation must recurse, got %v", err)
	}
}
