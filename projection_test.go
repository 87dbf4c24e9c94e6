package mondoc_test

import (
	"testing"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/fields"
	"github.com/mondoc/mondoc/internal/projcache"
	"github.com/mondoc/mondoc/rules"
)

func boolp(b bool) *bool { return &b }

func TestAsValidationSchemaMemoization(t *testing.T) {
	s := mondoc.NewSchema().
		Field(fields.Str("name", fields.Required())).
		MustBuild()
	cache := projcache.New()

	a := s.AsValidationSchema(mondoc.ProjectionOpts{Cache: cache})
	b := s.AsValidationSchema(mondoc.ProjectionOpts{Cache: cache})
	if a != b {
		t.Fatalf("identical projections must be memoized")
	}

	c := s.AsValidationSchema(mondoc.ProjectionOpts{Cache: cache, World: mondoc.WorldMongo})
	if a == c {
		t.Fatalf("projections for different worlds must be distinct")
	}

	d := s.AsValidationSchema(mondoc.ProjectionOpts{
		Cache:  cache,
		Params: map[string]*mondoc.ValidationParams{"name": {Required: boolp(false)}},
	})
	if a == d {
		t.Fatalf("projections with different params must be distinct")
	}
	e := s.AsValidationSchema(mondoc.ProjectionOpts{
		Cache:  cache,
		Params: map[string]*mondoc.ValidationParams{"name": {Required: boolp(false)}},
	})
	if d != e {
		t.Fatalf("equal params must hit the same cache entry")
	}
}

func TestValidationSchemaValidate(t *testing.T) {
	s := mondoc.NewSchema().
		Field(fields.Str("name", fields.Required())).
		Field(fields.Int("age", fields.Validate(rules.Range{Min: fl(0)}))).
		MustBuild()
	vs := s.AsValidationSchema(mondoc.ProjectionOpts{Cache: projcache.New()})

	err := vs.Validate(map[string]any{"age": int64(-1), "extra": 1})
	iss, ok := mondoc.AsIssues(err)
	if !ok {
		t.Fatalf("want issues, got %v", err)
	}
	codes := map[string]string{}
	for _, it := range iss {
		codes[it.Path] = it.Code
	}
	if codes["name"] != mondoc.CodeRequired {
		t.Fatalf("want required at name, got %v", iss)
	}
	if codes["age"] != mondoc.CodeTooSmall {
		t.Fatalf("want too_small at age, got %v", iss)
	}
	if codes["extra"] != mondoc.CodeUnknownField {
		t.Fatalf("want unknown_field at extra, got %v", iss)
	}
}

func fl(v float64) *float64 { return &v }

func TestValidationSchemaAllowsUnknownWhenRelaxed(t *testing.T) {
	s := mondoc.NewSchema().Field(fields.Str("name")).MustBuild()
	vs := s.AsValidationSchema(mondoc.ProjectionOpts{
		Cache:              projcache.New(),
		AllowUnknownFields: true,
	})
	if err := vs.Validate(map[string]any{"extra": 1}); err != nil {
		t.Fatalf("relaxed projection must ignore unknown keys, got %v", err)
	}
}

func TestValidationSchemaMongoWorldKeys(t *testing.T) {
	s := mondoc.NewSchema().
		Field(fields.Str("id", fields.Attribute("_id"), fields.Required())).
		MustBuild()
	vs := s.AsValidationSchema(mondoc.ProjectionOpts{
		Cache: projcache.New(),
		World: mondoc.WorldMongo,
	})
	if err := vs.Validate(map[string]any{"_id": "x"}); err != nil {
		t.Fatalf("mongo-world record keys by attribute must pass, got %v", err)
	}
	err := vs.Validate(map[string]any{"id": "x"})
	if err == nil {
		t.Fatalf("declared name must be unknown in the mongo world")
	}
}

func TestValidationSchemaLoadAppliesDefaults(t *testing.T) {
	n := 0
	s := mondoc.NewSchema().
		Field(fields.Str("kind", fields.DefaultFunc(func() any { n++; return "k" }))).
		Field(fields.Str("note")).
		MustBuild()
	vs := s.AsValidationSchema(mondoc.ProjectionOpts{Cache: projcache.New()})

	out, err := vs.Load(map[string]any{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out["kind"] != "k" || n != 1 {
		t.Fatalf("default producer must run once per load, got %v (n=%d)", out, n)
	}
	if _, present := out["note"]; present {
		t.Fatalf("absent keys without defaults must stay absent")
	}
}

func TestValidationFieldNullPolicy(t *testing.T) {
	s := mondoc.NewSchema().
		Field(fields.Str("a")).
		Field(fields.Str("b", fields.AllowNone())).
		MustBuild()
	vs := s.AsValidationSchema(mondoc.ProjectionOpts{Cache: projcache.New()})

	err := vs.Validate(map[string]any{"a": nil})
	iss, _ := mondoc.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != mondoc.CodeNull {
		t.Fatalf("want null issue, got %v", err)
	}
	if err := vs.Validate(map[string]any{"b": nil}); err != nil {
		t.Fatalf("allow-none field must accept nil, got %v", err)
	}
}

func TestValidationFieldContainerRecursion(t *testing.T) {
	s := mondoc.NewSchema().
		Field(fields.List("nums", fields.Int("num"))).
		MustBuild()
	vs := s.AsValidationSchema(mondoc.ProjectionOpts{Cache: projcache.New()})

	err := vs.Validate(map[string]any{"nums": []any{int64(1), "x"}})
	iss, _ := mondoc.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "nums.1" || iss[0].Code != mondoc.CodeInvalidType {
		t.Fatalf("want invalid_type at nums.1, got %v", err)
	}
}
