package mondoc

import "github.com/mondoc/mondoc/i18n"

// Schema is an ordered, name-unique collection of fields. Insertion order is
// the canonical listing order. Schemas are constructed once at declaration
// time and shared read-only afterwards.
type Schema struct {
	names  []string
	byName map[string]Field
}

// SchemaBuilder assembles a Schema. Declaration errors (duplicate names,
// conflicting storage attributes) surface at Build time as ContractErrors.
type SchemaBuilder struct {
	fields []Field
}

// NewSchema returns an empty schema builder.
func NewSchema() *SchemaBuilder { return &SchemaBuilder{} }

// Field appends a field declaration.
func (b *SchemaBuilder) Field(f Field) *SchemaBuilder {
	b.fields = append(b.fields, f)
	return b
}

// Build validates the declarations and returns the schema.
func (b *SchemaBuilder) Build() (*Schema, error) {
	s := &Schema{byName: make(map[string]Field, len(b.fields))}
	attrs := make(map[string]string, len(b.fields))
	for _, f := range b.fields {
		name := f.Name()
		if name == "" {
			return nil, Contractf("field with empty name")
		}
		if _, dup := s.byName[name]; dup {
			return nil, Contractf("duplicate field name %q", name)
		}
		attr := f.Attribute()
		if prev, dup := attrs[attr]; dup {
			return nil, Contractf("fields %q and %q share storage attribute %q", prev, name, attr)
		}
		attrs[attr] = name
		s.byName[name] = f
		s.names = append(s.names, name)
	}
	return s, nil
}

// MustBuild is Build for statically known declarations; it panics on error.
func (b *SchemaBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Names returns the declared field names in insertion order.
func (s *Schema) Names() []string { return s.names }

// FieldByName looks up a field by declared name.
func (s *Schema) FieldByName(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Each calls fn for every field in insertion order.
func (s *Schema) Each(fn func(name string, f Field)) {
	for _, name := range s.names {
		fn(name, s.byName[name])
	}
}

// MapToField calls visit(mongoPath, path, field) for every field, then
// descends into fields that wrap nested fields, joining paths with dots.
// Collaborators use this to derive storage indexes and to translate
// declared-path queries into storage-path queries.
func (s *Schema) MapToField(visit VisitFunc) {
	s.Each(func(name string, f Field) {
		mongoPath := f.Attribute()
		visit(mongoPath, name, f)
		if fm, ok := f.(FieldMapper); ok {
			fm.MapToField(mongoPath, name, visit)
		}
	})
}

// RequiredValidate is the commit-time sweep over a name-keyed value set:
// required fields must be present, present values must honor allow-none,
// and composite fields recurse through their RequiredValidator capability.
// Failures aggregate per field rather than short-circuiting.
func (s *Schema) RequiredValidate(data map[string]any) error {
	var iss Issues
	s.Each(func(name string, f Field) {
		v, ok := data[name]
		if !ok || IsMissing(v) {
			if f.Required() {
				iss = AppendIssues(iss, Issue{Path: name, Code: CodeRequired, Message: i18n.T(CodeRequired, nil)})
			}
			return
		}
		if err := f.ValidateMissing(v); err != nil {
			iss = AppendIssues(iss, PrefixIssues(name, err)...)
			return
		}
		if rv, ok := f.(RequiredValidator); ok {
			if err := rv.RequiredValidate(v); err != nil {
				iss = AppendIssues(iss, PrefixIssues(name, err)...)
			}
		}
	})
	if len(iss) > 0 {
		return iss
	}
	return nil
}
