// Package schemayaml builds schemas from declarative YAML definitions, so
// deployments can describe document shapes in configuration instead of
// code.
package schemayaml

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/fields"
	"github.com/mondoc/mondoc/rules"
)

// FieldDecl is one field declaration. Type selects the field variant;
// the remaining settings apply where they make sense for that variant.
type FieldDecl struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Attribute string `yaml:"attribute"`
	Required  bool   `yaml:"required"`
	AllowNone bool   `yaml:"allow_none"`
	Unique    bool   `yaml:"unique"`
	LoadOnly  bool   `yaml:"load_only"`
	DumpOnly  bool   `yaml:"dump_only"`
	Default   *any   `yaml:"default"`

	// Validation rules.
	MinLength int      `yaml:"min_length"`
	MaxLength int      `yaml:"max_length"`
	Length    int      `yaml:"length"` // exact length
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	Pattern   string   `yaml:"pattern"`
	Choices   []any    `yaml:"choices"`

	// Variant-specific settings.
	Value  *any       `yaml:"value"`  // constant
	Zone   string     `yaml:"zone"`   // aware_datetime display zone
	Inner  *FieldDecl `yaml:"inner"`  // list element
	Key    *FieldDecl `yaml:"key"`    // dict key
	Item   *FieldDecl `yaml:"item"`   // dict value
	Target string     `yaml:"target"` // reference / embedded type name
}

// SchemaDecl is a whole schema declaration.
type SchemaDecl struct {
	Fields []FieldDecl `yaml:"fields"`
}

// Load reads a YAML schema declaration and builds the schema.
func Load(r io.Reader) (*mondoc.Schema, error) {
	var decl SchemaDecl
	if err := yaml.NewDecoder(r).Decode(&decl); err != nil {
		return nil, fmt.Errorf("schemayaml: %w", err)
	}
	return Build(&decl)
}

// LoadBytes is Load over an in-memory document.
func LoadBytes(b []byte) (*mondoc.Schema, error) {
	var decl SchemaDecl
	if err := yaml.Unmarshal(b, &decl); err != nil {
		return nil, fmt.Errorf("schemayaml: %w", err)
	}
	return Build(&decl)
}

// Build turns an already decoded declaration into a schema.
func Build(decl *SchemaDecl) (*mondoc.Schema, error) {
	sb := mondoc.NewSchema()
	for i := range decl.Fields {
		f, err := buildField(&decl.Fields[i])
		if err != nil {
			return nil, err
		}
		sb.Field(f)
	}
	return sb.Build()
}

func buildField(d *FieldDecl) (mondoc.Field, error) {
	if d.Name == "" {
		return nil, mondoc.Contractf("schemayaml: field declaration without a name")
	}
	opts, err := buildOptions(d)
	if err != nil {
		return nil, err
	}
	switch d.Type {
	case "string", "str":
		return fields.Str(d.Name, opts...), nil
	case "boolean", "bool":
		return fields.Bool(d.Name, opts...), nil
	case "integer", "int":
		return fields.Int(d.Name, opts...), nil
	case "float", "number":
		return fields.Float(d.Name, opts...), nil
	case "email":
		return fields.Email(d.Name, opts...), nil
	case "url":
		return fields.URL(d.Name, opts...), nil
	case "uuid":
		return fields.UUID(d.Name, opts...), nil
	case "objectid", "id":
		return fields.ObjectID(d.Name, opts...), nil
	case "decimal":
		return fields.Decimal(d.Name, opts...), nil
	case "datetime":
		return fields.DateTime(d.Name, opts...), nil
	case "naive_datetime":
		return fields.NaiveDateTime(d.Name, opts...), nil
	case "aware_datetime":
		zone := time.UTC
		if d.Zone != "" {
			zone, err = time.LoadLocation(d.Zone)
			if err != nil {
				return nil, mondoc.Contractf("schemayaml: field %q: unknown zone %q", d.Name, d.Zone)
			}
		}
		return fields.AwareDateTime(d.Name, zone, opts...), nil
	case "date":
		return fields.Date(d.Name, opts...), nil
	case "constant":
		if d.Value == nil {
			return nil, mondoc.Contractf("schemayaml: constant field %q needs a value", d.Name)
		}
		return fields.Constant(d.Name, *d.Value, opts...), nil
	case "list":
		if d.Inner == nil {
			return nil, mondoc.Contractf("schemayaml: list field %q needs an inner declaration", d.Name)
		}
		inner, err := buildField(named(d.Inner, d.Name))
		if err != nil {
			return nil, err
		}
		return fields.List(d.Name, inner, opts...), nil
	case "dict":
		var key, item mondoc.Field
		if d.Key != nil {
			if key, err = buildField(named(d.Key, d.Name)); err != nil {
				return nil, err
			}
		}
		if d.Item != nil {
			if item, err = buildField(named(d.Item, d.Name)); err != nil {
				return nil, err
			}
		}
		return fields.Dict(d.Name, key, item, opts...), nil
	case "reference":
		if d.Target == "" {
			return nil, mondoc.Contractf("schemayaml: reference field %q needs a target", d.Name)
		}
		return fields.Reference(d.Name, d.Target, opts...), nil
	case "generic_reference":
		return fields.GenericReference(d.Name, opts...), nil
	case "embedded":
		if d.Target == "" {
			return nil, mondoc.Contractf("schemayaml: embedded field %q needs a target", d.Name)
		}
		return fields.Embedded(d.Name, d.Target, opts...), nil
	}
	return nil, mondoc.Contractf("schemayaml: field %q has unknown type %q", d.Name, d.Type)
}

// named gives nested declarations a fallback name so error messages can
// point somewhere useful.
func named(d *FieldDecl, parent string) *FieldDecl {
	if d.Name == "" {
		c := *d
		c.Name = parent
		return &c
	}
	return d
}

func buildOptions(d *FieldDecl) ([]fields.Option, error) {
	var opts []fields.Option
	if d.Attribute != "" {
		opts = append(opts, fields.Attribute(d.Attribute))
	}
	if d.Required {
		opts = append(opts, fields.Required())
	}
	if d.AllowNone {
		opts = append(opts, fields.AllowNone())
	}
	if d.Unique {
		opts = append(opts, fields.Unique())
	}
	if d.LoadOnly {
		opts = append(opts, fields.LoadOnly())
	}
	if d.DumpOnly {
		opts = append(opts, fields.DumpOnly())
	}
	if d.Default != nil {
		opts = append(opts, fields.Default(*d.Default))
	}
	var vals []mondoc.Validator
	if d.MinLength > 0 || d.MaxLength > 0 || d.Length > 0 {
		vals = append(vals, rules.Length{Min: d.MinLength, Max: d.MaxLength, Equal: d.Length})
	}
	if d.Min != nil || d.Max != nil {
		vals = append(vals, rules.Range{Min: d.Min, Max: d.Max})
	}
	if d.Pattern != "" {
		vals = append(vals, rules.Regexp{Pattern: d.Pattern})
	}
	if len(d.Choices) > 0 {
		vals = append(vals, rules.OneOf{Choices: d.Choices})
	}
	if len(vals) > 0 {
		opts = append(opts, fields.Validate(vals...))
	}
	return opts, nil
}
