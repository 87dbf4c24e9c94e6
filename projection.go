package mondoc

import (
	"strconv"

	"github.com/mondoc/mondoc/i18n"
	"github.com/mondoc/mondoc/internal/projcache"
)

// UnknownPolicy controls how a validation schema handles unknown keys.
type UnknownPolicy int

const (
	UnknownDefault UnknownPolicy = iota // Follow the projection's strictness flag.
	UnknownRaise                        // Reject unknown keys with an error.
	UnknownExclude                      // Drop unknown keys.
)

// ValidationParams are per-field overrides applied when building a
// validation projection. A field may also declare its own validation-only
// overrides at construction time; call-site params win over those.
type ValidationParams struct {
	Required   *bool
	AllowNone  *bool
	Default    any // value or zero-argument producer
	HasDefault bool
	// Validators replaces the projected validator set when non-nil.
	Validators []Validator
	Attribute  *string
	// Inner carries params for a container's inner field.
	Inner *ValidationParams
	// Params carries per-field params for an embedded field's sub-schema.
	Params map[string]*ValidationParams
	// Meta carries meta overrides for an embedded field's sub-schema.
	Meta *SchemaMeta
}

// SchemaMeta are schema-level overrides for a validation projection.
type SchemaMeta struct {
	Name    string
	Unknown UnknownPolicy
}

// ContainerKind tags a validation field that recurses into elements.
type ContainerKind int

const (
	ContainerNone ContainerKind = iota
	ContainerList
	ContainerDict
)

// ValidationField is the pure validation-only counterpart of a Field: the
// same declared name and rules, no storage behavior.
type ValidationField struct {
	Name string
	// Key is the lookup key in input records: the storage attribute in the
	// mongo world, the declared name otherwise.
	Key        string
	Required   bool
	AllowNone  bool
	LoadOnly   bool
	DumpOnly   bool
	Default    any // value or zero-argument producer
	HasDefault bool
	Validators []Validator
	// Check is the type/format acceptance test contributed by the source
	// field; nil accepts anything.
	Check     func(v any) error
	Container ContainerKind
	Inner     *ValidationField  // list element / dict value field
	KeyField  *ValidationField  // dict key field, optional
	Nested    *ValidationSchema // embedded sub-schema
	Messages  map[string]string // per-field message overrides, translated on use
}

func (f *ValidationField) msg(code string, data map[string]string) string {
	if m, ok := f.Messages[code]; ok {
		return i18n.T(m, data)
	}
	return i18n.T(code, data)
}

// listElems and dictItems let container validation accept tracked container
// values without depending on their package.
type listElems interface{ Elems() []any }
type dictItems interface{ Items() map[string]any }

// Validate checks a single value against the field's rules. Missing passes
// (required-ness is a record-level concern); nil passes only with AllowNone.
func (f *ValidationField) Validate(v any) error {
	if IsMissing(v) {
		return nil
	}
	if v == nil {
		if !f.AllowNone {
			return Issues{{Code: CodeNull, Message: f.msg(CodeNull, nil)}}
		}
		return nil
	}
	if f.Check != nil {
		if err := f.Check(v); err != nil {
			return err
		}
	}
	switch f.Container {
	case ContainerList:
		var elems []any
		switch t := v.(type) {
		case []any:
			elems = t
		case listElems:
			elems = t.Elems()
		default:
			return Issues{{Code: CodeInvalidType, Message: f.msg(CodeInvalidType, nil)}}
		}
		var iss Issues
		for i, el := range elems {
			if err := f.Inner.Validate(el); err != nil {
				iss = AppendIssues(iss, PrefixIssues(strconv.Itoa(i), err)...)
			}
		}
		if len(iss) > 0 {
			return iss
		}
	case ContainerDict:
		var items map[string]any
		switch t := v.(type) {
		case map[string]any:
			items = t
		case dictItems:
			items = t.Items()
		default:
			return Issues{{Code: CodeInvalidType, Message: f.msg(CodeInvalidType, nil)}}
		}
		var iss Issues
		for k, el := range items {
			if f.KeyField != nil {
				if err := f.KeyField.Validate(k); err != nil {
					iss = AppendIssues(iss, PrefixIssues(k+".key", err)...)
				}
			}
			if f.Inner != nil {
				if err := f.Inner.Validate(el); err != nil {
					iss = AppendIssues(iss, PrefixIssues(k+".value", err)...)
				}
			}
		}
		if len(iss) > 0 {
			return iss
		}
	}
	// The nested sweep applies to raw records only; already decoded
	// instances were validated when they were built.
	if f.Nested != nil {
		if record, ok := v.(map[string]any); ok {
			if err := f.Nested.Validate(record); err != nil {
				return err
			}
		}
	}
	for _, rule := range f.Validators {
		if err := rule.Validate(v); err != nil {
			if iss, ok := AsIssues(err); ok {
				return iss
			}
			return Issues{{Code: CodeInvalidInput, Message: err.Error(), Cause: err}}
		}
	}
	return nil
}

// Apply merges overrides into the field. Call-site params win over
// field-declared ones, which win over the projected base settings.
func (f *ValidationField) Apply(p *ValidationParams) {
	if p == nil {
		return
	}
	if p.Required != nil {
		f.Required = *p.Required
	}
	if p.AllowNone != nil {
		f.AllowNone = *p.AllowNone
	}
	if p.HasDefault {
		f.Default = p.Default
		f.HasDefault = true
	}
	if p.Validators != nil {
		f.Validators = p.Validators
	}
	if p.Attribute != nil {
		f.Key = *p.Attribute
	}
}

// ValidationSchema is a validation-only projection of a Schema: same
// declared names and rules, no storage encode/decode.
type ValidationSchema struct {
	names        []string // input record keys in declaration order
	fields       map[string]*ValidationField
	allowUnknown bool
	world        World
	meta         *SchemaMeta
}

// World reports which world the projection validates against.
func (vs *ValidationSchema) World() World { return vs.world }

// Meta returns the meta overrides the projection was built with, if any.
func (vs *ValidationSchema) Meta() *SchemaMeta { return vs.meta }

// Keys returns the input record keys in declaration order.
func (vs *ValidationSchema) Keys() []string { return vs.names }

// FieldByKey looks up a projected field by its input key.
func (vs *ValidationSchema) FieldByKey(key string) (*ValidationField, bool) {
	f, ok := vs.fields[key]
	return f, ok
}

func (vs *ValidationSchema) unknownIsError() bool {
	if vs.meta != nil && vs.meta.Unknown != UnknownDefault {
		return vs.meta.Unknown == UnknownRaise
	}
	return !vs.allowUnknown
}

// Validate checks a keyed record: required keys, null policy, per-field
// rules, and unknown keys when the projection is strict. Failures aggregate
// per key rather than short-circuiting.
func (vs *ValidationSchema) Validate(record map[string]any) error {
	var iss Issues
	for _, key := range vs.names {
		f := vs.fields[key]
		v, ok := record[key]
		if !ok || IsMissing(v) {
			if f.Required {
				iss = AppendIssues(iss, Issue{Path: key, Code: CodeRequired, Message: f.msg(CodeRequired, nil)})
			}
			continue
		}
		if err := f.Validate(v); err != nil {
			iss = AppendIssues(iss, PrefixIssues(key, err)...)
		}
	}
	if vs.unknownIsError() {
		for k := range record {
			if _, known := vs.fields[k]; !known {
				iss = AppendIssues(iss, Issue{Path: k, Code: CodeUnknownField, Message: i18n.T(CodeUnknownField, nil)})
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// Load validates a record and returns it with defaults applied, keyed by
// declared name. In the object world absent keys stay absent: no nil is
// surfaced for them, that policy belongs to the caller.
func (vs *ValidationSchema) Load(record map[string]any) (map[string]any, error) {
	if err := vs.Validate(record); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(record))
	for _, key := range vs.names {
		f := vs.fields[key]
		v, ok := record[key]
		if !ok || IsMissing(v) {
			if f.HasDefault {
				out[f.Name] = evalDefault(f.Default)
			}
			continue
		}
		out[f.Name] = v
	}
	return out, nil
}

func evalDefault(d any) any {
	if fn, ok := d.(func() any); ok {
		return fn()
	}
	return d
}

// ProjectionOpts configures AsValidationSchema.
type ProjectionOpts struct {
	// Params are per-field overrides, keyed by declared name.
	Params map[string]*ValidationParams
	// AllowUnknownFields disables the unknown-key error (strict is the
	// default, matching storage-backed schemas).
	AllowUnknownFields bool
	World              World
	Meta               *SchemaMeta
	// Cache overrides the process-wide projection cache.
	Cache *projcache.Cache
}

type projModifiers struct {
	Params map[string]*ValidationParams
	Meta   *SchemaMeta
}

var defaultProjectionCache = projcache.New()

// AsValidationSchema builds (or returns the memoized) validation-only
// projection of the schema. The cache key is (schema, strictness, world);
// within a bucket the non-hashable params and meta are compared for deep
// equality before a cached projection is reused.
func (s *Schema) AsValidationSchema(opts ProjectionOpts) *ValidationSchema {
	cache := opts.Cache
	if cache == nil {
		cache = defaultProjectionCache
	}
	key := projcache.Key{Schema: s, Strict: !opts.AllowUnknownFields, World: int(opts.World)}
	modifiers := projModifiers{Params: opts.Params, Meta: opts.Meta}
	if v, ok := cache.Lookup(key, modifiers); ok {
		return v.(*ValidationSchema)
	}
	vs := &ValidationSchema{
		fields:       make(map[string]*ValidationField, len(s.names)),
		allowUnknown: opts.AllowUnknownFields,
		world:        opts.World,
		meta:         opts.Meta,
	}
	s.Each(func(name string, f Field) {
		vf := f.AsValidationField(opts.Params[name], opts.World)
		vs.names = append(vs.names, vf.Key)
		vs.fields[vf.Key] = vf
	})
	return cache.Store(key, modifiers, vs).(*ValidationSchema)
}
