package mondoc

// Field is the per-type codec contract shared by every schema slot.
//
// A Field is immutable after schema construction except for lazily resolved
// caches (for example a reference target resolved through the registry), so
// it may be shared freely across concurrent document operations.
type Field interface {
	// Name is the declared field name.
	Name() string
	// Attribute is the storage attribute name; it defaults to the declared
	// name when not overridden.
	Attribute() string

	Required() bool
	AllowNone() bool
	Unique() bool
	LoadOnly() bool
	DumpOnly() bool

	// Default evaluates the declared default value or zero-argument
	// producer. The second result is false when no default is declared.
	Default() (any, bool)

	// Deserialize maps an object-world input to a validated in-memory
	// value. Missing yields the default (or Missing); nil is accepted only
	// when the field allows none.
	Deserialize(v any) (any, error)
	// Serialize maps an in-memory value to its object-world display form.
	Serialize(v any) (any, error)

	// SerializeToMongo maps an in-memory value to the storage wire form.
	// It is never invoked with a value that failed validation.
	SerializeToMongo(v any) (any, error)
	// DeserializeFromMongo maps a storage wire value back. Storage is
	// trusted: this path does not re-run validation rules.
	DeserializeFromMongo(v any) (any, error)

	// ValidateMissing fails with a null-kind issue when v is nil but the
	// field does not allow none. Required-ness is a whole-document concern
	// applied at commit time, not here.
	ValidateMissing(v any) error

	// AsValidationField produces the pure validation-only counterpart of
	// this field for the given world.
	AsValidationField(params *ValidationParams, world World) *ValidationField
}

// VisitFunc is invoked by schema traversal with the dotted storage path, the
// dotted declared path and the field occupying that slot.
type VisitFunc func(mongoPath, path string, f Field)

// FieldMapper is implemented by fields that wrap nested fields (containers
// and embedded documents) so traversal can descend into them.
type FieldMapper interface {
	MapToField(mongoPath, path string, visit VisitFunc)
}

// RequiredValidator is the commit-time recursion capability. Container
// fields only recurse into inner fields that implement it; inner fields
// lacking it are skipped at this stage.
type RequiredValidator interface {
	RequiredValidate(v any) error
}

// Validator is a single value-level validation rule attached to a field.
type Validator interface {
	Validate(v any) error
}
