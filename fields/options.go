package fields

import mondoc "github.com/mondoc/mondoc"

// Option configures the settings shared by every field variant.
type Option func(*Base)

// Attribute overrides the storage attribute name (for example "_id").
func Attribute(attr string) Option {
	return func(b *Base) { b.attribute = attr }
}

// Required marks the field as mandatory at commit time.
func Required() Option {
	return func(b *Base) { b.required = true }
}

// AllowNone lets the field accept explicit null values.
func AllowNone() Option {
	return func(b *Base) { b.allowNone = true }
}

// Unique marks the field for a unique storage index.
func Unique() Option {
	return func(b *Base) { b.unique = true }
}

// LoadOnly excludes the field from object-world dumps.
func LoadOnly() Option {
	return func(b *Base) { b.loadOnly = true }
}

// DumpOnly marks the field as output-only in the object world.
func DumpOnly() Option {
	return func(b *Base) { b.dumpOnly = true }
}

// Default declares a default value applied when the field is absent.
func Default(v any) Option {
	return func(b *Base) {
		b.def = v
		b.hasDefault = true
	}
}

// DefaultFunc declares a zero-argument producer evaluated per application.
func DefaultFunc(fn func() any) Option {
	return func(b *Base) {
		b.def = func() any { return fn() }
		b.hasDefault = true
	}
}

// Validate attaches value-level validation rules.
func Validate(rules ...mondoc.Validator) Option {
	return func(b *Base) { b.validators = append(b.validators, rules...) }
}

// Messages overrides error messages per issue code. Values are translation
// keys: they still pass through the translation hook before display.
func Messages(m map[string]string) Option {
	return func(b *Base) {
		if b.messages == nil {
			b.messages = make(map[string]string, len(m))
		}
		for k, v := range m {
			b.messages[k] = v
		}
	}
}

// Validation declares overrides that apply only to the validation-only
// projection of this field, letting it differ from the storage declaration
// (for example a different default or required-ness).
func Validation(p mondoc.ValidationParams) Option {
	return func(b *Base) { b.valParams = &p }
}
