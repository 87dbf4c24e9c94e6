package fields

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/oid"
	"github.com/mondoc/mondoc/rules"
)

// scalar composes the Base settings with per-type codec hooks. Variants set
// coerce (object-world decode + type check) and optionally dump/encodeMongo/
// decodeMongo; unset hooks pass the value through.
type scalar struct {
	Base
	coerce      func(v any) (any, error)
	dump        func(v any) (any, error)
	encodeMongo func(v any) (any, error)
	decodeMongo func(v any) (any, error)
}

func identity(v any) (any, error) { return v, nil }

func (f *scalar) hooksOrIdentity() {
	if f.dump == nil {
		f.dump = identity
	}
	if f.encodeMongo == nil {
		f.encodeMongo = identity
	}
	if f.decodeMongo == nil {
		f.decodeMongo = f.coerce
	}
}

func (f *scalar) Deserialize(v any) (any, error) {
	v, done, err := f.preload(v)
	if done || err != nil {
		return v, err
	}
	out, err := f.coerce(v)
	if err != nil {
		return nil, err
	}
	if err := f.runValidators(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *scalar) Serialize(v any) (any, error) {
	if mondoc.IsMissing(v) || v == nil {
		return v, nil
	}
	return f.dump(v)
}

func (f *scalar) SerializeToMongo(v any) (any, error) {
	return f.serializeToMongo(v, f.encodeMongo)
}

func (f *scalar) DeserializeFromMongo(v any) (any, error) {
	return f.deserializeFromMongo(v, f.decodeMongo)
}

func (f *scalar) AsValidationField(params *mondoc.ValidationParams, world mondoc.World) *mondoc.ValidationField {
	coerce := f.coerce
	return f.validationField(params, world, func(v any) error {
		_, err := coerce(v)
		return err
	})
}

// StringField passes string values through unchanged.
type StringField struct{ scalar }

// String declares a string field.
func String(name string, opts ...Option) *StringField {
	f := &StringField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return s, nil
	}
	f.hooksOrIdentity()
	return f
}

// Str is an alias for String.
func Str(name string, opts ...Option) *StringField { return String(name, opts...) }

// BooleanField passes boolean values through unchanged.
type BooleanField struct{ scalar }

// Boolean declares a boolean field.
func Boolean(name string, opts ...Option) *BooleanField {
	f := &BooleanField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		b, ok := v.(bool)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return b, nil
	}
	f.hooksOrIdentity()
	return f
}

// Bool is an alias for Boolean.
func Bool(name string, opts ...Option) *BooleanField { return Boolean(name, opts...) }

// IntegerField normalizes integral inputs to int64.
type IntegerField struct{ scalar }

// Integer declares an integer field.
func Integer(name string, opts ...Option) *IntegerField {
	f := &IntegerField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		n, ok := toInt64(v)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return n, nil
	}
	f.hooksOrIdentity()
	return f
}

// Int is an alias for Integer.
func Int(name string, opts ...Option) *IntegerField { return Integer(name, opts...) }

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return int64(t), true
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
	}
	return 0, false
}

// FloatField normalizes numeric inputs to float64.
type FloatField struct{ scalar }

// Float declares a floating-point field.
func Float(name string, opts ...Option) *FloatField {
	f := &FloatField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		n, ok := toFloat64(v)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return n, nil
	}
	f.hooksOrIdentity()
	return f
}

// Number is an alias for Float.
func Number(name string, opts ...Option) *FloatField { return Float(name, opts...) }

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		if n, err := t.Float64(); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ConstantField always loads and dumps the same declared value.
type ConstantField struct {
	scalar
	value any
}

// Constant declares a field pinned to value.
func Constant(name string, value any, opts ...Option) *ConstantField {
	f := &ConstantField{scalar: scalar{Base: newBase(name, opts)}, value: value}
	f.def = value
	f.hasDefault = true
	f.coerce = func(any) (any, error) { return f.value, nil }
	f.dump = func(any) (any, error) { return f.value, nil }
	f.encodeMongo = func(any) (any, error) { return f.value, nil }
	f.decodeMongo = func(any) (any, error) { return f.value, nil }
	return f
}

// EmailField is a string field with address-format validation.
type EmailField struct{ scalar }

// Email declares an email-address field.
func Email(name string, opts ...Option) *EmailField {
	f := &EmailField{scalar{Base: newBase(name, opts)}}
	f.validators = append([]mondoc.Validator{rules.Email{}}, f.validators...)
	f.coerce = func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return s, nil
	}
	f.hooksOrIdentity()
	return f
}

// URLField is a string field with absolute-URL validation.
type URLField struct{ scalar }

// URL declares a URL field.
func URL(name string, opts ...Option) *URLField {
	f := &URLField{scalar{Base: newBase(name, opts)}}
	f.validators = append([]mondoc.Validator{rules.URL{}}, f.validators...)
	f.coerce = func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return s, nil
	}
	f.hooksOrIdentity()
	return f
}

// Url is an alias for URL.
func Url(name string, opts ...Option) *URLField { return URL(name, opts...) }

// UUIDField accepts uuid.UUID values or their string form.
type UUIDField struct{ scalar }

// UUID declares a UUID field.
func UUID(name string, opts ...Option) *UUIDField {
	f := &UUIDField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		switch t := v.(type) {
		case uuid.UUID:
			return t, nil
		case string:
			u, err := uuid.Parse(t)
			if err != nil {
				return nil, f.fail(mondoc.CodeInvalidFormat, nil)
			}
			return u, nil
		}
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	f.dump = func(v any) (any, error) { return v.(uuid.UUID).String(), nil }
	f.hooksOrIdentity()
	return f
}

// ObjectIDField accepts oid.ID values or their string form.
type ObjectIDField struct{ scalar }

// ObjectID declares an opaque-identifier field.
func ObjectID(name string, opts ...Option) *ObjectIDField {
	f := &ObjectIDField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		id, err := coerceID(v)
		if err != nil {
			return nil, f.fail(mondoc.CodeInvalidID, nil)
		}
		return id, nil
	}
	f.dump = func(v any) (any, error) { return v.(oid.ID).String(), nil }
	f.hooksOrIdentity()
	return f
}

func coerceID(v any) (oid.ID, error) {
	switch t := v.(type) {
	case oid.ID:
		return t, nil
	case string:
		return oid.Parse(t)
	}
	return oid.Nil, &oid.MalformedIDError{Value: fmt.Sprint(v)}
}
