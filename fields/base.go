// Package fields provides the concrete field variants composing mondoc
// schemas: scalars, date/time variants, decimals, identifiers, containers,
// references and embedded documents.
//
// Every variant implements the mondoc.Field codec contract. Construction is
// the only mutation point; built fields are shared read-only.
package fields

import (
	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/i18n"
)

// Base carries the settings common to every field variant and the shared
// null/absent handling of the codec contract.
type Base struct {
	name      string
	attribute string
	required  bool
	allowNone bool
	unique    bool
	loadOnly  bool
	dumpOnly  bool

	def        any // value or zero-argument producer
	hasDefault bool

	validators []mondoc.Validator
	messages   map[string]string
	valParams  *mondoc.ValidationParams
}

func newBase(name string, opts []Option) Base {
	b := Base{name: name}
	for _, o := range opts {
		o(&b)
	}
	return b
}

func (b *Base) Name() string { return b.name }

func (b *Base) Attribute() string {
	if b.attribute != "" {
		return b.attribute
	}
	return b.name
}

func (b *Base) Required() bool  { return b.required }
func (b *Base) AllowNone() bool { return b.allowNone }
func (b *Base) Unique() bool    { return b.unique }
func (b *Base) LoadOnly() bool  { return b.loadOnly }
func (b *Base) DumpOnly() bool  { return b.dumpOnly }

// Default evaluates the declared default value or producer.
func (b *Base) Default() (any, bool) {
	if !b.hasDefault {
		return nil, false
	}
	return evalDefault(b.def), true
}

func evalDefault(d any) any {
	if fn, ok := d.(func() any); ok {
		return fn()
	}
	return d
}

// ValidateMissing fails with a null issue when v is nil and the field does
// not allow none. Missing passes: required-ness is a commit-time concern.
func (b *Base) ValidateMissing(v any) error {
	if v == nil && !b.allowNone {
		return b.fail(mondoc.CodeNull, nil)
	}
	return nil
}

// msg resolves a message for the code, honoring per-field overrides. Both
// defaults and overrides indirect through the translation hook.
func (b *Base) msg(code string, data map[string]string) string {
	if m, ok := b.messages[code]; ok {
		return i18n.T(m, data)
	}
	return i18n.T(code, data)
}

func (b *Base) fail(code string, data map[string]string) mondoc.Issues {
	return mondoc.Issues{{Code: code, Message: b.msg(code, data)}}
}

// preload applies the shared Missing/nil policy ahead of type-specific
// decoding. done=true means the returned value is final.
func (b *Base) preload(v any) (out any, done bool, err error) {
	if mondoc.IsMissing(v) {
		if b.hasDefault {
			return evalDefault(b.def), true, nil
		}
		return mondoc.Missing, true, nil
	}
	if v == nil {
		if b.allowNone {
			return nil, true, nil
		}
		return nil, true, b.fail(mondoc.CodeNull, nil)
	}
	return v, false, nil
}

func (b *Base) runValidators(v any) error {
	var iss mondoc.Issues
	for _, rule := range b.validators {
		if err := rule.Validate(v); err != nil {
			if more, ok := mondoc.AsIssues(err); ok {
				iss = mondoc.AppendIssues(iss, more...)
				continue
			}
			return err
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// serializeToMongo wraps a type-specific encoder with the shared null and
// absent policy. It is never handed a value that failed validation.
func (b *Base) serializeToMongo(v any, enc func(any) (any, error)) (any, error) {
	if v == nil && b.allowNone {
		return nil, nil
	}
	if mondoc.IsMissing(v) {
		return mondoc.Missing, nil
	}
	return enc(v)
}

// deserializeFromMongo mirrors serializeToMongo for the trusted decode path.
func (b *Base) deserializeFromMongo(v any, dec func(any) (any, error)) (any, error) {
	if v == nil && b.allowNone {
		return nil, nil
	}
	return dec(v)
}

// validationField assembles the projection shared by every variant: field
// settings, then field-declared validation-only overrides, then call-site
// params, in ascending precedence.
func (b *Base) validationField(params *mondoc.ValidationParams, world mondoc.World, check func(any) error) *mondoc.ValidationField {
	vf := &mondoc.ValidationField{
		Name:      b.name,
		Key:       b.name,
		Required:  b.required,
		AllowNone: b.allowNone,
		LoadOnly:  b.loadOnly,
		DumpOnly:  b.dumpOnly,
		Check:     check,
	}
	if world == mondoc.WorldMongo {
		vf.Key = b.Attribute()
	}
	if b.hasDefault {
		vf.Default = b.def
		vf.HasDefault = true
	}
	if len(b.validators) > 0 {
		vf.Validators = append([]mondoc.Validator(nil), b.validators...)
	}
	if len(b.messages) > 0 {
		vf.Messages = make(map[string]string, len(b.messages))
		for k, m := range b.messages {
			vf.Messages[k] = m
		}
	}
	vf.Apply(b.valParams)
	vf.Apply(params)
	return vf
}
