package mondoc

import "github.com/mondoc/mondoc/i18n"

// Discriminator keys for polymorphic embedded documents: ClsKey in the
// object world, MongoClsKey in storage records.
const (
	ClsKey      = "cls"
	MongoClsKey = "_cls"
)

// DataObject is implemented by per-document values that track whether they
// have been mutated since construction or since last cleared.
type DataObject interface {
	IsModified() bool
	ClearModified()
}

// EmbeddedDoc is an instance of an embedded-document type: a name-keyed
// value set driven by the type's schema, with modification tracking. An
// EmbeddedDoc is exclusively owned by the document that decoded it.
type EmbeddedDoc struct {
	typ      *EmbeddedType
	data     map[string]any
	modified bool
}

// NewEmbeddedDoc returns an empty instance of t with declared defaults
// applied.
func NewEmbeddedDoc(t *EmbeddedType) *EmbeddedDoc {
	d := &EmbeddedDoc{typ: t, data: make(map[string]any, len(t.Schema.Names()))}
	t.Schema.Each(func(name string, f Field) {
		if dv, ok := f.Default(); ok {
			d.data[name] = dv
		}
	})
	return d
}

// Load builds an instance of t from an object-world keyed record. Field
// values pass through their field's Deserialize; unknown keys are errors.
func (t *EmbeddedType) Load(record map[string]any) (*EmbeddedDoc, error) {
	d := NewEmbeddedDoc(t)
	var iss Issues
	for k, v := range record {
		f, ok := t.Schema.FieldByName(k)
		if !ok {
			iss = AppendIssues(iss, Issue{Path: k, Code: CodeUnknownField, Message: i18n.T(CodeUnknownField, nil)})
			continue
		}
		val, err := f.Deserialize(v)
		if err != nil {
			iss = AppendIssues(iss, PrefixIssues(k, err)...)
			continue
		}
		if !IsMissing(val) {
			d.data[k] = val
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return d, nil
}

// BuildFromMongo reconstructs an instance from a storage record. When t is
// polymorphic, the storage discriminator selects the concrete subtype
// through the registry. Storage input is trusted: field values go through
// DeserializeFromMongo and no validation rules run.
func (t *EmbeddedType) BuildFromMongo(reg Registry, m map[string]any) (*EmbeddedDoc, error) {
	concrete := t
	if len(t.Offspring) > 0 {
		if cls, ok := m[MongoClsKey].(string); ok {
			if !t.HasOffspring(cls) {
				return nil, Issues{{Code: CodeUnknownDocument, Message: i18n.T(CodeUnknownDocument, map[string]string{"document": cls})}}
			}
			if reg == nil {
				return nil, Contractf("embedded type %q is not bound to a registry", t.Name)
			}
			ct, err := reg.Embedded(cls)
			if err != nil {
				return nil, Issues{{Code: CodeUnknownDocument, Message: i18n.T(CodeUnknownDocument, map[string]string{"document": cls}), Cause: err}}
			}
			concrete = ct
		}
	}
	d := &EmbeddedDoc{typ: concrete, data: make(map[string]any, len(concrete.Schema.Names()))}
	var iss Issues
	concrete.Schema.Each(func(name string, f Field) {
		mv, ok := m[f.Attribute()]
		if !ok {
			return
		}
		val, err := f.DeserializeFromMongo(mv)
		if err != nil {
			iss = AppendIssues(iss, PrefixIssues(name, err)...)
			return
		}
		d.data[name] = val
	})
	if len(iss) > 0 {
		return nil, iss
	}
	return d, nil
}

// Type returns the concrete embedded type of this instance.
func (d *EmbeddedDoc) Type() *EmbeddedType { return d.typ }

// Get returns the value stored under the declared name, or Missing.
func (d *EmbeddedDoc) Get(name string) any {
	if v, ok := d.data[name]; ok {
		return v
	}
	return Missing
}

// Set deserializes v through the named field and stores the result.
func (d *EmbeddedDoc) Set(name string, v any) error {
	f, ok := d.typ.Schema.FieldByName(name)
	if !ok {
		return Issues{{Path: name, Code: CodeUnknownField, Message: i18n.T(CodeUnknownField, nil)}}
	}
	val, err := f.Deserialize(v)
	if err != nil {
		return PrefixIssues(name, err)
	}
	if IsMissing(val) {
		delete(d.data, name)
	} else {
		d.data[name] = val
	}
	d.modified = true
	return nil
}

// Delete removes the value stored under the declared name.
func (d *EmbeddedDoc) Delete(name string) {
	if _, ok := d.data[name]; ok {
		delete(d.data, name)
		d.modified = true
	}
}

// Dump renders the instance in object-world display form. Load-only fields
// and absent values are omitted.
func (d *EmbeddedDoc) Dump() (map[string]any, error) {
	out := make(map[string]any, len(d.data))
	var iss Issues
	d.typ.Schema.Each(func(name string, f Field) {
		if f.LoadOnly() {
			return
		}
		v, ok := d.data[name]
		if !ok {
			return
		}
		dv, err := f.Serialize(v)
		if err != nil {
			iss = AppendIssues(iss, PrefixIssues(name, err)...)
			return
		}
		if !IsMissing(dv) {
			out[name] = dv
		}
	})
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// ToMongo renders the instance in storage wire form, keyed by storage
// attribute names. Child (offspring) types self-tag with MongoClsKey; the
// embedding field never injects a discriminator itself.
func (d *EmbeddedDoc) ToMongo() (map[string]any, error) {
	out := make(map[string]any, len(d.data)+1)
	var iss Issues
	d.typ.Schema.Each(func(name string, f Field) {
		v, ok := d.data[name]
		if !ok {
			return
		}
		mv, err := f.SerializeToMongo(v)
		if err != nil {
			iss = AppendIssues(iss, PrefixIssues(name, err)...)
			return
		}
		if !IsMissing(mv) {
			out[f.Attribute()] = mv
		}
	})
	if len(iss) > 0 {
		return nil, iss
	}
	if d.typ.IsChild {
		out[MongoClsKey] = d.typ.Name
	}
	return out, nil
}

// RequiredValidate runs the commit-time required/null sweep over every
// field of the instance.
func (d *EmbeddedDoc) RequiredValidate() error {
	return d.typ.Schema.RequiredValidate(d.data)
}

// IsModified reports whether the instance, or any tracked value it holds,
// has been mutated.
func (d *EmbeddedDoc) IsModified() bool {
	if d.modified {
		return true
	}
	for _, v := range d.data {
		if obj, ok := v.(DataObject); ok && obj.IsModified() {
			return true
		}
	}
	return false
}

// ClearModified resets the modification flag, recursing into tracked values.
func (d *EmbeddedDoc) ClearModified() {
	d.modified = false
	for _, v := range d.data {
		if obj, ok := v.(DataObject); ok {
			obj.ClearModified()
		}
	}
}
