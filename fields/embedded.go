package fields

import (
	"sync"

	mondoc "github.com/mondoc/mondoc"
)

// EmbeddedField nests a sub-document under a single slot. The target type
// may be given as a descriptor or a registered name; named targets resolve
// lazily through the registry once the type graph is bound.
type EmbeddedField struct {
	Base
	target any // *mondoc.EmbeddedType or registered name
	reg    mondoc.Registry

	mu       sync.Mutex
	resolved *mondoc.EmbeddedType
}

// Embedded declares an embedded-document field.
func Embedded(name string, target any, opts ...Option) *EmbeddedField {
	return &EmbeddedField{Base: newBase(name, opts), target: target}
}

// Bind injects the registry during the registration bind pass.
func (f *EmbeddedField) Bind(reg mondoc.Registry) { f.reg = reg }

// EmbeddedType resolves the target type, caching the result.
func (f *EmbeddedField) EmbeddedType() (*mondoc.EmbeddedType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved != nil {
		return f.resolved, nil
	}
	if et, ok := f.target.(*mondoc.EmbeddedType); ok {
		f.resolved = et
		return et, nil
	}
	if f.reg == nil {
		return nil, mondoc.Contractf("embedded field %q is not bound to a registry", f.name)
	}
	et, err := f.reg.Embedded(f.target)
	if err != nil {
		return nil, err
	}
	f.resolved = et
	return et, nil
}

// accepts reports whether a live instance of typ may occupy this slot:
// the target type itself or one of its declared offspring.
func accepts(target, typ *mondoc.EmbeddedType) bool {
	return typ == target || target.HasOffspring(typ.Name)
}

func (f *EmbeddedField) Deserialize(v any) (any, error) {
	v, done, err := f.preload(v)
	if done || err != nil {
		return v, err
	}
	et, err := f.EmbeddedType()
	if err != nil {
		return nil, err
	}
	var doc *mondoc.EmbeddedDoc
	switch t := v.(type) {
	case *mondoc.EmbeddedDoc:
		if !accepts(et, t.Type()) {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		doc = t
	case map[string]any:
		doc, err = f.load(et, t)
		if err != nil {
			return nil, err
		}
	default:
		return nil, f.fail(mondoc.CodeInvalidInput, nil)
	}
	if err := f.runValidators(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// load builds an instance from an object-world record, dispatching on the
// declared-world discriminator when the target is polymorphic.
func (f *EmbeddedField) load(et *mondoc.EmbeddedType, record map[string]any) (*mondoc.EmbeddedDoc, error) {
	concrete := et
	if len(et.Offspring) > 0 {
		if raw, ok := record[mondoc.ClsKey]; ok {
			cls, ok := raw.(string)
			if !ok || !et.HasOffspring(cls) {
				name, _ := raw.(string)
				return nil, f.fail(mondoc.CodeUnknownDocument, map[string]string{"document": name})
			}
			if f.reg == nil {
				return nil, mondoc.Contractf("embedded field %q is not bound to a registry", f.name)
			}
			ct, err := f.reg.Embedded(cls)
			if err != nil {
				return nil, f.fail(mondoc.CodeUnknownDocument, map[string]string{"document": cls})
			}
			concrete = ct
			rest := make(map[string]any, len(record)-1)
			for k, v := range record {
				if k != mondoc.ClsKey {
					rest[k] = v
				}
			}
			record = rest
		}
	}
	return concrete.Load(record)
}

func (f *EmbeddedField) Serialize(v any) (any, error) {
	if mondoc.IsMissing(v) || v == nil {
		return v, nil
	}
	doc, ok := v.(*mondoc.EmbeddedDoc)
	if !ok {
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	return doc.Dump()
}

func (f *EmbeddedField) SerializeToMongo(v any) (any, error) {
	return f.serializeToMongo(v, func(v any) (any, error) {
		doc, ok := v.(*mondoc.EmbeddedDoc)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return doc.ToMongo()
	})
}

func (f *EmbeddedField) DeserializeFromMongo(v any) (any, error) {
	return f.deserializeFromMongo(v, func(v any) (any, error) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		et, err := f.EmbeddedType()
		if err != nil {
			return nil, err
		}
		return et.BuildFromMongo(f.reg, m)
	})
}

// RequiredValidate recurses the commit-time sweep into the sub-document.
func (f *EmbeddedField) RequiredValidate(v any) error {
	doc, ok := v.(*mondoc.EmbeddedDoc)
	if !ok {
		return nil
	}
	return doc.RequiredValidate()
}

// MapToField exposes the target schema to traversal under dot-joined paths.
func (f *EmbeddedField) MapToField(mongoPath, path string, visit mondoc.VisitFunc) {
	et, err := f.EmbeddedType()
	if err != nil {
		return
	}
	et.Schema.MapToField(func(mp, p string, inner mondoc.Field) {
		visit(mongoPath+"."+mp, path+"."+p, inner)
	})
}

func (f *EmbeddedField) AsValidationField(params *mondoc.ValidationParams, world mondoc.World) *mondoc.ValidationField {
	vf := f.validationField(params, world, func(v any) error {
		switch v.(type) {
		case *mondoc.EmbeddedDoc, map[string]any:
			return nil
		}
		return f.fail(mondoc.CodeInvalidInput, nil)
	})
	if et, err := f.EmbeddedType(); err == nil {
		var nestedParams map[string]*mondoc.ValidationParams
		var meta *mondoc.SchemaMeta
		if params != nil {
			nestedParams = params.Params
			meta = params.Meta
		}
		vf.Nested = et.Schema.AsValidationSchema(mondoc.ProjectionOpts{
			Params: nestedParams,
			World:  world,
			Meta:   meta,
		})
	}
	return vf
}
