package fields

import (
	"sync"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/data"
	"github.com/mondoc/mondoc/oid"
)

// ReferenceField links to a single target document type, resolved lazily
// through the registry when declared by name. Only the identifier is
// stored.
type ReferenceField struct {
	Base
	target any // *mondoc.DocumentType or registered name
	reg    mondoc.Registry

	mu       sync.Mutex
	resolved *mondoc.DocumentType
}

// Reference declares a single-type reference field. target is the document
// type descriptor or its registered name.
func Reference(name string, target any, opts ...Option) *ReferenceField {
	return &ReferenceField{Base: newBase(name, opts), target: target}
}

// Bind injects the registry during the registration bind pass.
func (f *ReferenceField) Bind(reg mondoc.Registry) { f.reg = reg }

// DocumentType resolves the target type, caching the result.
func (f *ReferenceField) DocumentType() (*mondoc.DocumentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved != nil {
		return f.resolved, nil
	}
	if dt, ok := f.target.(*mondoc.DocumentType); ok {
		f.resolved = dt
		return dt, nil
	}
	if f.reg == nil {
		return nil, mondoc.Contractf("reference field %q is not bound to a registry", f.name)
	}
	dt, err := f.reg.Document(f.target)
	if err != nil {
		return nil, err
	}
	f.resolved = dt
	return dt, nil
}

func (f *ReferenceField) Deserialize(v any) (any, error) {
	v, done, err := f.preload(v)
	if done || err != nil {
		return v, err
	}
	dt, err := f.DocumentType()
	if err != nil {
		return nil, err
	}
	var id oid.ID
	switch t := v.(type) {
	case data.DBRef:
		if t.Collection != dt.Collection {
			return nil, f.fail(mondoc.CodeBadCollection, map[string]string{"collection": dt.Collection})
		}
		id = t.ID
	case *data.Reference:
		if t.Type != dt {
			return nil, f.fail(mondoc.CodeBadReference, map[string]string{"document": dt.Name})
		}
		return t, nil
	case mondoc.Document:
		if t.DocumentType() != dt {
			return nil, f.fail(mondoc.CodeBadReference, map[string]string{"document": dt.Name})
		}
		if !t.IsCreated() {
			return nil, f.fail(mondoc.CodeNotCreated, nil)
		}
		id = t.PK()
	default:
		id, err = coerceID(v)
		if err != nil {
			return nil, f.fail(mondoc.CodeInvalidID, nil)
		}
	}
	ref := &data.Reference{Type: dt, ID: id}
	if err := f.runValidators(ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (f *ReferenceField) Serialize(v any) (any, error) {
	if mondoc.IsMissing(v) || v == nil {
		return v, nil
	}
	ref, ok := v.(*data.Reference)
	if !ok {
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	return ref.ID.String(), nil
}

func (f *ReferenceField) SerializeToMongo(v any) (any, error) {
	return f.serializeToMongo(v, func(v any) (any, error) {
		ref, ok := v.(*data.Reference)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return ref.ID, nil
	})
}

func (f *ReferenceField) DeserializeFromMongo(v any) (any, error) {
	return f.deserializeFromMongo(v, func(v any) (any, error) {
		dt, err := f.DocumentType()
		if err != nil {
			return nil, err
		}
		id, err := coerceID(v)
		if err != nil {
			return nil, f.fail(mondoc.CodeInvalidID, nil)
		}
		return &data.Reference{Type: dt, ID: id}, nil
	})
}

func (f *ReferenceField) AsValidationField(params *mondoc.ValidationParams, world mondoc.World) *mondoc.ValidationField {
	return f.validationField(params, world, func(v any) error {
		switch v.(type) {
		case data.DBRef, *data.Reference, mondoc.Document, oid.ID:
			return nil
		case string:
			if _, err := coerceID(v); err != nil {
				return f.fail(mondoc.CodeInvalidID, nil)
			}
			return nil
		}
		return f.fail(mondoc.CodeInvalidType, nil)
	})
}

// GenericReferenceField links to any registered document type; the type
// name travels alongside the identifier.
type GenericReferenceField struct {
	Base
	reg mondoc.Registry
}

// GenericReference declares a reference field with no fixed target type.
func GenericReference(name string, opts ...Option) *GenericReferenceField {
	return &GenericReferenceField{Base: newBase(name, opts)}
}

// Bind injects the registry during the registration bind pass.
func (f *GenericReferenceField) Bind(reg mondoc.Registry) { f.reg = reg }

func (f *GenericReferenceField) documentType(name string) (*mondoc.DocumentType, error) {
	if f.reg == nil {
		return nil, mondoc.Contractf("generic reference field %q is not bound to a registry", f.name)
	}
	dt, err := f.reg.Document(name)
	if err != nil {
		return nil, f.fail(mondoc.CodeUnknownDocument, map[string]string{"document": name})
	}
	return dt, nil
}

func (f *GenericReferenceField) Deserialize(v any) (any, error) {
	v, done, err := f.preload(v)
	if done || err != nil {
		return v, err
	}
	switch t := v.(type) {
	case *data.Reference:
		return t, nil
	case mondoc.Document:
		if !t.IsCreated() {
			return nil, f.fail(mondoc.CodeNotCreated, nil)
		}
		return &data.Reference{Type: t.DocumentType(), ID: t.PK()}, nil
	case map[string]any:
		ref, err := f.fromRecord(t)
		if err != nil {
			return nil, err
		}
		if err := f.runValidators(ref); err != nil {
			return nil, err
		}
		return ref, nil
	}
	return nil, f.fail(mondoc.CodeInvalidInput, nil)
}

// fromRecord decodes the two-key {id, cls} object-world form.
func (f *GenericReferenceField) fromRecord(record map[string]any) (*data.Reference, error) {
	if len(record) != 2 {
		return nil, f.fail(mondoc.CodeGenericReference, nil)
	}
	rawID, okID := record["id"]
	rawCls, okCls := record["cls"]
	if !okID || !okCls {
		return nil, f.fail(mondoc.CodeGenericReference, nil)
	}
	id, err := coerceID(rawID)
	if err != nil {
		return nil, f.fail(mondoc.CodeInvalidID, nil)
	}
	cls, ok := rawCls.(string)
	if !ok {
		return nil, f.fail(mondoc.CodeGenericReference, nil)
	}
	dt, err := f.documentType(cls)
	if err != nil {
		return nil, err
	}
	return &data.Reference{Type: dt, ID: id}, nil
}

// Serialize emits a transport-safe record: a string identifier plus the
// target type name.
func (f *GenericReferenceField) Serialize(v any) (any, error) {
	if mondoc.IsMissing(v) || v == nil {
		return v, nil
	}
	ref, ok := v.(*data.Reference)
	if !ok {
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	return map[string]any{"id": ref.ID.String(), "cls": ref.Type.Name}, nil
}

func (f *GenericReferenceField) SerializeToMongo(v any) (any, error) {
	return f.serializeToMongo(v, func(v any) (any, error) {
		ref, ok := v.(*data.Reference)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return map[string]any{"_id": ref.ID, "_cls": ref.Type.Name}, nil
	})
}

func (f *GenericReferenceField) DeserializeFromMongo(v any) (any, error) {
	return f.deserializeFromMongo(v, func(v any) (any, error) {
		record, ok := v.(map[string]any)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		cls, _ := record["_cls"].(string)
		dt, err := f.documentType(cls)
		if err != nil {
			return nil, err
		}
		id, err := coerceID(record["_id"])
		if err != nil {
			return nil, f.fail(mondoc.CodeInvalidID, nil)
		}
		return &data.Reference{Type: dt, ID: id}, nil
	})
}

func (f *GenericReferenceField) AsValidationField(params *mondoc.ValidationParams, world mondoc.World) *mondoc.ValidationField {
	return f.validationField(params, world, func(v any) error {
		switch t := v.(type) {
		case *data.Reference, mondoc.Document:
			return nil
		case map[string]any:
			_, err := f.fromRecord(t)
			return err
		}
		return f.fail(mondoc.CodeInvalidInput, nil)
	})
}
