package fields

import (
	"strconv"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/data"
)

// ListField wraps an inner field and produces tracked sequence containers.
type ListField struct {
	Base
	inner mondoc.Field
}

// List declares a sequence field whose elements decode through inner.
func List(name string, inner mondoc.Field, opts ...Option) *ListField {
	f := &ListField{Base: newBase(name, opts), inner: inner}
	f.wrapDefault()
	return f
}

// Inner returns the element field.
func (f *ListField) Inner() mondoc.Field { return f.inner }

// Defaults, including producers, are wrapped into fresh tracked containers
// so no container value is ever shared across documents.
func (f *ListField) wrapDefault() {
	if !f.hasDefault {
		return
	}
	raw := f.def
	f.def = func() any {
		switch t := evalDefault(raw).(type) {
		case nil:
			return data.NewList(nil)
		case *data.List:
			return data.NewList(append([]any(nil), t.Elems()...))
		case []any:
			return data.NewList(append([]any(nil), t...))
		default:
			return data.NewList([]any{t})
		}
	}
}

func listElemsOf(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case *data.List:
		return t.Elems(), true
	}
	return nil, false
}

func (f *ListField) Deserialize(v any) (any, error) {
	v, done, err := f.preload(v)
	if done || err != nil {
		return v, err
	}
	elems, ok := listElemsOf(v)
	if !ok {
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	out := make([]any, 0, len(elems))
	var iss mondoc.Issues
	for i, el := range elems {
		dv, err := f.inner.Deserialize(el)
		if err != nil {
			iss = mondoc.AppendIssues(iss, mondoc.PrefixIssues(strconv.Itoa(i), err)...)
			continue
		}
		out = append(out, dv)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	lst := data.NewList(out)
	if err := f.runValidators(lst); err != nil {
		return nil, err
	}
	return lst, nil
}

func (f *ListField) Serialize(v any) (any, error) {
	if mondoc.IsMissing(v) || v == nil {
		return v, nil
	}
	elems, ok := listElemsOf(v)
	if !ok {
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	out := make([]any, 0, len(elems))
	for i, el := range elems {
		dv, err := f.inner.Serialize(el)
		if err != nil {
			return nil, mondoc.PrefixIssues(strconv.Itoa(i), err)
		}
		out = append(out, dv)
	}
	return out, nil
}

func (f *ListField) SerializeToMongo(v any) (any, error) {
	return f.serializeToMongo(v, func(v any) (any, error) {
		// an unset container is not stored at all
		if v == nil {
			return mondoc.Missing, nil
		}
		elems, ok := listElemsOf(v)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		out := make([]any, 0, len(elems))
		for i, el := range elems {
			mv, err := f.inner.SerializeToMongo(el)
			if err != nil {
				return nil, mondoc.PrefixIssues(strconv.Itoa(i), err)
			}
			out = append(out, mv)
		}
		return out, nil
	})
}

func (f *ListField) DeserializeFromMongo(v any) (any, error) {
	return f.deserializeFromMongo(v, func(v any) (any, error) {
		elems, ok := v.([]any)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		out := make([]any, 0, len(elems))
		for i, el := range elems {
			dv, err := f.inner.DeserializeFromMongo(el)
			if err != nil {
				return nil, mondoc.PrefixIssues(strconv.Itoa(i), err)
			}
			out = append(out, dv)
		}
		return data.NewList(out), nil
	})
}

// RequiredValidate recurses per element when the inner field exposes the
// capability, collecting an index-keyed error map instead of failing on the
// first bad element.
func (f *ListField) RequiredValidate(v any) error {
	if mondoc.IsMissing(v) || v == nil {
		return nil
	}
	rv, ok := f.inner.(mondoc.RequiredValidator)
	if !ok {
		return nil
	}
	elems, _ := listElemsOf(v)
	var iss mondoc.Issues
	for i, el := range elems {
		if err := rv.RequiredValidate(el); err != nil {
			iss = mondoc.AppendIssues(iss, mondoc.PrefixIssues(strconv.Itoa(i), err)...)
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// MapToField exposes the inner field to schema traversal. Elements share
// the container's paths.
func (f *ListField) MapToField(mongoPath, path string, visit mondoc.VisitFunc) {
	visit(mongoPath, path, f.inner)
	if fm, ok := f.inner.(mondoc.FieldMapper); ok {
		fm.MapToField(mongoPath, path, visit)
	}
}

func (f *ListField) AsValidationField(params *mondoc.ValidationParams, world mondoc.World) *mondoc.ValidationField {
	var innerParams *mondoc.ValidationParams
	if params != nil {
		innerParams = params.Inner
	}
	vf := f.validationField(params, world, nil)
	vf.Container = mondoc.ContainerList
	vf.Inner = f.inner.AsValidationField(innerParams, world)
	return vf
}

// DictField wraps a value field (and an optional key field) and produces
// tracked keyed containers. A nil key or value field stores that side of
// each entry as itself.
type DictField struct {
	Base
	keyField   mondoc.Field
	valueField mondoc.Field
}

// Dict declares a keyed field. keyField and valueField may each be nil.
func Dict(name string, keyField, valueField mondoc.Field, opts ...Option) *DictField {
	f := &DictField{Base: newBase(name, opts), keyField: keyField, valueField: valueField}
	f.wrapDefault()
	return f
}

// KeyField returns the key field, which may be nil.
func (f *DictField) KeyField() mondoc.Field { return f.keyField }

// ValueField returns the value field, which may be nil.
func (f *DictField) ValueField() mondoc.Field { return f.valueField }

func (f *DictField) wrapDefault() {
	if !f.hasDefault {
		return
	}
	raw := f.def
	wrap := func(v any) *data.Dict {
		switch t := v.(type) {
		case nil:
			return data.NewDict(nil)
		case *data.Dict:
			items := make(map[string]any, t.Len())
			for k, v := range t.Items() {
				items[k] = v
			}
			return data.NewDict(items)
		case map[string]any:
			items := make(map[string]any, len(t))
			for k, v := range t {
				items[k] = v
			}
			return data.NewDict(items)
		default:
			panic(mondoc.Contractf("dict field %q default must be a map, got %T", f.name, v))
		}
	}
	// Plain defaults fail at declaration time; producers on first use.
	if _, ok := raw.(func() any); !ok {
		wrap(raw)
	}
	f.def = func() any { return wrap(evalDefault(raw)) }
}

func dictItemsOf(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case *data.Dict:
		return t.Items(), true
	}
	return nil, false
}

func (f *DictField) deserializeKey(k string) (string, error) {
	if f.keyField == nil {
		return k, nil
	}
	kv, err := f.keyField.Deserialize(k)
	if err != nil {
		return "", err
	}
	ks, ok := kv.(string)
	if !ok {
		return "", f.fail(mondoc.CodeInvalidType, nil)
	}
	return ks, nil
}

func (f *DictField) Deserialize(v any) (any, error) {
	v, done, err := f.preload(v)
	if done || err != nil {
		return v, err
	}
	items, ok := dictItemsOf(v)
	if !ok {
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	out := make(map[string]any, len(items))
	var iss mondoc.Issues
	for k, el := range items {
		ks, err := f.deserializeKey(k)
		if err != nil {
			iss = mondoc.AppendIssues(iss, mondoc.PrefixIssues(k+".key", err)...)
			continue
		}
		dv := el
		if f.valueField != nil {
			dv, err = f.valueField.Deserialize(el)
			if err != nil {
				iss = mondoc.AppendIssues(iss, mondoc.PrefixIssues(k+".value", err)...)
				continue
			}
		}
		out[ks] = dv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	dict := data.NewDict(out)
	if err := f.runValidators(dict); err != nil {
		return nil, err
	}
	return dict, nil
}

func (f *DictField) Serialize(v any) (any, error) {
	if mondoc.IsMissing(v) || v == nil {
		return v, nil
	}
	items, ok := dictItemsOf(v)
	if !ok {
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	out := make(map[string]any, len(items))
	for k, el := range items {
		dv := el
		if f.valueField != nil {
			var err error
			dv, err = f.valueField.Serialize(el)
			if err != nil {
				return nil, mondoc.PrefixIssues(k, err)
			}
		}
		out[k] = dv
	}
	return out, nil
}

func (f *DictField) SerializeToMongo(v any) (any, error) {
	return f.serializeToMongo(v, func(v any) (any, error) {
		if v == nil {
			return mondoc.Missing, nil
		}
		items, ok := dictItemsOf(v)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		out := make(map[string]any, len(items))
		for k, el := range items {
			ks := k
			if f.keyField != nil {
				kv, err := f.keyField.SerializeToMongo(k)
				if err != nil {
					return nil, mondoc.PrefixIssues(k, err)
				}
				if s, ok := kv.(string); ok {
					ks = s
				}
			}
			mv := el
			if f.valueField != nil {
				var err error
				mv, err = f.valueField.SerializeToMongo(el)
				if err != nil {
					return nil, mondoc.PrefixIssues(k, err)
				}
			}
			out[ks] = mv
		}
		return out, nil
	})
}

func (f *DictField) DeserializeFromMongo(v any) (any, error) {
	return f.deserializeFromMongo(v, func(v any) (any, error) {
		items, ok := v.(map[string]any)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		out := make(map[string]any, len(items))
		for k, el := range items {
			dv := el
			if f.valueField != nil {
				var err error
				dv, err = f.valueField.DeserializeFromMongo(el)
				if err != nil {
					return nil, mondoc.PrefixIssues(k, err)
				}
			}
			out[k] = dv
		}
		return data.NewDict(out), nil
	})
}

// RequiredValidate recurses per value when the value field exposes the
// capability, collecting a key-keyed error map.
func (f *DictField) RequiredValidate(v any) error {
	if mondoc.IsMissing(v) || v == nil {
		return nil
	}
	rv, ok := f.valueField.(mondoc.RequiredValidator)
	if !ok {
		return nil
	}
	items, _ := dictItemsOf(v)
	var iss mondoc.Issues
	for k, el := range items {
		if err := rv.RequiredValidate(el); err != nil {
			iss = mondoc.AppendIssues(iss, mondoc.PrefixIssues(k+".value", err)...)
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// MapToField exposes the value field to schema traversal.
func (f *DictField) MapToField(mongoPath, path string, visit mondoc.VisitFunc) {
	if f.valueField == nil {
		return
	}
	visit(mongoPath, path, f.valueField)
	if fm, ok := f.valueField.(mondoc.FieldMapper); ok {
		fm.MapToField(mongoPath, path, visit)
	}
}

func (f *DictField) AsValidationField(params *mondoc.ValidationParams, world mondoc.World) *mondoc.ValidationField {
	var innerParams *mondoc.ValidationParams
	if params != nil {
		innerParams = params.Inner
	}
	vf := f.validationField(params, world, nil)
	vf.Container = mondoc.ContainerDict
	if f.valueField != nil {
		vf.Inner = f.valueField.AsValidationField(innerParams, world)
	}
	if f.keyField != nil {
		vf.KeyField = f.keyField.AsValidationField(nil, world)
	}
	return vf
}
