package fields

import (
	"encoding/json"

	"github.com/cockroachdb/apd/v3"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/data"
)

// DecimalField holds high-precision decimal values, stored in the 128-bit
// decimal wire form. The storage round trip is lossless.
type DecimalField struct{ scalar }

// Decimal declares a decimal field.
func Decimal(name string, opts ...Option) *DecimalField {
	f := &DecimalField{scalar{Base: newBase(name, opts)}}
	f.coerce = func(v any) (any, error) {
		switch t := v.(type) {
		case *apd.Decimal:
			var out apd.Decimal
			out.Set(t)
			return &out, nil
		case apd.Decimal:
			var out apd.Decimal
			out.Set(&t)
			return &out, nil
		case string:
			return parseDecimal(f, t)
		case json.Number:
			return parseDecimal(f, string(t))
		case int:
			return apd.New(int64(t), 0), nil
		case int64:
			return apd.New(t, 0), nil
		case float64:
			var out apd.Decimal
			if _, err := out.SetFloat64(t); err != nil {
				return nil, f.fail(mondoc.CodeInvalidFormat, nil)
			}
			return &out, nil
		}
		return nil, f.fail(mondoc.CodeInvalidType, nil)
	}
	f.dump = func(v any) (any, error) { return v.(*apd.Decimal).String(), nil }
	f.encodeMongo = func(v any) (any, error) { return data.NewDecimal128(v.(*apd.Decimal)), nil }
	f.decodeMongo = func(v any) (any, error) {
		d, ok := v.(data.Decimal128)
		if !ok {
			return nil, f.fail(mondoc.CodeInvalidType, nil)
		}
		return d.Decimal(), nil
	}
	return f
}

func parseDecimal(f *DecimalField, s string) (any, error) {
	var out apd.Decimal
	if _, _, err := out.SetString(s); err != nil {
		return nil, f.fail(mondoc.CodeInvalidFormat, nil)
	}
	return &out, nil
}
