// Package index derives storage index specifications from schema field
// flags and parses explicit index declarations.
package index

import (
	"strings"

	mondoc "github.com/mondoc/mondoc"
)

// Key is one component of a (possibly compound) index.
type Key struct {
	Field string // storage path, dot-joined
	Order int    // 1 ascending, -1 descending
}

// Spec describes one index to ensure on a collection.
type Spec struct {
	Keys   []Key
	Unique bool
	Sparse bool
}

// FromSchema derives the implicit indexes a schema's flags call for: every
// unique field gets a single-key unique index, sparse when the field is not
// required (absent values must not collide on the index).
func FromSchema(s *mondoc.Schema) []Spec {
	var specs []Spec
	s.MapToField(func(mongoPath, _ string, f mondoc.Field) {
		if !f.Unique() {
			return
		}
		specs = append(specs, Spec{
			Keys:   []Key{{Field: mongoPath, Order: 1}},
			Unique: true,
			Sparse: !f.Required(),
		})
	})
	return specs
}

// Parse builds a Spec from a declaration: a single key expression
// ("field", "-field", "+field"), a list of key expressions forming a
// compound index, or an already built Spec.
func Parse(decl any) (Spec, error) {
	switch t := decl.(type) {
	case Spec:
		return t, nil
	case string:
		k, err := parseKey(t)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Keys: []Key{k}}, nil
	case []string:
		if len(t) == 0 {
			return Spec{}, mondoc.Contractf("index declaration must name at least one key")
		}
		keys := make([]Key, 0, len(t))
		for _, expr := range t {
			k, err := parseKey(expr)
			if err != nil {
				return Spec{}, err
			}
			keys = append(keys, k)
		}
		return Spec{Keys: keys}, nil
	}
	return Spec{}, mondoc.Contractf("cannot parse index declaration from %T", decl)
}

func parseKey(expr string) (Key, error) {
	order := 1
	switch {
	case strings.HasPrefix(expr, "-"):
		order = -1
		expr = expr[1:]
	case strings.HasPrefix(expr, "+"):
		expr = expr[1:]
	}
	if expr == "" {
		return Key{}, mondoc.Contractf("index key expression is empty")
	}
	return Key{Field: expr, Order: order}, nil
}
