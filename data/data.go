// Package data holds the per-document value types produced by field
// decoding: modification-tracked containers, references and the decimal
// wire form. Values are exclusively owned by the document instance that
// decoded them and must not be shared across documents.
package data

import (
	"sort"

	"github.com/cockroachdb/apd/v3"

	mondoc "github.com/mondoc/mondoc"
	"github.com/mondoc/mondoc/oid"
)

// List is a sequence container that remembers whether it has been mutated
// since construction or since last cleared.
type List struct {
	elems    []any
	modified bool
}

// NewList wraps elems into a tracked list. Ownership of the slice passes to
// the list.
func NewList(elems []any) *List {
	if elems == nil {
		elems = []any{}
	}
	return &List{elems: elems}
}

func (l *List) Len() int      { return len(l.elems) }
func (l *List) Get(i int) any { return l.elems[i] }
func (l *List) Elems() []any  { return l.elems }
func (l *List) IsModified() bool {
	if l.modified {
		return true
	}
	for _, v := range l.elems {
		if obj, ok := v.(mondoc.DataObject); ok && obj.IsModified() {
			return true
		}
	}
	return false
}

func (l *List) ClearModified() {
	l.modified = false
	for _, v := range l.elems {
		if obj, ok := v.(mondoc.DataObject); ok {
			obj.ClearModified()
		}
	}
}

func (l *List) Set(i int, v any) {
	l.elems[i] = v
	l.modified = true
}

func (l *List) Append(vs ...any) {
	l.elems = append(l.elems, vs...)
	l.modified = true
}

func (l *List) Remove(i int) {
	l.elems = append(l.elems[:i], l.elems[i+1:]...)
	l.modified = true
}

// Dict is a keyed container with the same modification tracking as List.
type Dict struct {
	items    map[string]any
	modified bool
}

// NewDict wraps items into a tracked dict. Ownership of the map passes to
// the dict.
func NewDict(items map[string]any) *Dict {
	if items == nil {
		items = map[string]any{}
	}
	return &Dict{items: items}
}

func (d *Dict) Len() int { return len(d.items) }

func (d *Dict) Get(k string) (any, bool) {
	v, ok := d.items[k]
	return v, ok
}

func (d *Dict) Items() map[string]any { return d.items }

// Keys returns the keys in sorted order for deterministic iteration.
func (d *Dict) Keys() []string {
	ks := make([]string, 0, len(d.items))
	for k := range d.items {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func (d *Dict) Set(k string, v any) {
	d.items[k] = v
	d.modified = true
}

func (d *Dict) Delete(k string) {
	if _, ok := d.items[k]; ok {
		delete(d.items, k)
		d.modified = true
	}
}

func (d *Dict) IsModified() bool {
	if d.modified {
		return true
	}
	for _, v := range d.items {
		if obj, ok := v.(mondoc.DataObject); ok && obj.IsModified() {
			return true
		}
	}
	return false
}

func (d *Dict) ClearModified() {
	d.modified = false
	for _, v := range d.items {
		if obj, ok := v.(mondoc.DataObject); ok {
			obj.ClearModified()
		}
	}
}

// Reference is a lazy link to a top-level document: a (target type,
// identifier) pair with structural equality. It carries no document
// payload; resolving the referenced document is the storage driver's job.
type Reference struct {
	Type *mondoc.DocumentType
	ID   oid.ID
}

// DBRef is the raw foreign-key form a caller may hand to a reference field:
// an identifier qualified by the collection it must live in.
type DBRef struct {
	Collection string
	ID         oid.ID
}

// Decimal128 is the storage wire form of a decimal value. The round trip
// through NewDecimal128/Decimal is lossless.
type Decimal128 struct {
	d apd.Decimal
}

// NewDecimal128 captures d into its wire form.
func NewDecimal128(d *apd.Decimal) Decimal128 {
	var out Decimal128
	out.d.Set(d)
	return out
}

// ParseDecimal128 parses the canonical string form.
func ParseDecimal128(s string) (Decimal128, error) {
	var out Decimal128
	if _, _, err := out.d.SetString(s); err != nil {
		return Decimal128{}, err
	}
	return out, nil
}

// Decimal returns a copy of the wrapped decimal value.
func (d Decimal128) Decimal() *apd.Decimal {
	var out apd.Decimal
	out.Set(&d.d)
	return &out
}

func (d Decimal128) String() string { return d.d.String() }
