package data

import (
	"testing"
)

func TestListTracking(t *testing.T) {
	l := NewList([]any{"a", "b"})
	if l.IsModified() {
		t.Fatalf("fresh list must not be modified")
	}
	l.Append("c")
	if !l.IsModified() {
		t.Fatalf("append must mark the list modified")
	}
	l.ClearModified()
	if l.IsModified() {
		t.Fatalf("clear must reset the flag")
	}
	l.Set(0, "z")
	if !l.IsModified() {
		t.Fatalf("set must mark the list modified")
	}
	l.ClearModified()
	l.Remove(1)
	if !l.IsModified() || l.Len() != 2 {
		t.Fatalf("remove must shrink and mark, len=%d modified=%v", l.Len(), l.IsModified())
	}
}

func TestListTrackingRecursesIntoNestedContainers(t *testing.T) {
	inner := NewDict(map[string]any{"k": 1})
	l := NewList([]any{inner})
	l.ClearModified()
	inner.Set("k", 2)
	if !l.IsModified() {
		t.Fatalf("nested mutation must surface on the outer container")
	}
	l.ClearModified()
	if inner.IsModified() {
		t.Fatalf("clear must recurse into nested containers")
	}
}

func TestDictTracking(t *testing.T) {
	d := NewDict(map[string]any{"a": 1})
	if d.IsModified() {
		t.Fatalf("fresh dict must not be modified")
	}
	d.Set("b", 2)
	if !d.IsModified() {
		t.Fatalf("set must mark the dict modified")
	}
	d.ClearModified()
	d.Delete("missing")
	if d.IsModified() {
		t.Fatalf("deleting an absent key must not mark the dict")
	}
	d.Delete("a")
	if !d.IsModified() {
		t.Fatalf("delete must mark the dict modified")
	}
	keys := d.Keys()
	if len(keys) != 1 || keys[0] != "b" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestDecimal128RoundTripIsLossless(t *testing.T) {
	for _, s := range []string{"1.10", "0.00", "-42", "3.14159265358979323846"} {
		d, err := ParseDecimal128(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got := d.String(); got != s {
			t.Fatalf("round trip of %q changed the representation: %q", s, got)
		}
	}
}

func TestDecimal128CopiesOnConstructionAndAccess(t *testing.T) {
	d, err := ParseDecimal128("1.5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v := d.Decimal()
	v.SetInt64(9)
	if d.String() != "1.5" {
		t.Fatalf("mutating the returned decimal must not touch the wire value")
	}
	w := NewDecimal128(v)
	v.SetInt64(1)
	if w.String() != "9" {
		t.Fatalf("wire value must be captured by copy, got %s", w.String())
	}
}
