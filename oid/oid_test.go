package oid

import (
	"errors"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	id := New()
	back, err := Parse(id.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if back != id {
		t.Fatalf("round trip changed the id: %v != %v", back, id)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("not-an-id")
	var merr *MalformedIDError
	if !errors.As(err, &merr) {
		t.Fatalf("want MalformedIDError, got %v", err)
	}
	if merr.Value != "not-an-id" {
		t.Fatalf("error must carry the offending value, got %q", merr.Value)
	}
	if errors.Unwrap(merr) == nil {
		t.Fatalf("cause must be preserved")
	}
}

func TestZeroAndOrdering(t *testing.T) {
	if !Nil.IsZero() {
		t.Fatalf("Nil must be zero")
	}
	id := New()
	if id.IsZero() {
		t.Fatalf("generated id must not be zero")
	}
	if id.Less(id) {
		t.Fatalf("an id must not order before itself")
	}
	if Nil.Less(id) == id.Less(Nil) {
		t.Fatalf("ordering must be antisymmetric for distinct ids")
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustParse must panic on bad input")
		}
	}()
	MustParse("nope")
}
