// Package oid provides the opaque primary-key type used to identify
// top-level documents in storage.
package oid

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// ID is an opaque document identifier. IDs are comparable, orderable and
// string-convertible; they carry no meaning beyond identity.
type ID uuid.UUID

// Nil is the zero ID.
var Nil ID

// New returns a freshly generated ID.
func New() ID { return ID(uuid.New()) }

// Parse converts the string form back into an ID. Invalid input yields a
// *MalformedIDError.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, &MalformedIDError{Value: s, cause: err}
	}
	return ID(u), nil
}

// MustParse is Parse for statically known inputs; it panics on error.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the ID is the zero value.
func (id ID) IsZero() bool { return id == Nil }

// Less orders IDs by their byte representation.
func (id ID) Less(other ID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// MalformedIDError reports an identifier that could not be parsed.
type MalformedIDError struct {
	Value string
	cause error
}

func (e *MalformedIDError) Error() string {
	return fmt.Sprintf("oid: malformed id %q", e.Value)
}

func (e *MalformedIDError) Unwrap() error { return e.cause }
