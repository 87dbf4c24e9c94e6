package mondoc

import "github.com/mondoc/mondoc/oid"

// DocumentType describes a top-level document kind: its registered name,
// the storage collection backing it, and its schema. DocumentTypes are
// constructed once and shared for the process lifetime.
type DocumentType struct {
	Name       string
	Collection string
	Schema     *Schema
}

// Document is the minimal view of a live document instance this codec needs:
// its type, its primary key and whether it has been persisted yet.
type Document interface {
	DocumentType() *DocumentType
	PK() oid.ID
	IsCreated() bool
}

// EmbeddedType describes an embedded (sub-document) kind. When Offspring is
// non-empty the type is polymorphic: the concrete subtype actually stored
// must be one of that closed set and is recovered from a single string
// discriminator.
type EmbeddedType struct {
	Name   string
	Schema *Schema
	// Offspring lists the names of the permitted concrete subtypes.
	Offspring []string
	// IsChild marks a type registered as another type's offspring. Child
	// values self-tag with the storage discriminator on encode.
	IsChild bool
}

// HasOffspring reports whether name is a permitted concrete subtype.
func (t *EmbeddedType) HasOffspring(name string) bool {
	for _, o := range t.Offspring {
		if o == name {
			return true
		}
	}
	return false
}

// Registry resolves document and embedded-document types. Lookups are fast
// in-memory operations; implementations must never block on I/O.
//
// A reference may be a registered name, a type descriptor, or a live
// instance. Unknown names fail with *NotRegisteredError.
type Registry interface {
	Document(ref any) (*DocumentType, error)
	Embedded(ref any) (*EmbeddedType, error)
}

// Binder is implemented by fields that reference other document types by
// name. The registry runs a bind pass over every registered schema so such
// fields can resolve their targets once the type graph is known.
type Binder interface {
	Bind(reg Registry)
}
