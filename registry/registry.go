// Package registry holds the process's document and embedded-document
// types and resolves the name references between them.
package registry

import (
	"sync"

	mondoc "github.com/mondoc/mondoc"
)

// Registry is an in-memory type registry. Registration validates names and
// offspring declarations and runs a bind pass over the new type's schema so
// fields that reference other types by name can resolve them lazily.
//
// Lookups never block on I/O and are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	docs     map[string]*mondoc.DocumentType
	embedded map[string]*mondoc.EmbeddedType
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		docs:     make(map[string]*mondoc.DocumentType),
		embedded: make(map[string]*mondoc.EmbeddedType),
	}
}

// RegisterDocument adds a document type. The name must be unique across
// documents and the collection and schema must be set.
func (r *Registry) RegisterDocument(dt *mondoc.DocumentType) error {
	if dt == nil || dt.Name == "" {
		return mondoc.Contractf("document type must have a name")
	}
	if dt.Collection == "" {
		return mondoc.Contractf("document type %q must name a collection", dt.Name)
	}
	if dt.Schema == nil {
		return mondoc.Contractf("document type %q must have a schema", dt.Name)
	}
	r.mu.Lock()
	if _, ok := r.docs[dt.Name]; ok {
		r.mu.Unlock()
		return mondoc.Contractf("document type %q is already registered", dt.Name)
	}
	r.docs[dt.Name] = dt
	r.mu.Unlock()
	// Outside the lock: binding descends into embedded schemas, which may
	// resolve names back through the registry.
	r.bind(dt.Schema)
	return nil
}

// RegisterEmbedded adds an embedded-document type. Offspring declarations
// must be distinct and must not include the type itself; when a declared
// offspring is already registered it is marked as a child, and when the
// new type completes a previously registered parent's offspring set the
// new type is marked instead.
func (r *Registry) RegisterEmbedded(et *mondoc.EmbeddedType) error {
	if et == nil || et.Name == "" {
		return mondoc.Contractf("embedded type must have a name")
	}
	if et.Schema == nil {
		return mondoc.Contractf("embedded type %q must have a schema", et.Name)
	}
	seen := make(map[string]struct{}, len(et.Offspring))
	for _, o := range et.Offspring {
		if o == et.Name {
			return mondoc.Contractf("embedded type %q lists itself as offspring", et.Name)
		}
		if _, dup := seen[o]; dup {
			return mondoc.Contractf("embedded type %q lists offspring %q twice", et.Name, o)
		}
		seen[o] = struct{}{}
	}
	r.mu.Lock()
	if _, ok := r.embedded[et.Name]; ok {
		r.mu.Unlock()
		return mondoc.Contractf("embedded type %q is already registered", et.Name)
	}
	for _, o := range et.Offspring {
		if child, ok := r.embedded[o]; ok {
			child.IsChild = true
		}
	}
	for _, parent := range r.embedded {
		if parent.HasOffspring(et.Name) {
			et.IsChild = true
		}
	}
	r.embedded[et.Name] = et
	r.mu.Unlock()
	r.bind(et.Schema)
	return nil
}

// MustRegisterDocument is RegisterDocument panicking on error, for
// package-level type declarations.
func (r *Registry) MustRegisterDocument(dt *mondoc.DocumentType) *mondoc.DocumentType {
	if err := r.RegisterDocument(dt); err != nil {
		panic(err)
	}
	return dt
}

// MustRegisterEmbedded is RegisterEmbedded panicking on error.
func (r *Registry) MustRegisterEmbedded(et *mondoc.EmbeddedType) *mondoc.EmbeddedType {
	if err := r.RegisterEmbedded(et); err != nil {
		panic(err)
	}
	return et
}

// Document resolves a document type from a registered name, a type
// descriptor, or a live instance.
func (r *Registry) Document(ref any) (*mondoc.DocumentType, error) {
	switch t := ref.(type) {
	case *mondoc.DocumentType:
		return t, nil
	case mondoc.Document:
		return t.DocumentType(), nil
	case string:
		r.mu.RLock()
		dt, ok := r.docs[t]
		r.mu.RUnlock()
		if !ok {
			return nil, &mondoc.NotRegisteredError{Kind: "document", Name: t}
		}
		return dt, nil
	}
	return nil, mondoc.Contractf("cannot resolve document type from %T", ref)
}

// Embedded resolves an embedded-document type from a registered name, a
// type descriptor, or a live instance.
func (r *Registry) Embedded(ref any) (*mondoc.EmbeddedType, error) {
	switch t := ref.(type) {
	case *mondoc.EmbeddedType:
		return t, nil
	case *mondoc.EmbeddedDoc:
		return t.Type(), nil
	case string:
		r.mu.RLock()
		et, ok := r.embedded[t]
		r.mu.RUnlock()
		if !ok {
			return nil, &mondoc.NotRegisteredError{Kind: "embedded document", Name: t}
		}
		return et, nil
	}
	return nil, mondoc.Contractf("cannot resolve embedded type from %T", ref)
}

// bind walks every field of s, nested fields included, and hands the
// registry to those that resolve targets by name.
func (r *Registry) bind(s *mondoc.Schema) {
	s.MapToField(func(_, _ string, f mondoc.Field) {
		if b, ok := f.(mondoc.Binder); ok {
			b.Bind(r)
		}
	})
}
