// Package projcache memoizes validation-schema projections.
//
// The cache is two-level: a hashable key cheaply rules out most misses,
// while the non-hashable per-call modifiers are compared for deep equality
// within each bucket. Buckets are append-only for the process lifetime.
package projcache

import (
	"reflect"
	"sync"
)

// Key is the hashable portion of a projection identity.
type Key struct {
	Schema any // schema identity (pointer)
	Strict bool
	World  int
}

type entry struct {
	modifiers any
	value     any
}

// Cache is safe for concurrent use. Concurrent builders of the same
// projection may race; the first stored result is retained as canonical.
type Cache struct {
	mu      sync.Mutex
	buckets map[Key][]entry
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{buckets: make(map[Key][]entry)}
}

// Lookup returns the cached value whose modifiers deep-equal the given ones.
func (c *Cache) Lookup(k Key, modifiers any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.buckets[k] {
		if reflect.DeepEqual(e.modifiers, modifiers) {
			return e.value, true
		}
	}
	return nil, false
}

// Store appends v under the key unless an equivalent entry already exists,
// and returns the canonical value for that (key, modifiers) pair.
func (c *Cache) Store(k Key, modifiers any, v any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.buckets[k] {
		if reflect.DeepEqual(e.modifiers, modifiers) {
			return e.value
		}
	}
	c.buckets[k] = append(c.buckets[k], entry{modifiers: modifiers, value: v})
	return v
}
