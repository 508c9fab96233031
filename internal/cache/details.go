package cache

import (
	"sync"
)

// BuildFunc computes a fresh descriptor for key from live host state.
type BuildFunc[K comparable, V any] func(key K) (V, error)

// CloneFunc copies a descriptor so callers never alias cached memory.
type CloneFunc[V any] func(V) V

// DetailCache is an arena of descriptors keyed by identity.
//
// Entries are built on first access, patched in place by cheap partial
// updates, rebuilt on structural changes and dropped on retirement. Reads
// return copies, so a caller either sees a complete descriptor or none.
type DetailCache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
	build   BuildFunc[K, V]
	clone   CloneFunc[V]
}

// NewDetailCache creates an empty cache. clone may be nil for value types
// without shared memory.
func NewDetailCache[K comparable, V any](build BuildFunc[K, V], clone CloneFunc[V]) *DetailCache[K, V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &DetailCache[K, V]{
		entries: make(map[K]V),
		build:   build,
		clone:   clone,
	}
}

// Get returns the cached descriptor, computing and storing it on first access.
func (c *DetailCache[K, V]) Get(key K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[key]; ok {
		return c.clone(v), nil
	}
	v, err := c.build(key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries[key] = v
	return c.clone(v), nil
}

// Peek returns the cached descriptor without computing it.
func (c *DetailCache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.clone(v), true
}

// Invalidate merges a partial update into the entry without a full rebuild.
// A missing entry is built first. It returns the descriptor before and after
// the patch.
func (c *DetailCache[K, V]) Invalidate(key K, patch func(*V)) (before, after V, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if !ok {
		if v, err = c.build(key); err != nil {
			return before, after, err
		}
	}
	before = c.clone(v)
	patch(&v)
	c.entries[key] = v
	return before, c.clone(v), nil
}

// Recompute rebuilds the entry from live host state.
func (c *DetailCache[K, V]) Recompute(key K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.build(key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries[key] = v
	return c.clone(v), nil
}

// Drop removes the entry. It reports whether an entry existed.
func (c *DetailCache[K, V]) Drop(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Len returns the number of cached entries.
func (c *DetailCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
