// Package registry issues and retires integer identities for host objects.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/bnema/tabbridge/internal/domain/entity"
)

// Identity is an integer handle with NONE and CURRENT sentinels.
type Identity interface {
	~int
	IsNone() bool
	IsCurrent() bool
}

// Object is a host-owned object. Handle must be stable and unique for the
// object's lifetime.
type Object interface {
	Handle() uint64
}

// Registry maps host objects to identities. It is the only source of truth
// for whether an identity still exists. Identities are never reused.
type Registry[ID Identity, O Object] struct {
	mu       sync.RWMutex
	last     ID
	byHandle map[uint64]ID
	objects  map[ID]O
}

// New creates an empty registry. The first issued identity is 1.
func New[ID Identity, O Object]() *Registry[ID, O] {
	return &Registry[ID, O]{
		byHandle: make(map[uint64]ID),
		objects:  make(map[ID]O),
	}
}

// Register returns the identity of obj, issuing a new one on first sight.
// The second return value is true when a new identity was issued.
func (r *Registry[ID, O]) Register(obj O) (ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byHandle[obj.Handle()]; ok {
		return id, false
	}
	r.last++
	id := r.last
	r.byHandle[obj.Handle()] = id
	r.objects[id] = obj
	return id, true
}

// Unregister retires id. Unknown identities are ignored.
func (r *Registry[ID, O]) Unregister(id ID) (O, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[id]
	if !ok {
		var zero O
		return zero, false
	}
	delete(r.objects, id)
	delete(r.byHandle, obj.Handle())
	return obj, true
}

// Resolve returns the object named by id.
// NONE and unknown identities fail with entity.ErrNotFound; CURRENT fails with
// entity.ErrCurrentUnresolved because it must be resolved upstream.
func (r *Registry[ID, O]) Resolve(id ID) (O, error) {
	var zero O
	if id.IsCurrent() {
		return zero, entity.ErrCurrentUnresolved
	}
	if id.IsNone() {
		return zero, fmt.Errorf("identity %d: %w", int(id), entity.ErrNotFound)
	}

	r.mu.RLock()
	obj, ok := r.objects[id]
	r.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("identity %d: %w", int(id), entity.ErrNotFound)
	}
	return obj, nil
}

// Lookup returns the identity registered for obj, if any.
func (r *Registry[ID, O]) Lookup(obj O) (ID, bool) {
	return r.LookupHandle(obj.Handle())
}

// LookupHandle returns the identity registered for a host handle, if any.
func (r *Registry[ID, O]) LookupHandle(handle uint64) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byHandle[handle]
	return id, ok
}

// Has reports whether id is currently registered.
func (r *Registry[ID, O]) Has(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.objects[id]
	return ok
}

// All returns every live identity in ascending order.
func (r *Registry[ID, O]) All() []ID {
	r.mu.RLock()
	ids := make([]ID, 0, len(r.objects))
	for id := range r.objects {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Len returns the number of live identities.
func (r *Registry[ID, O]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}
