package assets

import (
	"asset-core/core/identity"
	"asset-core/core/slotpool"
)

// Handle is a counted reference to a cached resource. The zero Handle is empty.
//
// A Handle does not own its resource; it owns one share of the resource's reference
// count. Use Clone to copy, Assign to reassign and Release to drop that share.
type Handle[T any] struct {
	cache *Cache[T]
	id    identity.GUID
	path  string
	slot  slotpool.SlotID
}

// IsEmpty reports whether h is the zero Handle.
func (h Handle[T]) IsEmpty() bool {
	return h.cache == nil
}

// IsValid reports whether h currently resolves to a live resource.
func (h Handle[T]) IsValid() bool {
	_, ok := h.Get()
	return ok
}

// Get returns the resource. It reports false for the empty handle and for handles whose
// slot has been released or reused since the handle was issued.
func (h Handle[T]) Get() (T, bool) {
	if h.cache == nil {
		var zero T
		return zero, false
	}
	return h.cache.resolve(h.slot)
}

// Resolve is like Get but tells empty and stale handles apart.
func (h Handle[T]) Resolve() (T, error) {
	var zero T
	if h.cache == nil {
		return zero, ErrEmptyHandle
	}
	v, ok := h.cache.resolve(h.slot)
	if !ok {
		return zero, ErrStaleHandle
	}
	return v, nil
}

// ID returns the stable identity of the referenced resource.
func (h Handle[T]) ID() identity.GUID {
	return h.id
}

// Path returns the path the resource was loaded from.
func (h Handle[T]) Path() string {
	return h.path
}

// Slot returns the runtime slot id of the resource.
func (h Handle[T]) Slot() slotpool.SlotID {
	return h.slot
}

// Clone returns a new counted reference to the same resource. Cloning an empty or
// stale handle returns the empty handle.
func (h Handle[T]) Clone() Handle[T] {
	if h.cache == nil {
		return Handle[T]{}
	}
	clone, ok := h.cache.retain(h.slot)
	if !ok {
		return Handle[T]{}
	}
	return clone
}

// Assign points h at other's resource, releasing whatever h referenced before.
// Assigning a handle to itself or assigning the empty handle is safe.
func (h *Handle[T]) Assign(other Handle[T]) {
	next := other.Clone()
	h.Release()
	*h = next
}

// Release drops h's reference and empties h. Releasing an empty handle is a no-op.
func (h *Handle[T]) Release() {
	if h.cache == nil {
		return
	}
	h.cache.release(h.slot, h.id, h.path)
	*h = Handle[T]{}
}

// Equal reports whether both handles reference the same resource instance.
func (h Handle[T]) Equal(other Handle[T]) bool {
	return h.cache == other.cache && h.id == other.id && h.slot == other.slot
}
