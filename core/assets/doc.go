// Package assets owns loaded engine resources and hands out reference-counted handles
// to them.
//
// A Cache maps stable identities (identity.GUID) to resources produced by a Loader. Every
// resource lives in a fixed-capacity slotpool.Pool, and every Handle counts as one
// reference in a refcount.Table keyed by the resource's SlotID. When the last handle is
// released the cache either evicts the resource immediately (eager mode) or leaves it for
// the next Refresh sweep (deferred mode, the default).
//
// # Handles
//
// Go has no copy constructors, so handle copies are explicit:
//
//	h, err := cache.Load(ctx, id, "textures/brick.png")
//	if err != nil {
//	    // render the placeholder and log
//	}
//	defer h.Release()
//
//	shared := h.Clone() // +1
//	material.Albedo.Assign(shared)
//	shared.Release()    // -1
//
//	if tex, ok := h.Get(); ok {
//	    tex.Bind(0)
//	}
//
// Plain struct assignment copies a handle without counting it; only Clone, Assign and
// Release touch the reference count.
//
// # Eviction
//
//   - deferred: call Refresh once per frame (or run RefreshLoop). Resources whose count
//     dropped to zero during the frame are freed there, so a resource re-referenced within
//     the same frame is never reloaded.
//   - eager: the resource is freed inside the Release that drops the last reference.
//
// Evicted resources implementing Destroyer have Destroy called exactly once, after the
// cache lock is released.
//
// # Concurrency
//
// A Cache is safe for concurrent use. One RWMutex guards the slot pool, the reference
// table and the identity index. The loader runs outside the lock, and concurrent loads
// of the same identity share a single loader call.
package assets
