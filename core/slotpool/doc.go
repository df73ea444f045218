// Package slotpool provides a fixed-capacity, generation-stamped slot allocator.
//
// Values are addressed by a SlotID, an (index, generation) pair. Releasing a slot bumps its
// generation, so an ID captured before the release no longer resolves once the slot is
// reused. Stale IDs resolve to "not found" instead of aliasing the new occupant.
//
// # Capacity
//
// Capacity is fixed at construction. Insert returns ErrFull when every slot is occupied;
// the pool never grows.
//
// # Concurrency
//
// A Pool is not safe for concurrent use. The owning cache serializes access.
//
// # Usage
//
//	pool := slotpool.New[*Texture](64)
//	id, err := pool.Insert(tex)
//	if errors.Is(err, slotpool.ErrFull) {
//	    // handle exhaustion
//	}
//	tex, ok := pool.Get(id)
//	pool.Remove(id)
package slotpool
