package slotpool

import (
	"errors"
	"fmt"
)

// ErrFull indicates every slot in the pool is occupied.
var ErrFull = errors.New("slotpool: full")

// SlotID identifies a slot and the generation it was issued for.
// The zero value never resolves.
type SlotID struct {
	Index      uint32 `json:"index"`
	Generation uint32 `json:"generation"`
}

// IsZero reports whether the id is the empty SlotID.
func (id SlotID) IsZero() bool {
	return id.Index == 0 && id.Generation == 0
}

// String renders the id for logs.
func (id SlotID) String() string {
	return fmt.Sprintf("%d:%d", id.Index, id.Generation)
}

type slot[T any] struct {
	occupied   bool
	generation uint32
	value      T
}

// Pool is a fixed-capacity array of generation-stamped slots.
type Pool[T any] struct {
	slots []slot[T]
	used  int
}

// New creates a pool with the given capacity. Non-positive capacities yield a pool that
// is always full.
func New[T any](capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	slots := make([]slot[T], capacity)
	// Generations start at 1 so the zero SlotID is never live.
	for i := range slots {
		slots[i].generation = 1
	}
	return &Pool[T]{slots: slots}
}

// Insert stores v in the first free slot.
func (p *Pool[T]) Insert(v T) (SlotID, error) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.occupied {
			continue
		}
		s.occupied = true
		s.value = v
		p.used++
		return SlotID{Index: uint32(i), Generation: s.generation}, nil
	}
	return SlotID{}, ErrFull
}

// Remove releases the slot addressed by id and returns the value it held.
// Stale or out-of-range ids are ignored.
func (p *Pool[T]) Remove(id SlotID) (T, bool) {
	var zero T
	s := p.lookup(id)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.occupied = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	p.used--
	return v, true
}

// Get returns the value addressed by id.
func (p *Pool[T]) Get(id SlotID) (T, bool) {
	s := p.lookup(id)
	if s == nil {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Contains reports whether id addresses a live slot.
func (p *Pool[T]) Contains(id SlotID) bool {
	return p.lookup(id) != nil
}

// Range calls fn for every occupied slot in index order until fn returns false.
func (p *Pool[T]) Range(fn func(id SlotID, v T) bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(SlotID{Index: uint32(i), Generation: s.generation}, s.value) {
			return
		}
	}
}

// Len returns the number of occupied slots.
func (p *Pool[T]) Len() int {
	return p.used
}

// Cap returns the fixed capacity.
func (p *Pool[T]) Cap() int {
	return len(p.slots)
}

func (p *Pool[T]) lookup(id SlotID) *slot[T] {
	if int(id.Index) >= len(p.slots) {
		return nil
	}
	s := &p.slots[id.Index]
	if !s.occupied || s.generation != id.Generation {
		return nil
	}
	return s
}
