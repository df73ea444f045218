package refcount

// Callback is invoked once per zero-crossing with the key and the context passed to
// RemoveReference.
type Callback[K comparable, C any] func(key K, ctx C)

// Table maps keys to reference counts.
type Table[K comparable, C any] struct {
	counts  map[K]uint32
	onEvict Callback[K, C]
}

// New creates an empty table.
func New[K comparable, C any]() *Table[K, C] {
	return &Table[K, C]{counts: make(map[K]uint32)}
}

// SetEvictionCallback replaces the callback. Passing nil disables notifications.
func (t *Table[K, C]) SetEvictionCallback(fn Callback[K, C]) {
	t.onEvict = fn
}

// AddReference increments the count for key, creating the entry at 1.
func (t *Table[K, C]) AddReference(key K) {
	var empty K
	if key == empty {
		return
	}
	t.counts[key]++
}

// RemoveReference decrements the count for key. It reports whether the call caused a
// zero-crossing, in which case the entry is gone and the callback has run.
func (t *Table[K, C]) RemoveReference(key K, ctx C) bool {
	n, ok := t.counts[key]
	if !ok {
		return false
	}
	if n > 1 {
		t.counts[key] = n - 1
		return false
	}
	delete(t.counts, key)
	if t.onEvict != nil {
		t.onEvict(key, ctx)
	}
	return true
}

// Count returns the current count for key, 0 when absent.
func (t *Table[K, C]) Count(key K) uint32 {
	return t.counts[key]
}

// Forget drops the entry for key without invoking the callback.
// Used when the owner evicts a resource by force.
func (t *Table[K, C]) Forget(key K) {
	delete(t.counts, key)
}

// Len returns the number of keys with a positive count.
func (t *Table[K, C]) Len() int {
	return len(t.counts)
}

// Clear drops every entry without invoking the callback.
func (t *Table[K, C]) Clear() {
	clear(t.counts)
}
