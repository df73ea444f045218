// Package refcount counts external interest in resource keys and signals eviction
// exactly once when that interest drops to zero.
//
// A Table holds one entry per key. AddReference creates or increments the entry;
// RemoveReference decrements it and, on the transition to zero, erases the entry and
// invokes the registered callback with the caller-supplied context value. Removing an
// absent key is a no-op, so counts never go negative and the callback never fires twice
// for the same zero-crossing.
//
// The zero value of the key type is the "empty" sentinel and is never counted.
//
// A Table is not safe for concurrent use; the owning cache serializes access.
package refcount
