// Package scene converts asset handles to and from their persisted form.
//
// Scene files never store runtime slot ids. A Reference carries the stable identity
// and, for readability, the path it was mapped to when the scene was saved. Decoding
// resolves the identity through the identity map and loads it through the cache;
// references that cannot be resolved are reported and left empty so the caller can
// substitute a placeholder.
package scene
