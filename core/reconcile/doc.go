// Package reconcile compares three views of the asset catalogue: the in-memory
// identity map, the persisted manifest and the objects in the bucket.
//
// An Engine builds one index per source concurrently and joins them by path. Each
// path yields a Result with presence flags and any identity disagreement between
// memory and the manifest. Plan turns results into actions:
//
//   - adopt: the manifest knows a path the map does not; merge it.
//   - assign: an object exists that nothing maps; mint an identity.
//   - persist: the map holds a path the manifest lacks or disagrees on; save.
//
// Paths whose object is gone are reported but never removed. A mapping outlives
// the file so scenes that still reference it resolve once the file returns.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(m, store, client, bucket, reconcile.Spec{
//	    Prefix:   "assets",
//	    CacheTTL: time.Minute,
//	}, logger)
//
//	plan, err := engine.Plan(ctx, reconcile.Options{Assign: true, Persist: true})
//	executed, err := engine.Apply(ctx, plan, reconcile.Options{Confirmed: true})
package reconcile
