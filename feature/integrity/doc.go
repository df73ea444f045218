// Package integrity provides health checks over the asset bucket and identity map.
//
// # Checks Provided
//
//   - Structure: Checks that the required top-level folders exist in the bucket (manifests, textures, ...).
//   - Mappings: Verifies every mapped path has an object and lists objects no identity points at.
//   - Duplicates: Lists identities registered for more than one path (re-pathed assets).
//   - Schema: Validates that the asset_paths table carries the columns the database backend writes.
//   - Reconcile: Joins the map, the stored manifest and the bucket; can adopt, assign and persist.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/mappings : Runs mapping check.
//   - GET /integrity/duplicates : Runs duplicate identity check.
//   - GET /integrity/schema : Runs database schema check.
//   - GET /integrity/reconcile : Plans a reconciliation (supports ?path=).
//   - POST /integrity/reconcile?confirm=true : Applies it. Refused in the runtime profile.
package integrity
