// Package mappings exposes the identity map over HTTP.
//
// # HTTP Endpoints
//
//   - GET /mappings : Every (path, guid) pair in registration order.
//   - GET /mappings/:guid : The path mapped to one identity.
//   - PUT /mappings : Register a path, minting an identity when none is given.
//   - POST /mappings/export : Persist the map to the configured store.
//   - POST /mappings/import : Merge the persisted manifest into the map.
//
// PUT and export are refused with 403 under the runtime profile.
package mappings
