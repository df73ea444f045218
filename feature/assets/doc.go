// Package assets exposes the runtime asset cache to editor tooling.
//
// A pin is a handle held by the server on behalf of a client, so a resource stays
// resident until the pin is released. Pins exercise the same reference counting as
// engine code: releasing the last pin makes the resource eligible for eviction.
//
// # HTTP Endpoints
//
//   - GET /assets : Cache statistics and every resident entry.
//   - GET /assets/pins : Active pins.
//   - POST /assets/pins : Load a path and pin it.
//   - DELETE /assets/pins/:id : Release a pin.
//   - POST /assets/refresh : Evict unreferenced entries now.
package assets
