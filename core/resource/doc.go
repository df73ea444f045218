// Package resource holds the resource types the asset cache manages.
//
// A renderer backend is reached only through capability interfaces such as Texture.
// Image is a CPU-side Texture used by tooling and tests; Placeholder is the texture
// drawn when a load fails. Blob is raw object bytes fetched from storage.
//
// # Loaders
//
// ObjectLoader and TextureLoader adapt a storage.Client into assets.Loader values:
//
//	cache, err := assets.New(cfg.Cache, resource.TextureLoader(client, cfg.Storage.Bucket, "textures/"), log)
package resource
