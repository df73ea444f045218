// Package mapper maps asset file paths to stable identities and persists that mapping.
//
// Scenes reference assets by identity.GUID, never by path or pointer. The Map is the
// bidirectional index that turns a GUID back into a loadable path (and a freshly
// imported path into a GUID) across process restarts.
//
// # Rules
//
//   - The first identity registered for a path wins; later SetPath calls for the same
//     path are no-ops.
//   - Lookups are O(1) in both directions.
//   - Entries keep their insertion order so exported manifests diff cleanly.
//   - Eviction from the asset cache never removes a mapping.
//
// # Persistence
//
// The persisted layout is an ordered JSON array of {"path", "guid"} objects. Three
// stores implement it:
//   - FileStore: a manifest file on disk, replaced atomically and read as HuJSON so
//     hand-edited manifests may carry comments and trailing commas.
//   - DBStore: the asset_paths table through GORM.
//   - ObjectStore: a manifest object in the configured S3/MinIO bucket.
//
// # Usage
//
//	m := mapper.New(logger)
//	id := m.Assign("textures/brick.png")
//	if err := m.Export("assets.manifest.json"); err != nil {
//	    return err
//	}
//
//	report, err := m.Import("assets.manifest.json")
//	for _, inc := range report.Inconsistencies {
//	    logger.Warn("duplicate identity", zap.Stringer("guid", inc.GUID))
//	}
package mapper
