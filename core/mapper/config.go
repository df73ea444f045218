package mapper

// Config holds configuration for identity map persistence.
type Config struct {
	// Backend selects the manifest store (file, database, storage).
	Backend string `mapstructure:"backend" default:"file"`
	// ManifestPath is the manifest location for the file backend.
	ManifestPath string `mapstructure:"manifest_path" default:"assets.manifest.json"`
	// ObjectName is the manifest object key for the storage backend.
	ObjectName string `mapstructure:"object_name" default:"manifests/assets.json"`
	// ReconcileTTLSeconds is how long the server reuses a reconciliation index.
	ReconcileTTLSeconds int `mapstructure:"reconcile_ttl_seconds" default:"60"`
}

const (
	BackendFile     = "file"
	BackendDatabase = "database"
	BackendStorage  = "storage"
)

// IsValidBackend checks if the configured backend is known.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendFile, BackendDatabase, BackendStorage:
		return true
	default:
		return false
	}
}
