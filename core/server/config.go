package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Profile selects which tooling endpoints are writable (editor, runtime).
	Profile string `mapstructure:"profile" default:"editor"`
}

const (
	// ProfileEditor exposes every endpoint, including identity mapping edits.
	ProfileEditor = "editor"
	// ProfileRuntime serves read-only mapping endpoints for shipped builds.
	ProfileRuntime = "runtime"
)

// IsValidProfile checks if the configured profile is valid.
func (c Config) IsValidProfile() bool {
	switch c.Profile {
	case ProfileEditor, ProfileRuntime:
		return true
	default:
		return false
	}
}

// ReadOnly reports whether mapping edits must be refused.
func (c Config) ReadOnly() bool {
	return c.Profile == ProfileRuntime
}
