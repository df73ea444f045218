// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and valid values for server settings,
// such as the tooling profile.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key, and the profile. The editor
// profile allows identity mapping edits; the runtime profile serves them read-only.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by feature packages to decide which routes accept writes.
package server
