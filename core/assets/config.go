package assets

import "time"

// Config holds configuration for an asset cache.
type Config struct {
	// Capacity is the fixed number of resource slots.
	Capacity int `mapstructure:"capacity" default:"64"`
	// EvictionMode selects when unreferenced resources are freed (deferred, eager).
	EvictionMode string `mapstructure:"eviction_mode" default:"deferred"`
	// RefreshIntervalMs is the period of the deferred refresh loop in milliseconds.
	RefreshIntervalMs int `mapstructure:"refresh_interval_ms" default:"16"`
}

const (
	EvictionDeferred = "deferred"
	EvictionEager    = "eager"
)

// IsValidEvictionMode checks if the configured eviction mode is known.
func (c Config) IsValidEvictionMode() bool {
	switch c.EvictionMode {
	case EvictionDeferred, EvictionEager:
		return true
	default:
		return false
	}
}

// RefreshInterval returns the refresh loop period, one 60Hz frame when unset.
func (c Config) RefreshInterval() time.Duration {
	if c.RefreshIntervalMs <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.RefreshIntervalMs) * time.Millisecond
}
