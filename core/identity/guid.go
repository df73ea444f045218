// Package identity defines the stable, cross-run identifier of an asset.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// GUID is a 128-bit identifier that survives process restarts.
// The zero value (Nil) is the empty identity and never names a resource.
type GUID uuid.UUID

// Nil is the empty identity.
var Nil GUID

// New returns a random (version 4) GUID.
func New() GUID {
	return GUID(uuid.New())
}

// Parse decodes the textual form of a GUID.
func Parse(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("invalid guid %q: %w", s, err)
	}
	return GUID(u), nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests and constants.
func MustParse(s string) GUID {
	return GUID(uuid.MustParse(s))
}

// IsNil reports whether g is the empty identity.
func (g GUID) IsNil() bool {
	return g == Nil
}

// String returns the canonical hyphenated form.
func (g GUID) String() string {
	return uuid.UUID(g).String()
}

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) {
	return uuid.UUID(g).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GUID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return fmt.Errorf("invalid guid %q: %w", string(data), err)
	}
	*g = GUID(u)
	return nil
}
