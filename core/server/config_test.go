package server_test

import (
	"testing"

	"asset-core/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		want    bool
	}{
		{"Editor", server.ProfileEditor, true},
		{"Runtime", server.ProfileRuntime, true},
		{"Invalid", "invalid", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Profile: tt.profile}
			assert.Equal(t, tt.want, c.IsValidProfile())
		})
	}
}

func TestConfig_ReadOnly(t *testing.T) {
	assert.False(t, server.Config{Profile: server.ProfileEditor}.ReadOnly())
	assert.True(t, server.Config{Profile: server.ProfileRuntime}.ReadOnly())
}
