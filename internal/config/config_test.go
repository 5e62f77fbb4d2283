package config

import (
	"testing"

	"github.com/sidechain-audio/midi-orchestra/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func validServerConfig() ServerConfig {
	return ServerConfig{
		MIDIPath:    "song.mid",
		Port:        4000,
		PolicyName:  "by-freq",
		VolumeCoeff: 1.0,
	}
}

func TestValidateServerAcceptsDefaults(t *testing.T) {
	assert.NoError(t, ValidateServer(validServerConfig()))
}

func TestValidateServerRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"missing midi path", func(c *ServerConfig) { c.MIDIPath = "" }},
		{"volume above 1", func(c *ServerConfig) { c.VolumeCoeff = 1.5 }},
		{"negative volume", func(c *ServerConfig) { c.VolumeCoeff = -0.1 }},
		{"unknown policy", func(c *ServerConfig) { c.PolicyName = "round-robin" }},
		{"include and exclude tracks", func(c *ServerConfig) {
			c.IncludeTracks = []uint{1}
			c.ExcludeTracks = []uint{2}
		}},
		{"include and exclude channels", func(c *ServerConfig) {
			c.IncludeChannels = []uint8{1}
			c.ExcludeChannels = []uint8{2}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validServerConfig()
			tc.mutate(&cfg)
			err := ValidateServer(cfg)
			assert.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeConfiguration))
		})
	}
}

func TestValidateClientRequiresTarget(t *testing.T) {
	assert.Error(t, ValidateClient(ClientConfig{}))
	assert.NoError(t, ValidateClient(ClientConfig{Target: "localhost:4000"}))
}

func TestToUint8SliceClampsOutOfRange(t *testing.T) {
	assert.Nil(t, ToUint8Slice(nil))
	assert.Equal(t, []uint8{1, 10, 255}, ToUint8Slice([]uint{1, 10, 300}))
}
