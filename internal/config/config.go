// Package config validates the CLI flag surface for the server and
// client subcommands, turning bad input into a ConfigurationError
// before any socket is opened.
package config

import (
	"fmt"

	"github.com/sidechain-audio/midi-orchestra/internal/apperrors"
	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/policy"
)

// ServerConfig is the validated configuration for `midi-orchestra server`.
type ServerConfig struct {
	MIDIPath        string
	Port            uint16
	PolicyName      string
	VolumeCoeff     float32
	Verbose         bool
	IncludeTracks   []uint
	ExcludeTracks   []uint
	IncludeChannels []uint8
	ExcludeChannels []uint8
	AllowChannel10  bool
	StatusPort      uint16
}

// ClientConfig is the validated configuration for `midi-orchestra client`.
type ClientConfig struct {
	Target  string
	Forever bool
	Verbose bool
}

// ValidateServer checks that a MIDI path is given, the volume range,
// the policy name, and the mutual exclusivity of include/exclude on
// each axis. The port is not checked here; its range is bounded only
// by the 16-bit flag type.
func ValidateServer(c ServerConfig) error {
	if c.MIDIPath == "" {
		return apperrors.Configuration("midi file path is required", nil)
	}
	if c.VolumeCoeff < 0 || c.VolumeCoeff > 1 {
		return apperrors.Configuration(fmt.Sprintf("invalid volume %v, must be between 0.0 and 1.0", c.VolumeCoeff), nil)
	}
	if len(c.IncludeTracks) > 0 && len(c.ExcludeTracks) > 0 {
		return apperrors.Configuration("--include-track and --exclude-track are mutually exclusive", nil)
	}
	if len(c.IncludeChannels) > 0 && len(c.ExcludeChannels) > 0 {
		return apperrors.Configuration("--include-channel and --exclude-channel are mutually exclusive", nil)
	}
	if _, ok := policy.ParseSpec(c.PolicyName); !ok {
		return apperrors.Configuration(fmt.Sprintf("unknown policy %q", c.PolicyName), nil)
	}
	return nil
}

// ValidateClient checks the client's flag surface.
func ValidateClient(c ClientConfig) error {
	if c.Target == "" {
		return apperrors.Configuration("target host:port is required", nil)
	}
	return nil
}

// FilterSpecFor builds the track/channel FilterSpec a validated
// ServerConfig describes.
func FilterSpecFor(c ServerConfig) midiingest.FilterSpec {
	return midiingest.FilterSpec{
		IncludeTracks:   c.IncludeTracks,
		ExcludeTracks:   c.ExcludeTracks,
		IncludeChannels: c.IncludeChannels,
		ExcludeChannels: c.ExcludeChannels,
		AllowChannel10:  c.AllowChannel10,
	}
}

// ToUint8Slice narrows a []uint flag value (pflag has no []uint8 slice
// flag type) into []uint8, clamping any value above 255 to 255 rather
// than silently wrapping it. Values from 17 to 255 pass through as-is.
func ToUint8Slice(vals []uint) []uint8 {
	if len(vals) == 0 {
		return nil
	}
	out := make([]uint8, len(vals))
	for i, v := range vals {
		if v > 255 {
			v = 255
		}
		out[i] = uint8(v)
	}
	return out
}
