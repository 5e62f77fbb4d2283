package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Note 69 -> 440Hz, note 81 -> 880Hz.
func TestNoteToFrequencyHz(t *testing.T) {
	assert.InDelta(t, 440.0, noteToFrequencyHz(69), 0.001)
	assert.InDelta(t, 880.0, noteToFrequencyHz(81), 0.001)
}

// Volume dispatch scenarios, including clamping.
func TestVolumeFor(t *testing.T) {
	assert.InDelta(t, 0.5, volumeFor(64, 1.0), 0.0001)
	assert.InDelta(t, 0.5, volumeFor(128, 0.5), 0.0001)
	assert.Equal(t, float32(1.0), volumeFor(255, 1.0))
}
