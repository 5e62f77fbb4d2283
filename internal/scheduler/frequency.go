package scheduler

import "math"

// noteToFrequencyHz converts a MIDI note number to its pitch under
// standard 12-tone equal temperament, A4 (note 69) = 440Hz.
func noteToFrequencyHz(note uint8) float32 {
	return float32(440 * math.Pow(2, (float64(note)-69)/12))
}

// volumeFor computes the dispatched volume from a note's velocity and
// the configured coefficient, clamped to [0, 1].
func volumeFor(velocity uint8, coefficient float32) float32 {
	v := (float32(velocity) / 128) * coefficient
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
