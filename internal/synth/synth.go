// Package synth renders the tones a client is told to play. Instead of
// driving a real audio device it writes PCM to a WAV file, so a client
// run can be inspected without audio hardware.
package synth

import (
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const sampleRate = 44100

// Synthesizer renders one tone. Implementations are driven by the
// client loop once per PlayNote packet; they own their own timing and
// must not block the receive loop beyond the tone's duration.
type Synthesizer interface {
	Play(frequencyHz float32, duration time.Duration, volume float32) error
	Close() error
}

// WAVFileSynth appends each played tone, as a block of sine-wave PCM
// samples, to a single WAV file opened at construction time.
type WAVFileSynth struct {
	encoder *wav.Encoder
}

// NewWAVFileSynth opens a 16-bit mono WAV encoder writing to w. The
// caller must call Close to finalize the file's headers.
func NewWAVFileSynth(w io.WriteSeeker) *WAVFileSynth {
	return &WAVFileSynth{
		encoder: wav.NewEncoder(w, sampleRate, 16, 1, 1),
	}
}

// Play renders duration worth of a sine wave at frequencyHz, scaled by
// volume, and appends it to the WAV stream.
func (s *WAVFileSynth) Play(frequencyHz float32, duration time.Duration, volume float32) error {
	numSamples := int(duration.Seconds() * sampleRate)
	if numSamples <= 0 {
		return nil
	}

	samples := make([]int, numSamples)
	amplitude := float64(volume) * float64(math.MaxInt16)
	angularFrequency := 2 * math.Pi * float64(frequencyHz)
	for i := range samples {
		t := float64(i) / sampleRate
		samples[i] = int(amplitude * math.Sin(angularFrequency*t))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	return s.encoder.Write(buf)
}

// Close finalizes the WAV file's headers.
func (s *WAVFileSynth) Close() error {
	return s.encoder.Close()
}

// Silent discards every tone; useful for client runs that only need to
// exercise the protocol (tests, headless smoke runs).
type Silent struct{}

func (Silent) Play(frequencyHz float32, duration time.Duration, volume float32) error { return nil }
func (Silent) Close() error                                                           { return nil }
