package synth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAVFileSynthRendersPlayableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	s := NewWAVFileSynth(f)
	require.NoError(t, s.Play(440, 10*time.Millisecond, 1.0))
	require.NoError(t, s.Play(880, 10*time.Millisecond, 0.5))
	require.NoError(t, s.Close())
	require.NoError(t, f.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	d := wav.NewDecoder(in)
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)

	// Two 10ms tones at 44.1kHz.
	assert.Len(t, buf.Data, 2*441)
	assert.Equal(t, sampleRate, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.NumChannels)
}

func TestWAVFileSynthZeroDurationIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	s := NewWAVFileSynth(f)
	assert.NoError(t, s.Play(440, 0, 1.0))
	assert.NoError(t, s.Close())
}

func TestSilentDiscardsEverything(t *testing.T) {
	s := Silent{}
	assert.NoError(t, s.Play(440, time.Second, 1.0))
	assert.NoError(t, s.Close())
}
