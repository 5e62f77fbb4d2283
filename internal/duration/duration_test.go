package duration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicksToDuration(t *testing.T) {
	timing := Timing{
		TicksPerQuarterNote:        480,
		MicrosecondsPerQuarterNote: 500000,
		NumeratorBeats:             4,
		DenominatorNoteValue:       4,
	}

	got := TicksToDuration(timing, 480)
	assert.Equal(t, 500*time.Millisecond, got)

	timing.MicrosecondsPerQuarterNote = 250000
	got = TicksToDuration(timing, 480)
	assert.Equal(t, 250*time.Millisecond, got)
}

func TestDurationNanosecondRoundTrip(t *testing.T) {
	d := 1500*time.Millisecond + 7*time.Nanosecond
	ns := DurationToNanoseconds(d)
	assert.Equal(t, uint64(1500000007), ns)
	assert.Equal(t, d, NanosecondsToDuration(ns))
}

func TestDurationToNanosecondsNeverNegative(t *testing.T) {
	assert.Equal(t, uint64(0), DurationToNanoseconds(-5*time.Second))
}
