// Package duration converts between MIDI tick spans and wall-clock time.
package duration

import "time"

// Timing is the tuple of values needed to convert a tick span into a
// time.Duration: ticks per quarter note, microseconds per quarter note,
// and the current time signature.
type Timing struct {
	TicksPerQuarterNote        float64
	MicrosecondsPerQuarterNote float64
	NumeratorBeats             float64
	DenominatorNoteValue       float64
}

// DefaultTiming is the timing in effect before any TimingChange event:
// 500000 microseconds per quarter note (120 BPM) and 4/4 time.
func DefaultTiming(ticksPerQuarterNote float64) Timing {
	return Timing{
		TicksPerQuarterNote:        ticksPerQuarterNote,
		MicrosecondsPerQuarterNote: 500000,
		NumeratorBeats:             4,
		DenominatorNoteValue:       4,
	}
}

// TicksToDuration converts a span of ticks to a time.Duration under the
// given timing. Conversions after a tempo change must use the Timing
// value in effect after that change.
func TicksToDuration(t Timing, ticks uint64) time.Duration {
	secondsPerQuarterNote := t.MicrosecondsPerQuarterNote / 1e6
	secondsPerTick := secondsPerQuarterNote / t.TicksPerQuarterNote
	seconds := float64(ticks) * secondsPerTick
	return SecondsToDuration(seconds)
}

// SecondsToDuration converts a floating-point second count to a Duration.
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// DurationToNanoseconds returns the integer nanosecond count of d, the
// encoding used on the wire for PlayNote and TerminateAfter payloads.
func DurationToNanoseconds(d time.Duration) uint64 {
	if d < 0 {
		return 0
	}
	return uint64(d.Nanoseconds())
}

// NanosecondsToDuration is the inverse of DurationToNanoseconds.
func NanosecondsToDuration(ns uint64) time.Duration {
	return time.Duration(ns) * time.Nanosecond
}
