package midiingest

import (
	"time"

	"github.com/sidechain-audio/midi-orchestra/internal/duration"
)

// Note is a single paired note-on/note-off interval, resolved to an
// absolute wall-clock offset from playback start.
type Note struct {
	StartOffset time.Duration
	Track       uint
	Channel     uint8
	Note        uint8
	Duration    time.Duration
	Velocity    uint8
}

// TimingChange snapshots the Timing in effect starting at StartOffset.
type TimingChange struct {
	StartOffset time.Duration
	Timing      duration.Timing
}

// EventKind discriminates MusicalEvent's two variants.
type EventKind int

const (
	EventPlayNote EventKind = iota
	EventTimingChange
)

// MusicalEvent is a tagged union of {PlayNote, TimingChange}, ordered by
// StartOffset ascending with ties broken by ingestion order.
type MusicalEvent struct {
	Kind         EventKind
	Note         Note
	TimingChange TimingChange
}

// StartOffset returns the event's offset regardless of its kind.
func (e MusicalEvent) StartOffset() time.Duration {
	if e.Kind == EventPlayNote {
		return e.Note.StartOffset
	}
	return e.TimingChange.StartOffset
}

// Music is the ordered, resolved event sequence produced by ingestion.
type Music struct {
	DivisionTicksPerQuarterNote float64
	Events                      []MusicalEvent
}
