package midiingest

import (
	"sort"
	"time"

	"github.com/sidechain-audio/midi-orchestra/internal/duration"
	"github.com/sidechain-audio/midi-orchestra/internal/logging"
	"go.uber.org/zap"
)

// MetaKind discriminates the meta events this ingestion cares about;
// everything else is tracked only for its effect on current-tick.
type MetaKind int

const (
	MetaSetTempo MetaKind = iota
	MetaTimeSignature
	MetaOther
)

// ChannelEventKind discriminates the channel-voice events this
// ingestion cares about.
type ChannelEventKind int

const (
	ChannelNoteOn ChannelEventKind = iota
	ChannelNoteOff
	ChannelOther
)

// ChannelEvent is a single MIDI channel-voice message as handed to the
// Handler by the byte-level decoder.
type ChannelEvent struct {
	Kind     ChannelEventKind
	Channel  uint8 // 0-indexed, as the decoder provides it
	Note     uint8
	Velocity uint8
}

type startOfNote struct {
	startTick uint64
	velocity  uint8
}

type rawPlayNote struct {
	track         uint
	channel       uint8
	note          uint8
	startTick     uint64
	durationTicks uint64
	velocity      uint8
}

type rawTempoChange struct {
	newTempoMicrosPerQuarter uint32
	startTick                uint64
}

type rawTimeSigChange struct {
	numerator      uint8
	denominatorExp uint8
	startTick      uint64
}

type rawEventKind int

const (
	rawKindPlayNote rawEventKind = iota
	rawKindTempo
	rawKindTimeSig
)

type rawEvent struct {
	kind      rawEventKind
	startTick uint64
	playNote  rawPlayNote
	tempo     rawTempoChange
	timeSig   rawTimeSigChange
}

// Handler accumulates a decoder's callback stream into a Music value.
// It is NOT safe for concurrent use; a single decode pass drives it
// sequentially.
type Handler struct {
	verbose bool

	divisionTicksPerQuarterNote float64
	currentTick                 uint64
	currentTrack                uint

	pending map[pendingKey]startOfNote
	raw     []rawEvent
}

type pendingKey struct {
	channel uint8
	note    uint8
}

// NewHandler constructs an empty Handler. verbose gates debug-level
// logging of header and meta detail.
func NewHandler(verbose bool) *Handler {
	return &Handler{
		verbose: verbose,
		pending: make(map[pendingKey]startOfNote),
	}
}

// Header records the file's time base; format and track count are only
// logged, in verbose mode.
func (h *Handler) Header(format, numTracks, timeBase uint16) {
	h.divisionTicksPerQuarterNote = float64(timeBase)
	if h.verbose {
		logging.Log.Debug("midi header",
			zap.Uint16("format", format),
			zap.Uint16("tracks", numTracks),
			zap.Uint16("time_base", timeBase),
		)
	}
}

// TrackChange resets current-tick to zero and advances the track index.
func (h *Handler) TrackChange() {
	h.currentTick = 0
	h.currentTrack++
}

// MetaEvent advances current-tick by delta AFTER handling SetTempo and
// TimeSignature, each encoded the way a raw SMF byte stream carries
// them: SetTempo as a 3-byte big-endian microseconds-per-quarter-note
// value, TimeSignature as a 4-byte {numerator, denominator_exponent,
// clocks_per_click, thirty_second_notes_per_quarter} payload. decode.go's
// gomidi adapter re-encodes its typed meta events into these byte
// layouts and calls MetaEvent directly, so there is exactly one
// implementation of the handle-then-advance ordering rule.
func (h *Handler) MetaEvent(delta uint32, kind MetaKind, data []byte) {
	switch kind {
	case MetaSetTempo:
		if len(data) == 3 {
			tempo := uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])
			h.SetTempo(tempo)
		} else {
			logging.Log.Warn("malformed SetTempo meta event, skipping", zap.Int("data_len", len(data)))
		}
	case MetaTimeSignature:
		if len(data) == 4 {
			h.SetTimeSignature(data[0], data[1])
		} else {
			logging.Log.Warn("malformed TimeSignature meta event, skipping", zap.Int("data_len", len(data)))
		}
	}
	h.currentTick += uint64(delta)
}

// SetTempo records a tempo change taking effect at the current tick,
// expressed as microseconds per quarter note.
func (h *Handler) SetTempo(microsecondsPerQuarterNote uint32) {
	h.pushRaw(rawEvent{
		kind:      rawKindTempo,
		startTick: h.currentTick,
		tempo:     rawTempoChange{newTempoMicrosPerQuarter: microsecondsPerQuarterNote, startTick: h.currentTick},
	})
}

// SetTimeSignature records a time-signature change taking effect at the
// current tick. denominatorExponent is the power of two the note value
// is expressed as (2 means a quarter note).
func (h *Handler) SetTimeSignature(numerator, denominatorExponent uint8) {
	h.pushRaw(rawEvent{
		kind:      rawKindTimeSig,
		startTick: h.currentTick,
		timeSig:   rawTimeSigChange{numerator: numerator, denominatorExp: denominatorExponent, startTick: h.currentTick},
	})
}

// MidiEvent advances current-tick by delta BEFORE handling the event,
// then pairs note-on/note-off into play-note intervals.
func (h *Handler) MidiEvent(delta uint32, event ChannelEvent) {
	h.currentTick += uint64(delta)

	switch event.Kind {
	case ChannelNoteOn:
		if event.Velocity > 0 {
			h.noteBegun(event.Channel, event.Note, event.Velocity)
		} else {
			h.noteEnded(event.Channel, event.Note)
		}
	case ChannelNoteOff:
		h.noteEnded(event.Channel, event.Note)
	}
}

// SysExEvent advances current-tick by delta; SysEx content has no
// musical output.
func (h *Handler) SysExEvent(delta uint32, data []byte) {
	h.currentTick += uint64(delta)
}

func (h *Handler) noteBegun(channel, note, velocity uint8) {
	key := pendingKey{channel: channel, note: note}
	if existing, ok := h.pending[key]; ok {
		h.completeNote(channel, note, existing)
	}
	h.pending[key] = startOfNote{startTick: h.currentTick, velocity: velocity}
}

func (h *Handler) noteEnded(channel, note uint8) {
	key := pendingKey{channel: channel, note: note}
	start, ok := h.pending[key]
	if !ok {
		return
	}
	delete(h.pending, key)
	h.completeNote(channel, note, start)
}

func (h *Handler) completeNote(channel, note uint8, start startOfNote) {
	h.pushRaw(rawEvent{
		kind:      rawKindPlayNote,
		startTick: start.startTick,
		playNote: rawPlayNote{
			track:         h.currentTrack,
			channel:       channel + 1, // MIDI channels expressed 1-indexed downstream
			note:          note,
			startTick:     start.startTick,
			durationTicks: h.currentTick - start.startTick,
			velocity:      start.velocity,
		},
	})
}

func (h *Handler) pushRaw(e rawEvent) {
	h.raw = append(h.raw, e)
}

// Resolve sorts the accumulated raw events by start tick (stable, so
// ties preserve ingestion order) and walks them carrying a running
// Timing and cumulative offset, producing the final Music.
func (h *Handler) Resolve() Music {
	sort.SliceStable(h.raw, func(i, j int) bool {
		return h.raw[i].startTick < h.raw[j].startTick
	})

	timing := duration.DefaultTiming(h.divisionTicksPerQuarterNote)
	var lastStartTick uint64
	var cumulativeOffset int64 // nanoseconds, monotonic non-decreasing

	events := make([]MusicalEvent, 0, len(h.raw))

	for _, raw := range h.raw {
		delta := raw.startTick - lastStartTick
		cumulativeOffset += int64(duration.TicksToDuration(timing, delta))
		lastStartTick = raw.startTick
		offset := time.Duration(cumulativeOffset)

		switch raw.kind {
		case rawKindPlayNote:
			pn := raw.playNote
			events = append(events, MusicalEvent{
				Kind: EventPlayNote,
				Note: Note{
					StartOffset: offset,
					Track:       pn.track,
					Channel:     pn.channel,
					Note:        pn.note,
					Duration:    duration.TicksToDuration(timing, pn.durationTicks),
					Velocity:    pn.velocity,
				},
			})
		case rawKindTempo:
			timing.MicrosecondsPerQuarterNote = float64(raw.tempo.newTempoMicrosPerQuarter)
			events = append(events, MusicalEvent{
				Kind: EventTimingChange,
				TimingChange: TimingChange{
					StartOffset: offset,
					Timing:      timing,
				},
			})
		case rawKindTimeSig:
			numerator := float64(raw.timeSig.numerator)
			denominator := pow2(raw.timeSig.denominatorExp)
			timing.NumeratorBeats = numerator
			timing.DenominatorNoteValue = denominator
			events = append(events, MusicalEvent{
				Kind: EventTimingChange,
				TimingChange: TimingChange{
					StartOffset: offset,
					Timing:      timing,
				},
			})
		}
	}

	return Music{
		DivisionTicksPerQuarterNote: h.divisionTicksPerQuarterNote,
		Events:                      events,
	}
}

func pow2(exponent uint8) float64 {
	result := 1.0
	for i := uint8(0); i < exponent; i++ {
		result *= 2
	}
	return result
}
