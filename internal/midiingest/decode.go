package midiingest

import (
	"bytes"
	"os"

	"github.com/sidechain-audio/midi-orchestra/internal/apperrors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// LoadFile reads a Standard MIDI File from path and resolves it into a
// Music. The byte-level decoding is delegated to
// gitlab.com/gomidi/midi/v2/smf; this adapter drives a Handler from its
// typed track events.
func LoadFile(path string, verbose bool) (Music, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Music{}, apperrors.Decode("failed to read midi file", err)
	}
	return Decode(data, verbose)
}

// Decode resolves raw Standard MIDI File bytes into a Music.
func Decode(data []byte, verbose bool) (Music, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return Music{}, apperrors.Decode("failed to parse midi file", err)
	}

	ticksPerQuarter := uint16(480)
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		ticksPerQuarter = uint16(mt)
	}

	h := NewHandler(verbose)
	h.Header(uint16(0), uint16(len(s.Tracks)), ticksPerQuarter)

	for _, track := range s.Tracks {
		h.TrackChange()

		for _, ev := range track {
			delta := ev.Delta

			var tempoBPM float64
			if ev.Message.GetMetaTempo(&tempoBPM) && tempoBPM > 0 {
				tempo := uint32(60_000_000.0 / tempoBPM)
				h.MetaEvent(delta, MetaSetTempo, []byte{byte(tempo >> 16), byte(tempo >> 8), byte(tempo)})
				continue
			}

			var numerator, denominatorExp, clocksPerClick, thirtySecondNotesPerQuarter uint8
			if ev.Message.GetMetaTimeSig(&numerator, &denominatorExp, &clocksPerClick, &thirtySecondNotesPerQuarter) {
				h.MetaEvent(delta, MetaTimeSignature, []byte{numerator, denominatorExp, clocksPerClick, thirtySecondNotesPerQuarter})
				continue
			}

			var channel, note, velocity uint8
			if ev.Message.GetNoteOn(&channel, &note, &velocity) {
				kind := ChannelNoteOn
				h.MidiEvent(delta, ChannelEvent{Kind: kind, Channel: channel, Note: note, Velocity: velocity})
				continue
			}
			if ev.Message.GetNoteOff(&channel, &note, &velocity) {
				h.MidiEvent(delta, ChannelEvent{Kind: ChannelNoteOff, Channel: channel, Note: note, Velocity: velocity})
				continue
			}

			h.SysExEvent(delta, nil)
		}
	}

	return h.Resolve(), nil
}
