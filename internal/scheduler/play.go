// Package scheduler drives the server side of a playback run: the
// accept loop, the deadline-paced play loop, and shutdown.
package scheduler

import (
	"time"

	"github.com/sidechain-audio/midi-orchestra/internal/duration"
	"github.com/sidechain-audio/midi-orchestra/internal/logging"
	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/registry"
	"github.com/sidechain-audio/midi-orchestra/internal/telemetry"
	"github.com/sidechain-audio/midi-orchestra/internal/wire"
	"go.uber.org/zap"
)

// StartupGracePeriod is the fixed window the server waits for initial
// clients to connect before the play loop begins. Late joiners can
// still register mid-playback; notes already dispatched are gone.
const StartupGracePeriod = 5 * time.Second

// Play walks events in order, sleeping until each one's absolute
// deadline before dispatching it, then runs shutdown. It returns the
// first fatal send error, if any. There is no per-send timeout: a hung
// client blocks the loop, stalling playback for everyone.
func Play(reg *registry.Registry, events []midiingest.MusicalEvent, volumeCoeff float32, metrics *telemetry.ServerMetrics) error {
	startTime := time.Now()
	latestNoteEnd := startTime

	for i, event := range events {
		deadline := startTime.Add(event.StartOffset())
		if now := time.Now(); now.Before(deadline) {
			time.Sleep(deadline.Sub(now))
		}

		if event.Kind == midiingest.EventTimingChange {
			// No-op for the wire: clients don't need tempo, timing is
			// pre-resolved server-side.
			reg.UpdateProgress(i+1, len(events))
			continue
		}

		note := event.Note
		hz := noteToFrequencyHz(note.Note)
		volume := volumeFor(note.Velocity, volumeCoeff)
		packet := wire.PlayNote(duration.DurationToNanoseconds(note.Duration), hz, volume)

		sent, err := reg.Dispatch(note, packet)
		if err != nil {
			metrics.FanOutFailures.Inc()
			logging.Log.Error("fatal error dispatching note", zap.Error(err))
			return err
		}
		metrics.NotesDispatched.Add(float64(sent))

		if end := time.Now().Add(note.Duration); end.After(latestNoteEnd) {
			latestNoteEnd = end
		}
		reg.UpdateProgress(i+1, len(events))
	}

	Shutdown(reg, latestNoteEnd)
	return nil
}
