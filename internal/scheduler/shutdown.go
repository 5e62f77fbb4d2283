package scheduler

import (
	"time"

	"github.com/sidechain-audio/midi-orchestra/internal/duration"
	"github.com/sidechain-audio/midi-orchestra/internal/logging"
	"github.com/sidechain-audio/midi-orchestra/internal/registry"
	"github.com/sidechain-audio/midi-orchestra/internal/wire"
	"go.uber.org/zap"
)

// Shutdown computes the terminate delay from the last note still
// sounding, broadcasts TerminateAfter, closes every socket, and sleeps
// locally for the same delay so straggling tones finish before the
// process exits.
func Shutdown(reg *registry.Registry, latestNoteEnd time.Time) {
	terminateDelay := time.Until(latestNoteEnd)
	if terminateDelay < 0 {
		terminateDelay = 0
	}
	terminateNS := duration.DurationToNanoseconds(terminateDelay)

	logging.Log.Info("shutting down", zap.Duration("terminate_delay", terminateDelay))

	if err := reg.Broadcast(wire.TerminateAfter(terminateNS)); err != nil {
		logging.Log.Warn("error broadcasting terminate-after", zap.Error(err))
	}
	reg.Shutdown()
	reg.FinishProgress()

	time.Sleep(terminateDelay)
}
