// Package progress reports playback progress. It exposes the narrow
// interface the registry drives plus a structured-logging
// implementation, rather than committing to any terminal rendering.
package progress

import (
	"github.com/sidechain-audio/midi-orchestra/internal/logging"
	"go.uber.org/zap"
)

// Indicator is notified of playback progress by the registry, under its
// lock, once per dispatched event.
type Indicator interface {
	Update(done, total int)
	Finish()
}

// loggingIndicator emits a debug-level log line each time the whole
// percentage of completed events changes; it never blocks or errors,
// since the registry calls it under its lock.
type loggingIndicator struct {
	lastLoggedPercent int
}

// NewLogging returns an Indicator backed by the package logger.
func NewLogging() Indicator {
	return &loggingIndicator{lastLoggedPercent: -1}
}

func (l *loggingIndicator) Update(done, total int) {
	if total <= 0 {
		return
	}
	percent := done * 100 / total
	if percent == l.lastLoggedPercent {
		return
	}
	l.lastLoggedPercent = percent
	logging.Log.Debug("playback progress", zap.Int("done", done), zap.Int("total", total), zap.Int("percent", percent))
}

func (l *loggingIndicator) Finish() {
	logging.Log.Info("playback complete")
}

// noop discards progress updates entirely.
type noop struct{}

// NewNoop returns an Indicator that does nothing, for callers (such as
// tests) that have no use for playback progress.
func NewNoop() Indicator {
	return noop{}
}

func (noop) Update(done, total int) {}
func (noop) Finish()                {}
