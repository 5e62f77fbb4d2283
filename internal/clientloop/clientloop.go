// Package clientloop implements the networked client side: connect
// (optionally retrying forever), handshake, then a receive loop
// dispatching PlayNote to a synthesizer and TerminateAfter to a timed
// exit.
package clientloop

import (
	"errors"
	"math/rand"
	"net"
	"time"

	"github.com/sidechain-audio/midi-orchestra/internal/apperrors"
	"github.com/sidechain-audio/midi-orchestra/internal/duration"
	"github.com/sidechain-audio/midi-orchestra/internal/logging"
	"github.com/sidechain-audio/midi-orchestra/internal/synth"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
	"github.com/sidechain-audio/midi-orchestra/internal/wire"
	"go.uber.org/zap"
)

// reconnectBackoffMin and reconnectBackoffMax bound the jittered delay
// between connect retries in forever mode.
const (
	reconnectBackoffMin = 500 * time.Millisecond
	reconnectBackoffMax = 1 * time.Second
)

// Run drives the client loop against target until a TerminateAfter is
// received and honored, the connection is closed in non-forever mode,
// or a protocol violation occurs. In forever mode, connect and decode
// failures are logged and retried rather than returned. A
// ProtocolViolation always surfaces and terminates the loop, even in
// forever mode; only TransportError gets the reconnect-with-backoff
// treatment.
func Run(target string, forever bool, synthesizer synth.Synthesizer) error {
	for {
		err := runOnce(target, synthesizer)
		if err == nil {
			if !forever {
				return nil
			}
			// Forever mode reconnects even after a clean terminate, ready
			// for the next playback run.
			logging.Log.Info("session complete, reconnecting")
			continue
		}
		if !forever || !apperrors.Is(err, apperrors.CodeTransport) {
			return err
		}
		logging.Log.Warn("client loop error, reconnecting", zap.Error(err))
		time.Sleep(jitteredBackoff())
	}
}

func jitteredBackoff() time.Duration {
	span := reconnectBackoffMax - reconnectBackoffMin
	return reconnectBackoffMin + time.Duration(rand.Int63n(int64(span)))
}

func runOnce(target string, synthesizer synth.Synthesizer) error {
	rawConn, err := net.Dial("tcp", target)
	if err != nil {
		return apperrors.Transport("failed to connect to "+target, err)
	}

	conn, err := transport.NewConnection(rawConn, transport.ClientInfo{})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Shutdown() }()

	if err := conn.Send(wire.ClientInfo()); err != nil {
		return err
	}

	for {
		packet, err := conn.Recv()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		switch packet.Kind {
		case wire.KindPlayNote:
			d := duration.NanosecondsToDuration(packet.DurationNS)
			if playErr := synthesizer.Play(packet.FrequencyHz, d, packet.Volume); playErr != nil {
				logging.Log.Error("synthesizer failed to render note", zap.Error(playErr))
			}
		case wire.KindTerminateAfter:
			time.Sleep(duration.NanosecondsToDuration(packet.TerminateNS))
			return nil
		default:
			return apperrors.ProtocolViolation("received unexpected packet kind from server")
		}
	}
}
