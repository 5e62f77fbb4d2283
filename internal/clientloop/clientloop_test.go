package clientloop

import (
	"net"
	"testing"
	"time"

	"github.com/sidechain-audio/midi-orchestra/internal/synth"
	"github.com/sidechain-audio/midi-orchestra/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSynth struct {
	played []float32
}

func (r *recordingSynth) Play(frequencyHz float32, _ time.Duration, _ float32) error {
	r.played = append(r.played, frequencyHz)
	return nil
}

func (r *recordingSynth) Close() error { return nil }

func TestRunOnceHandshakesThenDispatchesPlayNote(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, acceptErr := listener.Accept()
		require.NoError(t, acceptErr)
		defer conn.Close()

		handshake, decodeErr := wire.Decode(conn)
		require.NoError(t, decodeErr)
		assert.Equal(t, wire.KindClientInfo, handshake.Kind)

		require.NoError(t, wire.Encode(conn, wire.PlayNote(1000, 440, 0.5)))
		require.NoError(t, wire.Encode(conn, wire.TerminateAfter(0)))
	}()

	rec := &recordingSynth{}
	err = runOnce(listener.Addr().String(), rec)
	require.NoError(t, err)
	assert.Equal(t, []float32{440}, rec.played)

	<-serverDone
}

func TestRunOnceProtocolViolationOnUnexpectedPacket(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, acceptErr := listener.Accept()
		require.NoError(t, acceptErr)
		defer conn.Close()
		_, _ = wire.Decode(conn) // handshake
		_ = wire.Encode(conn, wire.ClientInfo())
	}()

	err = runOnce(listener.Addr().String(), synth.Silent{})
	require.Error(t, err)
}
