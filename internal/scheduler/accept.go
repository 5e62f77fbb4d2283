package scheduler

import (
	"errors"
	"net"

	"github.com/sidechain-audio/midi-orchestra/internal/logging"
	"github.com/sidechain-audio/midi-orchestra/internal/registry"
	"github.com/sidechain-audio/midi-orchestra/internal/telemetry"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
	"github.com/sidechain-audio/midi-orchestra/internal/wire"
	"go.uber.org/zap"
)

// AcceptLoop runs on its own goroutine for the process lifetime,
// accepting connections and handshaking them one at a time. The
// handshake recv happens outside the registry lock; only the subsequent
// insert takes it. Handshaking is sequential, not fanned out per
// connection, so a slow or silent handshake delays the next accept.
func AcceptLoop(listener net.Listener, reg *registry.Registry, uids *transport.UIDFactory, metrics *telemetry.ServerMetrics) {
	for {
		rawConn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logging.Log.Error("accept failed", zap.Error(err))
			continue
		}
		handshakeAndRegister(rawConn, reg, uids, metrics)
	}
}

func handshakeAndRegister(rawConn net.Conn, reg *registry.Registry, uids *transport.UIDFactory, metrics *telemetry.ServerMetrics) {
	conn, err := transport.NewConnection(rawConn, transport.ClientInfo{UID: uids.Next()})
	if err != nil {
		logging.Log.Error("failed to establish connection", zap.Error(err))
		_ = rawConn.Close()
		return
	}

	packet, err := conn.Recv()
	if err != nil || packet.Kind != wire.KindClientInfo {
		rejectHandshake(conn, metrics)
		return
	}

	reg.Register(conn)
	metrics.ClientsConnected.Set(float64(reg.ConnectionCount()))
	logging.Log.Info("client registered", zap.Uint64("client_uid", uint64(conn.Info.UID)))
}

func rejectHandshake(conn *transport.Connection, metrics *telemetry.ServerMetrics) {
	metrics.HandshakeRejected.Inc()
	logging.Log.Warn("rejecting connection with invalid handshake", zap.Uint64("client_uid", uint64(conn.Info.UID)))
	_ = conn.Send(wire.TerminateAfter(0))
	_ = conn.Shutdown()
}
