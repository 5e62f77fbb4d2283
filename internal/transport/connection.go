// Package transport owns the per-client TCP socket: the duplex byte
// stream, its assigned ClientUID, and the typed send/recv wrappers over
// internal/wire.
package transport

import (
	"fmt"
	"net"
	"sync/atomic"

	"github.com/sidechain-audio/midi-orchestra/internal/apperrors"
	"github.com/sidechain-audio/midi-orchestra/internal/wire"
)

// ClientUID is a monotonically increasing, never-reused identifier
// assigned to a client at accept time.
type ClientUID uint64

// ClientInfo is the registry-visible identity of a connected client.
type ClientInfo struct {
	UID ClientUID
}

// UIDFactory hands out strictly increasing ClientUIDs, one per accepted
// connection, for the lifetime of a server run.
type UIDFactory struct {
	next atomic.Uint64
}

// NewUIDFactory returns a factory whose first Next() call yields UID 1.
func NewUIDFactory() *UIDFactory {
	f := &UIDFactory{}
	f.next.Store(1)
	return f
}

// Next returns the next ClientUID and advances the counter.
func (f *UIDFactory) Next() ClientUID {
	return ClientUID(f.next.Add(1) - 1)
}

// Connection owns one client's duplex TCP stream. TCP_NODELAY is
// enabled at construction so individual notes aren't delayed by
// Nagle's algorithm waiting to coalesce with the next one.
type Connection struct {
	Info ClientInfo
	conn net.Conn
}

// NewConnection wraps conn, disabling Nagle's algorithm when conn is a
// *net.TCPConn. Any other net.Conn (such as the in-memory pipes tests
// use) is wrapped as-is, without SetNoDelay.
func NewConnection(conn net.Conn, info ClientInfo) (*Connection, error) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			return nil, apperrors.Transport("failed to disable Nagle's algorithm", err)
		}
	}
	return &Connection{Info: info, conn: conn}, nil
}

// Send serializes and writes packet p to the client.
func (c *Connection) Send(p wire.Packet) error {
	if err := wire.Encode(c.conn, p); err != nil {
		return apperrors.Transport(fmt.Sprintf("failed to send packet to client %d", c.Info.UID), err)
	}
	return nil
}

// Recv blocks for one packet from the client.
func (c *Connection) Recv() (wire.Packet, error) {
	p, err := wire.Decode(c.conn)
	if err != nil {
		return wire.Packet{}, apperrors.Transport(fmt.Sprintf("failed to receive packet from client %d", c.Info.UID), err)
	}
	return p, nil
}

// Shutdown flushes and closes both directions of the underlying socket.
func (c *Connection) Shutdown() error {
	if tcp, ok := c.conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
	}
	return c.conn.Close()
}
