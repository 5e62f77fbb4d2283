package registry

import (
	"net"
	"sync"
	"testing"

	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/progress"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
	"github.com/sidechain-audio/midi-orchestra/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPolicy captures every client snapshot it is notified with and
// selects a fixed set of UIDs.
type recordingPolicy struct {
	mu        sync.Mutex
	snapshots [][]transport.ClientInfo
	selection []transport.ClientUID
}

func (p *recordingPolicy) OnClientsChanged(clients []transport.ClientInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snapshot := make([]transport.ClientInfo, len(clients))
	copy(snapshot, clients)
	p.snapshots = append(p.snapshots, snapshot)
}

func (p *recordingPolicy) SelectClients(_ midiingest.Note) []transport.ClientUID {
	return p.selection
}

func newTestConn(t *testing.T, uid transport.ClientUID) (*transport.Connection, net.Conn) {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	t.Cleanup(func() {
		_ = serverSide.Close()
		_ = clientSide.Close()
	})
	conn, err := transport.NewConnection(serverSide, transport.ClientInfo{UID: uid})
	require.NoError(t, err)
	return conn, clientSide
}

func TestRegisterNotifiesPolicyWithGrowingSnapshot(t *testing.T) {
	pol := &recordingPolicy{}
	reg := New(pol, progress.NewNoop())

	conn1, _ := newTestConn(t, 1)
	conn2, _ := newTestConn(t, 2)
	reg.Register(conn1)
	reg.Register(conn2)

	require.Len(t, pol.snapshots, 2)
	assert.Equal(t, []transport.ClientInfo{{UID: 1}}, pol.snapshots[0])
	assert.Equal(t, []transport.ClientInfo{{UID: 1}, {UID: 2}}, pol.snapshots[1])
	assert.Equal(t, 2, reg.ConnectionCount())
}

func TestDispatchSendsOnlyToSelectedClients(t *testing.T) {
	pol := &recordingPolicy{selection: []transport.ClientUID{2}}
	reg := New(pol, progress.NewNoop())

	conn1, peer1 := newTestConn(t, 1)
	conn2, peer2 := newTestConn(t, 2)
	reg.Register(conn1)
	reg.Register(conn2)

	got := make(chan wire.Packet, 1)
	go func() {
		p, err := wire.Decode(peer2)
		if err == nil {
			got <- p
		}
	}()

	packet := wire.PlayNote(1000, 440, 0.5)
	sent, err := reg.Dispatch(midiingest.Note{Note: 69}, packet)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, packet, <-got)

	// The unselected client's pipe never saw a byte; a synchronous write
	// to it would have blocked Dispatch, so returning at all proves it
	// was skipped.
	_ = peer1
}

func TestDispatchEmptySelectionSendsNothing(t *testing.T) {
	pol := &recordingPolicy{}
	reg := New(pol, progress.NewNoop())

	conn, _ := newTestConn(t, 1)
	reg.Register(conn)

	sent, err := reg.Dispatch(midiingest.Note{Note: 60}, wire.PlayNote(1, 440, 1))
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	pol := &recordingPolicy{}
	reg := New(pol, progress.NewNoop())

	var peers []net.Conn
	for uid := transport.ClientUID(1); uid <= 3; uid++ {
		conn, peer := newTestConn(t, uid)
		reg.Register(conn)
		peers = append(peers, peer)
	}

	got := make(chan wire.Packet, 3)
	for _, peer := range peers {
		go func(p net.Conn) {
			packet, err := wire.Decode(p)
			if err == nil {
				got <- packet
			}
		}(peer)
	}

	require.NoError(t, reg.Broadcast(wire.TerminateAfter(42)))
	for i := 0; i < 3; i++ {
		assert.Equal(t, wire.TerminateAfter(42), <-got)
	}
}
