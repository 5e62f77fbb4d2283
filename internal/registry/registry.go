// Package registry owns the mutex-guarded shared state contended for
// by the accept loop and the play loop: the connected clients, the
// active selection policy, and a progress indicator.
package registry

import (
	"sync"

	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/policy"
	"github.com/sidechain-audio/midi-orchestra/internal/progress"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
	"github.com/sidechain-audio/midi-orchestra/internal/wire"
)

// Registry is the single mutex-guarded record both server threads
// contend for. Its lock is held only for short sections: registry
// mutation plus policy notification on accept, policy query plus
// fan-out of one note, and progress updates. It is never held across a
// blocking network read; the accept handshake recv happens outside the
// lock, and only the subsequent insert takes it.
type Registry struct {
	mu sync.Mutex

	connections []*transport.Connection
	policy      policy.ClientSelectionPolicy
	progress    progress.Indicator
}

// New constructs a Registry bound to the given policy and progress
// indicator, neither of which is swappable afterward.
func New(p policy.ClientSelectionPolicy, pi progress.Indicator) *Registry {
	return &Registry{policy: p, progress: pi}
}

// Register inserts a connection that has ALREADY completed its
// handshake and notifies the policy of the new client snapshot. It is
// the only call site that takes the lock on the accept side.
func (r *Registry) Register(conn *transport.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connections = append(r.connections, conn)
	snapshot := make([]transport.ClientInfo, len(r.connections))
	for i, c := range r.connections {
		snapshot[i] = c.Info
	}
	r.policy.OnClientsChanged(snapshot)
}

// Dispatch sends note to every connection the policy selects for it,
// under the lock. It returns the number of successful sends; the first
// send failure is returned as an error rather than being swallowed,
// since a failed send mid-playback is fatal to the run.
func (r *Registry) Dispatch(note midiingest.Note, packet wire.Packet) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	selected := r.policy.SelectClients(note)
	if len(selected) == 0 {
		return 0, nil
	}
	wanted := make(map[transport.ClientUID]struct{}, len(selected))
	for _, uid := range selected {
		wanted[uid] = struct{}{}
	}

	sent := 0
	for _, conn := range r.connections {
		if _, ok := wanted[conn.Info.UID]; !ok {
			continue
		}
		if err := conn.Send(packet); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// Broadcast sends packet to every registered connection regardless of
// policy, used for the shutdown TerminateAfter fan-out.
// It returns the first error encountered but attempts every connection.
func (r *Registry) Broadcast(packet wire.Packet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, conn := range r.connections {
		if err := conn.Send(packet); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Shutdown flushes and closes every registered connection's socket.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, conn := range r.connections {
		_ = conn.Shutdown()
	}
}

// UpdateProgress reports playback progress under the lock.
func (r *Registry) UpdateProgress(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Update(done, total)
}

// FinishProgress marks the progress indicator complete.
func (r *Registry) FinishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Finish()
}

// ConnectionCount reports the current number of registered clients.
func (r *Registry) ConnectionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.connections)
}
