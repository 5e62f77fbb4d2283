package policy

import (
	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
)

// Broadcast sends every note to every connected client.
type Broadcast struct {
	uids []transport.ClientUID
}

func NewBroadcast() *Broadcast {
	return &Broadcast{}
}

func (b *Broadcast) OnClientsChanged(clients []transport.ClientInfo) {
	uids := make([]transport.ClientUID, len(clients))
	for i, c := range clients {
		uids[i] = c.UID
	}
	b.uids = uids
}

func (b *Broadcast) SelectClients(_ midiingest.Note) []transport.ClientUID {
	return b.uids
}
