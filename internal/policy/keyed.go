package policy

import (
	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
)

// keyedPolicy implements ByTrack and ByChannel, which differ only in
// which field of a Note they key on.
type keyedPolicy[K comparable] struct {
	keyOf func(midiingest.Note) K

	keysInDiscoveryOrder []K
	assignment           map[K]transport.ClientUID
}

func newKeyedPolicy[K comparable](events []midiingest.MusicalEvent, keyOf func(midiingest.Note) K) *keyedPolicy[K] {
	seen := make(map[K]struct{})
	var order []K
	for _, e := range events {
		if e.Kind != midiingest.EventPlayNote {
			continue
		}
		k := keyOf(e.Note)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			order = append(order, k)
		}
	}
	return &keyedPolicy[K]{
		keyOf:                keyOf,
		keysInDiscoveryOrder: order,
		assignment:           make(map[K]transport.ClientUID),
	}
}

func (p *keyedPolicy[K]) OnClientsChanged(clients []transport.ClientInfo) {
	if len(clients) == 0 {
		p.assignment = make(map[K]transport.ClientUID)
		return
	}
	assignment := make(map[K]transport.ClientUID, len(p.keysInDiscoveryOrder))
	for i, k := range p.keysInDiscoveryOrder {
		assignment[k] = clients[i%len(clients)].UID
	}
	p.assignment = assignment
}

func (p *keyedPolicy[K]) SelectClients(note midiingest.Note) []transport.ClientUID {
	uid, ok := p.assignment[p.keyOf(note)]
	if !ok {
		return nil
	}
	return []transport.ClientUID{uid}
}

// ByTrack assigns each discovered track deterministically to
// clients[index mod |clients|].
type ByTrack struct {
	*keyedPolicy[uint]
}

func NewByTrack(events []midiingest.MusicalEvent) *ByTrack {
	return &ByTrack{keyedPolicy: newKeyedPolicy(events, func(n midiingest.Note) uint { return n.Track })}
}

// ByChannel is identical to ByTrack but keyed on channel.
type ByChannel struct {
	*keyedPolicy[uint8]
}

func NewByChannel(events []midiingest.MusicalEvent) *ByChannel {
	return &ByChannel{keyedPolicy: newKeyedPolicy(events, func(n midiingest.Note) uint8 { return n.Channel })}
}
