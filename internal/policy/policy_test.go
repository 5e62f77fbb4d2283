package policy

import (
	"testing"

	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientsOf(uids ...transport.ClientUID) []transport.ClientInfo {
	out := make([]transport.ClientInfo, len(uids))
	for i, u := range uids {
		out[i] = transport.ClientInfo{UID: u}
	}
	return out
}

func noteOn(track uint, channel, note uint8) midiingest.MusicalEvent {
	return midiingest.MusicalEvent{
		Kind: midiingest.EventPlayNote,
		Note: midiingest.Note{Track: track, Channel: channel, Note: note, Velocity: 100},
	}
}

func TestParseSpec(t *testing.T) {
	cases := []struct {
		name   string
		ok     bool
		spread int
	}{
		{"broadcast", true, 1},
		{"by-track", true, 1},
		{"by-channel", true, 1},
		{"by-freq", true, 1},
		{"by-freq-spreadX2", true, 2},
		{"by-freq-spreadX10", true, 10},
		{"nonsense", false, 0},
		{"by-freq-spreadX0", false, 0},
	}
	for _, c := range cases {
		spec, ok := ParseSpec(c.name)
		assert.Equal(t, c.ok, ok, c.name)
		if c.ok {
			assert.Equal(t, c.spread, spec.Spread, c.name)
		}
	}
}

// Broadcast with 3 clients dispatches every note to all 3.
func TestBroadcastDispatchesToAllClients(t *testing.T) {
	b := NewBroadcast()
	b.OnClientsChanged(clientsOf(1, 2, 3))
	uids := b.SelectClients(midiingest.Note{Note: 60})
	assert.ElementsMatch(t, []transport.ClientUID{1, 2, 3}, uids)
}

func TestBroadcastEmptyBeforeAnyClients(t *testing.T) {
	b := NewBroadcast()
	assert.Empty(t, b.SelectClients(midiingest.Note{Note: 60}))
}

// By-channel with channels {1,3,5} and 2 clients: 1->c0, 3->c1, 5->c0;
// channel 4 (never seen) dispatches to nobody.
func TestByChannelDeterministicAssignment(t *testing.T) {
	events := []midiingest.MusicalEvent{
		noteOn(0, 1, 60),
		noteOn(0, 3, 62),
		noteOn(0, 5, 64),
	}
	p := NewByChannel(events)
	p.OnClientsChanged(clientsOf(100, 200))

	assert.Equal(t, []transport.ClientUID{100}, p.SelectClients(midiingest.Note{Channel: 1}))
	assert.Equal(t, []transport.ClientUID{200}, p.SelectClients(midiingest.Note{Channel: 3}))
	assert.Equal(t, []transport.ClientUID{100}, p.SelectClients(midiingest.Note{Channel: 5}))
	assert.Empty(t, p.SelectClients(midiingest.Note{Channel: 4}))
}

func TestByTrackDeterministicAssignment(t *testing.T) {
	events := []midiingest.MusicalEvent{
		noteOn(0, 1, 60),
		noteOn(1, 1, 62),
	}
	p := NewByTrack(events)
	p.OnClientsChanged(clientsOf(100, 200))

	assert.Equal(t, []transport.ClientUID{100}, p.SelectClients(midiingest.Note{Track: 0}))
	assert.Equal(t, []transport.ClientUID{200}, p.SelectClients(midiingest.Note{Track: 1}))
}

// The per-client note count assigned by ByFrequency never
// exceeds ceil(N/K) + the largest single note-number's count.
func TestByFrequencyRespectsPerClientBound(t *testing.T) {
	events := []midiingest.MusicalEvent{}
	histogram := map[uint8]uint64{60: 4, 62: 4, 64: 2}
	for note, count := range histogram {
		for i := uint64(0); i < count; i++ {
			events = append(events, noteOn(0, 1, note))
		}
	}

	p := NewByFrequency(events, 1)
	p.OnClientsChanged(clientsOf(0, 1))

	counts := make(map[transport.ClientUID]uint64)
	for note, count := range histogram {
		for _, uid := range p.SelectClients(midiingest.Note{Note: note}) {
			counts[uid] += count
		}
	}

	var total uint64
	var maxSingle uint64
	for _, c := range histogram {
		total += c
		if c > maxSingle {
			maxSingle = c
		}
	}
	bound := (total+1)/2 + maxSingle // ceil(N/2) + max_single_note_count

	for uid, c := range counts {
		assert.LessOrEqualf(t, c, bound, "client %d exceeded bound", uid)
	}
}

func TestByFrequencySelectOutsideAnyRangeIsEmpty(t *testing.T) {
	events := []midiingest.MusicalEvent{noteOn(0, 1, 60)}
	p := NewByFrequency(events, 1)
	p.OnClientsChanged(clientsOf(0))
	assert.Empty(t, p.SelectClients(midiingest.Note{Note: 71}))
}

func TestByFrequencyZeroIdealStartsNewRangeEveryNote(t *testing.T) {
	events := []midiingest.MusicalEvent{noteOn(0, 1, 60), noteOn(0, 1, 61)}
	// spread large enough to force ideal_per_client to round to zero.
	p := NewByFrequency(events, 100)
	p.OnClientsChanged(clientsOf(0, 1))

	require.Len(t, p.ranges, 2)
	assert.NotEqual(t, p.ranges[0].uid, p.ranges[1].uid)
}
