package policy

import (
	"sort"

	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
)

// frequencyRange is a contiguous band of MIDI note numbers assigned to
// one client.
type frequencyRange struct {
	low, high uint8
	uid       transport.ClientUID
}

func (r frequencyRange) covers(note uint8) bool {
	return note >= r.low && note <= r.high
}

// ByFrequency partitions the keyboard into contiguous note-number
// ranges sized by how often each note actually sounds, so that
// busier neighborhoods of the keyboard get narrower ranges.
type ByFrequency struct {
	spread     int
	histogram  map[uint8]uint64
	noteOrder  []uint8
	totalNotes uint64

	ranges []frequencyRange
}

// NewByFrequency builds the note-number histogram from every PlayNote
// event up front; OnClientsChanged partitions it once the client count
// is known.
func NewByFrequency(events []midiingest.MusicalEvent, spread int) *ByFrequency {
	if spread < 1 {
		spread = 1
	}
	histogram := make(map[uint8]uint64)
	var total uint64
	for _, e := range events {
		if e.Kind != midiingest.EventPlayNote {
			continue
		}
		histogram[e.Note.Note]++
		total++
	}
	noteOrder := make([]uint8, 0, len(histogram))
	for n := range histogram {
		noteOrder = append(noteOrder, n)
	}
	sort.Slice(noteOrder, func(i, j int) bool { return noteOrder[i] < noteOrder[j] })

	return &ByFrequency{
		spread:     spread,
		histogram:  histogram,
		noteOrder:  noteOrder,
		totalNotes: total,
	}
}

func (b *ByFrequency) OnClientsChanged(clients []transport.ClientInfo) {
	if len(clients) == 0 {
		b.ranges = nil
		return
	}

	idealPerClient := int(b.totalNotes) / len(clients) / b.spread

	var ranges []frequencyRange
	var current *frequencyRange
	assignedCount := 0
	nextIndex := 0

	startNewRange := func(note uint8, count uint64) {
		if current != nil {
			ranges = append(ranges, *current)
		}
		uid := clients[nextIndex%len(clients)].UID
		nextIndex++
		current = &frequencyRange{low: note, high: note, uid: uid}
		assignedCount = int(count)
	}

	for _, note := range b.noteOrder {
		count := b.histogram[note]
		switch {
		case current == nil:
			startNewRange(note, count)
		case idealPerClient <= 0:
			// ideal rounds to zero on very short pieces; start a new
			// range on every note rather than never closing one.
			startNewRange(note, count)
		case assignedCount >= idealPerClient:
			startNewRange(note, count)
		default:
			current.high = note
			assignedCount += int(count)
		}
	}
	if current != nil {
		ranges = append(ranges, *current)
	}

	b.ranges = ranges
}

func (b *ByFrequency) SelectClients(note midiingest.Note) []transport.ClientUID {
	var uids []transport.ClientUID
	for _, r := range b.ranges {
		if r.covers(note.Note) {
			uids = append(uids, r.uid)
		}
	}
	return uids
}
