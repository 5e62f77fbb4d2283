// Package policy implements the pluggable client-selection strategies
// that map each played note to zero or more client endpoints.
package policy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sidechain-audio/midi-orchestra/internal/midiingest"
	"github.com/sidechain-audio/midi-orchestra/internal/transport"
)

// ClientSelectionPolicy maps notes to the clients that should play them.
// Implementations are notified whenever the connected-client set grows
// and are queried once per PlayNote event.
type ClientSelectionPolicy interface {
	// OnClientsChanged is called with a snapshot of all currently
	// registered clients whenever the registry grows.
	OnClientsChanged(clients []transport.ClientInfo)
	// SelectClients returns the UIDs that should receive this note. May
	// return nil/empty.
	SelectClients(note midiingest.Note) []transport.ClientUID
}

// Spec names a policy and, for the frequency-histogram policy, its
// spread factor.
type Spec struct {
	Name   string
	Spread int
}

// ParseSpec recognizes the policy names accepted by the --policy flag:
// "broadcast", "by-track", "by-channel", "by-freq", and
// "by-freq-spreadX<N>" (N >= 1).
func ParseSpec(name string) (Spec, bool) {
	switch name {
	case "broadcast", "by-track", "by-channel":
		return Spec{Name: name, Spread: 1}, true
	case "by-freq":
		return Spec{Name: "by-freq", Spread: 1}, true
	}

	const prefix = "by-freq-spread"
	if !strings.HasPrefix(name, prefix) {
		return Spec{}, false
	}
	rest := strings.TrimPrefix(name[len(prefix):], "X")
	rest = strings.TrimPrefix(rest, "x")
	spread, err := strconv.Atoi(rest)
	if err != nil || spread < 1 {
		return Spec{}, false
	}
	return Spec{Name: "by-freq", Spread: spread}, true
}

// New constructs the policy named by spec, initializing any state that
// depends on the full event stream (e.g. the frequency histogram).
func New(spec Spec, events []midiingest.MusicalEvent) (ClientSelectionPolicy, error) {
	switch spec.Name {
	case "broadcast":
		return NewBroadcast(), nil
	case "by-track":
		return NewByTrack(events), nil
	case "by-channel":
		return NewByChannel(events), nil
	case "by-freq":
		return NewByFrequency(events, spec.Spread), nil
	default:
		return nil, fmt.Errorf("policy: unknown policy %q", spec.Name)
	}
}
