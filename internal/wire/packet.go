// Package wire implements the binary packet protocol exchanged between
// the scheduler and each client connection.
package wire

// Kind discriminates the three wire messages. The numeric value IS the
// discriminant byte on the wire; it must not be reordered.
type Kind byte

const (
	KindClientInfo     Kind = 0
	KindPlayNote       Kind = 1
	KindTerminateAfter Kind = 2
)

// Packet is a tagged union of the three messages this protocol carries.
// Only the fields relevant to Kind are meaningful.
type Packet struct {
	Kind Kind

	// PlayNote payload.
	DurationNS  uint64
	FrequencyHz float32
	Volume      float32

	// TerminateAfter payload.
	TerminateNS uint64
}

// ClientInfo constructs the handshake packet a client sends immediately
// after connecting.
func ClientInfo() Packet {
	return Packet{Kind: KindClientInfo}
}

// PlayNote constructs a PlayNote packet.
func PlayNote(durationNS uint64, frequencyHz, volume float32) Packet {
	return Packet{Kind: KindPlayNote, DurationNS: durationNS, FrequencyHz: frequencyHz, Volume: volume}
}

// TerminateAfter constructs a TerminateAfter packet.
func TerminateAfter(ns uint64) Packet {
	return Packet{Kind: KindTerminateAfter, TerminateNS: ns}
}

// IsClientOrigin reports whether this packet kind may legitimately be
// sent BY a client (only the handshake). Anything else arriving from a
// client is a protocol violation.
func (p Packet) IsClientOrigin() bool {
	return p.Kind == KindClientInfo
}
