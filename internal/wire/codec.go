package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encode writes p to w as a discriminant byte followed by the kind's
// payload fields in declaration order, fixed-width little-endian.
func Encode(w io.Writer, p Packet) error {
	if _, err := w.Write([]byte{byte(p.Kind)}); err != nil {
		return fmt.Errorf("write discriminant: %w", err)
	}

	switch p.Kind {
	case KindClientInfo:
		return nil
	case KindPlayNote:
		if err := writeUint64(w, p.DurationNS); err != nil {
			return err
		}
		if err := writeFloat32(w, p.FrequencyHz); err != nil {
			return err
		}
		return writeFloat32(w, p.Volume)
	case KindTerminateAfter:
		return writeUint64(w, p.TerminateNS)
	default:
		return fmt.Errorf("wire: unknown packet kind %d", p.Kind)
	}
}

// Decode reads one Packet from r, blocking until a full packet has
// arrived or the stream errors out.
func Decode(r io.Reader) (Packet, error) {
	var discriminant [1]byte
	if _, err := io.ReadFull(r, discriminant[:]); err != nil {
		return Packet{}, err
	}

	kind := Kind(discriminant[0])
	switch kind {
	case KindClientInfo:
		return ClientInfo(), nil
	case KindPlayNote:
		durationNS, err := readUint64(r)
		if err != nil {
			return Packet{}, err
		}
		freq, err := readFloat32(r)
		if err != nil {
			return Packet{}, err
		}
		vol, err := readFloat32(r)
		if err != nil {
			return Packet{}, err
		}
		return PlayNote(durationNS, freq, vol), nil
	case KindTerminateAfter:
		ns, err := readUint64(r)
		if err != nil {
			return Packet{}, err
		}
		return TerminateAfter(ns), nil
	default:
		return Packet{}, fmt.Errorf("wire: unknown discriminant byte %d", discriminant[0])
	}
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func writeFloat32(w io.Writer, v float32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	_, err := w.Write(buf[:])
	return err
}

func readFloat32(r io.Reader) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}
