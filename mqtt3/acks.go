package mqtt3

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// PacketIDOnly is the shape shared by PUBACK, PUBREC, PUBREL, PUBCOMP
// and UNSUBACK: a variable header that is nothing but a packet
// identifier.
type PacketIDOnly struct {
	ID wire.PacketIdentifier
}

func decodePacketIDOnly(src *buffer.Shared) (PacketIDOnly, error) {
	id, err := src.TryGetPacketIdentifier()
	if err != nil {
		return PacketIDOnly{}, err
	}
	return PacketIDOnly{ID: wire.PacketIdentifier(id)}, nil
}

// Encode writes the packet identifier.
func (p PacketIDOnly) Encode(dst wire.Writer) error {
	return dst.TryPutU16BE(uint16(p.ID))
}

// PubAck is the 3.4 PUBACK variable header.
type PubAck struct{ PacketIDOnly }

// DecodePubAck reads the packet identifier.
func DecodePubAck(src *buffer.Shared) (PubAck, error) {
	p, err := decodePacketIDOnly(src)
	return PubAck{p}, err
}

// PubRec is the 3.5 PUBREC variable header.
type PubRec struct{ PacketIDOnly }

// DecodePubRec reads the packet identifier.
func DecodePubRec(src *buffer.Shared) (PubRec, error) {
	p, err := decodePacketIDOnly(src)
	return PubRec{p}, err
}

// PubRel is the 3.6 PUBREL variable header. Its fixed-header flags
// are fixed at 0x02 and are validated by the dispatcher, not here.
type PubRel struct{ PacketIDOnly }

// DecodePubRel reads the packet identifier.
func DecodePubRel(src *buffer.Shared) (PubRel, error) {
	p, err := decodePacketIDOnly(src)
	return PubRel{p}, err
}

// PubComp is the 3.7 PUBCOMP variable header.
type PubComp struct{ PacketIDOnly }

// DecodePubComp reads the packet identifier.
func DecodePubComp(src *buffer.Shared) (PubComp, error) {
	p, err := decodePacketIDOnly(src)
	return PubComp{p}, err
}

// UnsubAck is the 3.11 UNSUBACK variable header.
type UnsubAck struct{ PacketIDOnly }

// DecodeUnsubAck reads the packet identifier.
func DecodeUnsubAck(src *buffer.Shared) (UnsubAck, error) {
	p, err := decodePacketIDOnly(src)
	return UnsubAck{p}, err
}
