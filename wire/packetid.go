package wire

import "github.com/axmq/mqttwire/buffer"

// PacketIdentifier is a nonzero 16-bit correlation token between
// request and response for QoS ≥ 1 packet flows.
type PacketIdentifier uint16

// NewPacketIdentifier returns (PacketIdentifier(raw), true), or
// (0, false) if raw is zero (never a valid identifier).
func NewPacketIdentifier(raw uint16) (PacketIdentifier, bool) {
	if raw == 0 {
		return 0, false
	}
	return PacketIdentifier(raw), true
}

// Add returns the identifier advanced by delta, wrapping modulo 2^16
// but skipping zero: 0xFFFF + 1 == 0x0001.
func (p PacketIdentifier) Add(delta uint16) PacketIdentifier {
	v := uint16(p) + delta
	if v == 0 {
		return 1
	}
	return PacketIdentifier(v)
}

// QoS is the three-valued MQTT delivery-assurance level.
type QoS byte

const (
	AtMostOnce  QoS = 0
	AtLeastOnce QoS = 1
	ExactlyOnce QoS = 2
)

// IsValid reports whether q is one of the three defined levels.
func (q QoS) IsValid() bool { return q <= ExactlyOnce }

func (q QoS) String() string {
	switch q {
	case AtMostOnce:
		return "AtMostOnce"
	case AtLeastOnce:
		return "AtLeastOnce"
	case ExactlyOnce:
		return "ExactlyOnce"
	default:
		return "INVALID"
	}
}

// ClientIDKind tags the three ways a CONNECT packet's client
// identifier can arise.
type ClientIDKind byte

const (
	ServerGenerated ClientIDKind = iota
	IDWithCleanSession
	IDWithExistingSession
)

// ClientID is the tagged union of {ServerGenerated,
// IdWithCleanSession(string), IdWithExistingSession(string)}.
type ClientID struct {
	Kind ClientIDKind
	ID   ByteString
}

// PacketIdentifierDupQoS is PUBLISH's combination of QoS, dup flag and
// packet identifier that only allows valid combinations of the three:
// a packet identifier is present iff QoS is AtLeastOnce or
// ExactlyOnce, and Dup is only ever true alongside one of those two
// (DUP=1 with QoS 0 is rejected during decode before this value is
// constructed).
type PacketIdentifierDupQoS struct {
	QoS QoS
	ID  PacketIdentifier
	Dup bool
}

// DecodePublishQoS reads the QoS/packet-identifier portion of a
// PUBLISH packet's flags and variable header, shared between the v3
// and v5 decoders.
func DecodePublishQoS(flags byte, dup bool, src *buffer.Shared) (PacketIdentifierDupQoS, error) {
	switch (flags & 0x06) >> 1 {
	case 0x00:
		if dup {
			return PacketIdentifierDupQoS{}, ErrPublishDupAtMostOnce
		}
		return PacketIdentifierDupQoS{QoS: AtMostOnce}, nil
	case 0x01:
		id, err := src.TryGetPacketIdentifier()
		if err != nil {
			return PacketIdentifierDupQoS{}, err
		}
		return PacketIdentifierDupQoS{QoS: AtLeastOnce, ID: PacketIdentifier(id), Dup: dup}, nil
	case 0x02:
		id, err := src.TryGetPacketIdentifier()
		if err != nil {
			return PacketIdentifierDupQoS{}, err
		}
		return PacketIdentifierDupQoS{QoS: ExactlyOnce, ID: PacketIdentifier(id), Dup: dup}, nil
	default:
		return PacketIdentifierDupQoS{}, ErrUnrecognizedQoS
	}
}

// Flags returns the PUBLISH fixed-header low nibble (DUP/QoS bits;
// RETAIN is the caller's responsibility since it isn't part of this
// value) this combination encodes to.
func (p PacketIdentifierDupQoS) Flags() byte {
	var f byte
	switch p.QoS {
	case AtLeastOnce:
		f = 0x02
	case ExactlyOnce:
		f = 0x04
	}
	if p.Dup {
		f |= 0x08
	}
	return f
}
