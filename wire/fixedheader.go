package wire

import (
	"github.com/cockroachdb/errors"

	"github.com/axmq/mqttwire/buffer"
)

// FixedHeader is the one-byte packet type/flags octet plus the
// decoded remaining length that follows it.
type FixedHeader struct {
	FirstByte       byte
	RemainingLength uint32
}

// PacketType returns the high nibble of the first byte.
func (h FixedHeader) PacketType() byte { return h.FirstByte >> 4 }

// Flags returns the low nibble of the first byte.
func (h FixedHeader) Flags() byte { return h.FirstByte & 0x0F }

// DecodeFixedHeader reads the fixed header from the front of src: the
// packet type/flags byte followed by the variable-length remaining
// length. It does not validate the type/flags combination — that is
// the dispatcher's job once it knows the protocol version.
//
// The returned bool is false only when src ran out mid-header (a
// streaming "need more input" signal, not an error); callers waiting
// on more bytes from a transport should treat that case as "try
// again once more data has arrived" rather than as corruption. A
// RemainingLengthTooHigh varint is a hard error either way.
func DecodeFixedHeader(src *buffer.Shared) (FixedHeader, bool, error) {
	firstByte, err := src.TryGetU8()
	if errors.Is(err, ErrIncompletePacket) {
		return FixedHeader{}, false, nil
	}
	if err != nil {
		return FixedHeader{}, false, err
	}
	remaining, err := DecodeRemainingLength(src)
	if errors.Is(err, ErrIncompletePacket) {
		return FixedHeader{}, false, nil
	}
	if err != nil {
		return FixedHeader{}, false, err
	}
	return FixedHeader{FirstByte: firstByte, RemainingLength: remaining}, true, nil
}

// EncodeFixedHeader writes packetType/flags and the remaining length
// of a body whose size has already been determined (typically via a
// prior ByteCounter pass).
func EncodeFixedHeader(dst Writer, packetType, flags byte, remainingLength uint32) error {
	if err := dst.TryPutU8(packetType<<4 | flags); err != nil {
		return err
	}
	return EncodeRemainingLength(dst, remainingLength)
}

// ConnectStart is the protocol-identity prefix shared by every
// CONNECT variable header, consumed exactly once by the top-level
// dispatcher before handing the remainder of the body to a
// version-specific decoder.
type ConnectStart struct {
	ProtocolLevel byte
}

const protocolNameMQTT = "MQTT"

// DecodeConnectStart reads the protocol name and level from the front
// of a CONNECT packet's variable header. Any protocol name other than
// "MQTT" is ErrUnrecognizedProtocolName; any level other than 0x04
// (3.1.1) or 0x05 (5.0) is ErrUnrecognizedProtocolVersion.
func DecodeConnectStart(src *buffer.Shared) (ConnectStart, error) {
	name, err := DecodeString(src)
	if err != nil {
		return ConnectStart{}, err
	}
	if name.String() != protocolNameMQTT {
		return ConnectStart{}, ErrUnrecognizedProtocolName
	}
	level, err := src.TryGetU8()
	if err != nil {
		return ConnectStart{}, err
	}
	if level != 0x04 && level != 0x05 {
		return ConnectStart{}, ErrUnrecognizedProtocolVersion
	}
	return ConnectStart{ProtocolLevel: level}, nil
}

// EncodeConnectStart writes the protocol name and level.
func EncodeConnectStart(dst Writer, level byte) error {
	if err := EncodeString(dst, ByteStringOf(protocolNameMQTT)); err != nil {
		return err
	}
	return dst.TryPutU8(level)
}
