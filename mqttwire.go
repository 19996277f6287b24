// Package mqttwire implements a zero-copy MQTT 3.1.1 and MQTT 5.0
// wire codec: it turns a byte stream into control packets and back,
// without opening sockets, managing sessions, or matching topics.
// Everything above the wire format — transport, retry, persistence —
// is the embedder's job.
package mqttwire

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/mqtt3"
	"github.com/axmq/mqttwire/mqtt5"
	"github.com/axmq/mqttwire/wire"
)

// ProtocolVersion distinguishes the two wire formats this package
// speaks; everything after a connection's first packet must be
// decoded against the version that packet negotiated; this package
// holds no session state of its own to remember it for the caller.
type ProtocolVersion byte

const (
	V311 ProtocolVersion = 0x04
	V5   ProtocolVersion = 0x05
)

// Packet is the sum type of every packet either version's decoder can
// produce, tagged by which half is populated.
type Packet struct {
	V3 *mqtt3.Packet
	V5 *mqtt5.Packet
}

// Encode writes p's wire representation to dst.
func (p Packet) Encode(dst wire.Writer) error {
	if p.V3 != nil {
		return p.V3.Encode(dst)
	}
	return p.V5.Encode(dst)
}

// splitFrame reads a fixed header from src and, if a complete frame
// is present, splits off exactly the body bytes it names. ok is false
// when src doesn't yet hold a complete frame — a transport-level
// "read more" signal, not an error.
func splitFrame(src *buffer.Shared) (header wire.FixedHeader, body *buffer.Shared, ok bool, err error) {
	header, ok, err = wire.DecodeFixedHeader(src)
	if err != nil || !ok {
		return wire.FixedHeader{}, nil, false, err
	}
	if src.Len() < int(header.RemainingLength) {
		return wire.FixedHeader{}, nil, false, nil
	}
	body, err = src.SplitTo(int(header.RemainingLength))
	if err != nil {
		return wire.FixedHeader{}, nil, false, err
	}
	return header, body, true, nil
}

const connectPacketType = 0x01

// DecodeConnect reads a connection's first packet, which MQTT
// requires to be CONNECT, and returns both the decoded packet and the
// protocol version it negotiated; every later packet on the same
// connection must be decoded with Decode using that version.
//
// ok is false when src doesn't yet hold a complete CONNECT frame.
func DecodeConnect(src *buffer.Shared) (pkt *Packet, version ProtocolVersion, ok bool, err error) {
	header, body, ok, err := splitFrame(src)
	if err != nil || !ok {
		return nil, 0, ok, err
	}
	defer body.Close()

	if header.PacketType() != connectPacketType {
		return nil, 0, true, wire.ErrUnrecognizedPacket
	}

	start, err := wire.DecodeConnectStart(body)
	if err != nil {
		return nil, 0, true, err
	}

	switch start.ProtocolLevel {
	case byte(V311):
		p, err := mqtt3.Decode(header, body)
		if err != nil {
			return nil, 0, true, err
		}
		return &Packet{V3: &p}, V311, true, nil
	case byte(V5):
		p, err := mqtt5.Decode(header, body)
		if err != nil {
			return nil, 0, true, err
		}
		return &Packet{V5: &p}, V5, true, nil
	default:
		return nil, 0, true, wire.ErrUnrecognizedProtocolVersion
	}
}

// Decode reads one complete control packet of the given, already
// negotiated, version from the front of src. ok is false when src
// doesn't yet hold a complete frame.
func Decode(version ProtocolVersion, src *buffer.Shared) (pkt *Packet, ok bool, err error) {
	header, body, ok, err := splitFrame(src)
	if err != nil || !ok {
		return nil, ok, err
	}
	defer body.Close()

	switch version {
	case V311:
		p, err := mqtt3.Decode(header, body)
		if err != nil {
			return nil, true, err
		}
		return &Packet{V3: &p}, true, nil
	case V5:
		p, err := mqtt5.Decode(header, body)
		if err != nil {
			return nil, true, err
		}
		return &Packet{V5: &p}, true, nil
	default:
		return nil, true, wire.ErrUnrecognizedProtocolVersion
	}
}
