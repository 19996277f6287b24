package mqtt3

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// Publish is the 3.3 PUBLISH variable header and payload, flattened
// with the fixed-header RETAIN/QoS/DUP bits it was decoded alongside.
type Publish struct {
	TopicName wire.ByteString
	IDAndQoS  wire.PacketIdentifierDupQoS
	Retain    bool
	Payload   *buffer.Shared
}

// DecodePublish reads the topic name, optional packet identifier (per
// QoS) and the remaining bytes of body as the payload.
func DecodePublish(flags byte, src *buffer.Shared) (Publish, error) {
	topicName, err := wire.DecodeString(src)
	if err != nil {
		return Publish{}, err
	}
	idAndQoS, err := wire.DecodePublishQoS(flags, flags&0x08 != 0, src)
	if err != nil {
		return Publish{}, err
	}
	payload, err := src.SplitTo(src.Len())
	if err != nil {
		return Publish{}, err
	}
	return Publish{
		TopicName: topicName,
		IDAndQoS:  idAndQoS,
		Retain:    flags&0x01 != 0,
		Payload:   payload,
	}, nil
}

// Flags returns the PUBLISH fixed-header low nibble this packet
// encodes to.
func (p Publish) Flags() byte {
	f := p.IDAndQoS.Flags()
	if p.Retain {
		f |= 0x01
	}
	return f
}

// Encode writes the topic name, packet identifier (if any) and raw
// payload bytes.
func (p Publish) Encode(dst wire.Writer) error {
	if err := wire.EncodeString(dst, p.TopicName); err != nil {
		return err
	}
	if p.IDAndQoS.QoS != wire.AtMostOnce {
		if err := dst.TryPutU16BE(uint16(p.IDAndQoS.ID)); err != nil {
			return err
		}
	}
	if p.Payload == nil || p.Payload.IsEmpty() {
		return nil
	}
	return dst.TryPutSlice(p.Payload.Bytes())
}
