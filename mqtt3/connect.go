// Package mqtt3 implements the MQTT 3.1.1 (protocol level 0x04)
// per-packet decoders and encoders built on the buffer substrate and
// wire primitive codec.
package mqtt3

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// ProtocolLevel is the 3.1.1 value of the CONNECT protocol-level
// byte.
const ProtocolLevel = 0x04

// Publication is a message that can be published to the server but
// has not yet been assigned a packet identifier: the shape of a v3
// CONNECT will message.
type Publication struct {
	TopicName wire.ByteString
	QoS       wire.QoS
	Retain    bool
	Payload   *buffer.Shared
}

// Connect is the 3.1 CONNECT variable header and payload.
type Connect struct {
	ClientID  wire.ClientID
	KeepAlive uint32
	Will      *Publication
	Username  *wire.ByteString
	Password  *wire.ByteString
}

// DecodeConnectRest decodes everything after the shared protocol-name
// and protocol-level prefix (already consumed by the top-level
// dispatcher via wire.DecodeConnectStart).
func DecodeConnectRest(src *buffer.Shared) (Connect, error) {
	flags, err := src.TryGetU8()
	if err != nil {
		return Connect{}, err
	}
	if flags&0x01 != 0 {
		return Connect{}, wire.ErrConnectReservedSet
	}

	keepAlive, err := src.TryGetU16BE()
	if err != nil {
		return Connect{}, err
	}

	clientIDStr, err := wire.DecodeString(src)
	if err != nil {
		return Connect{}, err
	}

	var clientID wire.ClientID
	if clientIDStr.IsEmpty() {
		if flags&0x02 == 0 {
			return Connect{}, wire.ErrConnectZeroLengthIDWithSession
		}
		clientID = wire.ClientID{Kind: wire.ServerGenerated}
	} else if flags&0x02 == 0 {
		clientID = wire.ClientID{Kind: wire.IDWithExistingSession, ID: clientIDStr}
	} else {
		clientID = wire.ClientID{Kind: wire.IDWithCleanSession, ID: clientIDStr}
	}

	var will *Publication
	if flags&0x04 != 0 {
		topicName, err := wire.DecodeString(src)
		if err != nil {
			return Connect{}, err
		}

		var qos wire.QoS
		switch flags & 0x18 {
		case 0x00:
			qos = wire.AtMostOnce
		case 0x08:
			qos = wire.AtLeastOnce
		case 0x10:
			qos = wire.ExactlyOnce
		default:
			return Connect{}, wire.ErrUnrecognizedQoS
		}

		payload, err := wire.DecodeBinary(src)
		if err != nil {
			return Connect{}, err
		}

		will = &Publication{
			TopicName: topicName,
			QoS:       qos,
			Retain:    flags&0x20 != 0,
			Payload:   payload,
		}
	}

	var username *wire.ByteString
	if flags&0x80 != 0 {
		s, err := wire.DecodeString(src)
		if err != nil {
			return Connect{}, err
		}
		username = &s
	}

	var password *wire.ByteString
	if flags&0x40 != 0 {
		s, err := wire.DecodeString(src)
		if err != nil {
			return Connect{}, err
		}
		password = &s
	}

	return Connect{
		ClientID:  clientID,
		KeepAlive: uint32(keepAlive),
		Will:      will,
		Username:  username,
		Password:  password,
	}, nil
}

// Encode writes the full CONNECT body, including the protocol-name
// and protocol-level prefix this version owns outright (v5's CONNECT
// shares the same prefix shape but a different level byte).
func (c Connect) Encode(dst wire.Writer) error {
	if err := wire.EncodeConnectStart(dst, ProtocolLevel); err != nil {
		return err
	}

	var flags byte
	if c.Username != nil {
		flags |= 0x80
	}
	if c.Password != nil {
		flags |= 0x40
	}
	if c.Will != nil {
		flags |= 0x04
		if c.Will.Retain {
			flags |= 0x20
		}
		flags |= byte(c.Will.QoS) << 3
	}
	switch c.ClientID.Kind {
	case wire.ServerGenerated, wire.IDWithCleanSession:
		flags |= 0x02
	}
	if err := dst.TryPutU8(flags); err != nil {
		return err
	}

	if c.KeepAlive > 0xFFFF {
		return wire.ErrKeepAliveTooHigh
	}
	if err := dst.TryPutU16BE(uint16(c.KeepAlive)); err != nil {
		return err
	}

	switch c.ClientID.Kind {
	case wire.ServerGenerated:
		if err := wire.EncodeString(dst, wire.ByteStringOf("")); err != nil {
			return err
		}
	default:
		if err := wire.EncodeString(dst, c.ClientID.ID); err != nil {
			return err
		}
	}

	if c.Will != nil {
		if err := wire.EncodeString(dst, c.Will.TopicName); err != nil {
			return err
		}
		if err := wire.EncodeBinary(dst, c.Will.Payload); err != nil {
			return err
		}
	}

	if c.Username != nil {
		if err := wire.EncodeString(dst, *c.Username); err != nil {
			return err
		}
	}
	if c.Password != nil {
		if err := wire.EncodeString(dst, *c.Password); err != nil {
			return err
		}
	}

	return nil
}
