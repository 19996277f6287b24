package mqtt3

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// Subscription is one topic filter/QoS pair from a SUBSCRIBE payload.
type Subscription struct {
	TopicFilter wire.ByteString
	QoS         wire.QoS
}

// Subscribe is the 3.8 SUBSCRIBE variable header and payload.
type Subscribe struct {
	ID            wire.PacketIdentifier
	Subscriptions []Subscription
}

// DecodeSubscribe reads the packet identifier followed by a
// nonempty list of topic-filter/QoS pairs filling the rest of the
// body.
func DecodeSubscribe(src *buffer.Shared) (Subscribe, error) {
	id, err := src.TryGetPacketIdentifier()
	if err != nil {
		return Subscribe{}, err
	}
	var subs []Subscription
	for !src.IsEmpty() {
		filter, err := wire.DecodeString(src)
		if err != nil {
			return Subscribe{}, err
		}
		qosByte, err := src.TryGetU8()
		if err != nil {
			return Subscribe{}, err
		}
		if qosByte&0xFC != 0 {
			return Subscribe{}, wire.ErrSubscriptionOptionsReservedSet
		}
		qos := wire.QoS(qosByte)
		if !qos.IsValid() {
			return Subscribe{}, wire.ErrUnrecognizedQoS
		}
		subs = append(subs, Subscription{TopicFilter: filter, QoS: qos})
	}
	if len(subs) == 0 {
		return Subscribe{}, wire.ErrNoTopics
	}
	return Subscribe{ID: wire.PacketIdentifier(id), Subscriptions: subs}, nil
}

// Encode writes the packet identifier and every topic-filter/QoS
// pair.
func (s Subscribe) Encode(dst wire.Writer) error {
	if err := dst.TryPutU16BE(uint16(s.ID)); err != nil {
		return err
	}
	for _, sub := range s.Subscriptions {
		if err := wire.EncodeString(dst, sub.TopicFilter); err != nil {
			return err
		}
		if err := dst.TryPutU8(byte(sub.QoS)); err != nil {
			return err
		}
	}
	return nil
}

// SubAck is the 3.9 SUBACK variable header and payload: one return
// code per subscription in the request, in the same order. A code
// with the top bit set (0x80) means the corresponding subscription
// failed.
type SubAck struct {
	ID          wire.PacketIdentifier
	ReturnCodes []byte
}

// DecodeSubAck reads the packet identifier and the remaining bytes as
// one return code per requested subscription.
func DecodeSubAck(src *buffer.Shared) (SubAck, error) {
	id, err := src.TryGetPacketIdentifier()
	if err != nil {
		return SubAck{}, err
	}
	codes := make([]byte, 0, src.Len())
	for !src.IsEmpty() {
		c, err := src.TryGetU8()
		if err != nil {
			return SubAck{}, err
		}
		codes = append(codes, c)
	}
	return SubAck{ID: wire.PacketIdentifier(id), ReturnCodes: codes}, nil
}

// Encode writes the packet identifier and return codes.
func (s SubAck) Encode(dst wire.Writer) error {
	if err := dst.TryPutU16BE(uint16(s.ID)); err != nil {
		return err
	}
	return dst.TryPutSlice(s.ReturnCodes)
}

// Unsubscribe is the 3.10 UNSUBSCRIBE variable header and payload.
type Unsubscribe struct {
	ID           wire.PacketIdentifier
	TopicFilters []wire.ByteString
}

// DecodeUnsubscribe reads the packet identifier followed by a
// nonempty list of topic filters filling the rest of the body.
func DecodeUnsubscribe(src *buffer.Shared) (Unsubscribe, error) {
	id, err := src.TryGetPacketIdentifier()
	if err != nil {
		return Unsubscribe{}, err
	}
	var filters []wire.ByteString
	for !src.IsEmpty() {
		filter, err := wire.DecodeString(src)
		if err != nil {
			return Unsubscribe{}, err
		}
		filters = append(filters, filter)
	}
	if len(filters) == 0 {
		return Unsubscribe{}, wire.ErrNoTopics
	}
	return Unsubscribe{ID: wire.PacketIdentifier(id), TopicFilters: filters}, nil
}

// Encode writes the packet identifier and every topic filter.
func (u Unsubscribe) Encode(dst wire.Writer) error {
	if err := dst.TryPutU16BE(uint16(u.ID)); err != nil {
		return err
	}
	for _, f := range u.TopicFilters {
		if err := wire.EncodeString(dst, f); err != nil {
			return err
		}
	}
	return nil
}
