package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// RetainHandling is the 3.8.3.1 subscription-options retain-handling
// field.
type RetainHandling byte

const (
	RetainSend                                         RetainHandling = 0x00
	RetainSendOnlyIfSubscriptionDoesNotCurrentlyExist  RetainHandling = 0x01
	RetainDoNotSend                                    RetainHandling = 0x02
)

// IsValid reports whether r is one of the three defined retain-
// handling behaviors; 3 is reserved.
func (r RetainHandling) IsValid() bool { return r <= RetainDoNotSend }

// SubscribeTo is one subscription request within a SUBSCRIBE payload.
type SubscribeTo struct {
	TopicFilter       wire.ByteString
	MaximumQoS        wire.QoS
	NoLocal           bool
	RetainAsPublished bool
	RetainHandling    RetainHandling
}

var subscribePropertyBindings = []Binding{
	{ID: SubscriptionIdentifier, Arity: ArityOptional},
	{ID: UserProperty, Arity: ArityList},
}

// Subscribe is the 3.8 SUBSCRIBE variable header and payload.
type Subscribe struct {
	ID                     wire.PacketIdentifier
	SubscriptionIdentifier uint32
	HasSubscriptionID      bool
	UserProperties         []StringPair
	SubscribeTo            []SubscribeTo
}

// DecodeSubscribe reads the packet identifier, property section, and
// the nonempty list of topic-filter/options pairs filling the rest of
// the body.
func DecodeSubscribe(src *buffer.Shared) (Subscribe, error) {
	id, err := src.TryGetPacketIdentifier()
	if err != nil {
		return Subscribe{}, err
	}
	props, err := DecodeProperties(src)
	if err != nil {
		return Subscribe{}, err
	}
	if err := Validate(props, subscribePropertyBindings); err != nil {
		return Subscribe{}, err
	}

	out := Subscribe{ID: wire.PacketIdentifier(id)}
	if p := props.Get(SubscriptionIdentifier); p != nil {
		out.SubscriptionIdentifier = p.Value.(uint32)
		out.HasSubscriptionID = true
	}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}

	for !src.IsEmpty() {
		filter, err := wire.DecodeString(src)
		if err != nil {
			return Subscribe{}, err
		}
		options, err := src.TryGetU8()
		if err != nil {
			return Subscribe{}, err
		}
		if options&0xC0 != 0 {
			return Subscribe{}, wire.ErrSubscriptionOptionsReservedSet
		}
		qos := wire.QoS(options & 0x03)
		if !qos.IsValid() {
			return Subscribe{}, wire.ErrUnrecognizedQoS
		}
		retainHandling := RetainHandling((options & 0x30) >> 4)
		if !retainHandling.IsValid() {
			return Subscribe{}, wire.ErrUnrecognizedRetainHandling
		}
		out.SubscribeTo = append(out.SubscribeTo, SubscribeTo{
			TopicFilter:       filter,
			MaximumQoS:        qos,
			NoLocal:           options&0x04 != 0,
			RetainAsPublished: options&0x08 != 0,
			RetainHandling:    retainHandling,
		})
	}
	if len(out.SubscribeTo) == 0 {
		return Subscribe{}, wire.ErrNoTopics
	}
	return out, nil
}

// Encode writes the packet identifier, property section and every
// topic-filter/options pair.
func (s Subscribe) Encode(dst wire.Writer) error {
	if err := dst.TryPutU16BE(uint16(s.ID)); err != nil {
		return err
	}
	props := &Properties{}
	if s.HasSubscriptionID {
		props.Add(SubscriptionIdentifier, s.SubscriptionIdentifier)
	}
	for _, up := range s.UserProperties {
		props.Add(UserProperty, up)
	}
	if err := props.Encode(dst); err != nil {
		return err
	}
	for _, sub := range s.SubscribeTo {
		if err := wire.EncodeString(dst, sub.TopicFilter); err != nil {
			return err
		}
		options := byte(sub.MaximumQoS)
		if sub.NoLocal {
			options |= 0x04
		}
		if sub.RetainAsPublished {
			options |= 0x08
		}
		options |= byte(sub.RetainHandling) << 4
		if err := dst.TryPutU8(options); err != nil {
			return err
		}
	}
	return nil
}

// SubscribeReasonCode is the 3.9.3 SUBACK payload reason code.
type SubscribeReasonCode byte

const (
	SubscribeGrantedQoS0                          SubscribeReasonCode = 0x00
	SubscribeGrantedQoS1                          SubscribeReasonCode = 0x01
	SubscribeGrantedQoS2                          SubscribeReasonCode = 0x02
	SubscribeUnspecifiedError                     SubscribeReasonCode = 0x80
	SubscribeImplementationSpecificError          SubscribeReasonCode = 0x83
	SubscribeNotAuthorized                        SubscribeReasonCode = 0x87
	SubscribeTopicFilterInvalid                   SubscribeReasonCode = 0x8F
	SubscribePacketIdentifierInUse                SubscribeReasonCode = 0x91
	SubscribeQuotaExceeded                        SubscribeReasonCode = 0x97
	SubscribeSharedSubscriptionsNotSupported       SubscribeReasonCode = 0x9E
	SubscribeSubscriptionIdentifiersNotSupported   SubscribeReasonCode = 0xA1
	SubscribeWildcardSubscriptionsNotSupported     SubscribeReasonCode = 0xA2
)

// SubAck is the 3.9 SUBACK variable header and payload.
type SubAck struct {
	ID             wire.PacketIdentifier
	ReasonString   wire.ByteString
	UserProperties []StringPair
	ReasonCodes    []SubscribeReasonCode
}

// DecodeSubAck reads the packet identifier, property section, and one
// reason code per requested subscription.
func DecodeSubAck(src *buffer.Shared) (SubAck, error) {
	id, err := src.TryGetPacketIdentifier()
	if err != nil {
		return SubAck{}, err
	}
	props, err := DecodeProperties(src)
	if err != nil {
		return SubAck{}, err
	}
	if err := Validate(props, ackPropertyBindings); err != nil {
		return SubAck{}, err
	}

	out := SubAck{ID: wire.PacketIdentifier(id)}
	if p := props.Get(ReasonString); p != nil {
		out.ReasonString = p.Value.(wire.ByteString)
	}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}

	for !src.IsEmpty() {
		c, err := src.TryGetU8()
		if err != nil {
			return SubAck{}, err
		}
		out.ReasonCodes = append(out.ReasonCodes, SubscribeReasonCode(c))
	}
	if len(out.ReasonCodes) == 0 {
		return SubAck{}, wire.ErrNoTopics
	}
	return out, nil
}

// Encode writes the packet identifier, property section and reason
// codes.
func (s SubAck) Encode(dst wire.Writer) error {
	if err := dst.TryPutU16BE(uint16(s.ID)); err != nil {
		return err
	}
	props := &Properties{}
	if !s.ReasonString.IsEmpty() {
		props.Add(ReasonString, s.ReasonString)
	}
	for _, up := range s.UserProperties {
		props.Add(UserProperty, up)
	}
	if err := props.Encode(dst); err != nil {
		return err
	}
	for _, c := range s.ReasonCodes {
		if err := dst.TryPutU8(byte(c)); err != nil {
			return err
		}
	}
	return nil
}

var unsubscribePropertyBindings = []Binding{
	{ID: UserProperty, Arity: ArityList},
}

// Unsubscribe is the 3.10 UNSUBSCRIBE variable header and payload.
type Unsubscribe struct {
	ID             wire.PacketIdentifier
	UserProperties []StringPair
	TopicFilters   []wire.ByteString
}

// DecodeUnsubscribe reads the packet identifier, property section,
// and the nonempty list of topic filters filling the rest of the
// body.
func DecodeUnsubscribe(src *buffer.Shared) (Unsubscribe, error) {
	id, err := src.TryGetPacketIdentifier()
	if err != nil {
		return Unsubscribe{}, err
	}
	props, err := DecodeProperties(src)
	if err != nil {
		return Unsubscribe{}, err
	}
	if err := Validate(props, unsubscribePropertyBindings); err != nil {
		return Unsubscribe{}, err
	}

	out := Unsubscribe{ID: wire.PacketIdentifier(id)}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}
	for !src.IsEmpty() {
		filter, err := wire.DecodeString(src)
		if err != nil {
			return Unsubscribe{}, err
		}
		out.TopicFilters = append(out.TopicFilters, filter)
	}
	if len(out.TopicFilters) == 0 {
		return Unsubscribe{}, wire.ErrNoTopics
	}
	return out, nil
}

// Encode writes the packet identifier, property section and every
// topic filter.
func (u Unsubscribe) Encode(dst wire.Writer) error {
	if err := dst.TryPutU16BE(uint16(u.ID)); err != nil {
		return err
	}
	props := &Properties{}
	for _, up := range u.UserProperties {
		props.Add(UserProperty, up)
	}
	if err := props.Encode(dst); err != nil {
		return err
	}
	for _, f := range u.TopicFilters {
		if err := wire.EncodeString(dst, f); err != nil {
			return err
		}
	}
	return nil
}

// UnsubscribeReasonCode is the 3.11.3 UNSUBACK payload reason code.
type UnsubscribeReasonCode byte

const (
	UnsubscribeSuccess                     UnsubscribeReasonCode = 0x00
	UnsubscribeNoSubscriptionExisted       UnsubscribeReasonCode = 0x01
	UnsubscribeUnspecifiedError            UnsubscribeReasonCode = 0x80
	UnsubscribeImplementationSpecificError UnsubscribeReasonCode = 0x83
	UnsubscribeNotAuthorized               UnsubscribeReasonCode = 0x87
	UnsubscribeTopicFilterInvalid          UnsubscribeReasonCode = 0x8F
	UnsubscribePacketIdentifierInUse       UnsubscribeReasonCode = 0x91
)

// UnsubAck is the 3.11 UNSUBACK variable header and payload.
type UnsubAck struct {
	ID             wire.PacketIdentifier
	ReasonString   wire.ByteString
	UserProperties []StringPair
	ReasonCodes    []UnsubscribeReasonCode
}

// DecodeUnsubAck reads the packet identifier, property section, and
// one reason code per requested unsubscription.
func DecodeUnsubAck(src *buffer.Shared) (UnsubAck, error) {
	id, err := src.TryGetPacketIdentifier()
	if err != nil {
		return UnsubAck{}, err
	}
	props, err := DecodeProperties(src)
	if err != nil {
		return UnsubAck{}, err
	}
	if err := Validate(props, ackPropertyBindings); err != nil {
		return UnsubAck{}, err
	}

	out := UnsubAck{ID: wire.PacketIdentifier(id)}
	if p := props.Get(ReasonString); p != nil {
		out.ReasonString = p.Value.(wire.ByteString)
	}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}
	for !src.IsEmpty() {
		c, err := src.TryGetU8()
		if err != nil {
			return UnsubAck{}, err
		}
		out.ReasonCodes = append(out.ReasonCodes, UnsubscribeReasonCode(c))
	}
	if len(out.ReasonCodes) == 0 {
		return UnsubAck{}, wire.ErrNoTopics
	}
	return out, nil
}

// Encode writes the packet identifier, property section and reason
// codes.
func (u UnsubAck) Encode(dst wire.Writer) error {
	if err := dst.TryPutU16BE(uint16(u.ID)); err != nil {
		return err
	}
	props := &Properties{}
	if !u.ReasonString.IsEmpty() {
		props.Add(ReasonString, u.ReasonString)
	}
	for _, up := range u.UserProperties {
		props.Add(UserProperty, up)
	}
	if err := props.Encode(dst); err != nil {
		return err
	}
	for _, c := range u.ReasonCodes {
		if err := dst.TryPutU8(byte(c)); err != nil {
			return err
		}
	}
	return nil
}
