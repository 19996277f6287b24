package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// Publish is the 3.3 PUBLISH variable header and payload.
type Publish struct {
	TopicName               wire.ByteString
	IDAndQoS                wire.PacketIdentifierDupQoS
	Retain                  bool
	PayloadIsUTF8           bool
	MessageExpiryInterval   uint32
	HasMessageExpiry        bool
	TopicAlias              uint16
	HasTopicAlias           bool
	ResponseTopic           wire.ByteString
	CorrelationData         *buffer.Shared
	UserProperties          []StringPair
	SubscriptionIdentifiers []uint32
	ContentType             wire.ByteString
	Payload                 *buffer.Shared
}

// DecodePublish reads the topic name, optional packet identifier,
// property section, and the remaining bytes of body as the payload.
func DecodePublish(flags byte, src *buffer.Shared) (Publish, error) {
	topicName, err := wire.DecodeString(src)
	if err != nil {
		return Publish{}, err
	}
	idAndQoS, err := wire.DecodePublishQoS(flags, flags&0x08 != 0, src)
	if err != nil {
		return Publish{}, err
	}

	props, err := DecodeProperties(src)
	if err != nil {
		return Publish{}, err
	}
	if err := Validate(props, publishPropertyBindings); err != nil {
		return Publish{}, err
	}

	out := Publish{
		TopicName: topicName,
		IDAndQoS:  idAndQoS,
		Retain:    flags&0x01 != 0,
	}
	if p := props.Get(PayloadFormatIndicator); p != nil {
		out.PayloadIsUTF8 = p.Value.(byte) != 0
	}
	if p := props.Get(MessageExpiryInterval); p != nil {
		out.MessageExpiryInterval = p.Value.(uint32)
		out.HasMessageExpiry = true
	}
	if p := props.Get(TopicAlias); p != nil {
		out.TopicAlias = p.Value.(uint16)
		out.HasTopicAlias = true
	}
	if p := props.Get(ResponseTopic); p != nil {
		out.ResponseTopic = p.Value.(wire.ByteString)
	}
	if p := props.Get(CorrelationData); p != nil {
		out.CorrelationData = p.Value.(*buffer.Shared)
	}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}
	for _, p := range props.GetAll(SubscriptionIdentifier) {
		out.SubscriptionIdentifiers = append(out.SubscriptionIdentifiers, p.Value.(uint32))
	}
	if p := props.Get(ContentType); p != nil {
		out.ContentType = p.Value.(wire.ByteString)
	}

	payload, err := src.SplitTo(src.Len())
	if err != nil {
		return Publish{}, err
	}
	out.Payload = payload

	return out, nil
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

// Encode writes the topic name, packet identifier (if any), property
// section and raw payload bytes.
func (p Publish) Encode(dst wire.Writer) error {
	if err := wire.EncodeString(dst, p.TopicName); err != nil {
		return err
	}
	if p.IDAndQoS.QoS != wire.AtMostOnce {
		if err := dst.TryPutU16BE(uint16(p.IDAndQoS.ID)); err != nil {
			return err
		}
	}

	props := &Properties{}
	addByteIfTrue(props, PayloadFormatIndicator, p.PayloadIsUTF8)
	if p.HasMessageExpiry {
		props.Add(MessageExpiryInterval, p.MessageExpiryInterval)
	}
	if p.HasTopicAlias {
		props.Add(TopicAlias, p.TopicAlias)
	}
	if !p.ResponseTopic.IsEmpty() {
		props.Add(ResponseTopic, p.ResponseTopic)
	}
	if p.CorrelationData != nil && !p.CorrelationData.IsEmpty() {
		props.Add(CorrelationData, p.CorrelationData)
	}
	for _, up := range p.UserProperties {
		props.Add(UserProperty, up)
	}
	for _, id := range p.SubscriptionIdentifiers {
		props.Add(SubscriptionIdentifier, id)
	}
	if !p.ContentType.IsEmpty() {
		props.Add(ContentType, p.ContentType)
	}
	if err := props.Encode(dst); err != nil {
		return err
	}

	if p.Payload == nil || p.Payload.IsEmpty() {
		return nil
	}
	return dst.TryPutSlice(p.Payload.Bytes())
}
