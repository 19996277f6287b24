package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// ProtocolLevel is the 5.0 value of the CONNECT protocol-level byte.
const ProtocolLevel = 0x05

var connectPropertyBindings = []Binding{
	{ID: SessionExpiryInterval, Arity: ArityOptional},
	{ID: ReceiveMaximum, Arity: ArityOptional},
	{ID: MaximumPacketSize, Arity: ArityOptional},
	{ID: TopicAliasMaximum, Arity: ArityOptional},
	{ID: RequestResponseInformation, Arity: ArityOptional},
	{ID: RequestProblemInformation, Arity: ArityOptional},
	{ID: UserProperty, Arity: ArityList},
	{ID: AuthenticationMethod, Arity: ArityOptional},
	{ID: AuthenticationData, Arity: ArityOptional},
}

// Will pairs a publication with the delay MQTT 5 lets a client ask
// the server to wait before distributing it after an ungraceful
// disconnect.
type Will struct {
	Publication  Publication
	DelaySeconds uint32
}

// Connect is the 3.1 CONNECT variable header and payload.
type Connect struct {
	ClientID                   wire.ClientID
	KeepAlive                  uint32
	Username                   *wire.ByteString
	Password                   *wire.ByteString
	Will                       *Will
	SessionExpiryInterval      uint32
	ReceiveMaximum             uint16
	MaximumPacketSize          uint32
	HasMaximumPacketSize       bool
	TopicAliasMaximum          uint16
	RequestResponseInformation bool
	RequestProblemInformation  bool
	UserProperties             []StringPair
	AuthenticationMethod       wire.ByteString
	AuthenticationData         *buffer.Shared
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

	props, err := DecodeProperties(src)
	if err != nil {
		return Connect{}, err
	}
	if err := Validate(props, connectPropertyBindings); err != nil {
		return Connect{}, err
	}

	out := Connect{
		KeepAlive:                 uint32(keepAlive),
		ReceiveMaximum:            0xFFFF,
		RequestProblemInformation: true,
	}
	if p := props.Get(SessionExpiryInterval); p != nil {
		out.SessionExpiryInterval = p.Value.(uint32)
	}
	if p := props.Get(ReceiveMaximum); p != nil {
		out.ReceiveMaximum = p.Value.(uint16)
	}
	if p := props.Get(MaximumPacketSize); p != nil {
		out.MaximumPacketSize = p.Value.(uint32)
		out.HasMaximumPacketSize = true
	}
	if p := props.Get(TopicAliasMaximum); p != nil {
		out.TopicAliasMaximum = p.Value.(uint16)
	}
	if p := props.Get(RequestResponseInformation); p != nil {
		out.RequestResponseInformation = p.Value.(byte) != 0
	}
	if p := props.Get(RequestProblemInformation); p != nil {
		out.RequestProblemInformation = p.Value.(byte) != 0
	}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}
	if p := props.Get(AuthenticationMethod); p != nil {
		out.AuthenticationMethod = p.Value.(wire.ByteString)
	}
	if p := props.Get(AuthenticationData); p != nil {
		out.AuthenticationData = p.Value.(*buffer.Shared)
	}

	clientIDStr, err := wire.DecodeString(src)
	if err != nil {
		return Connect{}, err
	}
	switch {
	case clientIDStr.IsEmpty():
		out.ClientID = wire.ClientID{Kind: wire.ServerGenerated}
	case flags&0x02 == 0:
		out.ClientID = wire.ClientID{Kind: wire.IDWithExistingSession, ID: clientIDStr}
	default:
		out.ClientID = wire.ClientID{Kind: wire.IDWithCleanSession, ID: clientIDStr}
	}

	if flags&0x04 != 0 {
		willProps, err := DecodeProperties(src)
		if err != nil {
			return Connect{}, err
		}
		if err := Validate(willProps, willPropertyBindings); err != nil {
			return Connect{}, err
		}

		topicName, err := wire.DecodeString(src)
		if err != nil {
			return Connect{}, err
		}

		var qos uint8
		switch flags & 0x18 {
		case 0x00:
			qos = uint8(wire.AtMostOnce)
		case 0x08:
			qos = uint8(wire.AtLeastOnce)
		case 0x10:
			qos = uint8(wire.ExactlyOnce)
		default:
			return Connect{}, wire.ErrUnrecognizedQoS
		}

		payload, err := wire.DecodeBinary(src)
		if err != nil {
			return Connect{}, err
		}

		pub := Publication{
			TopicName: topicName,
			QoS:       qos,
			Retain:    flags&0x20 != 0,
			Payload:   payload,
		}
		fillPublicationFromProperties(&pub, willProps)

		var delay uint32
		if p := willProps.Get(WillDelayInterval); p != nil {
			delay = p.Value.(uint32)
		}
		out.Will = &Will{Publication: pub, DelaySeconds: delay}
	}

	if flags&0x80 != 0 {
		s, err := wire.DecodeString(src)
		if err != nil {
			return Connect{}, err
		}
		out.Username = &s
	}
	if flags&0x40 != 0 {
		s, err := wire.DecodeString(src)
		if err != nil {
			return Connect{}, err
		}
		out.Password = &s
	}

	return out, nil
}

// Encode writes the full CONNECT body, including the protocol-name
// and protocol-level prefix.
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
		if c.Will.Publication.Retain {
			flags |= 0x20
		}
		flags |= c.Will.Publication.QoS << 3
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

	props := &Properties{}
	addU32IfNotZero(props, SessionExpiryInterval, c.SessionExpiryInterval)
	addU16IfInOpenRange(props, ReceiveMaximum, c.ReceiveMaximum, 0xFFFF)
	if c.HasMaximumPacketSize {
		props.Add(MaximumPacketSize, c.MaximumPacketSize)
	}
	addU16IfNotZero(props, TopicAliasMaximum, c.TopicAliasMaximum)
	addByteIfTrue(props, RequestResponseInformation, c.RequestResponseInformation)
	addByteIfFalse(props, RequestProblemInformation, c.RequestProblemInformation)
	for _, up := range c.UserProperties {
		props.Add(UserProperty, up)
	}
	if !c.AuthenticationMethod.IsEmpty() {
		props.Add(AuthenticationMethod, c.AuthenticationMethod)
	}
	if c.AuthenticationData != nil && !c.AuthenticationData.IsEmpty() {
		props.Add(AuthenticationData, c.AuthenticationData)
	}
	if err := props.Encode(dst); err != nil {
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
		will := c.Will.Publication
		willProps := &Properties{}
		addU32IfNotZero(willProps, WillDelayInterval, c.Will.DelaySeconds)
		addPublicationPropertiesForWill(willProps, will)
		if err := willProps.Encode(dst); err != nil {
			return err
		}
		if err := wire.EncodeString(dst, will.TopicName); err != nil {
			return err
		}
		if err := wire.EncodeBinary(dst, will.Payload); err != nil {
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

// addPublicationPropertiesForWill writes the subset of Publication
// properties legal in a CONNECT will (no SubscriptionIdentifier,
// which PUBLISH alone carries).
func addPublicationPropertiesForWill(props *Properties, pub Publication) {
	addByteIfTrue(props, PayloadFormatIndicator, pub.PayloadIsUTF8)
	if pub.HasMessageExpiry {
		props.Add(MessageExpiryInterval, pub.MessageExpiryInterval)
	}
	if !pub.ContentType.IsEmpty() {
		props.Add(ContentType, pub.ContentType)
	}
	if !pub.ResponseTopic.IsEmpty() {
		props.Add(ResponseTopic, pub.ResponseTopic)
	}
	if pub.CorrelationData != nil && !pub.CorrelationData.IsEmpty() {
		props.Add(CorrelationData, pub.CorrelationData)
	}
	for _, up := range pub.UserProperties {
		props.Add(UserProperty, up)
	}
}
