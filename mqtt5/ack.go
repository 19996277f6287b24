package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

var ackPropertyBindings = []Binding{
	{ID: ReasonString, Arity: ArityOptional},
	{ID: UserProperty, Arity: ArityList},
}

// ackBody is the variable header shared by PUBACK, PUBREC, PUBREL and
// PUBCOMP: a packet identifier followed by an optional
// reason-code/property tail. When a peer has nothing but Success to
// report and no properties to attach, the whole tail is omitted and
// the remaining length is just 2.
type ackBody struct {
	ID             wire.PacketIdentifier
	ReasonCode     byte
	ReasonString   wire.ByteString
	UserProperties []StringPair
}

func decodeAckBody(src *buffer.Shared) (ackBody, error) {
	id, err := src.TryGetPacketIdentifier()
	if err != nil {
		return ackBody{}, err
	}
	out := ackBody{ID: wire.PacketIdentifier(id)}
	if src.IsEmpty() {
		return out, nil
	}

	reasonCode, err := src.TryGetU8()
	if err != nil {
		return ackBody{}, err
	}
	out.ReasonCode = reasonCode

	if src.IsEmpty() {
		return out, nil
	}
	props, err := DecodeProperties(src)
	if err != nil {
		return ackBody{}, err
	}
	if err := Validate(props, ackPropertyBindings); err != nil {
		return ackBody{}, err
	}
	if p := props.Get(ReasonString); p != nil {
		out.ReasonString = p.Value.(wire.ByteString)
	}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}
	return out, nil
}

func (a ackBody) encode(dst wire.Writer) error {
	if err := dst.TryPutU16BE(uint16(a.ID)); err != nil {
		return err
	}
	if a.ReasonCode == 0 && a.ReasonString.IsEmpty() && len(a.UserProperties) == 0 {
		return nil
	}
	if err := dst.TryPutU8(a.ReasonCode); err != nil {
		return err
	}
	props := &Properties{}
	if !a.ReasonString.IsEmpty() {
		props.Add(ReasonString, a.ReasonString)
	}
	for _, up := range a.UserProperties {
		props.Add(UserProperty, up)
	}
	return props.Encode(dst)
}

// PubAckReasonCode is the 3.4.2.1 PUBACK reason code.
type PubAckReasonCode byte

const (
	PubAckSuccess                     PubAckReasonCode = 0x00
	PubAckNoMatchingSubscribers       PubAckReasonCode = 0x10
	PubAckUnspecifiedError            PubAckReasonCode = 0x80
	PubAckImplementationSpecificError PubAckReasonCode = 0x83
	PubAckNotAuthorized               PubAckReasonCode = 0x87
	PubAckTopicNameInvalid            PubAckReasonCode = 0x90
	PubAckPacketIdentifierInUse       PubAckReasonCode = 0x91
	PubAckQuotaExceeded               PubAckReasonCode = 0x97
	PubAckPayloadFormatInvalid        PubAckReasonCode = 0x99
)

// PubAck is the 3.4 PUBACK variable header.
type PubAck struct {
	ID             wire.PacketIdentifier
	ReasonCode     PubAckReasonCode
	ReasonString   wire.ByteString
	UserProperties []StringPair
}

// DecodePubAck reads the packet identifier and optional reason-code
// tail, defaulting to Success when absent.
func DecodePubAck(src *buffer.Shared) (PubAck, error) {
	b, err := decodeAckBody(src)
	if err != nil {
		return PubAck{}, err
	}
	return PubAck{b.ID, PubAckReasonCode(b.ReasonCode), b.ReasonString, b.UserProperties}, nil
}

// Encode writes the packet identifier, omitting the reason-code tail
// when it would be Success with no properties.
func (p PubAck) Encode(dst wire.Writer) error {
	return ackBody{p.ID, byte(p.ReasonCode), p.ReasonString, p.UserProperties}.encode(dst)
}

// PubRecReasonCode is the 3.5.2.1 PUBREC reason code.
type PubRecReasonCode byte

const (
	PubRecSuccess                     PubRecReasonCode = 0x00
	PubRecNoMatchingSubscribers       PubRecReasonCode = 0x10
	PubRecUnspecifiedError            PubRecReasonCode = 0x80
	PubRecImplementationSpecificError PubRecReasonCode = 0x83
	PubRecNotAuthorized               PubRecReasonCode = 0x87
	PubRecTopicNameInvalid            PubRecReasonCode = 0x90
	PubRecPacketIdentifierInUse       PubRecReasonCode = 0x91
	PubRecQuotaExceeded               PubRecReasonCode = 0x97
	PubRecPayloadFormatInvalid        PubRecReasonCode = 0x99
)

// PubRec is the 3.5 PUBREC variable header.
type PubRec struct {
	ID             wire.PacketIdentifier
	ReasonCode     PubRecReasonCode
	ReasonString   wire.ByteString
	UserProperties []StringPair
}

// DecodePubRec reads the packet identifier and optional reason-code
// tail, defaulting to Success when absent.
func DecodePubRec(src *buffer.Shared) (PubRec, error) {
	b, err := decodeAckBody(src)
	if err != nil {
		return PubRec{}, err
	}
	return PubRec{b.ID, PubRecReasonCode(b.ReasonCode), b.ReasonString, b.UserProperties}, nil
}

// Encode writes the packet identifier, omitting the reason-code tail
// when it would be Success with no properties.
func (p PubRec) Encode(dst wire.Writer) error {
	return ackBody{p.ID, byte(p.ReasonCode), p.ReasonString, p.UserProperties}.encode(dst)
}

// PubRelReasonCode is the 3.6.2.1 PUBREL reason code.
type PubRelReasonCode byte

const (
	PubRelSuccess                  PubRelReasonCode = 0x00
	PubRelPacketIdentifierNotFound PubRelReasonCode = 0x92
)

// PubRel is the 3.6 PUBREL variable header.
type PubRel struct {
	ID             wire.PacketIdentifier
	ReasonCode     PubRelReasonCode
	ReasonString   wire.ByteString
	UserProperties []StringPair
}

// DecodePubRel reads the packet identifier and optional reason-code
// tail, defaulting to Success when absent.
func DecodePubRel(src *buffer.Shared) (PubRel, error) {
	b, err := decodeAckBody(src)
	if err != nil {
		return PubRel{}, err
	}
	return PubRel{b.ID, PubRelReasonCode(b.ReasonCode), b.ReasonString, b.UserProperties}, nil
}

// Encode writes the packet identifier, omitting the reason-code tail
// when it would be Success with no properties.
func (p PubRel) Encode(dst wire.Writer) error {
	return ackBody{p.ID, byte(p.ReasonCode), p.ReasonString, p.UserProperties}.encode(dst)
}

// PubCompReasonCode is the 3.7.2.1 PUBCOMP reason code.
type PubCompReasonCode byte

const (
	PubCompSuccess                  PubCompReasonCode = 0x00
	PubCompPacketIdentifierNotFound PubCompReasonCode = 0x92
)

// PubComp is the 3.7 PUBCOMP variable header.
type PubComp struct {
	ID             wire.PacketIdentifier
	ReasonCode     PubCompReasonCode
	ReasonString   wire.ByteString
	UserProperties []StringPair
}

// DecodePubComp reads the packet identifier and optional reason-code
// tail, defaulting to Success when absent.
func DecodePubComp(src *buffer.Shared) (PubComp, error) {
	b, err := decodeAckBody(src)
	if err != nil {
		return PubComp{}, err
	}
	return PubComp{b.ID, PubCompReasonCode(b.ReasonCode), b.ReasonString, b.UserProperties}, nil
}

// Encode writes the packet identifier, omitting the reason-code tail
// when it would be Success with no properties.
func (p PubComp) Encode(dst wire.Writer) error {
	return ackBody{p.ID, byte(p.ReasonCode), p.ReasonString, p.UserProperties}.encode(dst)
}
