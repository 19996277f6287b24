package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// ConnectReasonCode is the CONNACK outcome byte.
type ConnectReasonCode byte

const (
	ConnectSuccess                     ConnectReasonCode = 0x00
	ConnectUnspecifiedError            ConnectReasonCode = 0x80
	ConnectMalformedPacket             ConnectReasonCode = 0x81
	ConnectProtocolError               ConnectReasonCode = 0x82
	ConnectImplementationSpecificError ConnectReasonCode = 0x83
	ConnectUnsupportedProtocolVersion  ConnectReasonCode = 0x84
	ConnectClientIdentifierNotValid    ConnectReasonCode = 0x85
	ConnectBadUserNameOrPassword       ConnectReasonCode = 0x86
	ConnectNotAuthorized               ConnectReasonCode = 0x87
	ConnectServerUnavailable           ConnectReasonCode = 0x88
	ConnectServerBusy                  ConnectReasonCode = 0x89
	ConnectBanned                      ConnectReasonCode = 0x8A
	ConnectBadAuthenticationMethod     ConnectReasonCode = 0x8C
	ConnectTopicNameInvalid            ConnectReasonCode = 0x90
	ConnectPacketTooLarge              ConnectReasonCode = 0x95
	ConnectQuotaExceeded               ConnectReasonCode = 0x97
	ConnectPayloadFormatInvalid        ConnectReasonCode = 0x99
	ConnectRetainNotSupported          ConnectReasonCode = 0x9A
	ConnectQoSNotSupported             ConnectReasonCode = 0x9B
	ConnectUseAnotherServer            ConnectReasonCode = 0x9C
	ConnectServerMoved                 ConnectReasonCode = 0x9D
	ConnectConnectionRateExceeded      ConnectReasonCode = 0x9F
)

var connAckBindings = []Binding{
	{ID: SessionExpiryInterval, Arity: ArityOptional},
	{ID: ReceiveMaximum, Arity: ArityOptional},
	{ID: MaximumQoS, Arity: ArityOptional},
	{ID: RetainAvailable, Arity: ArityOptional},
	{ID: MaximumPacketSize, Arity: ArityOptional},
	{ID: AssignedClientIdentifier, Arity: ArityOptional},
	{ID: TopicAliasMaximum, Arity: ArityOptional},
	{ID: ReasonString, Arity: ArityOptional},
	{ID: UserProperty, Arity: ArityList},
	{ID: WildcardSubscriptionAvailable, Arity: ArityOptional},
	{ID: SharedSubscriptionAvailable, Arity: ArityOptional},
	{ID: SubscriptionIdentifierAvailable, Arity: ArityOptional},
	{ID: ServerKeepAlive, Arity: ArityOptional},
	{ID: ResponseInformation, Arity: ArityOptional},
	{ID: ServerReference, Arity: ArityOptional},
	{ID: AuthenticationMethod, Arity: ArityOptional},
	{ID: AuthenticationData, Arity: ArityOptional},
}

// ConnAck is the 3.2 CONNACK variable header, flattened with its
// property section. SessionPresent is only meaningful, and only
// allowed true, alongside ConnectSuccess.
type ConnAck struct {
	SessionPresent                bool
	ReasonCode                    ConnectReasonCode
	SessionExpiryInterval         uint32
	ReceiveMaximum                uint16
	MaximumQoS                    wire.QoS
	RetainAvailable               bool
	MaximumPacketSize             uint32
	AssignedClientIdentifier      wire.ByteString
	TopicAliasMaximum             uint16
	ReasonString                  wire.ByteString
	UserProperties                []StringPair
	WildcardSubscriptionAvailable bool
	SharedSubscriptionAvailable   bool
	SubIdentifierAvailable        bool
	ServerKeepAlive               uint16
	HasServerKeepAlive            bool
	ResponseInformation           wire.ByteString
	ServerReference               wire.ByteString
	AuthenticationMethod          wire.ByteString
	AuthenticationData            *buffer.Shared
}

// DecodeConnAck reads the acknowledge-flags byte, reason code and
// property section.
func DecodeConnAck(src *buffer.Shared) (ConnAck, error) {
	flags, err := src.TryGetU8()
	if err != nil {
		return ConnAck{}, err
	}
	if flags&0xFE != 0 {
		return ConnAck{}, wire.ErrUnrecognizedConnAckFlags
	}
	sessionPresent := flags&0x01 != 0

	reasonByte, err := src.TryGetU8()
	if err != nil {
		return ConnAck{}, err
	}
	reason := ConnectReasonCode(reasonByte)
	switch reason {
	case ConnectSuccess, ConnectUnspecifiedError, ConnectMalformedPacket, ConnectProtocolError,
		ConnectImplementationSpecificError, ConnectUnsupportedProtocolVersion, ConnectClientIdentifierNotValid,
		ConnectBadUserNameOrPassword, ConnectNotAuthorized, ConnectServerUnavailable, ConnectServerBusy,
		ConnectBanned, ConnectBadAuthenticationMethod, ConnectTopicNameInvalid, ConnectPacketTooLarge,
		ConnectQuotaExceeded, ConnectPayloadFormatInvalid, ConnectRetainNotSupported, ConnectQoSNotSupported,
		ConnectUseAnotherServer, ConnectServerMoved, ConnectConnectionRateExceeded:
	default:
		return ConnAck{}, wire.ErrUnrecognizedReasonCode
	}
	if sessionPresent && reason != ConnectSuccess {
		return ConnAck{}, wire.ErrUnrecognizedConnAckFlags
	}

	props, err := DecodeProperties(src)
	if err != nil {
		return ConnAck{}, err
	}
	if err := Validate(props, connAckBindings); err != nil {
		return ConnAck{}, err
	}

	out := ConnAck{
		SessionPresent:                sessionPresent,
		ReasonCode:                    reason,
		ReceiveMaximum:                0xFFFF,
		MaximumQoS:                    wire.ExactlyOnce,
		RetainAvailable:               true,
		WildcardSubscriptionAvailable: true,
		SharedSubscriptionAvailable:   true,
		SubIdentifierAvailable:        true,
	}
	if p := props.Get(SessionExpiryInterval); p != nil {
		out.SessionExpiryInterval = p.Value.(uint32)
	}
	if p := props.Get(ReceiveMaximum); p != nil {
		out.ReceiveMaximum = p.Value.(uint16)
	}
	if p := props.Get(MaximumQoS); p != nil {
		out.MaximumQoS = wire.QoS(p.Value.(byte))
	}
	if p := props.Get(RetainAvailable); p != nil {
		out.RetainAvailable = p.Value.(byte) != 0
	}
	if p := props.Get(MaximumPacketSize); p != nil {
		out.MaximumPacketSize = p.Value.(uint32)
	}
	if p := props.Get(AssignedClientIdentifier); p != nil {
		out.AssignedClientIdentifier = p.Value.(wire.ByteString)
	}
	if p := props.Get(TopicAliasMaximum); p != nil {
		out.TopicAliasMaximum = p.Value.(uint16)
	}
	if p := props.Get(ReasonString); p != nil {
		out.ReasonString = p.Value.(wire.ByteString)
	}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}
	if p := props.Get(WildcardSubscriptionAvailable); p != nil {
		out.WildcardSubscriptionAvailable = p.Value.(byte) != 0
	}
	if p := props.Get(SharedSubscriptionAvailable); p != nil {
		out.SharedSubscriptionAvailable = p.Value.(byte) != 0
	}
	if p := props.Get(SubscriptionIdentifierAvailable); p != nil {
		out.SubIdentifierAvailable = p.Value.(byte) != 0
	}
	if p := props.Get(ServerKeepAlive); p != nil {
		out.ServerKeepAlive = p.Value.(uint16)
		out.HasServerKeepAlive = true
	}
	if p := props.Get(ResponseInformation); p != nil {
		out.ResponseInformation = p.Value.(wire.ByteString)
	}
	if p := props.Get(ServerReference); p != nil {
		out.ServerReference = p.Value.(wire.ByteString)
	}
	if p := props.Get(AuthenticationMethod); p != nil {
		out.AuthenticationMethod = p.Value.(wire.ByteString)
	}
	if p := props.Get(AuthenticationData); p != nil {
		out.AuthenticationData = p.Value.(*buffer.Shared)
	}
	return out, nil
}

// Encode writes the acknowledge-flags byte, reason code and a
// property section omitting every value still at its protocol
// default.
func (c ConnAck) Encode(dst wire.Writer) error {
	var flags byte
	if c.SessionPresent && c.ReasonCode == ConnectSuccess {
		flags = 0x01
	}
	if err := dst.TryPutU8(flags); err != nil {
		return err
	}
	if err := dst.TryPutU8(byte(c.ReasonCode)); err != nil {
		return err
	}

	props := &Properties{}
	addU32IfNotZero(props, SessionExpiryInterval, c.SessionExpiryInterval)
	addU16IfInOpenRange(props, ReceiveMaximum, c.ReceiveMaximum, 0xFFFF)
	if c.MaximumQoS != wire.ExactlyOnce {
		props.Add(MaximumQoS, byte(c.MaximumQoS))
	}
	addByteIfFalse(props, RetainAvailable, c.RetainAvailable)
	addU32IfNotZero(props, MaximumPacketSize, c.MaximumPacketSize)
	if !c.AssignedClientIdentifier.IsEmpty() {
		props.Add(AssignedClientIdentifier, c.AssignedClientIdentifier)
	}
	addU16IfNotZero(props, TopicAliasMaximum, c.TopicAliasMaximum)
	if !c.ReasonString.IsEmpty() {
		props.Add(ReasonString, c.ReasonString)
	}
	for _, up := range c.UserProperties {
		props.Add(UserProperty, up)
	}
	addByteIfFalse(props, WildcardSubscriptionAvailable, c.WildcardSubscriptionAvailable)
	addByteIfFalse(props, SharedSubscriptionAvailable, c.SharedSubscriptionAvailable)
	addByteIfFalse(props, SubscriptionIdentifierAvailable, c.SubIdentifierAvailable)
	if c.HasServerKeepAlive {
		props.Add(ServerKeepAlive, c.ServerKeepAlive)
	}
	if !c.ResponseInformation.IsEmpty() {
		props.Add(ResponseInformation, c.ResponseInformation)
	}
	if !c.ServerReference.IsEmpty() {
		props.Add(ServerReference, c.ServerReference)
	}
	if !c.AuthenticationMethod.IsEmpty() {
		props.Add(AuthenticationMethod, c.AuthenticationMethod)
	}
	if c.AuthenticationData != nil && !c.AuthenticationData.IsEmpty() {
		props.Add(AuthenticationData, c.AuthenticationData)
	}
	return props.Encode(dst)
}
