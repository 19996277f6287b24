package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// DisconnectReasonCode is the 3.14.2.1 DISCONNECT reason code.
type DisconnectReasonCode byte

const (
	DisconnectNormal                                DisconnectReasonCode = 0x00
	DisconnectWithWillMessage                       DisconnectReasonCode = 0x04
	DisconnectUnspecifiedError                      DisconnectReasonCode = 0x80
	DisconnectMalformedPacket                       DisconnectReasonCode = 0x81
	DisconnectProtocolError                         DisconnectReasonCode = 0x82
	DisconnectImplementationSpecificError           DisconnectReasonCode = 0x83
	DisconnectNotAuthorized                         DisconnectReasonCode = 0x87
	DisconnectServerBusy                            DisconnectReasonCode = 0x89
	DisconnectServerShuttingDown                    DisconnectReasonCode = 0x8B
	DisconnectKeepAliveTimeout                      DisconnectReasonCode = 0x8D
	DisconnectSessionTakenOver                      DisconnectReasonCode = 0x8E
	DisconnectTopicFilterInvalid                    DisconnectReasonCode = 0x8F
	DisconnectTopicNameInvalid                      DisconnectReasonCode = 0x90
	DisconnectReceiveMaximumExceeded                DisconnectReasonCode = 0x93
	DisconnectTopicAliasInvalid                     DisconnectReasonCode = 0x94
	DisconnectPacketTooLarge                        DisconnectReasonCode = 0x95
	DisconnectMessageRateTooHigh                    DisconnectReasonCode = 0x96
	DisconnectQuotaExceeded                         DisconnectReasonCode = 0x97
	DisconnectAdministrativeAction                  DisconnectReasonCode = 0x98
	DisconnectPayloadFormatInvalid                  DisconnectReasonCode = 0x99
	DisconnectRetainNotSupported                    DisconnectReasonCode = 0x9A
	DisconnectQoSNotSupported                       DisconnectReasonCode = 0x9B
	DisconnectUseAnotherServer                      DisconnectReasonCode = 0x9C
	DisconnectServerMoved                           DisconnectReasonCode = 0x9D
	DisconnectSharedSubscriptionsNotSupported       DisconnectReasonCode = 0x9E
	DisconnectConnectionRateExceeded                DisconnectReasonCode = 0x9F
	DisconnectMaximumConnectTime                    DisconnectReasonCode = 0xA0
	DisconnectSubscriptionIdentifiersNotSupported   DisconnectReasonCode = 0xA1
	DisconnectWildcardSubscriptionsNotSupported     DisconnectReasonCode = 0xA2
)

var disconnectPropertyBindings = []Binding{
	{ID: SessionExpiryInterval, Arity: ArityOptional},
	{ID: ReasonString, Arity: ArityOptional},
	{ID: UserProperty, Arity: ArityList},
	{ID: ServerReference, Arity: ArityOptional},
}

// Disconnect is the 3.14 DISCONNECT variable header. An absent body
// (zero remaining length) decodes to the all-defaults Normal value;
// encoding that same value back omits the body entirely.
type Disconnect struct {
	ReasonCode            DisconnectReasonCode
	SessionExpiryInterval uint32
	HasSessionExpiry      bool
	ReasonString          wire.ByteString
	UserProperties        []StringPair
	ServerReference       wire.ByteString
}

// DecodeDisconnect reads the optional reason-code/property tail,
// defaulting to Normal when the body is empty.
func DecodeDisconnect(src *buffer.Shared) (Disconnect, error) {
	if src.IsEmpty() {
		return Disconnect{ReasonCode: DisconnectNormal}, nil
	}
	reasonByte, err := src.TryGetU8()
	if err != nil {
		return Disconnect{}, err
	}
	out := Disconnect{ReasonCode: DisconnectReasonCode(reasonByte)}
	if src.IsEmpty() {
		return out, nil
	}
	props, err := DecodeProperties(src)
	if err != nil {
		return Disconnect{}, err
	}
	if err := Validate(props, disconnectPropertyBindings); err != nil {
		return Disconnect{}, err
	}
	if p := props.Get(SessionExpiryInterval); p != nil {
		out.SessionExpiryInterval = p.Value.(uint32)
		out.HasSessionExpiry = true
	}
	if p := props.Get(ReasonString); p != nil {
		out.ReasonString = p.Value.(wire.ByteString)
	}
	for _, p := range props.GetAll(UserProperty) {
		out.UserProperties = append(out.UserProperties, p.Value.(StringPair))
	}
	if p := props.Get(ServerReference); p != nil {
		out.ServerReference = p.Value.(wire.ByteString)
	}
	return out, nil
}

// Encode writes the reason-code/property tail, omitting it entirely
// when the value is the all-defaults Normal disconnect.
func (d Disconnect) Encode(dst wire.Writer) error {
	needBody := d.ReasonCode != DisconnectNormal ||
		d.HasSessionExpiry ||
		!d.ReasonString.IsEmpty() ||
		len(d.UserProperties) > 0 ||
		!d.ServerReference.IsEmpty()
	if !needBody {
		return nil
	}
	if err := dst.TryPutU8(byte(d.ReasonCode)); err != nil {
		return err
	}
	props := &Properties{}
	if d.HasSessionExpiry {
		props.Add(SessionExpiryInterval, d.SessionExpiryInterval)
	}
	if !d.ReasonString.IsEmpty() {
		props.Add(ReasonString, d.ReasonString)
	}
	for _, up := range d.UserProperties {
		props.Add(UserProperty, up)
	}
	if !d.ServerReference.IsEmpty() {
		props.Add(ServerReference, d.ServerReference)
	}
	return props.Encode(dst)
}
