package wire

import (
	"github.com/cockroachdb/errors"

	"github.com/axmq/mqttwire/buffer"
)

// Direction distinguishes which half of the codec produced a
// PacketError, since the same sentinel occasionally applies to both
// (e.g. RemainingLengthTooHigh).
type Direction byte

const (
	Decode Direction = iota
	Encode
)

func (d Direction) String() string {
	if d == Encode {
		return "encode"
	}
	return "decode"
}

// Decode error sentinels. Re-exported from buffer where the
// underlying condition is actually detected on a view (Incomplete,
// ZeroPacketIdentifier) so callers never need to import both
// packages to match on a single error kind.
var (
	ErrIncompletePacket               = buffer.ErrIncompletePacket
	ErrZeroPacketIdentifier           = buffer.ErrZeroPacketIdentifier
	ErrTrailingGarbage                = errors.New("wire: trailing garbage after packet body")
	ErrRemainingLengthTooHigh         = errors.New("wire: remaining length exceeds 268,435,455")
	ErrStringNotUtf8                  = errors.New("wire: byte string is not valid UTF-8")
	ErrUnrecognizedProtocolName       = errors.New("wire: unrecognized protocol name")
	ErrUnrecognizedProtocolVersion    = errors.New("wire: unrecognized protocol version")
	ErrUnrecognizedPacket             = errors.New("wire: unrecognized packet type/flags")
	ErrUnrecognizedConnAckFlags       = errors.New("wire: unrecognized CONNACK flags")
	ErrConnectReservedSet             = errors.New("wire: CONNECT reserved flag bit set")
	ErrConnectZeroLengthIDWithSession = errors.New("wire: empty client id with existing-session bit")
	ErrPublishDupAtMostOnce           = errors.New("wire: PUBLISH DUP set with QoS 0")
	ErrUnrecognizedQoS                = errors.New("wire: unrecognized QoS value")
	ErrUnrecognizedRetainHandling     = errors.New("wire: unrecognized retain-handling value")
	ErrNoTopics                       = errors.New("wire: empty topic list")
	ErrDuplicateProperty              = errors.New("wire: duplicate property")
	ErrMissingRequiredProperty        = errors.New("wire: missing required property")
	ErrUnexpectedProperty             = errors.New("wire: property not accepted by this packet")
	ErrUnrecognizedPropertyIdentifier = errors.New("wire: unrecognized property identifier")
	ErrSubscriptionOptionsReservedSet = errors.New("wire: subscription options reserved bits set")
	ErrUnrecognizedReasonCode         = errors.New("wire: unrecognized reason code")
	ErrInvalidMaximumPacketSize       = errors.New("wire: MaximumPacketSize is zero")
	ErrInvalidTopicAlias              = errors.New("wire: TopicAlias is zero")
	ErrInvalidReceiveMaximum          = errors.New("wire: ReceiveMaximum is zero")
)

// Encode error sentinels.
var (
	ErrInsufficientBuffer = buffer.ErrInsufficientBuffer
	ErrKeepAliveTooHigh   = errors.New("wire: keep-alive exceeds 65535 seconds")
	ErrStringTooLarge     = errors.New("wire: string exceeds 65535 bytes")
	ErrWillTooLarge       = errors.New("wire: will payload exceeds 65535 bytes")
)

// ReasonCode is the MQTT 5 one-byte outcome enumeration shared across
// ack and control packets; the same numeric space is reused for the
// subset of codes valid on any particular packet type (see mqtt5's
// per-packet reason-code types).
type ReasonCode byte

// PacketError wraps a decode or encode failure with the MQTT reason
// code a broker embedding this library can hand straight to a peer,
// plus a free-form message for diagnostics. It is the direction-aware
// descendant of the teacher's PacketError, under the same name.
type PacketError struct {
	Err        error
	Direction  Direction
	ReasonCode ReasonCode
	Message    string
}

func (e *PacketError) Error() string {
	if e.Message != "" {
		return e.Direction.String() + ": " + e.Err.Error() + ": " + e.Message
	}
	return e.Direction.String() + ": " + e.Err.Error()
}

func (e *PacketError) Unwrap() error { return e.Err }

// NewDecodeError wraps err as a decode-direction PacketError carrying
// reason.
func NewDecodeError(err error, reason ReasonCode, message string) *PacketError {
	return &PacketError{Err: err, Direction: Decode, ReasonCode: reason, Message: message}
}

// NewEncodeError wraps err as an encode-direction PacketError.
func NewEncodeError(err error, message string) *PacketError {
	return &PacketError{Err: err, Direction: Encode, Message: message}
}

// GetReasonCode extracts a *PacketError's reason code, falling back
// to a best-effort mapping from the bare sentinel for errors that
// were never wrapped (e.g. ones returned directly by buffer).
func GetReasonCode(err error) ReasonCode {
	var pktErr *PacketError
	if errors.As(err, &pktErr) {
		return pktErr.ReasonCode
	}

	switch {
	case errors.Is(err, ErrTrailingGarbage),
		errors.Is(err, ErrRemainingLengthTooHigh),
		errors.Is(err, ErrConnectReservedSet),
		errors.Is(err, ErrUnrecognizedQoS),
		errors.Is(err, ErrUnrecognizedRetainHandling),
		errors.Is(err, ErrZeroPacketIdentifier),
		errors.Is(err, ErrPublishDupAtMostOnce),
		errors.Is(err, ErrSubscriptionOptionsReservedSet),
		errors.Is(err, ErrNoTopics):
		return ReasonMalformedPacket
	case errors.Is(err, ErrUnrecognizedPacket),
		errors.Is(err, ErrUnrecognizedConnAckFlags),
		errors.Is(err, ErrConnectZeroLengthIDWithSession),
		errors.Is(err, ErrDuplicateProperty),
		errors.Is(err, ErrMissingRequiredProperty),
		errors.Is(err, ErrUnexpectedProperty),
		errors.Is(err, ErrUnrecognizedPropertyIdentifier),
		errors.Is(err, ErrInvalidMaximumPacketSize),
		errors.Is(err, ErrInvalidTopicAlias),
		errors.Is(err, ErrInvalidReceiveMaximum):
		return ReasonProtocolError
	case errors.Is(err, ErrUnrecognizedProtocolVersion):
		return ReasonUnsupportedProtocolVersion
	case errors.Is(err, ErrStringNotUtf8):
		return ReasonPayloadFormatInvalid
	default:
		return ReasonUnspecifiedError
	}
}

// Shared reason-code values used by the fallback mapping above; the
// exhaustive per-packet reason-code tables live in mqtt5.
const (
	ReasonSuccess                     ReasonCode = 0x00
	ReasonUnspecifiedError            ReasonCode = 0x80
	ReasonMalformedPacket             ReasonCode = 0x81
	ReasonProtocolError               ReasonCode = 0x82
	ReasonUnsupportedProtocolVersion  ReasonCode = 0x84
	ReasonPayloadFormatInvalid        ReasonCode = 0x99
)
