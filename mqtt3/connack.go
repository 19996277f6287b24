package mqtt3

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// ReturnCode is the one-byte CONNACK result.
type ReturnCode byte

const (
	Accepted                    ReturnCode = 0x00
	UnacceptableProtocolVersion ReturnCode = 0x01
	IdentifierRejected          ReturnCode = 0x02
	ServerUnavailable           ReturnCode = 0x03
	BadUsernameOrPassword       ReturnCode = 0x04
	NotAuthorized               ReturnCode = 0x05
)

// ConnAck is the 3.2 CONNACK variable header. SessionPresent is only
// ever true alongside Accepted; a non-Accepted code with
// SessionPresent set is a malformed packet.
type ConnAck struct {
	SessionPresent bool
	ReturnCode     ReturnCode
}

// DecodeConnAck reads the acknowledge-flags byte (only bit 0 defined)
// and the return-code byte.
func DecodeConnAck(src *buffer.Shared) (ConnAck, error) {
	ackFlags, err := src.TryGetU8()
	if err != nil {
		return ConnAck{}, err
	}
	if ackFlags&0xFE != 0 {
		return ConnAck{}, wire.ErrUnrecognizedConnAckFlags
	}
	code, err := src.TryGetU8()
	if err != nil {
		return ConnAck{}, err
	}
	sessionPresent := ackFlags&0x01 != 0
	if sessionPresent && ReturnCode(code) != Accepted {
		return ConnAck{}, wire.ErrUnrecognizedConnAckFlags
	}
	return ConnAck{SessionPresent: sessionPresent, ReturnCode: ReturnCode(code)}, nil
}

// Encode writes the acknowledge-flags and return-code bytes.
func (c ConnAck) Encode(dst wire.Writer) error {
	var flags byte
	if c.SessionPresent && c.ReturnCode == Accepted {
		flags = 0x01
	}
	if err := dst.TryPutU8(flags); err != nil {
		return err
	}
	return dst.TryPutU8(byte(c.ReturnCode))
}
