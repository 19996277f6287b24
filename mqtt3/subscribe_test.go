package mqtt3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

func TestDecodeSubscribeRejectsInvalidQoS(t *testing.T) {
	body := buffer.NewOwned(make([]byte, 16), nil)
	require.NoError(t, body.TryPutU16BE(1))
	require.NoError(t, wire.EncodeString(body, wire.ByteStringOf("t")))
	require.NoError(t, body.TryPutU8(0x03))
	_, err := DecodeSubscribe(body.Freeze())
	assert.ErrorIs(t, err, wire.ErrUnrecognizedQoS)
}

func TestSubAckRoundTrip(t *testing.T) {
	s := SubAck{ID: 8, ReturnCodes: []byte{0x00, 0x01, 0x80}}
	var counter wire.ByteCounter
	require.NoError(t, s.Encode(&counter))
	owned := buffer.NewOwned(make([]byte, counter.N), nil)
	require.NoError(t, s.Encode(owned))

	got, err := DecodeSubAck(owned.Freeze())
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeSubAckWithNoReturnCodesIsEmptySlice(t *testing.T) {
	body := buffer.NewOwned(make([]byte, 2), nil)
	require.NoError(t, body.TryPutU16BE(3))
	got, err := DecodeSubAck(body.Freeze())
	require.NoError(t, err)
	assert.Equal(t, wire.PacketIdentifier(3), got.ID)
	assert.Empty(t, got.ReturnCodes)
}
