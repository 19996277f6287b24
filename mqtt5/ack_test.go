package mqtt5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

func TestDecodePubAckSuccessOmitsTail(t *testing.T) {
	p, err := DecodePubAck(newSharedFromBytes(t, []byte{0x00, 0x07}))
	require.NoError(t, err)
	assert.Equal(t, PubAck{ID: 7, ReasonCode: PubAckSuccess}, p)
}

func TestPubAckSuccessEncodesToJustID(t *testing.T) {
	p := PubAck{ID: 7, ReasonCode: PubAckSuccess}
	var counter wire.ByteCounter
	require.NoError(t, p.Encode(&counter))
	assert.Equal(t, 2, counter.N)
}

func TestPubAckRoundTripWithReasonAndProperties(t *testing.T) {
	p := PubAck{
		ID:             9,
		ReasonCode:     PubAckNotAuthorized,
		ReasonString:   wire.ByteStringOf("nope"),
		UserProperties: []StringPair{{Key: wire.ByteStringOf("k"), Value: wire.ByteStringOf("v")}},
	}
	var counter wire.ByteCounter
	require.NoError(t, p.Encode(&counter))
	owned := buffer.NewOwned(make([]byte, counter.N), nil)
	require.NoError(t, p.Encode(owned))

	got, err := DecodePubAck(owned.Freeze())
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.ReasonCode, got.ReasonCode)
	assert.Equal(t, p.ReasonString.String(), got.ReasonString.String())
	require.Len(t, got.UserProperties, 1)
	assert.Equal(t, "k", got.UserProperties[0].Key.String())
	assert.Equal(t, "v", got.UserProperties[0].Value.String())
}

func TestPubAckReasonCodeOnlyNoProperties(t *testing.T) {
	p, err := DecodePubAck(newSharedFromBytes(t, []byte{0x00, 0x07, byte(PubAckQuotaExceeded)}))
	require.NoError(t, err)
	assert.Equal(t, PubAck{ID: 7, ReasonCode: PubAckQuotaExceeded}, p)
}

func TestPubRelRoundTrip(t *testing.T) {
	p := PubRel{ID: 11, ReasonCode: PubRelPacketIdentifierNotFound}
	var counter wire.ByteCounter
	require.NoError(t, p.Encode(&counter))
	owned := buffer.NewOwned(make([]byte, counter.N), nil)
	require.NoError(t, p.Encode(owned))

	got, err := DecodePubRel(owned.Freeze())
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
