package mqtt5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

func decodeFull(t *testing.T, raw []byte) (Packet, error) {
	t.Helper()
	src := newSharedFromBytes(t, raw)
	header, ok, err := wire.DecodeFixedHeader(src)
	require.NoError(t, err)
	require.True(t, ok)
	body, err := src.SplitTo(int(header.RemainingLength))
	require.NoError(t, err)
	defer body.Close()
	return Decode(header, body)
}

func TestDecodePingReq(t *testing.T) {
	pkt, err := decodeFull(t, []byte{0xC0, 0x00})
	require.NoError(t, err)
	assert.NotNil(t, pkt.PingReq)
}

func TestDecodeDisconnectNormalBytes(t *testing.T) {
	pkt, err := decodeFull(t, []byte{0xE0, 0x00})
	require.NoError(t, err)
	require.NotNil(t, pkt.Disconnect)
	assert.Equal(t, DisconnectNormal, pkt.Disconnect.ReasonCode)
}

func TestDecodeConnAckRejectsDuplicateSessionExpiryInterval(t *testing.T) {
	props := &Properties{}
	require.NoError(t, props.Add(SessionExpiryInterval, uint32(1)))
	props.List = append(props.List, Property{ID: SessionExpiryInterval, Value: uint32(2)})

	var propCounter wire.ByteCounter
	for _, p := range props.List {
		require.NoError(t, encodeEntry(&propCounter, p))
	}

	body := buffer.NewOwned(make([]byte, 2+1+propCounter.N), nil)
	require.NoError(t, body.TryPutU8(0x00)) // ack flags
	require.NoError(t, body.TryPutU8(byte(ConnectSuccess)))
	require.NoError(t, wire.EncodeRemainingLength(body, uint32(propCounter.N)))
	for _, p := range props.List {
		require.NoError(t, encodeEntry(body, p))
	}
	bodyShared := body.Freeze()

	_, err := DecodeConnAck(bodyShared)
	assert.ErrorIs(t, err, wire.ErrDuplicateProperty)
	var dupErr *DuplicatePropertyError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, SessionExpiryInterval, dupErr.ID)
}

func TestDecodeAuthMissingAuthenticationMethod(t *testing.T) {
	body := buffer.NewOwned(make([]byte, 2), nil)
	require.NoError(t, body.TryPutU8(byte(AuthContinueAuthentication)))
	require.NoError(t, wire.EncodeRemainingLength(body, 0)) // empty property section
	_, err := DecodeAuth(body.Freeze())
	assert.ErrorIs(t, err, wire.ErrMissingRequiredProperty)
	var missingErr *MissingRequiredPropertyError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "authentication method", missingErr.Name)
}

func TestPublishRoundTripWithProperties(t *testing.T) {
	p := Publish{
		TopicName:               wire.ByteStringOf("a/b"),
		IDAndQoS:                wire.PacketIdentifierDupQoS{QoS: wire.AtLeastOnce, ID: 5},
		Retain:                  true,
		ContentType:             wire.ByteStringOf("text/plain"),
		ResponseTopic:           wire.ByteStringOf("reply/to"),
		SubscriptionIdentifiers: []uint32{1, 2},
		UserProperties:          []StringPair{{Key: wire.ByteStringOf("k"), Value: wire.ByteStringOf("v")}},
		Payload:                 newSharedFromBytes(t, []byte("hello")),
	}
	pkt := Packet{Publish: &p}

	var counter wire.ByteCounter
	require.NoError(t, pkt.Encode(&counter))
	owned := buffer.NewOwned(make([]byte, counter.N), nil)
	require.NoError(t, pkt.Encode(owned))

	got, err := decodeFull(t, owned.Filled())
	require.NoError(t, err)
	require.NotNil(t, got.Publish)
	assert.Equal(t, "a/b", got.Publish.TopicName.String())
	assert.Equal(t, wire.AtLeastOnce, got.Publish.IDAndQoS.QoS)
	assert.True(t, got.Publish.Retain)
	assert.Equal(t, "text/plain", got.Publish.ContentType.String())
	assert.Equal(t, "reply/to", got.Publish.ResponseTopic.String())
	assert.Equal(t, []uint32{1, 2}, got.Publish.SubscriptionIdentifiers)
	assert.Equal(t, []byte("hello"), got.Publish.Payload.Bytes())
}

func TestDecodeUnrecognizedPacketType(t *testing.T) {
	_, err := decodeFull(t, []byte{0x00, 0x00})
	assert.ErrorIs(t, err, wire.ErrUnrecognizedPacket)
}

func TestDecodePubRelWrongFlags(t *testing.T) {
	_, err := decodeFull(t, []byte{0x60, 0x02, 0x00, 0x01})
	assert.ErrorIs(t, err, wire.ErrUnrecognizedPacket)
}
