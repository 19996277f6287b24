package mqtt3

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

func TestDecodePingReqRejectsNonzeroRemainingLength(t *testing.T) {
	_, err := decodeFull(t, []byte{0xC0, 0x01, 0x00})
	assert.ErrorIs(t, err, wire.ErrUnrecognizedPacket)
}

func TestPublishQoS0RoundTrip(t *testing.T) {
	raw := []byte{0x30, 0x05, 0x00, 0x01, 't', 'h', 'i'}
	pkt, err := decodeFull(t, raw)
	require.NoError(t, err)
	require.NotNil(t, pkt.Publish)
	assert.Equal(t, "t", pkt.Publish.TopicName.String())
	assert.Equal(t, wire.AtMostOnce, pkt.Publish.IDAndQoS.QoS)
	assert.False(t, pkt.Publish.IDAndQoS.Dup)
	assert.False(t, pkt.Publish.Retain)
	assert.Equal(t, []byte("hi"), pkt.Publish.Payload.Bytes())

	var counter wire.ByteCounter
	require.NoError(t, pkt.Encode(&counter))
	owned := buffer.NewOwned(make([]byte, counter.N), nil)
	require.NoError(t, pkt.Encode(owned))
	assert.Equal(t, raw, owned.Filled())
}

func TestPublishQoS2DupIDRoundTrip(t *testing.T) {
	// DUP=1, QoS=2, RETAIN=0 -> flags 0x0C; topic "t", packet id 7,
	// payload "hi".
	raw := []byte{0x3C, 0x07, 0x00, 0x01, 't', 0x00, 0x07, 'h', 'i'}
	pkt, err := decodeFull(t, raw)
	require.NoError(t, err)
	require.NotNil(t, pkt.Publish)
	assert.Equal(t, wire.ExactlyOnce, pkt.Publish.IDAndQoS.QoS)
	assert.True(t, pkt.Publish.IDAndQoS.Dup)
	assert.Equal(t, wire.PacketIdentifier(7), pkt.Publish.IDAndQoS.ID)
	assert.Equal(t, []byte("hi"), pkt.Publish.Payload.Bytes())

	var counter wire.ByteCounter
	require.NoError(t, pkt.Encode(&counter))
	owned := buffer.NewOwned(make([]byte, counter.N), nil)
	require.NoError(t, pkt.Encode(owned))
	assert.Equal(t, raw, owned.Filled())
}

func TestDecodePubAck(t *testing.T) {
	raw := []byte{0x40, 0x02, 0x00, 0x07}
	pkt, err := decodeFull(t, raw)
	require.NoError(t, err)
	require.NotNil(t, pkt.PubAck)
	assert.Equal(t, wire.PacketIdentifier(7), pkt.PubAck.ID)
}

func TestDecodePubRelRejectsWrongFlags(t *testing.T) {
	_, err := decodeFull(t, []byte{0x60, 0x02, 0x00, 0x07})
	assert.ErrorIs(t, err, wire.ErrUnrecognizedPacket)
}

func TestDecodeSubscribeRejectsEmptyTopicList(t *testing.T) {
	_, err := decodeFull(t, []byte{0x82, 0x02, 0x00, 0x01})
	assert.ErrorIs(t, err, wire.ErrNoTopics)
}

func TestDecodeSubscribeRejectsReservedOptionBits(t *testing.T) {
	body := []byte{0x00, 0x01, 0x00, 0x01, 't', 0x04}
	raw := append([]byte{0x82, byte(len(body))}, body...)
	_, err := decodeFull(t, raw)
	assert.ErrorIs(t, err, wire.ErrSubscriptionOptionsReservedSet)
}

func TestSubscribeRoundTrip(t *testing.T) {
	s := Subscribe{
		ID: 1,
		Subscriptions: []Subscription{
			{TopicFilter: wire.ByteStringOf("a/b"), QoS: wire.AtLeastOnce},
			{TopicFilter: wire.ByteStringOf("c/#"), QoS: wire.ExactlyOnce},
		},
	}
	pkt := Packet{Subscribe: &s}
	var counter wire.ByteCounter
	require.NoError(t, pkt.Encode(&counter))
	owned := buffer.NewOwned(make([]byte, counter.N), nil)
	require.NoError(t, pkt.Encode(owned))

	got, err := decodeFull(t, owned.Filled())
	require.NoError(t, err)
	require.NotNil(t, got.Subscribe)
	assert.Equal(t, s.ID, got.Subscribe.ID)
	require.Len(t, got.Subscribe.Subscriptions, len(s.Subscriptions))
	for i, sub := range s.Subscriptions {
		assert.Equal(t, sub.TopicFilter.String(), got.Subscribe.Subscriptions[i].TopicFilter.String())
		assert.Equal(t, sub.QoS, got.Subscribe.Subscriptions[i].QoS)
	}
}

func TestDecodeConnAckRejectsSessionPresentWithNonAccepted(t *testing.T) {
	raw := []byte{0x20, 0x02, 0x01, 0x02}
	_, err := decodeFull(t, raw)
	assert.ErrorIs(t, err, wire.ErrUnrecognizedConnAckFlags)
}

func TestTrailingGarbageRejected(t *testing.T) {
	// PUBACK body is exactly 2 bytes; append a spurious extra byte.
	raw := []byte{0x40, 0x03, 0x00, 0x07, 0xFF}
	_, err := decodeFull(t, raw)
	assert.ErrorIs(t, err, wire.ErrTrailingGarbage)
}

func TestDecodeUnrecognizedPacketType(t *testing.T) {
	_, err := decodeFull(t, []byte{0xF0, 0x00})
	assert.ErrorIs(t, err, wire.ErrUnrecognizedPacket)
}
