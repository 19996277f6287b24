package mqtt3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

func newSharedFromBytes(t *testing.T, b []byte) *buffer.Shared {
	t.Helper()
	owned := buffer.NewOwned(append([]byte(nil), b...), nil)
	owned.Fill(len(b))
	return owned.Freeze()
}

func TestDecodeConnectRestMinimal(t *testing.T) {
	// Fixed header (0x10, remaining length 13) is already stripped by
	// the caller; DecodeConnectRest starts right after protocol
	// name/level, which the top-level dispatcher also consumes first.
	body := []byte{
		0x00, 0x04, 'M', 'Q', 'T', 'T', // protocol name
		0x04,       // protocol level
		0x02,       // flags: clean session
		0x00, 0x3C, // keep alive 60
		0x00, 0x01, 'a', // client id "a"
	}
	src := newSharedFromBytes(t, body)

	start, err := wire.DecodeConnectStart(src)
	require.NoError(t, err)
	assert.Equal(t, byte(ProtocolLevel), start.ProtocolLevel)

	c, err := DecodeConnectRest(src)
	require.NoError(t, err)
	assert.Equal(t, wire.IDWithCleanSession, c.ClientID.Kind)
	assert.Equal(t, "a", c.ClientID.ID.String())
	assert.Equal(t, uint32(60), c.KeepAlive)
	assert.Nil(t, c.Will)
	assert.Nil(t, c.Username)
	assert.Nil(t, c.Password)
	assert.True(t, src.IsEmpty())
}

func TestConnectEncodeDecodeRoundTrip(t *testing.T) {
	payload := newSharedFromBytes(t, []byte("goodbye"))
	user := wire.ByteStringOf("alice")
	pass := wire.ByteStringOf("hunter2")
	c := Connect{
		ClientID:  wire.ClientID{Kind: wire.IDWithExistingSession, ID: wire.ByteStringOf("client-1")},
		KeepAlive: 30,
		Will: &Publication{
			TopicName: wire.ByteStringOf("lwt/topic"),
			QoS:       wire.AtLeastOnce,
			Retain:    true,
			Payload:   payload,
		},
		Username: &user,
		Password: &pass,
	}

	var counter wire.ByteCounter
	require.NoError(t, c.Encode(&counter))
	owned := buffer.NewOwned(make([]byte, counter.N), nil)
	require.NoError(t, c.Encode(owned))
	shared := owned.Freeze()

	start, err := wire.DecodeConnectStart(shared)
	require.NoError(t, err)
	assert.Equal(t, byte(ProtocolLevel), start.ProtocolLevel)

	got, err := DecodeConnectRest(shared)
	require.NoError(t, err)
	assert.Equal(t, c.ClientID.Kind, got.ClientID.Kind)
	assert.Equal(t, c.ClientID.ID.String(), got.ClientID.ID.String())
	assert.Equal(t, c.KeepAlive, got.KeepAlive)
	require.NotNil(t, got.Will)
	assert.Equal(t, "lwt/topic", got.Will.TopicName.String())
	assert.Equal(t, wire.AtLeastOnce, got.Will.QoS)
	assert.True(t, got.Will.Retain)
	assert.Equal(t, []byte("goodbye"), got.Will.Payload.Bytes())
	require.NotNil(t, got.Username)
	assert.Equal(t, user.String(), got.Username.String())
	require.NotNil(t, got.Password)
	assert.Equal(t, pass.String(), got.Password.String())
}

func TestDecodeConnectRestRejectsReservedFlag(t *testing.T) {
	body := []byte{
		0x00, 0x04, 'M', 'Q', 'T', 'T',
		0x04,
		0x01, // reserved bit set
		0x00, 0x00,
		0x00, 0x00,
	}
	src := newSharedFromBytes(t, body)
	_, err := wire.DecodeConnectStart(src)
	require.NoError(t, err)
	_, err = DecodeConnectRest(src)
	assert.ErrorIs(t, err, wire.ErrConnectReservedSet)
}

func TestDecodeConnectRestRejectsZeroLengthIDWithExistingSession(t *testing.T) {
	body := []byte{
		0x00, 0x04, 'M', 'Q', 'T', 'T',
		0x04,
		0x00, // clean session bit clear, empty client id
		0x00, 0x00,
		0x00, 0x00,
	}
	src := newSharedFromBytes(t, body)
	_, err := wire.DecodeConnectStart(src)
	require.NoError(t, err)
	_, err = DecodeConnectRest(src)
	assert.ErrorIs(t, err, wire.ErrConnectZeroLengthIDWithSession)
}
