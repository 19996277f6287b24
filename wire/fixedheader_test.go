package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFixedHeaderPingReq(t *testing.T) {
	src := newSharedFromBytes(t, []byte{0xC0, 0x00})
	h, ok, err := DecodeFixedHeader(src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte(0x0C), h.PacketType())
	assert.Equal(t, byte(0x00), h.Flags())
	assert.Equal(t, uint32(0), h.RemainingLength)
	assert.True(t, src.IsEmpty())
}

func TestDecodeFixedHeaderIncompleteIsNotAnError(t *testing.T) {
	// Only the first byte has arrived; no remaining-length byte yet.
	src := newSharedFromBytes(t, []byte{0xC0})
	h, ok, err := DecodeFixedHeader(src)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, FixedHeader{}, h)
}

func TestDecodeFixedHeaderEmptySourceIsIncomplete(t *testing.T) {
	src := newSharedFromBytes(t, nil)
	_, ok, err := DecodeFixedHeader(src)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEncodeFixedHeaderRoundTrip(t *testing.T) {
	owned := newOwnedForTest(t, 2)
	require.NoError(t, EncodeFixedHeader(owned, 0x0C, 0x00, 0))
	shared := owned.Freeze()
	h, ok, err := DecodeFixedHeader(shared)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte(0x0C), h.PacketType())
	assert.Equal(t, uint32(0), h.RemainingLength)
}
