package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axmq/mqttwire/buffer"
)

func TestDecodeStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		s    string
	}{
		{"empty", ""},
		{"ascii", "hello"},
		{"multibyte", "héllo wörld"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owned := newOwnedForTest(t, 2+len(tt.s))
			require.NoError(t, EncodeString(owned, ByteStringOf(tt.s)))
			shared := owned.Freeze()
			got, err := DecodeString(shared)
			require.NoError(t, err)
			assert.Equal(t, tt.s, got.String())
			assert.True(t, shared.IsEmpty())
		})
	}
}

func TestDecodeStringIsZeroCopy(t *testing.T) {
	owned := newOwnedForTest(t, 7)
	require.NoError(t, EncodeString(owned, ByteStringOf("hello")))
	shared := owned.Freeze()
	got, err := DecodeString(shared)
	require.NoError(t, err)
	defer got.Close()
	assert.Equal(t, "hello", got.String())
	assert.Equal(t, []byte("hello"), got.Bytes())

	var c ByteCounter
	require.NoError(t, EncodeString(&c, got))
	assert.Equal(t, 7, c.N)
}

func TestDecodeStringRejectsEmbeddedNul(t *testing.T) {
	src := newSharedFromBytes(t, []byte{0x00, 0x01, 0x00})
	_, err := DecodeString(src)
	assert.ErrorIs(t, err, ErrStringNotUtf8)
}

func TestDecodeStringRejectsSurrogate(t *testing.T) {
	// U+D800 encoded as WTF-8 three bytes: 0xED 0xA0 0x80.
	src := newSharedFromBytes(t, []byte{0x00, 0x03, 0xED, 0xA0, 0x80})
	_, err := DecodeString(src)
	assert.ErrorIs(t, err, ErrStringNotUtf8)
}

func TestEncodeStringTooLarge(t *testing.T) {
	owned := newOwnedForTest(t, 0)
	big := make([]byte, 0x10000)
	err := EncodeString(owned, ByteStringOf(string(big)))
	assert.ErrorIs(t, err, ErrStringTooLarge)
}

func TestDecodeBinaryIsZeroCopy(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	owned := newOwnedForTest(t, 2+len(payload))
	src := buffer.NewOwned(payload, nil)
	src.Fill(len(payload))
	require.NoError(t, EncodeBinary(owned, src.Freeze()))

	shared := owned.Freeze()
	view, err := DecodeBinary(shared)
	require.NoError(t, err)
	defer view.Close()
	assert.Equal(t, payload, view.Bytes())
	assert.True(t, shared.IsEmpty())
}
