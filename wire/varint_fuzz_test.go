package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FuzzEncodeDecodeRemainingLength(f *testing.F) {
	seeds := []uint32{
		0, 1, 127, 128, 16383, 16384, 2097151, 2097152, MaxRemainingLength,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, value uint32) {
		var c ByteCounter
		err := EncodeRemainingLength(&c, value)

		if value > MaxRemainingLength {
			require.ErrorIs(t, err, ErrRemainingLengthTooHigh)
			return
		}
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c.N, 1)
		assert.LessOrEqual(t, c.N, MaxRemainingLengthBytes)
		assert.Equal(t, c.N, SizeRemainingLength(value))

		owned := newOwnedForTest(t, c.N)
		require.NoError(t, EncodeRemainingLength(owned, value))
		shared := owned.Freeze()
		defer shared.Close()

		decoded, err := DecodeRemainingLength(shared)
		require.NoError(t, err)
		assert.Equal(t, value, decoded)
		assert.True(t, shared.IsEmpty())
	})
}

func FuzzDecodeRemainingLength(f *testing.F) {
	seeds := [][]byte{
		{0x00},
		{0x7F},
		{0x80, 0x01},
		{0xFF, 0x7F},
		{0x80, 0x80, 0x01},
		{0xFF, 0xFF, 0x7F},
		{0x80, 0x80, 0x80, 0x01},
		{0xFF, 0xFF, 0xFF, 0x7F},
		{0x80},
		{0x80, 0x80},
		{0x80, 0x80, 0x80},
		{0x80, 0x80, 0x80, 0x80},
		{0xFF, 0xFF, 0xFF, 0xFF},
		{0x81, 0x00},
		{0x81, 0x80, 0x00},
		{0x81, 0x80, 0x80, 0x00},
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		shared := newSharedFromBytes(t, data)
		defer shared.Close()

		value, err := DecodeRemainingLength(shared)
		if err != nil {
			return
		}
		assert.LessOrEqual(t, value, uint32(MaxRemainingLength))

		var c ByteCounter
		require.NoError(t, EncodeRemainingLength(&c, value))
		assert.LessOrEqual(t, c.N, MaxRemainingLengthBytes)
	})
}
