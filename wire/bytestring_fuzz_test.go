package wire

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func FuzzValidateUTF8String(f *testing.F) {
	f.Add([]byte("hello world"))
	f.Add([]byte(""))
	f.Add([]byte("\xf0\x9f\x8c\x8d"))
	f.Add([]byte{0x00})
	f.Add([]byte{0xFF, 0xFE})
	f.Add([]byte{0xEF, 0xBF, 0xBE})
	f.Add([]byte{0xED, 0xA0, 0x80})

	f.Fuzz(func(t *testing.T, data []byte) {
		err := ValidateUTF8String(data)
		if err == nil {
			assert.True(t, utf8.Valid(data))
			for _, b := range data {
				assert.NotEqual(t, byte(0), b)
			}
		}
	})
}

func FuzzDecodeString(f *testing.F) {
	f.Add([]byte{0x00, 0x00})
	f.Add([]byte{0x00, 0x01, 'a'})
	f.Add([]byte{0x00, 0x05, 'h', 'e', 'l', 'l', 'o'})
	f.Add([]byte{0xFF, 0xFF})
	f.Add([]byte{0x00, 0x01, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		shared := newSharedFromBytes(t, data)
		defer shared.Close()

		before := shared.Len()
		s, err := DecodeString(shared)
		if err != nil {
			return
		}
		assert.LessOrEqual(t, shared.Len(), before)

		var c ByteCounter
		assert.NoError(t, EncodeString(&c, s))
	})
}
