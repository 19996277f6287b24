package wire

import "github.com/axmq/mqttwire/buffer"

// MaxRemainingLength is the largest value the MQTT variable-length
// integer can hold: four bytes of seven data bits each.
const MaxRemainingLength = 268435455 // 0x0FFFFFFF

// MaxRemainingLengthBytes is the maximum wire length of the encoding.
const MaxRemainingLengthBytes = 4

// EncodeRemainingLength appends the shortest encoding of v to a
// Writer-shaped destination (buffer.Owned or ByteCounter both satisfy
// it). Values above MaxRemainingLength are rejected with
// ErrRemainingLengthTooHigh; the destination is left unchanged on
// failure.
func EncodeRemainingLength(dst Writer, v uint32) error {
	if v > MaxRemainingLength {
		return ErrRemainingLengthTooHigh
	}
	var buf [MaxRemainingLengthBytes]byte
	n := 0
	for {
		b := byte(v % 128)
		v /= 128
		if v > 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			break
		}
	}
	_, err := dst.Write(buf[:n])
	return err
}

// SizeRemainingLength returns the number of bytes EncodeRemainingLength
// would emit for v, without writing anything. v must already be known
// valid (≤ MaxRemainingLength).
func SizeRemainingLength(v uint32) int {
	n := 1
	for v >= 128 {
		v /= 128
		n++
	}
	return n
}

// DecodeRemainingLength reads a variable-length integer from src.
// Non-canonical (longer-than-necessary) encodings are accepted. A
// fifth continuation byte yields ErrRemainingLengthTooHigh. Truncation
// mid-sequence yields ErrIncompletePacket (callers decoding at the
// fixed-header boundary should treat that as "need more input").
func DecodeRemainingLength(src *buffer.Shared) (uint32, error) {
	var value uint32
	var multiplier uint32 = 1
	for i := 0; i < MaxRemainingLengthBytes; i++ {
		b, err := src.TryGetU8()
		if err != nil {
			return 0, err
		}
		value += uint32(b&0x7F) * multiplier
		if b&0x80 == 0 {
			return value, nil
		}
		multiplier *= 128
	}
	return 0, ErrRemainingLengthTooHigh
}

// Writer is satisfied by both buffer.Owned and ByteCounter, letting
// every encode routine run identically in the byte-counting pass and
// the real-emission pass.
type Writer interface {
	TryPutU8(v byte) error
	TryPutU16BE(v uint16) error
	TryPutU32BE(v uint32) error
	TryPutSlice(p []byte) error
	Write(p []byte) (int, error)
}

// ByteCounter implements Writer by only accumulating a byte count; it
// never touches real memory. Used as the first pass of the two-pass
// body-length computation described in the framing design: encode a
// packet into a ByteCounter to learn its exact body length, emit the
// fixed header and remaining length, then encode the same packet
// again into the real writable view.
type ByteCounter struct {
	N int
}

func (c *ByteCounter) TryPutU8(byte) error      { c.N++; return nil }
func (c *ByteCounter) TryPutU16BE(uint16) error { c.N += 2; return nil }
func (c *ByteCounter) TryPutU32BE(uint32) error { c.N += 4; return nil }
func (c *ByteCounter) TryPutSlice(p []byte) error {
	c.N += len(p)
	return nil
}

func (c *ByteCounter) Write(p []byte) (int, error) {
	c.N += len(p)
	return len(p), nil
}
