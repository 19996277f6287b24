package wire

import (
	"unicode/utf8"

	"github.com/axmq/mqttwire/buffer"
)

// ByteString is a two-byte-length-prefixed UTF-8 byte string. When
// decoded from the wire it holds a *buffer.Shared view over the
// original backing region, prefix included, so it stays a reference
// into the caller's input rather than a fresh allocation, and
// re-emitting it is the direct byte copy the wire format's "Byte
// string" data model calls for. A ByteString built from a plain Go
// string (e.g. a packet the embedder constructs for sending) carries
// no view; it is encoded the same way EncodeString always has been.
type ByteString struct {
	view *buffer.Shared
	str  string
}

// ByteStringOf wraps a plain Go string as a ByteString with no
// backing view, for packets built programmatically rather than
// decoded.
func ByteStringOf(s string) ByteString { return ByteString{str: s} }

// String materializes s's content as a Go string. For a decoded
// ByteString this copies out of the shared view; callers on a hot
// path that only need to compare or hash content should prefer
// Bytes.
func (s ByteString) String() string {
	if s.view != nil {
		return string(s.payload())
	}
	return s.str
}

// Bytes returns s's content without the length prefix. The slice
// aliases the backing region for a decoded ByteString and must not be
// retained past the view's lifetime without a corresponding Clone.
func (s ByteString) Bytes() []byte {
	if s.view != nil {
		return s.payload()
	}
	return []byte(s.str)
}

func (s ByteString) payload() []byte {
	b := s.view.Bytes()
	return b[2:]
}

// IsEmpty reports whether s has zero-length content.
func (s ByteString) IsEmpty() bool {
	if s.view != nil {
		return s.view.Len() <= 2
	}
	return s.str == ""
}

// Equal compares two ByteStrings by content.
func (s ByteString) Equal(o ByteString) bool {
	return string(s.Bytes()) == string(o.Bytes())
}

// Clone returns an independent ByteString sharing the same backing
// region (if any); Close must be called on the clone separately from
// the original.
func (s ByteString) Clone() ByteString {
	if s.view == nil {
		return s
	}
	return ByteString{view: s.view.Clone()}
}

// Close releases the backing-region reference a decoded ByteString
// holds. It is a no-op for a ByteString built from a plain Go string.
func (s ByteString) Close() {
	if s.view != nil {
		s.view.Close()
	}
}

// DecodeString reads a two-byte-length-prefixed UTF-8 byte string
// from src as a ByteString that keeps referencing src's backing
// region instead of copying out. Fails with ErrIncompletePacket if
// fewer than 2+L bytes are present, or ErrStringNotUtf8 if the
// payload is not valid UTF-8 per MQTT's rules (no embedded nul, no
// UTF-16 surrogate code points, no non-character code points).
func DecodeString(src *buffer.Shared) (ByteString, error) {
	if src.Len() < 2 {
		return ByteString{}, buffer.ErrIncompletePacket
	}
	prefix := src.Bytes()
	length := int(prefix[0])<<8 | int(prefix[1])
	if src.Len() < 2+length {
		return ByteString{}, buffer.ErrIncompletePacket
	}
	view, err := src.SplitTo(2 + length)
	if err != nil {
		return ByteString{}, err
	}
	if err := ValidateUTF8String(view.Bytes()[2:]); err != nil {
		view.Close()
		return ByteString{}, err
	}
	return ByteString{view: view}, nil
}

// EncodeString writes a ByteString's wire form. A decoded ByteString
// is re-emitted as a single direct copy of its retained prefix+
// payload view; a plain-string ByteString is encoded length-prefix-
// then-bytes as it always was. Fails with ErrStringTooLarge if the
// content exceeds 65535 bytes.
func EncodeString(dst Writer, s ByteString) error {
	if s.view != nil {
		return dst.TryPutSlice(s.view.Bytes())
	}
	if len(s.str) > 0xFFFF {
		return ErrStringTooLarge
	}
	if err := dst.TryPutU16BE(uint16(len(s.str))); err != nil {
		return err
	}
	if len(s.str) == 0 {
		return nil
	}
	return dst.TryPutSlice([]byte(s.str))
}

// DecodeBinary reads a two-byte-length-prefixed binary blob (no UTF-8
// validation — used for correlation data, authentication data and
// will payloads). The returned view is a zero-copy split of src: it
// retains a reference to the same backing region and must be closed
// (directly, or via the packet holding it) like any other Shared.
func DecodeBinary(src *buffer.Shared) (*buffer.Shared, error) {
	length, err := src.TryGetU16BE()
	if err != nil {
		return nil, err
	}
	return src.SplitTo(int(length))
}

// EncodeBinary writes the two-byte length prefix and raw bytes of p.
func EncodeBinary(dst Writer, p *buffer.Shared) error {
	if p.Len() > 0xFFFF {
		return ErrWillTooLarge
	}
	if err := dst.TryPutU16BE(uint16(p.Len())); err != nil {
		return err
	}
	if p.Len() == 0 {
		return nil
	}
	return dst.TryPutSlice(p.Bytes())
}

// ValidateUTF8String enforces the MQTT 5 rules for UTF-8 Encoded
// Strings (section 1.5.4): valid UTF-8, no null character, no UTF-16
// surrogate code points, no non-character code points.
func ValidateUTF8String(data []byte) error {
	for _, b := range data {
		if b == 0 {
			return ErrStringNotUtf8
		}
	}
	if !utf8.Valid(data) {
		return ErrStringNotUtf8
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if err := validateCodePoint(r); err != nil {
			return err
		}
		i += size
	}
	return nil
}

func validateCodePoint(r rune) error {
	if r >= 0xD800 && r <= 0xDFFF {
		return ErrStringNotUtf8
	}
	if r == 0xFFFE || r == 0xFFFF {
		return ErrStringNotUtf8
	}
	if r&0xFFFF == 0xFFFE || r&0xFFFF == 0xFFFF {
		return ErrStringNotUtf8
	}
	if r >= 0xFDD0 && r <= 0xFDEF {
		return ErrStringNotUtf8
	}
	return nil
}
