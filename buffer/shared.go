package buffer

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrIncompletePacket is returned by every read operation on a Shared
// view that does not have enough bytes remaining. The view is left
// unchanged on failure.
var ErrIncompletePacket = errors.New("buffer: incomplete packet")

// Shared is a cloneable, read-only view over [start, end) of a backing
// region. Clones share the same backing via refcounting; independent
// clones may narrow their own range via Drain/SplitTo without
// affecting siblings.
type Shared struct {
	b      *backing
	start  int
	end    int
	closed bool
}

// Len returns the number of bytes remaining in the view.
func (s *Shared) Len() int { return s.end - s.start }

// IsEmpty reports whether the view has no bytes remaining.
func (s *Shared) IsEmpty() bool { return s.start == s.end }

// Bytes returns the view's bytes. The returned slice must not be
// retained past the view's lifetime without a corresponding Clone.
func (s *Shared) Bytes() []byte { return s.b.region[s.start:s.end] }

// Clone returns a new Shared view over the same range, retaining an
// additional reference to the backing region.
func (s *Shared) Clone() *Shared {
	s.b.retain()
	return &Shared{b: s.b, start: s.start, end: s.end}
}

// Close releases this view's reference to the backing region. The
// region is returned to its pool once every Owned/Shared view over it
// has been closed or frozen away.
func (s *Shared) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.b.release()
}

// Drain advances start by n, shrinking the view from the front.
func (s *Shared) Drain(n int) error {
	if n > s.Len() {
		return ErrIncompletePacket
	}
	s.start += n
	return nil
}

// SplitTo returns a new Shared view owning [start, start+i), and
// narrows the receiver to [start+i, end).
func (s *Shared) SplitTo(i int) (*Shared, error) {
	if i > s.Len() {
		return nil, ErrIncompletePacket
	}
	cut := s.start + i
	s.b.retain()
	left := &Shared{b: s.b, start: s.start, end: cut}
	s.start = cut
	return left, nil
}

// TryGetU8 reads and drains a single byte.
func (s *Shared) TryGetU8() (byte, error) {
	if s.Len() < 1 {
		return 0, ErrIncompletePacket
	}
	v := s.Bytes()[0]
	s.start++
	return v, nil
}

// TryGetU16BE reads and drains a big-endian uint16.
func (s *Shared) TryGetU16BE() (uint16, error) {
	if s.Len() < 2 {
		return 0, ErrIncompletePacket
	}
	p := s.Bytes()
	v := uint16(p[0])<<8 | uint16(p[1])
	s.start += 2
	return v, nil
}

// TryGetU32BE reads and drains a big-endian uint32.
func (s *Shared) TryGetU32BE() (uint32, error) {
	if s.Len() < 4 {
		return 0, ErrIncompletePacket
	}
	p := s.Bytes()
	v := uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
	s.start += 4
	return v, nil
}

// TryGetPacketIdentifier reads a nonzero u16 packet identifier,
// failing with ErrZeroPacketIdentifier (not ErrIncompletePacket) if
// the two bytes present decode to zero.
func (s *Shared) TryGetPacketIdentifier() (uint16, error) {
	v, err := s.TryGetU16BE()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, ErrZeroPacketIdentifier
	}
	return v, nil
}

// ErrZeroPacketIdentifier is returned by TryGetPacketIdentifier when
// the wire value is zero, which is never a valid packet identifier.
var ErrZeroPacketIdentifier = errors.New("buffer: zero packet identifier")

// Equal compares two views by byte content.
func (s *Shared) Equal(o *Shared) bool {
	return bytes.Equal(s.Bytes(), o.Bytes())
}

// String renders the view the way the spec's debug format requires: a
// quoted, escaped byte literal.
func (s *Shared) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	writeEscaped(&sb, s.Bytes())
	sb.WriteByte('"')
	return sb.String()
}
