package buffer

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInsufficientBuffer is returned by every write operation on an
// Owned view whose unfilled region is too small to hold the value.
// The view is left unchanged on failure.
var ErrInsufficientBuffer = errors.New("buffer: insufficient unfilled capacity")

// Owned is an exclusive, fill-tracking view over [start, end) of a
// backing region. Bytes in [start, fill) are the filled region
// (readable); bytes in [fill, end) are unfilled (writable). Owned is
// never clonable: Freeze consumes it, SplitTo partitions it. This is
// the structural half of the aliasing rule — a byte is reachable
// through at most one Owned, or through any number of Shared, never
// both.
type Owned struct {
	b       *backing
	start   int
	end     int
	fill    int
	dropped bool
}

// FilledLen returns the number of readable bytes currently held.
func (o *Owned) FilledLen() int { return o.fill - o.start }

// FilledIsEmpty reports whether no bytes have been filled yet.
func (o *Owned) FilledIsEmpty() bool { return o.fill == o.start }

// UnfilledLen returns the number of bytes still available to write.
func (o *Owned) UnfilledLen() int { return o.end - o.fill }

// Filled returns the filled prefix of the view.
func (o *Owned) Filled() []byte { return o.b.region[o.start:o.fill] }

// Unfilled returns the unfilled suffix of the view, writable in
// place.
func (o *Owned) Unfilled() []byte { return o.b.region[o.fill:o.end] }

// Drain advances start by n, shortening the filled prefix from the
// front. Panics if n would drain past fill.
func (o *Owned) Drain(n int) {
	if o.start+n > o.fill {
		panic("buffer: Drain past filled cursor")
	}
	o.start += n
}

// Fill advances the fill cursor by n, extending the filled prefix to
// cover bytes the caller just wrote into Unfilled(). Panics if n
// would extend past end.
func (o *Owned) Fill(n int) {
	if o.fill+n > o.end {
		panic("buffer: Fill past view end")
	}
	o.fill += n
}

// SplitTo returns a new Owned view owning [start, start+i), and
// narrows the receiver to [start+i, end). Filled cursors are split so
// neither side claims filled bytes outside its new range.
func (o *Owned) SplitTo(i int) *Owned {
	if i < 0 || o.start+i > o.end {
		panic("buffer: SplitTo out of range")
	}
	cut := o.start + i
	left := &Owned{
		b:     o.b,
		start: o.start,
		end:   cut,
		fill:  min(o.fill, cut),
	}
	o.b.retain()
	o.start = cut
	if o.fill < o.start {
		o.fill = o.start
	}
	return left
}

// Freeze consumes the Owned view and returns a Shared view over its
// filled region only. The backing's reference is transferred, not
// duplicated: Freeze does not change the refcount.
func (o *Owned) Freeze() *Shared {
	o.dropped = true
	return &Shared{b: o.b, start: o.start, end: o.fill}
}

// Release returns the backing reference held by this view without
// producing a Shared. Used when an Owned view is discarded without
// ever being frozen (e.g. an encode that fails partway through).
func (o *Owned) Release() {
	if o.dropped {
		return
	}
	o.dropped = true
	o.b.release()
}

// TryPutU8 writes a single byte into the unfilled region and advances
// fill, or returns ErrInsufficientBuffer leaving the view unchanged.
func (o *Owned) TryPutU8(v byte) error {
	if o.UnfilledLen() < 1 {
		return ErrInsufficientBuffer
	}
	o.Unfilled()[0] = v
	o.Fill(1)
	return nil
}

// TryPutU16BE writes a big-endian uint16.
func (o *Owned) TryPutU16BE(v uint16) error {
	if o.UnfilledLen() < 2 {
		return ErrInsufficientBuffer
	}
	u := o.Unfilled()
	u[0] = byte(v >> 8)
	u[1] = byte(v)
	o.Fill(2)
	return nil
}

// TryPutU32BE writes a big-endian uint32.
func (o *Owned) TryPutU32BE(v uint32) error {
	if o.UnfilledLen() < 4 {
		return ErrInsufficientBuffer
	}
	u := o.Unfilled()
	u[0] = byte(v >> 24)
	u[1] = byte(v >> 16)
	u[2] = byte(v >> 8)
	u[3] = byte(v)
	o.Fill(4)
	return nil
}

// TryPutSlice copies p into the unfilled region.
func (o *Owned) TryPutSlice(p []byte) error {
	if o.UnfilledLen() < len(p) {
		return ErrInsufficientBuffer
	}
	copy(o.Unfilled(), p)
	o.Fill(len(p))
	return nil
}

// Write implements io.Writer so Owned can be handed to helpers that
// write generically; it is just TryPutSlice with io.Writer's nil
// error-on-short-buffer convention inverted back to an explicit
// error, matching the rest of this type's Try* methods.
func (o *Owned) Write(p []byte) (int, error) {
	if err := o.TryPutSlice(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// String renders the view the way the spec's debug format requires:
// a quoted byte literal for the filled region, with the unfilled
// capacity shown as an appended "...N".
func (o *Owned) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	writeEscaped(&sb, o.Filled())
	sb.WriteByte('"')
	if n := o.UnfilledLen(); n > 0 {
		fmt.Fprintf(&sb, "...%d", n)
	}
	return sb.String()
}

func writeEscaped(sb *strings.Builder, p []byte) {
	for _, c := range p {
		switch {
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c >= 0x20 && c < 0x7F:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(sb, "\\x%02x", c)
		}
	}
}
