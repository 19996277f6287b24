// Package buffer implements the zero-copy view substrate packet
// decoding is built on: a refcounted backing region, an exclusively
// owned writable view over a sub-range of it, and a cloneable
// read-only shared view. The backing region is returned to its pool
// the instant the last view over it is released.
package buffer

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// ErrDoubleRelease names a use-after-release condition. Owned.Release
// and Shared.Close do not return it: they return nothing and a second
// call on the same view is a no-op.
var ErrDoubleRelease = errors.New("buffer: view already released")

// Pool is the single operation a backing region's owner must support:
// taking the raw region back once every view referencing it has been
// released. Implementations decide whether to reuse or free region;
// the backing treats the call as fire-and-forget.
type Pool interface {
	PutBack(region []byte)
}

// backing is the refcounted byte region shared by every view derived
// from a single buffer handed out by a Pool. It has no exported API;
// callers only ever see it through Owned or Shared.
type backing struct {
	region []byte
	pool   Pool
	refs   atomic.Int64
}

func newBacking(region []byte, pool Pool) *backing {
	b := &backing{region: region, pool: pool}
	b.refs.Store(1)
	return b
}

// retain adds a reference, used whenever a new Shared clone or a
// split operation hands out another view over the same region. Freeze
// does not call it: the owned view's reference moves to the new view.
func (b *backing) retain() {
	b.refs.Add(1)
}

// release drops a reference and returns the region to the pool the
// instant the count reaches zero. Safe to call from any goroutine.
func (b *backing) release() {
	if b.refs.Add(-1) == 0 && b.pool != nil {
		b.pool.PutBack(b.region)
	}
}

// NewOwned wraps a backing region the caller guarantees is uniquely
// held at hand-off time into a writable view covering the entire
// region, empty (filled = 0).
func NewOwned(region []byte, pool Pool) *Owned {
	return &Owned{
		b:     newBacking(region, pool),
		start: 0,
		end:   len(region),
		fill:  0,
	}
}
