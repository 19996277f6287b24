package buffer

import "sync"

// SlicePool is a Pool backed by a sync.Pool of fixed-capacity byte
// slices. It is the library's default, dependency-free pool
// implementation; embedding applications are free to supply their own
// Pool (e.g. one backed by a ring buffer or an arena allocator).
type SlicePool struct {
	pool sync.Pool
	size int
}

// NewSlicePool returns a pool that hands out regions of size bytes.
func NewSlicePool(size int) *SlicePool {
	p := &SlicePool{size: size}
	p.pool.New = func() any {
		return make([]byte, size)
	}
	return p
}

// Get returns an Owned view covering a fresh or reused region of the
// pool's configured size.
func (p *SlicePool) Get() *Owned {
	region := p.pool.Get().([]byte)
	return NewOwned(region, p)
}

// PutBack implements Pool.
func (p *SlicePool) PutBack(region []byte) {
	if cap(region) != p.size {
		return
	}
	p.pool.Put(region[:p.size])
}

// CountingPool wraps another Pool and counts how many times PutBack
// is called, for tests asserting the "pool return fires exactly once"
// property.
type CountingPool struct {
	mu      sync.Mutex
	Next    Pool
	Returns int
}

// PutBack implements Pool.
func (p *CountingPool) PutBack(region []byte) {
	p.mu.Lock()
	p.Returns++
	p.mu.Unlock()
	if p.Next != nil {
		p.Next.PutBack(region)
	}
}
