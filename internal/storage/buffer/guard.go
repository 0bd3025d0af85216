package buffer

import "framedb/internal/storage/page"

// Guard is an owned handle to a pinned page. While the guard is live the
// pool will not evict the frame or reassign it to another page. Release it
// on every exit path, typically with defer.
type Guard struct {
	pool     *Pool
	frame    *Frame
	id       page.ID
	dirty    bool
	released bool
}

func newGuard(p *Pool, id page.ID, f *Frame) *Guard {
	return &Guard{pool: p, frame: f, id: id}
}

func (g *Guard) PageID() page.ID { return g.id }

// Data exposes the pinned page buffer. Returns nil after release.
func (g *Guard) Data() []byte {
	if g.released {
		return nil
	}
	return g.frame.Data()
}

// MarkDirty records that the caller modified the buffer. The flag reaches
// the pool when the guard is released.
func (g *Guard) MarkDirty() {
	g.dirty = true
}

// Release drops the pin, carrying the accumulated dirty flag. Calling it
// again is a no-op, so deferring a Release next to explicit ones is safe.
func (g *Guard) Release() error {
	if g.released {
		return nil
	}
	g.released = true
	return g.pool.UnpinPage(g.id, g.dirty)
}
