package buffer

import (
	"math"

	"framedb/internal/storage/page"
)

// FrameID names a physical buffer slot. Frame indices live in a different
// address space than page identifiers and carry their own sentinel.
type FrameID uint32

// InvalidFrame marks "no frame acquired".
const InvalidFrame FrameID = math.MaxUint32

// Frame is one buffer slot: a page image plus its bookkeeping.
// All mutation happens inside the pool while its lock is held.
type Frame struct {
	id       page.ID
	pinCount uint32
	dirty    bool
	data     page.Data
}

func (f *Frame) PageID() page.ID { return f.id }

func (f *Frame) PinCount() uint32 { return f.pinCount }

func (f *Frame) IsDirty() bool { return f.dirty }

// Data exposes the raw page buffer. Only valid while the frame is pinned.
func (f *Frame) Data() []byte { return f.data[:] }

// reset clears the slot for reuse.
func (f *Frame) reset() {
	f.id = page.InvalidID
	f.pinCount = 0
	f.dirty = false
	f.data.Reset()
}
