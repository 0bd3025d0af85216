package page

import "math"

// Size is the standard page size (4KB).
const Size = 4096

// ID represents a unique page identifier on durable storage.
type ID uint64

// InvalidID marks a frame that holds no page.
const InvalidID ID = math.MaxUint64

// Data is the fixed-size in-memory image of one page.
type Data [Size]byte

// Reset zero-fills the page image.
func (d *Data) Reset() {
	*d = Data{}
}
