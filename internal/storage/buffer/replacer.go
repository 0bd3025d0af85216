package buffer

import (
	"fmt"

	util "framedb/internal/utils"
)

// Replacer tracks the frames that are resident but unpinned and elects
// eviction victims among them.
type Replacer interface {
	// Victim elects a frame to evict and stops tracking it.
	// Returns false if no frame is evictable.
	Victim() (FrameID, bool)
	// Pin removes a frame from eviction election. No-op if not tracked.
	Pin(frameID FrameID)
	// Unpin adds a frame for eviction election, marked recently used.
	Unpin(frameID FrameID)
	// Size returns the number of evictable frames.
	Size() int
}

// NewReplacer creates a replacer for the given policy name.
func NewReplacer(policy string, poolSize int) (Replacer, error) {
	switch policy {
	case "", "clock":
		return NewClockReplacer(poolSize), nil
	case "lru":
		return NewLRUReplacer(poolSize)
	default:
		return nil, fmt.Errorf("%w: %q", util.ErrInvalidReplacer, policy)
	}
}
