package buffer

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// LRUReplacer is an exact least-recently-used alternative to the clock
// policy. The tracked set never exceeds the pool size, so the backing
// cache never evicts on its own.
type LRUReplacer struct {
	tracked *lru.Cache
}

func NewLRUReplacer(poolSize int) (*LRUReplacer, error) {
	c, err := lru.New(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRUReplacer{tracked: c}, nil
}

func (r *LRUReplacer) Victim() (FrameID, bool) {
	key, _, ok := r.tracked.RemoveOldest()
	if !ok {
		return InvalidFrame, false
	}
	return key.(FrameID), true
}

func (r *LRUReplacer) Pin(frameID FrameID) {
	r.tracked.Remove(frameID)
}

func (r *LRUReplacer) Unpin(frameID FrameID) {
	r.tracked.Add(frameID, struct{}{})
}

func (r *LRUReplacer) Size() int {
	return r.tracked.Len()
}
