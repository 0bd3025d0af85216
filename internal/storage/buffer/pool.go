package buffer

import (
	"errors"
	"fmt"
	"sync"

	"framedb/internal/storage/disk"
	"framedb/internal/storage/page"
	util "framedb/internal/utils"
)

// WAL is the write-ahead-log collaborator. When set, the log is flushed
// before any page write-back so log records never trail the data they cover.
type WAL interface {
	Flush() error
}

/*
Pool is the buffer pool manager: it mediates all access to fixed-size pages
between in-memory consumers and durable storage.

Every frame holds at most one page and every resident page occupies exactly
one frame. A pinned frame is never evicted or reassigned until its pin count
drops to zero. One mutex serializes all operations; disk IO during eviction
write-back happens while it is held.
*/
type Pool struct {
	mu        sync.Mutex
	disk      disk.Manager
	wal       WAL
	frames    []Frame
	pageTable map[page.ID]FrameID
	freeList  []FrameID
	replacer  Replacer
}

// NewPool creates a buffer pool with the given number of frames.
// Initially every frame is on the free list.
func NewPool(size int, dm disk.Manager, replacer Replacer) (*Pool, error) {
	if size <= 0 {
		return nil, util.ErrInvalidPoolSize
	}

	p := &Pool{
		disk:      dm,
		frames:    make([]Frame, size),
		pageTable: make(map[page.ID]FrameID, size),
		freeList:  make([]FrameID, size),
		replacer:  replacer,
	}
	for i := range p.frames {
		p.frames[i].id = page.InvalidID
		p.freeList[i] = FrameID(i)
	}
	return p, nil
}

// SetWAL attaches the write-ahead-log collaborator.
func (p *Pool) SetWAL(w WAL) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wal = w
}

// FetchPage pins the page in a frame and returns a guard for it, reading
// the page from disk unless it is already resident.
//
// Fails with ErrNoFreeFrame when the free list is empty and every resident
// frame is pinned.
func (p *Pool) FetchPage(id page.ID) (*Guard, error) {
	if id == page.InvalidID {
		return nil, util.ErrInvalidPageId
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	// page table hit
	if frameID, ok := p.pageTable[id]; ok {
		f := &p.frames[frameID]
		f.pinCount++
		p.replacer.Pin(frameID)
		return newGuard(p, id, f), nil
	}

	frameID, err := p.acquireFrame()
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", id, err)
	}

	f := &p.frames[frameID]
	if err := p.disk.ReadPage(id, &f.data); err != nil {
		// a failed read may have scribbled on the buffer; free-list
		// frames must come back clean
		f.reset()
		p.freeList = append(p.freeList, frameID)
		return nil, fmt.Errorf("read page %d: %w", id, err)
	}
	f.id = id
	f.pinCount = 1
	f.dirty = false
	p.pageTable[id] = frameID

	return newGuard(p, id, f), nil
}

// NewPage allocates a fresh page on disk, pins its zeroed image in a frame
// and returns a guard for it.
//
// Fails with ErrNoFreeFrame when the free list is empty and every resident
// frame is pinned.
func (p *Pool) NewPage() (*Guard, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, err := p.acquireFrame()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}

	id, err := p.disk.AllocatePage()
	if err != nil {
		f := &p.frames[frameID]
		f.reset()
		p.freeList = append(p.freeList, frameID)
		return nil, fmt.Errorf("allocate page: %w", err)
	}

	f := &p.frames[frameID]
	f.id = id
	f.pinCount = 1
	// born dirty: the zero image has never been persisted
	f.dirty = true
	p.pageTable[id] = frameID

	return newGuard(p, id, f), nil
}

// UnpinPage drops one pin from the page and ORs the dirty flag in.
// When the pin count reaches zero the frame becomes evictable.
func (p *Pool) UnpinPage(id page.ID, isDirty bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable[id]
	if !ok {
		return fmt.Errorf("unpin page %d: %w", id, util.ErrPageNotFound)
	}
	f := &p.frames[frameID]
	if f.pinCount == 0 {
		return fmt.Errorf("unpin page %d: %w", id, util.ErrPageNotPinned)
	}

	f.pinCount--
	f.dirty = f.dirty || isDirty
	if f.pinCount == 0 {
		p.replacer.Unpin(frameID)
	}
	return nil
}

// FlushPage writes the page back to disk if it is dirty.
// Idempotent on a clean page.
func (p *Pool) FlushPage(id page.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable[id]
	if !ok {
		return fmt.Errorf("flush page %d: %w", id, util.ErrPageNotFound)
	}
	return p.flushFrame(&p.frames[frameID])
}

// FlushAll writes every dirty resident page back to disk. Best-effort: a
// failed flush does not stop the sweep, the errors are joined.
func (p *Pool) FlushAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs error
	for id, frameID := range p.pageTable {
		if err := p.flushFrame(&p.frames[frameID]); err != nil {
			errs = errors.Join(errs, fmt.Errorf("flush page %d: %w", id, err))
		}
	}
	return errs
}

// DeletePage drops the page from the pool and deallocates its id on disk.
// A page that is not resident is a no-op. A pinned page fails with
// ErrPagePinned and nothing changes.
func (p *Pool) DeletePage(id page.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameID, ok := p.pageTable[id]
	if !ok {
		return nil
	}
	f := &p.frames[frameID]
	if f.pinCount > 0 {
		return fmt.Errorf("delete page %d: %w", id, util.ErrPagePinned)
	}

	delete(p.pageTable, id)
	p.replacer.Pin(frameID) // stop tracking; the frame goes to the free list
	f.reset()
	p.freeList = append(p.freeList, frameID)

	if err := p.disk.DeallocatePage(id); err != nil {
		return fmt.Errorf("deallocate page %d: %w", id, err)
	}
	return nil
}

// acquireFrame hands out a clean frame: free list first, otherwise a
// replacer victim. A dirty victim is written back before reuse; if that
// write fails the eviction is aborted and the page stays resident.
func (p *Pool) acquireFrame() (FrameID, error) {
	if len(p.freeList) > 0 {
		frameID := p.freeList[0]
		p.freeList = p.freeList[1:]
		return frameID, nil
	}

	frameID, ok := p.replacer.Victim()
	if !ok {
		return InvalidFrame, util.ErrNoFreeFrame
	}

	f := &p.frames[frameID]
	if err := p.flushFrame(f); err != nil {
		p.replacer.Unpin(frameID)
		return InvalidFrame, fmt.Errorf("write back page %d: %w", f.id, err)
	}
	delete(p.pageTable, f.id)
	f.reset()
	return frameID, nil
}

// flushFrame writes the frame back if dirty, honoring the write-ahead rule.
func (p *Pool) flushFrame(f *Frame) error {
	if !f.dirty {
		return nil
	}
	if p.wal != nil {
		if err := p.wal.Flush(); err != nil {
			return fmt.Errorf("flush wal: %w", err)
		}
	}
	if err := p.disk.WritePage(f.id, &f.data); err != nil {
		return err
	}
	f.dirty = false
	return nil
}
