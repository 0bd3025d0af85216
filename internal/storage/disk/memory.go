package disk

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"framedb/internal/storage/page"
	util "framedb/internal/utils"
)

// MemManager is an in-memory Manager for tests and tooling.
// The page store is safe for concurrent use on its own.
type MemManager struct {
	pages *xsync.MapOf[page.ID, *page.Data]

	mu     sync.Mutex // guards allocation state
	nextID page.ID
	free   []page.ID
	closed bool
}

func NewMemManager() *MemManager {
	return &MemManager{
		pages: xsync.NewMapOf[page.ID, *page.Data](),
	}
}

func (m *MemManager) ReadPage(id page.ID, d *page.Data) error {
	if id == page.InvalidID {
		return util.ErrInvalidPageId
	}
	if m.isClosed() {
		return util.ErrDiskClosed
	}
	if stored, ok := m.pages.Load(id); ok {
		*d = *stored
		return nil
	}
	d.Reset() // never written
	return nil
}

func (m *MemManager) WritePage(id page.ID, d *page.Data) error {
	if id == page.InvalidID {
		return util.ErrInvalidPageId
	}
	if m.isClosed() {
		return util.ErrDiskClosed
	}
	stored := *d
	m.pages.Store(id, &stored)
	return nil
}

func (m *MemManager) AllocatePage() (page.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return page.InvalidID, util.ErrDiskClosed
	}

	if len(m.free) > 0 {
		id := m.free[0]
		m.free = m.free[1:]
		return id, nil
	}

	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *MemManager) DeallocatePage(id page.ID) error {
	if id == page.InvalidID {
		return util.ErrInvalidPageId
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return util.ErrDiskClosed
	}
	m.pages.Delete(id)

	if id < m.nextID {
		m.free = append(m.free, id)
	}
	return nil
}

func (m *MemManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MemManager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
