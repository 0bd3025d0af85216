package disk

import "framedb/internal/storage/page"

// Manager is the durable storage contract the buffer pool depends on.
// Implementations persist fixed-size pages by id and hand out fresh ids.
type Manager interface {
	// ReadPage fills d with the persisted content of the page.
	// Content of a page that was never written is all zeroes.
	ReadPage(id page.ID, d *page.Data) error
	// WritePage persists d as the page's content, durable upon return.
	WritePage(id page.ID, d *page.Data) error
	// AllocatePage returns a fresh, previously-unused identifier.
	AllocatePage() (page.ID, error)
	// DeallocatePage marks an identifier as reusable. No content guarantees afterwards.
	DeallocatePage(id page.ID) error
	Close() error
}
