package disk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sync"

	"framedb/internal/storage/page"
	util "framedb/internal/utils"
)

// FileManager reads and writes pages from / to disk. Pages live in a
// single data file at offset id*page.Size; allocation state (next id,
// deallocated ids) lives in a sidecar meta file.
type FileManager struct {
	mu         sync.Mutex
	file       *os.File
	path       string
	syncWrites bool
	nextID     page.ID
	free       []page.ID
	closed     bool
}

const metaSuffix = ".meta"

func NewFileManager(path string, syncWrites bool) (*FileManager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	fm := &FileManager{file: f, path: path, syncWrites: syncWrites}

	if err := fm.loadMeta(); err != nil {
		f.Close()
		return nil, fmt.Errorf("load meta: %w", err)
	}

	return fm, nil
}

// ReadPage fills d with the page's persisted content. A page past the end
// of the data file was never written and reads as zeroes.
func (fm *FileManager) ReadPage(id page.ID, d *page.Data) error {
	if id == page.InvalidID {
		return util.ErrInvalidPageId
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()
	if fm.closed {
		return util.ErrDiskClosed
	}

	offset := int64(id) * int64(page.Size)
	n, err := fm.file.ReadAt(d[:], offset)
	if err != nil && err != io.EOF {
		return fmt.Errorf("read page %d: %w", id, err)
	}
	// A page beyond the end of file was never written; its content is zeroes.
	for i := n; i < len(d); i++ {
		d[i] = 0
	}
	return nil
}

// WritePage persists d as the page's content, syncing when the manager was
// opened with syncWrites.
func (fm *FileManager) WritePage(id page.ID, d *page.Data) error {
	if id == page.InvalidID {
		return util.ErrInvalidPageId
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()
	if fm.closed {
		return util.ErrDiskClosed
	}

	offset := int64(id) * int64(page.Size)
	if _, err := fm.file.WriteAt(d[:], offset); err != nil {
		return fmt.Errorf("write page %d: %w", id, err)
	}
	if fm.syncWrites {
		if err := fm.file.Sync(); err != nil {
			return fmt.Errorf("sync after write page %d: %w", id, err)
		}
	}
	return nil
}

func (fm *FileManager) AllocatePage() (page.ID, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	if fm.closed {
		return page.InvalidID, util.ErrDiskClosed
	}

	if len(fm.free) > 0 {
		id := fm.free[0]
		fm.free = fm.free[1:]
		return id, nil
	}

	id := fm.nextID
	fm.nextID++
	return id, nil
}

func (fm *FileManager) DeallocatePage(id page.ID) error {
	if id == page.InvalidID {
		return util.ErrInvalidPageId
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()
	if fm.closed {
		return util.ErrDiskClosed
	}

	if id < fm.nextID {
		fm.free = append(fm.free, id)
	}
	return nil
}

// Close stores the allocation meta, syncs and closes the data file.
// Safe to call more than once.
func (fm *FileManager) Close() error {
	if fm == nil {
		return nil // Idempotent
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()
	if fm.closed {
		return nil
	}
	fm.closed = true

	var err error
	if e := fm.storeMeta(); e != nil {
		err = errors.Join(err, fmt.Errorf("store meta: %w", e))
	}
	if e := fm.file.Sync(); e != nil {
		err = errors.Join(err, fmt.Errorf("sync file: %w", e))
	}
	if e := fm.file.Close(); e != nil {
		err = errors.Join(err, fmt.Errorf("close file: %w", e))
	}
	return err
}

// loadMeta restores allocation state from the meta file, if one exists.
func (fm *FileManager) loadMeta() error {
	data, err := os.ReadFile(fm.path + metaSuffix)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // fresh store
		}
		return err
	}
	return fm.decodeMeta(data)
}

func (fm *FileManager) storeMeta() error {
	return os.WriteFile(fm.path+metaSuffix, fm.encodeMeta(), 0o666)
}

// encodeMeta packs nextID, the deallocated-id list and a trailing crc32.
func (fm *FileManager) encodeMeta() []byte {
	data := make([]byte, 8+8+len(fm.free)*8+4)

	binary.BigEndian.PutUint64(data[0:8], uint64(fm.nextID))
	binary.BigEndian.PutUint64(data[8:16], uint64(len(fm.free)))
	for i, id := range fm.free {
		binary.BigEndian.PutUint64(data[16+i*8:16+(i+1)*8], uint64(id))
	}

	checksum := crc32.ChecksumIEEE(data[:len(data)-4])
	binary.BigEndian.PutUint32(data[len(data)-4:], checksum)

	return data
}

func (fm *FileManager) decodeMeta(data []byte) error {
	if len(data) < 8+8+4 {
		return util.ErrMetaCorrupted
	}

	checksum := binary.BigEndian.Uint32(data[len(data)-4:])
	data = data[:len(data)-4]
	if crc32.ChecksumIEEE(data) != checksum {
		return fmt.Errorf("%w: %w", util.ErrMetaCorrupted, util.ErrChecksumMismatch)
	}

	nextID := page.ID(binary.BigEndian.Uint64(data[0:8]))
	count := binary.BigEndian.Uint64(data[8:16])
	if uint64(len(data)-16) != count*8 {
		return util.ErrMetaCorrupted
	}
	free := make([]page.ID, count)
	for i := range free {
		free[i] = page.ID(binary.BigEndian.Uint64(data[16+i*8 : 16+(i+1)*8]))
	}

	fm.nextID = nextID
	fm.free = free
	return nil
}
