package disk

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"framedb/internal/storage/page"
	util "framedb/internal/utils"
)

func TestFileManagerReadWrite(t *testing.T) {
	path := util.CreateTempFile(t)
	fm, err := NewFileManager(path, false)
	assert.NoError(t, err, "create FileManager")
	defer fm.Close()

	t.Run("RoundTrip", func(t *testing.T) {
		id, err := fm.AllocatePage()
		assert.NoError(t, err, "allocate")

		in := page.FillData([]byte("some page payload"))
		assert.NoError(t, fm.WritePage(id, in), "write page %d", id)

		var out page.Data
		assert.NoError(t, fm.ReadPage(id, &out), "read page %d", id)
		assert.Equal(t, *in, out, "read back what was written")
	})

	t.Run("NeverWrittenReadsZero", func(t *testing.T) {
		id, err := fm.AllocatePage()
		assert.NoError(t, err, "allocate")

		out := *page.FillData([]byte("stale frame content"))
		assert.NoError(t, fm.ReadPage(id, &out), "read page %d", id)
		assert.Equal(t, page.Data{}, out, "unwritten page reads as zeroes")
	})

	t.Run("InvalidID", func(t *testing.T) {
		var d page.Data
		assert.ErrorIs(t, fm.ReadPage(page.InvalidID, &d), util.ErrInvalidPageId)
		assert.ErrorIs(t, fm.WritePage(page.InvalidID, &d), util.ErrInvalidPageId)
		assert.ErrorIs(t, fm.DeallocatePage(page.InvalidID), util.ErrInvalidPageId)
	})
}

func TestFileManagerAllocation(t *testing.T) {
	path := util.CreateTempFile(t)
	fm, err := NewFileManager(path, false)
	assert.NoError(t, err, "create FileManager")
	defer fm.Close()

	first, err := fm.AllocatePage()
	assert.NoError(t, err)
	second, err := fm.AllocatePage()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second, "fresh ids are distinct")

	// deallocated ids come back before new ones
	assert.NoError(t, fm.DeallocatePage(first))
	third, err := fm.AllocatePage()
	assert.NoError(t, err)
	assert.Equal(t, first, third, "deallocated id is reused")
}

func TestFileManagerMetaPersistence(t *testing.T) {
	path := util.CreateTempFile(t)

	fm, err := NewFileManager(path, false)
	assert.NoError(t, err, "create FileManager")
	for i := 0; i < 5; i++ {
		_, err := fm.AllocatePage()
		assert.NoError(t, err, "allocate %d", i)
	}
	assert.NoError(t, fm.DeallocatePage(2))
	assert.NoError(t, fm.Close())
	assert.NoError(t, fm.Close(), "close is idempotent")

	reopened, err := NewFileManager(path, false)
	assert.NoError(t, err, "reopen")
	defer reopened.Close()

	id, err := reopened.AllocatePage()
	assert.NoError(t, err)
	assert.Equal(t, page.ID(2), id, "free list survives reopen")

	id, err = reopened.AllocatePage()
	assert.NoError(t, err)
	assert.Equal(t, page.ID(5), id, "next id survives reopen")
}

func TestFileManagerMetaCorruption(t *testing.T) {
	path := util.CreateTempFile(t)

	fm, err := NewFileManager(path, false)
	assert.NoError(t, err, "create FileManager")
	_, err = fm.AllocatePage()
	assert.NoError(t, err)
	assert.NoError(t, fm.Close())

	meta, err := os.ReadFile(path + metaSuffix)
	assert.NoError(t, err, "read meta file")
	meta[0] ^= 0xff
	assert.NoError(t, os.WriteFile(path+metaSuffix, meta, 0o666), "corrupt meta file")

	_, err = NewFileManager(path, false)
	assert.ErrorIs(t, err, util.ErrMetaCorrupted, "corrupted meta is rejected")
}

func TestFileManagerClosed(t *testing.T) {
	path := util.CreateTempFile(t)
	fm, err := NewFileManager(path, false)
	assert.NoError(t, err, "create FileManager")
	assert.NoError(t, fm.Close())

	var d page.Data
	assert.ErrorIs(t, fm.ReadPage(0, &d), util.ErrDiskClosed)
	assert.ErrorIs(t, fm.WritePage(0, &d), util.ErrDiskClosed)
	_, err = fm.AllocatePage()
	assert.ErrorIs(t, err, util.ErrDiskClosed)
}
