package buffer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"framedb/internal/storage/page"
)

func TestGuardRelease(t *testing.T) {
	p, _ := newTestPool(t, 2)

	g, err := p.FetchPage(1)
	assert.NoError(t, err)
	f := &p.frames[p.pageTable[1]]
	assert.Equal(t, uint32(1), f.PinCount())

	assert.NoError(t, g.Release())
	assert.Equal(t, uint32(0), f.PinCount(), "release drops the pin")
	assert.Nil(t, g.Data(), "buffer no longer reachable through a released guard")

	assert.NoError(t, g.Release(), "second release is a no-op")
	assert.Equal(t, uint32(0), f.PinCount(), "pin count untouched by the second release")
}

func TestGuardMarkDirty(t *testing.T) {
	p, _ := newTestPool(t, 2)

	g, err := p.FetchPage(1)
	assert.NoError(t, err)
	copy(g.Data(), []byte("modified"))
	g.MarkDirty()
	assert.NoError(t, g.Release())

	assert.True(t, p.frames[p.pageTable[1]].IsDirty(), "dirty flag reached the pool on release")
}

func TestGuardDeferOnErrorPath(t *testing.T) {
	p, _ := newTestPool(t, 2)
	errBad := errors.New("consumer failure")

	// the deferred release covers the early-return path
	consume := func(id page.ID) error {
		g, err := p.FetchPage(id)
		if err != nil {
			return err
		}
		defer g.Release()

		if g.Data()[0] == 0 {
			return errBad
		}
		g.MarkDirty()
		return nil
	}

	assert.ErrorIs(t, consume(1), errBad)
	assert.Equal(t, uint32(0), p.frames[p.pageTable[1]].PinCount(), "pin returned on the error path")
	assert.False(t, p.frames[p.pageTable[1]].IsDirty(), "nothing marked dirty on the error path")
}
