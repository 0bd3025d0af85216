package main

import (
	"fmt"
	"log"

	"framedb/internal/storage/buffer"
	"framedb/internal/storage/disk"
	util "framedb/internal/utils"
)

func main() {
	opts := util.DefaultOptions()
	opts.Path = "framedb.dat"
	opts.BufferPoolSize = 64

	dm, err := disk.NewFileManager(opts.Path, opts.SyncWrites)
	if err != nil {
		log.Fatalf("open disk: %v", err)
	}
	defer dm.Close()

	replacer, err := buffer.NewReplacer(opts.ReplacerPolicy, opts.BufferPoolSize)
	if err != nil {
		log.Fatalf("create replacer: %v", err)
	}
	pool, err := buffer.NewPool(opts.BufferPoolSize, dm, replacer)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}

	g, err := pool.NewPage()
	if err != nil {
		log.Fatalf("new page: %v", err)
	}
	copy(g.Data(), []byte("hello, framedb"))
	g.MarkDirty()

	id := g.PageID()
	if err := g.Release(); err != nil {
		log.Fatalf("release: %v", err)
	}
	if err := pool.FlushPage(id); err != nil {
		log.Fatalf("flush: %v", err)
	}

	back, err := pool.FetchPage(id)
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}
	fmt.Printf("page %d: %q\n", back.PageID(), string(back.Data()[:14]))
	back.Release()
}
