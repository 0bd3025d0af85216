package util

import "errors"

var (
	ErrInvalidPoolSize  = errors.New("invalid pool size")
	ErrNoFreeFrame      = errors.New("no free frames")
	ErrPageNotFound     = errors.New("page not resident")
	ErrPageNotPinned    = errors.New("page is not pinned")
	ErrPagePinned       = errors.New("page is pinned")
	ErrInvalidPageId    = errors.New("invalid page id")
	ErrInvalidReplacer  = errors.New("unknown replacer policy")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrDiskClosed       = errors.New("disk manager is closed")
	ErrMetaCorrupted    = errors.New("meta file corrupted")
)
