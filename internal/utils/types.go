package util

// Options represents database configuration options.
type Options struct {
	Path           string
	BufferPoolSize int
	ReplacerPolicy string
	SyncWrites     bool
}

// DefaultOptions returns default database options.
func DefaultOptions() Options {
	return Options{
		BufferPoolSize: 1000, // 4MB default buffer pool
		ReplacerPolicy: "clock",
		SyncWrites:     false,
	}
}
