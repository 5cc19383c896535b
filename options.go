package wad

// Default limits
const (
	DefaultMaxArchives = 127
	DefaultMaxMarkers  = 50

	// DefaultMaxArchiveSize bounds decompressed archives.
	DefaultMaxArchiveSize = 1 << 30
)

type config struct {
	maxArchives    int
	maxMarkers     int
	maxArchiveSize int64
	useMmap        bool
}

func defaultConfig() config {
	return config{
		maxArchives:    DefaultMaxArchives,
		maxMarkers:     DefaultMaxMarkers,
		maxArchiveSize: DefaultMaxArchiveSize,
	}
}

// Option configures a Store.
type Option func(*config)

// WithMaxArchives sets how many archives the store will hold.
func WithMaxArchives(n int) Option {
	return func(c *config) {
		c.maxArchives = n
	}
}

// WithMaxMarkers sets how many level markers FindLevelMarkers may return.
func WithMaxMarkers(n int) Option {
	return func(c *config) {
		c.maxMarkers = n
	}
}

// WithMmap maps archive files read-only instead of reading them into the heap.
// It has no effect on platforms without mmap or for compressed archives.
func WithMmap(enabled bool) Option {
	return func(c *config) {
		c.useMmap = enabled
	}
}

// WithMaxArchiveSize limits how large a compressed archive may grow when it
// is decompressed. Values below 1 keep DefaultMaxArchiveSize.
func WithMaxArchiveSize(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxArchiveSize = n
		}
	}
}
