package datasource

import "time"

const (
	// DefaultCacheChunkSize is the number of items requested per lazy
	// fetch and the slack kept loaded beyond the visible range.
	DefaultCacheChunkSize = 10

	// DefaultFetchRetries is how many times an unanswered fetch is
	// reissued before the provider gives up on it.
	DefaultFetchRetries = 2

	// DefaultFetchTimeout is how long a fetch may go unanswered before it
	// is retried.
	DefaultFetchTimeout = 5 * time.Second

	// DefaultCacheExpiryTimeout is how long an out-of-order versioned
	// update is held back waiting for its predecessor.
	DefaultCacheExpiryTimeout = 5 * time.Second
)

// Config carries the tunables shared by the bundled source kinds. Start from
// DefaultConfig and override fields as needed; a zero FetchRetries is honored,
// so a source that should never retry is expressible.
type Config struct {
	CacheChunkSize     int
	FetchRetries       int
	FetchTimeout       time.Duration
	CacheExpiryTimeout time.Duration
}

// DefaultConfig returns the stock tuning used when a document does not
// override anything.
func DefaultConfig() Config {
	return Config{
		CacheChunkSize:     DefaultCacheChunkSize,
		FetchRetries:       DefaultFetchRetries,
		FetchTimeout:       DefaultFetchTimeout,
		CacheExpiryTimeout: DefaultCacheExpiryTimeout,
	}
}

func (c Config) normalize() Config {
	if c.CacheChunkSize <= 0 {
		c.CacheChunkSize = DefaultCacheChunkSize
	}
	if c.FetchRetries < 0 {
		c.FetchRetries = 0
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.CacheExpiryTimeout <= 0 {
		c.CacheExpiryTimeout = DefaultCacheExpiryTimeout
	}
	return c
}
