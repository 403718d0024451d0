// Package catcache persists the merchant-key -> category mapping that
// the categorizer learns from the generative fallback, so the same
// merchant never pays for two model calls.
package catcache

// Store is a key-value store for learned categories. Implementations
// must degrade, not fail: a broken backing store behaves like an empty
// cache on reads and logs on writes. One live writer is assumed.
type Store interface {
	// Get returns the cached category for key, if any.
	Get(key string) (string, bool)
	// Put records a category for key in memory.
	Put(key, category string)
	// Flush persists pending writes to the backing store.
	Flush() error
}
