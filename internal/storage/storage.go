// Package storage provides the key-value backends behind visitor preferences.
package storage

import "context"

// EvictCallback is called when an entry is evicted from the store.
// The redis provider never evicts on its own and does not call it.
type EvictCallback func(key string, value []byte)

// Logger receives error reports from store operations.
type Logger interface {
	Error(msg string, err error)
}

// Store is a small synchronous key-value store. Values are opaque bytes;
// callers JSON-encode what they persist. Writes are last-write-wins.
type Store interface {
	// Get returns the stored value and true, or nil and false when absent.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Len returns the number of keys currently held by this store.
	Len(ctx context.Context) int

	// Close releases any resources held by the store (e.g., network connections).
	Close() error
}
