package storage

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemorySize = 10000

func init() {
	Register(ProviderMemory, newMemoryStore)
}

// memoryStore keeps keys in a bounded LRU. Once Size keys are held, the least
// recently used visitor preferences are dropped first. A zero TTL never expires.
type memoryStore struct {
	inner *lru.LRU[string, []byte]
}

func newMemoryStore(cfg ProviderConfig) (Store, error) {
	size := cfg.Size
	if size <= 0 {
		size = defaultMemorySize
	}
	var onEvict func(string, []byte)
	if cfg.OnEvict != nil {
		onEvict = func(key string, value []byte) {
			cfg.OnEvict(key, value)
		}
	}
	return &memoryStore{
		inner: lru.NewLRU[string, []byte](size, onEvict, cfg.TTL),
	}, nil
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	val, ok := m.inner.Get(key)
	if !ok {
		return nil, false
	}
	// Hand out a copy so callers cannot mutate stored bytes.
	return append([]byte(nil), val...), true
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte) error {
	m.inner.Add(key, append([]byte(nil), value...))
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.inner.Remove(key)
	return nil
}

func (m *memoryStore) Len(context.Context) int {
	return m.inner.Len()
}

func (m *memoryStore) Close() error {
	return nil
}
