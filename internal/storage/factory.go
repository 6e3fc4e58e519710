package storage

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// Built-in provider names, selected by the storage.provider setting.
const (
	ProviderMemory = "memory"
	ProviderRedis  = "redis"
)

// RedisOptions locate the Redis/Valkey server of the redis provider.
type RedisOptions struct {
	Address  string // host:port, e.g. "localhost:6379"
	Password string
	DB       int
}

// ProviderConfig configures a preference store.
//
// Preferences are small and cheap to lose: a visitor whose keys are evicted
// or expired starts over with no favorites, no recent searches and the dark
// theme, exactly like a browser whose local storage was cleared. Size and TTL
// therefore bound memory rather than protect data.
type ProviderConfig struct {
	// Size caps the keys kept by the memory provider (defaults to 10000).
	Size int

	// TTL drops keys not written for this long. Zero keeps them until evicted.
	TTL time.Duration

	// OnEvict observes memory-provider evictions. Redis never evicts on our behalf.
	OnEvict EvictCallback

	// Logger receives backend errors. Nil discards them.
	Logger Logger

	Redis RedisOptions

	// KeyPrefix namespaces keys when Redis is shared with other applications.
	// Defaults to "animeverse:".
	KeyPrefix string

	// Group, when set, labels the store's Prometheus metrics and turns
	// instrumentation on.
	Group string
}

// Provider builds a Store from its config.
type Provider func(cfg ProviderConfig) (Store, error)

type registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

var providers = &registry{providers: make(map[string]Provider)}

func (r *registry) add(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p == nil {
		panic("storage: Register provider is nil")
	}
	if _, exists := r.providers[name]; exists {
		panic(fmt.Sprintf("storage: provider %q already registered", name))
	}
	r.providers[name] = p
}

func (r *registry) lookup(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.providers))
}

// Register makes a backend available to New under name. Providers register
// themselves from init; a duplicate or nil provider panics.
func Register(name string, p Provider) {
	providers.add(name, p)
}

// RegisteredProviders lists the provider names in sorted order.
func RegisteredProviders() []string {
	return providers.names()
}

// New opens the preference store of the named provider. With cfg.Group set,
// hits, misses, evictions and the live key count are exported under it.
func New(name string, cfg ProviderConfig) (Store, error) {
	p, ok := providers.lookup(name)
	if !ok {
		return nil, fmt.Errorf("storage: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if cfg.Group == "" {
		return p(cfg)
	}

	cfg.OnEvict = countEvictions(cfg.Group, cfg.OnEvict)
	inner, err := p(cfg)
	if err != nil {
		return nil, err
	}
	return newInstrumentedStore(inner, cfg.Group), nil
}

// countEvictions chains an eviction counter in front of next.
func countEvictions(group string, next EvictCallback) EvictCallback {
	evictions := EvictionsTotal.WithLabelValues(group)
	return func(key string, value []byte) {
		evictions.Inc()
		if next != nil {
			next(key, value)
		}
	}
}
