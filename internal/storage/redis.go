package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// defaultKeyPrefix namespaces all keys in shared backends to avoid collisions.
	defaultKeyPrefix = "animeverse:"

	redisOpTimeout = 2 * time.Second
)

func init() {
	Register(ProviderRedis, newRedisStore)
}

// redisStore persists each key as a plain Redis string under KeyPrefix.
// Expiry is delegated to Redis via SET ... PX when a TTL is configured.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
	prefix string
}

func newRedisStore(cfg ProviderConfig) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisStore{
		client: client,
		ttl:    cfg.TTL,
		logger: cfg.Logger,
		prefix: cfg.KeyPrefix,
	}, nil
}

func (r *redisStore) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func (r *redisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		// redis.Nil means the key doesn't exist, a normal miss.
		if !errors.Is(err, redis.Nil) {
			r.logError("redis store Get failed", err)
		}
		return nil, false
	}
	return val, true
}

func (r *redisStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		r.logError("redis store Set failed", err)
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		r.logError("redis store Delete failed", err)
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Len counts keys under the prefix with SCAN, so it is O(keys) and meant for
// metrics scrapes rather than request paths.
func (r *redisStore) Len(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	n := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		r.logError("redis store Len failed", err)
		return 0
	}
	return n
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
