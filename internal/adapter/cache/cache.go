// Package cache provides the response cache behind the prayer-times service.
// Redis backs it when configured; otherwise an in-process cache stands in so
// the service keeps its hot-path behavior without external infrastructure.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache stores opaque response payloads keyed by request hash. Failures
// degrade to recomputation, never to request failure, so Get reports only
// presence and Set is fire-and-forget.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Ping(ctx context.Context) error
}

// New returns a Redis-backed cache when addr is non-empty, or an in-process
// cache otherwise.
func New(addr, password string) Cache {
	if addr == "" {
		log.Info().Msg("redis not configured, using in-process cache")
		return NewMemory()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	log.Info().Str("addr", addr).Msg("using redis response cache")
	return &redisCache{client: client}
}

type redisCache struct {
	client *redis.Client
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		return nil, false
	}
	return value, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// memoryCache is the in-process fallback.
type memoryCache struct {
	store *gocache.Cache
}

// NewMemory returns an in-process cache with per-entry TTLs.
func NewMemory() Cache {
	return &memoryCache{
		store: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	value, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	payload, ok := value.([]byte)
	return payload, ok
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

func (c *memoryCache) Ping(_ context.Context) error {
	return nil
}
