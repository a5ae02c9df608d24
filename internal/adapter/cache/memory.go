package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"ecb-rate-service/pkg/logger"
)

// MemoryStore keeps entries in process memory with per-entry expiry.
type MemoryStore struct {
	cache *gocache.Cache
	log   *logger.Logger
}

func NewMemoryStore(cleanupInterval time.Duration, log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
		log:   log,
	}
}

func (c *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, found := c.cache.Get(key)
	if !found {
		c.log.Debug("Cache miss", "key", key)
		return nil, false, nil
	}
	c.log.Debug("Cache hit", "key", key)
	return v.([]byte), true, nil
}

func (c *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.cache.Set(key, value, ttl)
	c.log.Debug("Cache set", "key", key, "ttl", ttl)
	return nil
}

// ClearExpired drops expired entries right away instead of waiting for the
// janitor.
func (c *MemoryStore) ClearExpired(ctx context.Context) error {
	before := c.cache.ItemCount()
	c.cache.DeleteExpired()
	c.log.Info("Cleared expired cache entries", "count", before-c.cache.ItemCount())
	return nil
}
