package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"ecb-rate-service/internal/domain/model"
	"ecb-rate-service/internal/domain/ports"
	"ecb-rate-service/pkg/logger"
)

// KeyNamespace scopes rate table keys inside a shared store.
const KeyNamespace = "ecb-rate-service/rate-table"

// RateCache stores parsed rate tables in a generic Store, keyed by source URL.
type RateCache struct {
	store ports.Store
	log   *logger.Logger
}

func NewRateCache(store ports.Store, log *logger.Logger) *RateCache {
	return &RateCache{store: store, log: log}
}

// Key is the stable store key for the document at url.
func Key(url string) string {
	sum := sha1.Sum([]byte(KeyNamespace + "|" + url))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached table for url. A missing or undecodable entry is a
// plain miss; only store faults are errors.
func (c *RateCache) Get(ctx context.Context, url string) (model.RateTable, bool, error) {
	key := Key(url)
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", model.ErrCacheFailure, key, err)
	}
	if !found {
		return nil, false, nil
	}

	var table model.RateTable
	if err := json.Unmarshal(raw, &table); err != nil {
		c.log.Warn("Discarding undecodable cache entry", "key", key, "url", url, "error", err)
		return nil, false, nil
	}
	return table, true, nil
}

// Set stores table for url. A rejected write is reported as ErrCacheFailure.
func (c *RateCache) Set(ctx context.Context, url string, table model.RateTable, ttl time.Duration) error {
	key := Key(url)
	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", model.ErrCacheFailure, key, err)
	}
	if err := c.store.Set(ctx, key, raw, ttl); err != nil {
		return fmt.Errorf("%w: set %s: %v", model.ErrCacheFailure, key, err)
	}
	return nil
}

var _ ports.RateCache = (*RateCache)(nil)
