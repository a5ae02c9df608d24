package ports

import (
	"context"
	"time"

	"ecb-rate-service/internal/domain/model"
)

// Store is a generic key/value store with per-entry expiry. A missing key is
// reported as (nil, false, nil); errors are reserved for store faults.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RateCache stores parsed rate tables by source URL.
type RateCache interface {
	Get(ctx context.Context, url string) (model.RateTable, bool, error)
	Set(ctx context.Context, url string, table model.RateTable, ttl time.Duration) error
}
