package cache

import (
	"context"
	"time"
)

// NullStore never holds anything and accepts every write. It is the default
// when no cache is configured, so every lookup goes upstream.
type NullStore struct{}

func (NullStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NullStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
