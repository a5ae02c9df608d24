package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"ecb-rate-service/pkg/logger"
)

// RedisStore shares cached documents between service instances.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

// NewRedisStore connects using a redis:// URL.
func NewRedisStore(url, prefix string, log *logger.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisStoreWithOptions(opt, prefix, log), nil
}

func NewRedisStoreWithOptions(opt *redis.Options, prefix string, log *logger.Logger) *RedisStore {
	return &RedisStore{client: redis.NewClient(opt), prefix: prefix, log: log}
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.log.Debug("Redis cache miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		r.log.Error("Redis cache get error", "key", key, "error", err)
		return nil, false, err
	}
	r.log.Debug("Redis cache hit", "key", key)
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.log.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.log.Debug("Redis cache set", "key", key, "ttl", ttl)
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
