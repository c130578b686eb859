package sessioncache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type redisCache struct {
	rdb *redis.Client
}

// NewRedis conecta a Redis y valida con un ping corto.
func NewRedis(uri string) (Cache, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &redisCache{rdb: rdb}, nil
}

func (c *redisCache) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return ErrNotFound
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.rdb.Set(ctx, sessionKeyPrefix+token, userID, ttl).Err()
}

func (c *redisCache) Get(ctx context.Context, token string) (string, error) {
	v, err := c.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (c *redisCache) Delete(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}
