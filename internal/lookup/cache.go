package lookup

import (
	"context"
	"errors"
	"fmt"
	"specimenpro/internal/logger"
	"time"

	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "qr_png:"

// PNGCache stores rendered QR images keyed by their target URL.
type PNGCache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Set(ctx context.Context, url string, png []byte) error
}

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache connects to addr and pings it before returning.
func NewRedisCache(addr string, ttl time.Duration, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	if log != nil {
		log.Info("REDIS", fmt.Sprintf("QR image cache ready at %s (ttl %s)", addr, ttl))
	}
	return &RedisCache{Client: client, TTL: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	data, err := c.Client.Get(ctx, cacheKeyPrefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, png []byte) error {
	return c.Client.Set(ctx, cacheKeyPrefix+url, png, c.TTL).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}
