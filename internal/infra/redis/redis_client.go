package redis

import (
	"context"
	"time"

	"servihub/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the subset of redis commands the platform relies on: the
// plan cache needs Get/Set/Del, the login rate limiter needs Incr/Expire.
// Keeping it an interface lets tests swap in fakes without a live server.
type RedisClient interface {
	Ping(ctx context.Context) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

var _ RedisClient = (*client)(nil)

type client struct {
	cli *redis.Client
}

// NewClient connects to the configured redis server and pings it once, so a
// bad address fails at startup rather than on the first cached read.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &client{cli: c}, nil
}

func (c *client) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

func (c *client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.cli.Set(ctx, key, value, expiration).Err()
}

// Get returns redis.Nil when the key is absent; callers treat that as a
// cache miss, not an error.
func (c *client) Get(ctx context.Context, key string) (string, error) {
	return c.cli.Get(ctx, key).Result()
}

func (c *client) Incr(ctx context.Context, key string) (int64, error) {
	return c.cli.Incr(ctx, key).Result()
}

func (c *client) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.cli.Expire(ctx, key, expiration).Err()
}

func (c *client) Del(ctx context.Context, keys ...string) error {
	return c.cli.Del(ctx, keys...).Err()
}

func (c *client) Close() error { return c.cli.Close() }
