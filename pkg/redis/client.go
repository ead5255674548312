package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/garagehub/autoshop-backend/pkg/config"
	"github.com/garagehub/autoshop-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	defaultNamespace  = "autoshop"
	idempotencyPrefix = "idempotency"
	rateLimitPrefix   = "rate_limit"
)

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Incr(context.Context, string) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client backs the API's rate limiter and idempotency replay.
type Client struct {
	store     cmdable
	raw       *redis.Client
	namespace string
	now       func() time.Time
}

// IdempotencyStore is the slice of the client the idempotency middleware needs.
type IdempotencyStore interface {
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	Set(context.Context, string, any, time.Duration) error
	Del(context.Context, ...string) error
	IdempotencyKey(scope, id string) string
}

func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"addr": opts.Addr,
			"db":   opts.DB,
		}), "redis connection established")
	}
	return &Client{store: raw, raw: raw, namespace: cfg.Namespace}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
	case cfg.Address != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	default:
		return nil, errors.New("redis url or address is required")
	}

	opts.PoolSize = orDefault(opts.PoolSize, cfg.PoolSize)
	opts.MinIdleConns = orDefault(opts.MinIdleConns, cfg.MinIdleConns)
	opts.DialTimeout = orDefault(opts.DialTimeout, cfg.DialTimeout)
	opts.ReadTimeout = orDefault(opts.ReadTimeout, cfg.ReadTimeout)
	opts.WriteTimeout = orDefault(opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func orDefault[T comparable](current, fallback T) T {
	var zero T
	if current == zero {
		return fallback
	}
	return current
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.store == nil {
		return "", errNotInitialized
	}
	return c.store.Get(ctx, key).Result()
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Set(ctx, key, value, ttl).Err()
}

func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if c.store == nil {
		return false, errNotInitialized
	}
	return c.store.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.store == nil {
		return errNotInitialized
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Del(ctx, keys...).Err()
}

// FixedWindowAllow counts a hit for scope in the current window bucket.
// Buckets are aligned on window boundaries, so every client resets at the
// same instant and a lost EXPIRE cannot pin a counter forever.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.store == nil {
		return false, 0, errNotInitialized
	}
	if window <= 0 {
		return true, 0, nil
	}

	bucket := c.clock().UnixNano() / int64(window)
	key := c.buildKey(rateLimitPrefix, scope, strconv.FormatInt(bucket, 10))

	count, err := c.store.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := c.store.Expire(ctx, key, window).Err(); err != nil {
			return true, count, err
		}
	}
	return count <= limit, count, nil
}

func (c *Client) IdempotencyKey(scope, id string) string {
	return c.buildKey(idempotencyPrefix, scope, id)
}

// Ping satisfies the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func (c *Client) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *Client) buildKey(parts ...string) string {
	ns := strings.TrimSpace(c.namespace)
	if ns == "" {
		ns = defaultNamespace
	}
	out := []string{ns}
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ":")
}
