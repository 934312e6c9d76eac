// Package redis implements the Redis-backed parts of the merit portal:
// the session store behind login tokens and a small general-purpose cache
// client used for health checks.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist or has
// already expired.
var ErrCacheMiss = errors.New("cache: key not found")

// PrefixSession namespaces session token keys.
const PrefixSession = "session:"

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds the Redis connection settings. Fields mirror the
// REDIS_* environment variables.
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// DefaultConfig targets a local unauthenticated Redis on DB 0.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// Addr renders the "host:port" dial address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Cache is a thin JSON layer over a go-redis client. Values are
// marshalled on Set and unmarshalled into the caller's destination on
// Get; expiry is delegated entirely to Redis TTLs.
type Cache struct {
	client *redis.Client
	config Config
}

// NewCache dials Redis with cfg and verifies the connection with a ping
// bounded by the dial timeout.
func NewCache(cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis dial %s: %w", cfg.Addr(), err)
	}

	return &Cache{client: client, config: cfg}, nil
}

// Client exposes the underlying go-redis client. The shared event bus
// needs it for pub/sub, which this wrapper does not cover.
func (c *Cache) Client() *redis.Client { return c.client }

// Ping reports whether Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Cache) Close() error { return c.client.Close() }

// Set marshals value to JSON and stores it under key for ttl. A zero ttl
// stores the key without expiry.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if key == "" {
		return errors.New("cache: empty key")
	}
	if ttl < 0 {
		return fmt.Errorf("cache: negative ttl %s for key %q", ttl, key)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal value for key %q: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Get loads the value stored under key into dest. Returns ErrCacheMiss
// when the key is absent.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if key == "" {
		return errors.New("cache: empty key")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache: get key %q: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache: unmarshal key %q: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
