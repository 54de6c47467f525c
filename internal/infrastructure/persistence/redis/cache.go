// Package redis keeps the persisted session in Redis so several portal
// processes on one host share the signed-in user.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/persistence/session"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	Host     string
	Port     int
	Password string

	// DB is the Redis database number (0-15).
	DB int

	PoolSize     int
	MinIdleConns int
	MaxRetries   int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Namespace separates several portals sharing one server.
	Namespace string

	// TTL bounds how long a stored session survives. Zero keeps it forever.
	TTL time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     4,
		MinIdleConns: 1,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		Namespace:    "unayoe",
		TTL:          TTLSessionData,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS, PREFIXES, TTLs
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrCacheConnection is returned when the initial ping fails.
	ErrCacheConnection = errors.New("cache: connection failed")
)

// PrefixSession namespaces session keys.
const PrefixSession = "session:"

// TTLSessionData is the default lifetime of a stored session.
const TTLSessionData = 7 * 24 * time.Hour

// ══════════════════════════════════════════════════════════════════════════════
// CACHE CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Cache stores session values in Redis. It implements session.Storage.
type Cache struct {
	client *redis.Client
	config Config
}

var _ session.Storage = (*Cache)(nil)

// NewCache connects and pings the server.
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
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return &Cache{client: client, config: cfg}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks if Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get implements session.Storage. redis.Nil maps to ok=false.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, session.ErrKeyEmpty
	}

	v, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	return v, true, nil
}

// Set implements session.Storage. Each write refreshes the TTL.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return session.ErrKeyEmpty
	}
	if err := c.client.Set(ctx, c.key(key), value, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Remove implements session.Storage.
func (c *Cache) Remove(ctx context.Context, key string) error {
	if key == "" {
		return session.ErrKeyEmpty
	}
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("cache: delete %s: %w", key, err)
	}
	return nil
}

// TTL returns the remaining lifetime of key, or a negative value when the
// key has none or does not exist.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.client.TTL(ctx, c.key(key)).Result()
}

func (c *Cache) key(k string) string {
	return SessionKey(c.config.Namespace, k)
}

// SessionKey builds the namespaced Redis key for a session entry.
func SessionKey(namespace, key string) string {
	if namespace == "" {
		return PrefixSession + key
	}
	return namespace + ":" + PrefixSession + key
}
