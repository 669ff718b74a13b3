// internal/infrastructure/storage/redis.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-client/internal/config"
)

// RedisKV keeps entries in Redis under a session-scoped prefix. Used when the
// runtime is deployed as a shared web-frontend host rather than a per-user
// desktop client; entries expire with the guest-cart TTL so abandoned sessions
// clean themselves up.
type RedisKV struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisKV connects to Redis and verifies the connection
func NewRedisKV(cfg *config.Config, sessionID string) (*RedisKV, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Storage.RedisPass,
		DB:       cfg.Storage.RedisDB,

		// Connection timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisKV{
		client: rdb,
		prefix: fmt.Sprintf("storefront:session:%s:", sessionID),
		ttl:    cfg.Storage.GuestCartTTL,
	}, nil
}

// Get reads the value stored for key
func (s *RedisKV) Get(key string) ([]byte, bool, error) {
	ctx := context.Background()
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set overwrites the value stored for key and refreshes its TTL
func (s *RedisKV) Set(key string, value []byte) error {
	ctx := context.Background()
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes the entry for key. Deleting a missing key is not an error.
func (s *RedisKV) Delete(key string) error {
	ctx := context.Background()
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Ping reports backend health for the /health endpoint
func (s *RedisKV) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool
func (s *RedisKV) Close() error {
	return s.client.Close()
}

var _ KV = (*RedisKV)(nil)
