package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLRevisions is how long a revision history listing stays cached
const TTLRevisions = 2 * time.Minute

// PrefixRevisions namespaces the listing cache keys
const PrefixRevisions = "revisions:"

// Service Redis cache service interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Revision history listing cache
	GetRevisions(ctx context.Context, documentID uint64, limit int) ([]byte, error)
	SetRevisions(ctx context.Context, documentID uint64, limit int, data interface{}) error
	InvalidateRevisions(ctx context.Context, documentID uint64) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis-backed cache implementation
type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether Redis is usable
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping tests the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get reads a value from the cache
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set stores a value in the cache
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // cache disabled, ignore
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes cache entries
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Exists checks whether a key is cached
func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (c *redisCache) revisionsKey(documentID uint64, limit int) string {
	return fmt.Sprintf("%s%d:%d", PrefixRevisions, documentID, limit)
}

func (c *redisCache) GetRevisions(ctx context.Context, documentID uint64, limit int) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.revisionsKey(documentID, limit)).Bytes()
}

func (c *redisCache) SetRevisions(ctx context.Context, documentID uint64, limit int, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.revisionsKey(documentID, limit), jsonData, TTLRevisions).Err()
}

// InvalidateRevisions drops every cached listing for a document
func (c *redisCache) InvalidateRevisions(ctx context.Context, documentID uint64) error {
	if c.client == nil {
		return nil
	}
	pattern := fmt.Sprintf("%s%d:*", PrefixRevisions, documentID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return err
	}
	return c.client.Del(ctx, keys...).Err()
}
