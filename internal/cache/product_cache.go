package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "catalog:product"
	// flushKey lives outside keyPrefix so Flush's SCAN never deletes it.
	flushKey = "catalog:flushed_at"
)

// Each entry is a hash: v is the product's UpdatedAt in unix microseconds,
// data the encoded product and deleted a removal marker. An entry without
// data is a tombstone: Get treats it as a miss but it still fences writes.

// setScript stores ARGV[2] unless the product was deleted, flushed after it
// was last written, or the entry already holds a newer version.
var setScript = redis.NewScript(`
local flushed = redis.call('GET', KEYS[2])
if flushed and tonumber(ARGV[1]) < tonumber(flushed) then
	return 0
end
local cur = redis.call('HMGET', KEYS[1], 'v', 'deleted')
if cur[2] == '1' then
	return 0
end
if cur[1] and tonumber(ARGV[1]) < tonumber(cur[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// invalidateScript drops the cached data and raises the fence to ARGV[1].
var invalidateScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'v')
if (not cur) or tonumber(ARGV[1]) > tonumber(cur) then
	redis.call('HSET', KEYS[1], 'v', ARGV[1])
end
redis.call('HDEL', KEYS[1], 'data')
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// ProductCache keeps flattened products in Redis, keyed by product id.
// Writes are versioned by UpdatedAt, so a reader that loaded a product
// before a later change commits cannot put the older copy back.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a cache whose entries and tombstones expire after ttl.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func key(id string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, id)
}

func version(t time.Time) int64 {
	return t.UnixMicro()
}

// Get returns the cached product, or nil on a miss.
func (c *ProductCache) Get(ctx context.Context, id string) (*models.PlainProduct, error) {
	data, err := c.client.HGet(ctx, key(id), "data").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached product %s: %w", id, err)
	}

	var product models.PlainProduct
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to decode cached product %s: %w", id, err)
	}
	return &product, nil
}

// Set stores product under its id. It reports false when a newer version,
// a removal or a flush already fenced the key and nothing was written.
func (c *ProductCache) Set(ctx context.Context, product models.PlainProduct) (bool, error) {
	data, err := json.Marshal(product)
	if err != nil {
		return false, fmt.Errorf("failed to encode product %s: %w", product.ID, err)
	}
	stored, err := setScript.Run(ctx, c.client, []string{key(product.ID), flushKey},
		version(product.UpdatedAt), data, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to cache product %s: %w", product.ID, err)
	}
	return stored == 1, nil
}

// Invalidate evicts one product and rejects later writes of any copy older
// than updatedAt.
func (c *ProductCache) Invalidate(ctx context.Context, id string, updatedAt time.Time) error {
	err := invalidateScript.Run(ctx, c.client, []string{key(id)}, version(updatedAt), c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("failed to invalidate cached product %s: %w", id, err)
	}
	return nil
}

// MarkDeleted evicts one product and rejects every write of it until the
// tombstone expires.
func (c *ProductCache) MarkDeleted(ctx context.Context, id string) error {
	k := key(id)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, "deleted", "1")
		pipe.HDel(ctx, k, "data")
		pipe.PExpire(ctx, k, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark cached product %s deleted: %w", id, err)
	}
	return nil
}

// Flush evicts every cached product and rejects later writes of any copy
// last updated before the flush.
func (c *ProductCache) Flush(ctx context.Context) error {
	if err := c.client.Set(ctx, flushKey, version(time.Now()), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to record cache flush: %w", err)
	}

	iter := c.client.Scan(ctx, 0, keyPrefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached products: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
