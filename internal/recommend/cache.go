package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
)

// TopNCache remembers the place ids most recently recommended to each user.
// Put replaces any earlier set; entries have no expiry.
type TopNCache interface {
	Put(ctx context.Context, userID int64, placeIDs []int64) error
	Get(ctx context.Context, userID int64) ([]int64, bool, error)
}

// MemoryCache is an in-process TopNCache bounded to a number of users. When
// full, the least recently ranked or explained user is evicted.
type MemoryCache struct {
	entries *lru.Cache
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &MemoryCache{entries: c}, nil
}

func (c *MemoryCache) Put(_ context.Context, userID int64, placeIDs []int64) error {
	ids := make([]int64, len(placeIDs))
	copy(ids, placeIDs)
	c.entries.Add(userID, ids)
	return nil
}

func (c *MemoryCache) Get(_ context.Context, userID int64) ([]int64, bool, error) {
	v, ok := c.entries.Get(userID)
	if !ok {
		return nil, false, nil
	}
	cached := v.([]int64)
	ids := make([]int64, len(cached))
	copy(ids, cached)
	return ids, true, nil
}

// Len returns the number of users with a cached set.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// RedisCache stores each user's set under its own key so several processes
// share one view.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "tourmate:topn:"}
}

func (c *RedisCache) key(userID int64) string {
	return c.prefix + strconv.FormatInt(userID, 10)
}

func (c *RedisCache) Put(ctx context.Context, userID int64, placeIDs []int64) error {
	data, err := json.Marshal(placeIDs)
	if err != nil {
		return fmt.Errorf("marshal top-n: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("set top-n: %w", err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, userID int64) ([]int64, bool, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get top-n: %w", err)
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false, fmt.Errorf("decode top-n: %w", err)
	}
	return ids, true, nil
}
