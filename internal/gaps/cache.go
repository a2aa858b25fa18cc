package gaps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cloze-study-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// Cache keeps gap-generation responses in Redis. Gap sets for a given
// (method, passage, count) never change between runs, so a long TTL is safe.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(uri string) (*Cache, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}
	return &Cache{client: redis.NewClient(opts), ttl: 24 * time.Hour}, nil
}

func cacheKey(method string, passageID, numGaps int) string {
	return fmt.Sprintf("gaps:%s:%d:%d", method, passageID, numGaps)
}

func (c *Cache) Get(ctx context.Context, method string, passageID, numGaps int) (*models.GapSet, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(method, passageID, numGaps)).Bytes()
	if err != nil {
		return nil, false
	}
	var set models.GapSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, false
	}
	return &set, true
}

func (c *Cache) Set(ctx context.Context, method string, passageID, numGaps int, set *models.GapSet) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(set)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(method, passageID, numGaps), raw, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache gap set: %v", err)
	}
}

func (c *Cache) Close() {
	if c != nil {
		_ = c.client.Close()
	}
}
