package recommend

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache holds ranked recommendation responses in Redis. Each user has a
// version counter; bumping it on a new interaction orphans every cached
// response without scanning for keys.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) version(ctx context.Context, userID int64) int64 {
	version, err := c.client.Get(ctx, fmt.Sprintf("recommendations:version:%d", userID)).Int64()
	if err != nil && err != redis.Nil {
		log.Printf("recommendation cache: reading version for user %d: %v", userID, err)
	}
	return version
}

func (c *Cache) key(ctx context.Context, userID int64, query *Query, limit int) string {
	payload, _ := json.Marshal(struct {
		Query *Query `json:"query"`
		Limit int    `json:"limit"`
	}{query, limit})

	return fmt.Sprintf(
		"recommendations:%d:v%d:%x",
		userID, c.version(ctx, userID), sha1.Sum(payload),
	)
}

func (c *Cache) Get(ctx context.Context, userID int64, query *Query, limit int) (*Response, bool) {
	data, err := c.client.Get(ctx, c.key(ctx, userID, query, limit)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("recommendation cache: get for user %d: %v", userID, err)
		}
		return nil, false
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, false
	}

	return &response, true
}

func (c *Cache) Set(ctx context.Context, userID int64, query *Query, limit int, response *Response) {
	data, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, c.key(ctx, userID, query, limit), data, c.ttl).Err(); err != nil {
		log.Printf("recommendation cache: set for user %d: %v", userID, err)
	}
}

// Invalidate bumps the user's cache version after a swipe or review
func (c *Cache) Invalidate(ctx context.Context, userID int64) {
	if err := c.client.Incr(ctx, fmt.Sprintf("recommendations:version:%d", userID)).Err(); err != nil {
		log.Printf("recommendation cache: invalidate for user %d: %v", userID, err)
	}
}
