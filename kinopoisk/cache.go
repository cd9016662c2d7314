package kinopoisk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DetailCache keeps rendered movie details in Redis so repeated views of
// the same movie do not re-hit the catalog. Any Redis failure is treated
// as a miss; the catalog call is the fallback either way.
type DetailCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewDetailCache(client *redis.Client, ttl time.Duration) *DetailCache {
	return &DetailCache{redis: client, ttl: ttl}
}

func (c *DetailCache) Get(ctx context.Context, movieID int64) (Details, bool) {
	if c == nil || c.redis == nil {
		return Details{}, false
	}
	data, err := c.redis.Get(ctx, cacheKey(movieID)).Bytes()
	if err != nil {
		return Details{}, false
	}
	details := Details{}
	if err := json.Unmarshal(data, &details); err != nil {
		return Details{}, false
	}
	return details, true
}

func (c *DetailCache) Put(ctx context.Context, details Details) {
	if c == nil || c.redis == nil {
		return
	}
	data, err := json.Marshal(details)
	if err != nil {
		return
	}
	c.redis.Set(ctx, cacheKey(details.ID), data, c.ttl)
}

func cacheKey(movieID int64) string {
	return fmt.Sprintf("movie:%d", movieID)
}
