package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RatingCache memoizes the computed rating of a title. Every review write
// for a title must invalidate its entry; a missing or unreachable cache is
// always treated as a miss.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{client: client, ttl: ttl}
}

func ratingKey(titleID int64) string {
	return fmt.Sprintf("title:%d:rating", titleID)
}

// Get returns the cached rating and whether the lookup hit.
func (c *RatingCache) Get(ctx context.Context, titleID int64) (int, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, ratingKey(titleID)).Result()
	if err != nil {
		return 0, false
	}
	rating, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return rating, true
}

func (c *RatingCache) Set(ctx context.Context, titleID int64, rating int) {
	if c == nil || c.client == nil {
		return
	}
	// best effort; a failed write just means the next read recomputes
	c.client.Set(ctx, ratingKey(titleID), strconv.Itoa(rating), c.ttl)
}

func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, ratingKey(titleID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("invalidate rating cache: %w", err)
	}
	return nil
}
