// Package cache provides Redis-backed caching for derived data.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis. A nil client is returned when the connection
// fails so callers can degrade to uncached operation instead of refusing to
// start.
func NewClient(url, password string, logger *slog.Logger) *redis.Client {
	var opts *redis.Options
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			logger.Warn("invalid REDIS_URL, continuing without cache", "url", url, "error", err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: url}
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without cache", "error", err)
		return nil
	}

	logger.Info("Redis connected successfully")
	return client
}
