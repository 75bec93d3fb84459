package membership

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// CachedLookup is a read-through Redis cache in front of another Lookup. Redis
// failures are logged and the wrapped lookup answers instead.
type CachedLookup struct {
	next Lookup
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedLookup(next Lookup, rdb *redis.Client, ttl time.Duration) *CachedLookup {
	return &CachedLookup{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(userID uint) string {
	return fmt.Sprintf("membership:active:%d", userID)
}

func (c *CachedLookup) IsMembershipActive(ctx context.Context, userID uint) (bool, error) {
	val, err := c.rdb.Get(ctx, cacheKey(userID)).Result()
	switch {
	case err == nil:
		return val == "1", nil
	case err != redis.Nil:
		log.Printf("membership cache read failed: %v", err)
	}

	active, err := c.next.IsMembershipActive(ctx, userID)
	if err != nil {
		return false, err
	}

	stored := "0"
	if active {
		stored = "1"
	}
	if err := c.rdb.Set(ctx, cacheKey(userID), stored, c.ttl).Err(); err != nil {
		log.Printf("membership cache write failed: %v", err)
	}
	return active, nil
}

// NewRedisClient connects to REDIS_URL and checks the connection. Password and db
// override what the URL carries when set.
func NewRedisClient(ctx context.Context, url, password string, db int) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
