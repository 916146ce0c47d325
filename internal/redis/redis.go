package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func resolvedKey(displayID int) string {
	return fmt.Sprintf("display:%d:resolved:etag", displayID)
}

// SetResolvedETag caches the ETag of a display's resolved content so player
// polls can short-circuit with 304.
func SetResolvedETag(ctx context.Context, displayID int, etag string, expiration time.Duration) {
	if Rdb == nil {
		return
	}
	if err := Rdb.Set(ctx, resolvedKey(displayID), etag, expiration).Err(); err != nil {
		log.Warn().Err(err).Int("display_id", displayID).Msg("[redis] failed to cache resolved etag")
	}
}

// GetResolvedETag returns the cached ETag, or "" on miss.
func GetResolvedETag(ctx context.Context, displayID int) string {
	if Rdb == nil {
		return ""
	}
	val, err := Rdb.Get(ctx, resolvedKey(displayID)).Result()
	if err != nil {
		return ""
	}
	return val
}

// InvalidateResolved drops the cached ETag after an assignment write; the
// resolver result is never served stale across one.
func InvalidateResolved(ctx context.Context, displayID int) {
	if Rdb == nil {
		return
	}
	if err := Rdb.Del(ctx, resolvedKey(displayID)).Err(); err != nil {
		log.Warn().Err(err).Int("display_id", displayID).Msg("[redis] failed to invalidate resolved etag")
	}
}
