package middleware

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// InvalidateCache deletes every cached response under the given prefix.
// The submission handler calls this after each accepted entry so the cached
// leaderboard never outlives a balance change; with only the
// leaderboard route behind the cache middleware, dropping the whole
// prefix is an exact invalidation. A nil client is a no-op, matching
// the degraded mode of the cache itself.
func InvalidateCache(ctx context.Context, rdb *redis.Client, prefix string) error {
	if rdb == nil || prefix == "" {
		return nil
	}
	var (
		cursor   uint64
		firstErr error
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, prefix+":*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return firstErr
}
