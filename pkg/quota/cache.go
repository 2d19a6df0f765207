package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/accesskit/pkg/plans"
)

// CachedCounter wraps a CounterFunc with a short-lived Redis cache, keyed per
// org and quota. Intended for read-heavy display paths (usage dashboards,
// plan pages) where a slightly stale count is acceptable.
//
// Do not feed cached counters into Gate.Admit: the admission protocol's race
// bound assumes counts no staler than the current request.
func CachedCounter(client *redis.Client, key plans.Quota, ttl time.Duration, fn CounterFunc) CounterFunc {
	if client == nil {
		panic("quota: redis client is required")
	}
	if fn == nil {
		panic("quota: CounterFunc is required")
	}

	return func(ctx context.Context, orgID uuid.UUID) (int64, error) {
		cacheKey := countCacheKey(key, orgID)

		cached, err := client.Get(ctx, cacheKey).Result()
		if err == nil {
			if n, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return n, nil
			}
			// Unparseable entry: fall through and overwrite below.
		} else if !errors.Is(err, redis.Nil) {
			// Cache unavailability must not break counting; use the source.
			return fn(ctx, orgID)
		}

		n, err := fn(ctx, orgID)
		if err != nil {
			return 0, err
		}

		// Best effort: a failed SET just means the next read recounts.
		client.Set(ctx, cacheKey, strconv.FormatInt(n, 10), ttl)

		return n, nil
	}
}

// InvalidateCachedCount drops the cached count for an org and quota. Call it
// after a successful admission or resource deletion so dashboards converge
// immediately instead of waiting out the TTL.
func InvalidateCachedCount(ctx context.Context, client *redis.Client, key plans.Quota, orgID uuid.UUID) error {
	if client == nil {
		panic("quota: redis client is required")
	}
	return client.Del(ctx, countCacheKey(key, orgID)).Err()
}

func countCacheKey(key plans.Quota, orgID uuid.UUID) string {
	return fmt.Sprintf("quota:count:%s:%s", key, orgID)
}
