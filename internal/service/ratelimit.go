package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckAndSetRateLimit reports whether clientKey may perform action and, if so,
// starts its cool-down window. A nil redis client always allows.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, clientKey string, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:client:%s:%s", clientKey, action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, clientKey string, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("rate_limit:client:%s:%s", clientKey, action)
	return rdb.TTL(ctx, key).Result()
}
