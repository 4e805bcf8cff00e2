package repo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

const scanBatch = 200

func checkpointKey(threadID string) string {
	return fmt.Sprintf("checkpoint:%s", threadID)
}

func memoryKey(userID string) string {
	return fmt.Sprintf("memory:user:%s:facts", userID)
}

// deleteByPattern removes every key matching pattern using SCAN so large
// keyspaces are not blocked by KEYS.
func deleteByPattern(ctx context.Context, rdb redis.Cmdable, pattern string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			logx.Error().Err(err).Str("pattern", pattern).Msg("failed to scan redis keys")
			return deleted, errx.WrapRedis(err)
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				logx.Error().Err(err).Str("pattern", pattern).Msg("failed to delete redis keys")
				return deleted, errx.WrapRedis(err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
