package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

// RedisCheckpointStore keeps one JSON document per thread. A single SET
// replaces the whole state, so a turn's write is atomic.
type RedisCheckpointStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisCheckpointStore creates the store; ttl 0 keeps checkpoints forever.
func NewRedisCheckpointStore(rdb redis.Cmdable, ttl time.Duration) *RedisCheckpointStore {
	return &RedisCheckpointStore{rdb: rdb, ttl: ttl}
}

func (r *RedisCheckpointStore) Get(ctx context.Context, threadID string) (*model.ConversationState, bool, error) {
	key := checkpointKey(threadID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load checkpoint from redis")
		return nil, false, errx.WrapRedis(err)
	}

	var st model.ConversationState
	if err := json.Unmarshal(raw, &st); err != nil {
		logx.Error().Err(err).Str("thread_id", threadID).Msg("failed to unmarshal checkpoint")
		return nil, false, fmt.Errorf("unmarshal checkpoint %s: %w", threadID, err)
	}
	return &st, true, nil
}

func (r *RedisCheckpointStore) Put(ctx context.Context, threadID string, st *model.ConversationState) error {
	b, err := json.Marshal(st)
	if err != nil {
		logx.Error().Err(err).Str("thread_id", threadID).Msg("failed to marshal checkpoint")
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	key := checkpointKey(threadID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write checkpoint to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisCheckpointStore) DeleteAll(ctx context.Context) error {
	n, err := deleteByPattern(ctx, r.rdb, checkpointKey("*"))
	if err != nil {
		return err
	}
	logx.Info().Int("deleted", n).Msg("checkpoints deleted")
	return nil
}

var _ model.CheckpointStore = (*RedisCheckpointStore)(nil)
