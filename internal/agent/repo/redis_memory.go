package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

// RedisMemoryStore keeps a capped, newest-first list of facts per user and
// answers searches by keyword overlap. Milestones always qualify.
type RedisMemoryStore struct {
	rdb      redis.Cmdable
	maxFacts int
	now      func() time.Time
}

func NewRedisMemoryStore(rdb redis.Cmdable, maxFacts int) *RedisMemoryStore {
	if maxFacts <= 0 {
		maxFacts = 200
	}
	return &RedisMemoryStore{rdb: rdb, maxFacts: maxFacts, now: time.Now}
}

func (r *RedisMemoryStore) Search(ctx context.Context, userID, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	key := memoryKey(userID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to load memory from redis")
		return nil, errx.WrapRedis(err)
	}

	terms := keywords(query)
	out := make([]string, 0, limit)
	for i, row := range rows {
		var f fact
		if err := json.Unmarshal([]byte(row), &f); err != nil {
			logx.Warn().Err(err).Str("key", key).Int("index", i).Msg("skipping unreadable memory fact")
			continue
		}
		if f.Kind != kindMilestone && overlap(terms, f.Text) == 0 {
			continue
		}
		out = append(out, f.Text)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *RedisMemoryStore) AppendTurn(ctx context.Context, userID, threadID, userText, _ string) error {
	if strings.TrimSpace(userText) == "" {
		return nil
	}
	return r.push(ctx, userID, fact{
		Text:     turnFact(userText),
		ThreadID: threadID,
		Kind:     kindTurn,
	})
}

func (r *RedisMemoryStore) RecordMilestone(ctx context.Context, userID, threadID, text string, tags []string) error {
	return r.push(ctx, userID, fact{
		Text:     text,
		ThreadID: threadID,
		Kind:     kindMilestone,
		Tags:     tags,
	})
}

func (r *RedisMemoryStore) DeleteAll(ctx context.Context) error {
	n, err := deleteByPattern(ctx, r.rdb, memoryKey("*"))
	if err != nil {
		return err
	}
	logx.Info().Int("deleted", n).Msg("memory lists deleted")
	return nil
}

// push prepends f and trims the list so it never exceeds maxFacts.
func (r *RedisMemoryStore) push(ctx context.Context, userID string, f fact) error {
	f.CreatedAt = r.now().UTC()
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal memory fact: %w", err)
	}
	key := memoryKey(userID)

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, b)
		pipe.LTrim(ctx, key, 0, int64(r.maxFacts-1))
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write memory fact")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.MemoryStore = (*RedisMemoryStore)(nil)
