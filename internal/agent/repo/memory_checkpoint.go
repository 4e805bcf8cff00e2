package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

// MemoryCheckpointStore is the in-process checkpoint store for local runs and
// tests. States are kept serialized so callers never share a pointer with
// the store.
type MemoryCheckpointStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryCheckpointStore creates the store; ttl 0 keeps checkpoints forever.
func NewMemoryCheckpointStore(ttl time.Duration) *MemoryCheckpointStore {
	expiry := cache.NoExpiration
	if ttl > 0 {
		expiry = ttl
	}
	return &MemoryCheckpointStore{
		cache: cache.New(expiry, 10*time.Minute),
		ttl:   expiry,
	}
}

func (m *MemoryCheckpointStore) Get(_ context.Context, threadID string) (*model.ConversationState, bool, error) {
	v, ok := m.cache.Get(checkpointKey(threadID))
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("checkpoint %s: unexpected cache value %T", threadID, v)
	}
	var st model.ConversationState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false, fmt.Errorf("unmarshal checkpoint %s: %w", threadID, err)
	}
	return &st, true, nil
}

func (m *MemoryCheckpointStore) Put(_ context.Context, threadID string, st *model.ConversationState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	m.cache.Set(checkpointKey(threadID), b, m.ttl)
	return nil
}

func (m *MemoryCheckpointStore) DeleteAll(context.Context) error {
	m.cache.Flush()
	return nil
}

var _ model.CheckpointStore = (*MemoryCheckpointStore)(nil)
