package graph

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/compose"

	"github.com/autoemporium/showroom-assistant/internal/agent/graph/observers"
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

// Runner executes turns against the compiled graph and serves the read and
// housekeeping entry points over the same stores.
type Runner struct {
	runnable    compose.Runnable[model.TurnInput, model.TurnOutput]
	checkpoints model.CheckpointStore
	memory      model.MemoryStore
	locks       *threadLocks
}

// NewRunner compiles the graph from an explicit GraphConfig. Tests use it to
// inject fake oracles and in-memory stores.
func NewRunner(ctx context.Context, cfg *GraphConfig) (*Runner, error) {
	runnable, err := BuildGraph(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Runner{
		runnable:    runnable,
		checkpoints: cfg.Checkpoints,
		memory:      cfg.MemoryStore,
		locks:       newThreadLocks(),
	}, nil
}

// ProcessTurn runs one customer message through the graph. Turns on the same
// thread are serialized; different threads run concurrently.
func (r *Runner) ProcessTurn(ctx context.Context, threadID, userID, message string) (model.TurnOutput, error) {
	threadID = strings.TrimSpace(threadID)
	userID = strings.TrimSpace(userID)
	switch {
	case userID == "":
		return model.TurnOutput{}, errx.Validation("user_id is required")
	case threadID == "":
		return model.TurnOutput{}, errx.Validation("thread_id is required")
	}

	unlock := r.locks.lock(threadID)
	defer unlock()

	out, err := r.runnable.Invoke(ctx, model.TurnInput{
		ThreadID: threadID,
		UserID:   userID,
		Message:  message,
	}, compose.WithCallbacks(observers.NewAllCallbacks()...))
	if err != nil {
		logx.Error().Err(err).Str("thread_id", threadID).Str("user_id", userID).Msg("turn failed")
		return model.TurnOutput{}, fmt.Errorf("process turn %s: %w", threadID, err)
	}
	return out, nil
}

// GetJourney projects the persisted state of a thread. An unknown thread
// yields the all-null projection.
func (r *Runner) GetJourney(ctx context.Context, threadID string) (model.Journey, error) {
	st, found, err := r.checkpoints.Get(ctx, threadID)
	if err != nil {
		return model.Journey{}, fmt.Errorf("get journey %s: %w", threadID, err)
	}
	if !found {
		return model.Journey{}, nil
	}
	return st.Journey(), nil
}

// DeleteAllSessions removes every checkpoint and every memory record. It
// reports false if either sweep failed.
func (r *Runner) DeleteAllSessions(ctx context.Context) bool {
	ok := true
	if err := r.checkpoints.DeleteAll(ctx); err != nil {
		logx.Error().Err(err).Msg("failed to delete checkpoints")
		ok = false
	}
	if r.memory != nil {
		if err := r.memory.DeleteAll(ctx); err != nil {
			logx.Error().Err(err).Msg("failed to delete long-term memory")
			ok = false
		}
	}
	if ok {
		logx.Info().Msg("all sessions deleted")
	}
	return ok
}

// threadLocks is a keyed mutex; entries are dropped once no turn holds or
// waits on them.
type threadLocks struct {
	mu    sync.Mutex
	locks map[string]*threadLock
}

type threadLock struct {
	mu   sync.Mutex
	refs int
}

func newThreadLocks() *threadLocks {
	return &threadLocks{locks: make(map[string]*threadLock)}
}

func (l *threadLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	tl, ok := l.locks[id]
	if !ok {
		tl = &threadLock{}
		l.locks[id] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()
	return func() {
		tl.mu.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *threadLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
