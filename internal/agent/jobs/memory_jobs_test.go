package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingStore struct {
	mu         sync.Mutex
	turns      []string
	milestones []string
	tags       [][]string
	attempts   int
	fail       bool
}

func (r *recordingStore) Search(context.Context, string, string, int) ([]string, error) {
	return nil, nil
}

func (r *recordingStore) AppendTurn(_ context.Context, userID, threadID, userText, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.fail {
		return errors.New("store offline")
	}
	r.turns = append(r.turns, userID+"/"+threadID+": "+userText)
	return nil
}

func (r *recordingStore) RecordMilestone(_ context.Context, userID, _, fact string, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("store offline")
	}
	r.milestones = append(r.milestones, userID+": "+fact)
	r.tags = append(r.tags, tags)
	return nil
}

func (r *recordingStore) DeleteAll(context.Context) error { return nil }

func (r *recordingStore) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.turns), len(r.milestones)
}

func startWorker(t *testing.T, store *recordingStore) (*MemoryPublisher, func()) {
	t.Helper()
	bus := NewMemoryBus(16)
	ctx, cancel := context.WithCancel(context.Background())

	worker := NewMemoryWorker(bus, "memory.writes", store)
	// subscribe before publishing; gochannel drops messages nobody listens to
	messages, err := worker.subscribe(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		worker.consume(ctx, messages)
		close(done)
	}()

	stop := func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("memory worker did not stop")
		}
		require.NoError(t, bus.Close())
	}
	return NewMemoryPublisher(bus, "memory.writes"), stop
}

func TestMemoryWorkerAppliesJobs(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := &recordingStore{}
	pub, stop := startWorker(t, store)

	ctx := context.Background()
	require.NoError(t, pub.AppendTurn(ctx, "u1", "t1", "I want an SUV", "Great choice"))
	require.NoError(t, pub.RecordMilestone(ctx, "u1", "t1", "Customer reached the shortlist stage", []string{"milestone", "shortlist"}))

	assert.Eventually(t, func() bool {
		turns, milestones := store.counts()
		return turns == 1 && milestones == 1
	}, 2*time.Second, 10*time.Millisecond)
	stop()

	assert.Equal(t, []string{"u1/t1: I want an SUV"}, store.turns)
	assert.Equal(t, []string{"u1: Customer reached the shortlist stage"}, store.milestones)
	assert.Equal(t, [][]string{{"milestone", "shortlist"}}, store.tags)
}

func TestMemoryWorkerSurvivesStoreFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := &recordingStore{fail: true}
	pub, stop := startWorker(t, store)

	ctx := context.Background()
	require.NoError(t, pub.AppendTurn(ctx, "u1", "t1", "first", ""))

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		if store.attempts == 1 {
			store.fail = false
			return true
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, pub.AppendTurn(ctx, "u1", "t1", "second", ""))
	assert.Eventually(t, func() bool {
		turns, _ := store.counts()
		return turns == 1
	}, 2*time.Second, 10*time.Millisecond)
	stop()

	assert.Equal(t, []string{"u1/t1: second"}, store.turns)
}
