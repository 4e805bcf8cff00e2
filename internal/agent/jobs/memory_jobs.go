package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

const (
	JobAppendTurn      = "append_turn"
	JobRecordMilestone = "record_milestone"
)

// MemoryJob is one deferred long-term memory write.
type MemoryJob struct {
	Kind          string   `json:"kind"`
	UserID        string   `json:"user_id"`
	ThreadID      string   `json:"thread_id"`
	UserText      string   `json:"user_text,omitempty"`
	AssistantText string   `json:"assistant_text,omitempty"`
	Fact          string   `json:"fact,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// NewMemoryBus creates the in-process pub/sub that carries memory jobs.
func NewMemoryBus(buffer int64) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: buffer},
		logx.Watermill(),
	)
}

// MemoryPublisher queues memory writes so a turn never waits on the store.
type MemoryPublisher struct {
	pub   message.Publisher
	topic string
}

func NewMemoryPublisher(pub message.Publisher, topic string) *MemoryPublisher {
	return &MemoryPublisher{pub: pub, topic: topic}
}

func (p *MemoryPublisher) AppendTurn(_ context.Context, userID, threadID, userText, assistantText string) error {
	return p.publish(MemoryJob{
		Kind:          JobAppendTurn,
		UserID:        userID,
		ThreadID:      threadID,
		UserText:      userText,
		AssistantText: assistantText,
	})
}

func (p *MemoryPublisher) RecordMilestone(_ context.Context, userID, threadID, fact string, tags []string) error {
	return p.publish(MemoryJob{
		Kind:     JobRecordMilestone,
		UserID:   userID,
		ThreadID: threadID,
		Fact:     fact,
		Tags:     tags,
	})
}

func (p *MemoryPublisher) publish(job MemoryJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal memory job: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pub.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish memory job: %w", err)
	}
	logx.Debug().Str("kind", job.Kind).Str("thread_id", job.ThreadID).Str("message_uuid", msg.UUID).Msg("memory job queued")
	return nil
}

// MemoryWorker applies queued jobs to the long-term memory store.
type MemoryWorker struct {
	sub   message.Subscriber
	topic string
	store model.MemoryStore
}

func NewMemoryWorker(sub message.Subscriber, topic string, store model.MemoryStore) *MemoryWorker {
	return &MemoryWorker{sub: sub, topic: topic, store: store}
}

// Run consumes jobs until ctx is cancelled or the subscription closes.
func (w *MemoryWorker) Run(ctx context.Context) error {
	messages, err := w.subscribe(ctx)
	if err != nil {
		return err
	}
	w.consume(ctx, messages)
	return nil
}

func (w *MemoryWorker) subscribe(ctx context.Context) (<-chan *message.Message, error) {
	messages, err := w.sub.Subscribe(ctx, w.topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", w.topic, err)
	}
	logx.Info().Str("topic", w.topic).Msg("memory worker started")
	return messages, nil
}

func (w *MemoryWorker) consume(ctx context.Context, messages <-chan *message.Message) {
	for msg := range messages {
		w.handle(ctx, msg)
	}
	logx.Info().Str("topic", w.topic).Msg("memory worker stopped")
}

// handle always acks: memory writes are best-effort and a failing store must
// not redeliver the same job forever.
func (w *MemoryWorker) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var job MemoryJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		logx.Error().Err(err).Str("message_uuid", msg.UUID).Msg("dropping unreadable memory job")
		return
	}

	var err error
	switch job.Kind {
	case JobAppendTurn:
		err = w.store.AppendTurn(ctx, job.UserID, job.ThreadID, job.UserText, job.AssistantText)
	case JobRecordMilestone:
		err = w.store.RecordMilestone(ctx, job.UserID, job.ThreadID, job.Fact, job.Tags)
	default:
		logx.Warn().Str("kind", job.Kind).Str("message_uuid", msg.UUID).Msg("unknown memory job kind")
		return
	}
	if err != nil {
		logx.Warn().Err(err).Str("kind", job.Kind).Str("thread_id", job.ThreadID).Msg("memory job failed")
	}
}
