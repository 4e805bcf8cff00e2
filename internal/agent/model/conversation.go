package model

import (
	"context"
	"time"
)

// ConversationState is the checkpointed truth of one thread.
type ConversationState struct {
	RawMessage         string      `json:"raw_message"`
	Preferences        Preferences `json:"preferences"`
	TestDriveCompleted *bool       `json:"test_drive_completed,omitempty"`
	Stage              Stage       `json:"stage,omitempty"`
	NeedClarification  bool        `json:"need_clarification"`
	// RecalledContext is fetched once per session and then reused as-is.
	RecalledContext *string `json:"recalled_context,omitempty"`

	// Turn outputs, overwritten every turn.
	ResponseText string `json:"response_text,omitempty"`
	Rationale    string `json:"rationale,omitempty"`
	NextStep     string `json:"next_step,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversationState returns the cold-start state for an unseen thread.
func NewConversationState() *ConversationState {
	return &ConversationState{
		Preferences: Preferences{TransmissionBan: []string{}},
	}
}

// BeginTurn installs the new utterance and clears per-turn outputs.
func (s *ConversationState) BeginTurn(message string) {
	s.RawMessage = message
	s.NeedClarification = false
	s.ResponseText = ""
	s.Rationale = ""
	s.NextStep = ""
	if s.Preferences.TransmissionBan == nil {
		s.Preferences.TransmissionBan = []string{}
	}
}

// Journey is the read-only projection served to callers.
type Journey struct {
	Body               *string `json:"body"`
	SeatsMin           *int    `json:"seats_min"`
	Fuel               *string `json:"fuel"`
	Brand              *string `json:"brand"`
	Model              *string `json:"model"`
	Stage              *Stage  `json:"stage"`
	TestDriveCompleted bool    `json:"test_drive_completed"`
}

// Journey projects the state; a nil receiver yields the all-null default.
func (s *ConversationState) Journey() Journey {
	if s == nil {
		return Journey{}
	}
	j := Journey{
		Body:               clonePtr(s.Preferences.Body),
		SeatsMin:           clonePtr(s.Preferences.SeatsMin),
		Fuel:               clonePtr(s.Preferences.Fuel),
		Brand:              clonePtr(s.Preferences.Brand),
		Model:              clonePtr(s.Preferences.Model),
		TestDriveCompleted: Deref(s.TestDriveCompleted),
	}
	if s.Stage.IsSet() {
		j.Stage = Ptr(s.Stage)
	}
	return j
}

// CheckpointStore persists ConversationState per thread id.
type CheckpointStore interface {
	// Get returns the latest state; found is false for an unseen thread.
	Get(ctx context.Context, threadID string) (state *ConversationState, found bool, err error)

	// Put atomically replaces the state of a thread.
	Put(ctx context.Context, threadID string, state *ConversationState) error

	// DeleteAll removes every checkpoint across all threads.
	DeleteAll(ctx context.Context) error
}

// MemoryStore is the cross-session long-term memory of a customer.
type MemoryStore interface {
	// Search returns up to limit short facts relevant to query, most recent first.
	Search(ctx context.Context, userID, query string, limit int) ([]string, error)

	// AppendTurn records one exchange of a thread.
	AppendTurn(ctx context.Context, userID, threadID, userText, assistantText string) error

	// RecordMilestone records a significant fact such as a funnel stage change.
	RecordMilestone(ctx context.Context, userID, threadID, fact string, tags []string) error

	// DeleteAll removes every memory record of every user.
	DeleteAll(ctx context.Context) error
}
