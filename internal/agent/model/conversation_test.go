package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJourneyDefaultsForUnknownThread(t *testing.T) {
	var s *ConversationState
	j := s.Journey()

	b, err := json.Marshal(j)
	require.NoError(t, err)
	assert.JSONEq(t, `{"body":null,"seats_min":null,"fuel":null,"brand":null,"model":null,"stage":null,"test_drive_completed":false}`, string(b))
}

func TestJourneyProjectsState(t *testing.T) {
	s := NewConversationState()
	s.Preferences.Body = Ptr("suv")
	s.Preferences.SeatsMin = Ptr(7)
	s.Stage = StageTestDrive
	s.TestDriveCompleted = Ptr(true)

	j := s.Journey()
	assert.Equal(t, "suv", Deref(j.Body))
	assert.Equal(t, 7, Deref(j.SeatsMin))
	require.NotNil(t, j.Stage)
	assert.Equal(t, StageTestDrive, *j.Stage)
	assert.True(t, j.TestDriveCompleted)

	// projection must not alias the live state
	*j.Body = "sedan"
	assert.Equal(t, "suv", Deref(s.Preferences.Body))
}

func TestBeginTurnClearsOutputs(t *testing.T) {
	s := NewConversationState()
	s.ResponseText = "old"
	s.Rationale = "old"
	s.NextStep = "old"
	s.NeedClarification = true
	s.RecalledContext = Ptr("likes volvo")

	s.BeginTurn("hello")
	assert.Equal(t, "hello", s.RawMessage)
	assert.Empty(t, s.ResponseText)
	assert.Empty(t, s.Rationale)
	assert.Empty(t, s.NextStep)
	assert.False(t, s.NeedClarification)
	assert.Equal(t, "likes volvo", Deref(s.RecalledContext))
}

func TestStageRankIsMonotonic(t *testing.T) {
	order := []Stage{StageUnset, StageNeedsAnalysis, StageShortlist, StageTestDrive, StageFinancing}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].Rank(), order[i].Rank())
	}
}
