package nodes

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

func TestDecide(t *testing.T) {
	withModel := model.Preferences{Body: model.Ptr("suv"), Model: model.Ptr("xc90")}

	tests := []struct {
		name  string
		state model.ConversationState
		want  Route
	}{
		{
			name:  "clarification ends the turn",
			state: model.ConversationState{NeedClarification: true, Preferences: withModel},
			want:  EndTurn(),
		},
		{
			name:  "completed test drive goes to financing",
			state: model.ConversationState{Preferences: withModel, Stage: model.StageTestDrive, TestDriveCompleted: model.Ptr(true)},
			want:  Continue(NodeSuggestFinancing),
		},
		{
			name:  "model jumps to test drive",
			state: model.ConversationState{Preferences: withModel, Stage: model.StageNeedsAnalysis},
			want:  Continue(NodeSuggestTestDrive),
		},
		{
			name:  "model from unset stage",
			state: model.ConversationState{Preferences: withModel},
			want:  Continue(NodeSuggestTestDrive),
		},
		{
			name:  "waiting for test drive",
			state: model.ConversationState{Preferences: withModel, Stage: model.StageTestDrive},
			want:  Continue(NodeAdvanceStage),
		},
		{
			name:  "financing is terminal",
			state: model.ConversationState{Preferences: withModel, Stage: model.StageFinancing, TestDriveCompleted: model.Ptr(true)},
			want:  Continue(NodeAdvanceStage),
		},
		{
			name:  "plain advance",
			state: model.ConversationState{Preferences: model.Preferences{Body: model.Ptr("sedan")}},
			want:  Continue(NodeAdvanceStage),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(&tt.state)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoute(t *testing.T) {
	assert.True(t, EndTurn().IsEnd())
	assert.Equal(t, NodeRecordMemory, RouteTarget(EndTurn()))
	assert.Equal(t, NodeAdvanceStage, RouteTarget(Continue(NodeAdvanceStage)))
	assert.Equal(t, "end_turn", EndTurn().String())
	assert.Equal(t, "continue(advance_stage)", Continue(NodeAdvanceStage).String())
}

func TestAdvance(t *testing.T) {
	assert.Equal(t, model.StageNeedsAnalysis, Advance(model.StageUnset))
	assert.Equal(t, model.StageShortlist, Advance(model.StageNeedsAnalysis))
	assert.Equal(t, model.StageShortlist, Advance(model.StageShortlist))
	assert.Equal(t, model.StageTestDrive, Advance(model.StageTestDrive))
	assert.Equal(t, model.StageFinancing, Advance(model.StageFinancing))
}

func TestStageNeverMovesBackwards(t *testing.T) {
	stages := []model.Stage{
		model.StageUnset, model.StageNeedsAnalysis, model.StageShortlist, model.StageTestDrive, model.StageFinancing,
	}
	r := rand.New(rand.NewSource(7))
	current := model.StageUnset
	for i := 0; i < 500; i++ {
		next := moveTo(current, stages[r.Intn(len(stages))])
		if r.Intn(2) == 0 {
			next = moveTo(current, Advance(current))
		}
		assert.GreaterOrEqual(t, next.Rank(), current.Rank())
		current = next
	}
}
