package nodes

import (
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

// Route is the outcome of the post-response routing decision: either end the
// turn right away or continue into a named node.
type Route struct {
	next string
}

// Continue routes into node.
func Continue(node string) Route {
	return Route{next: node}
}

// EndTurn finishes the turn without a stage change.
func EndTurn() Route {
	return Route{}
}

func (r Route) IsEnd() bool {
	return r.next == ""
}

// Next is the node to run; empty for EndTurn.
func (r Route) Next() string {
	return r.next
}

func (r Route) String() string {
	if r.IsEnd() {
		return "end_turn"
	}
	return "continue(" + r.next + ")"
}

// Decide picks the branch after response synthesis. The two forward jumps
// pre-empt the plain linear advance.
func Decide(st *model.ConversationState) Route {
	switch {
	case st.NeedClarification:
		return EndTurn()
	case model.Deref(st.TestDriveCompleted) && st.Stage == model.StageTestDrive:
		return Continue(NodeSuggestFinancing)
	case st.Preferences.Model != nil && st.Stage != model.StageTestDrive && st.Stage != model.StageFinancing:
		return Continue(NodeSuggestTestDrive)
	default:
		return Continue(NodeAdvanceStage)
	}
}

// Advance is the linear transition: unset -> needs_analysis -> shortlist.
// Later stages are only entered through the jumps and stay put here.
func Advance(s model.Stage) model.Stage {
	switch s {
	case model.StageUnset:
		return model.StageNeedsAnalysis
	case model.StageNeedsAnalysis:
		return model.StageShortlist
	default:
		return s
	}
}

// moveTo returns next unless that would move the funnel backwards.
func moveTo(current, next model.Stage) model.Stage {
	if next.Rank() > current.Rank() {
		return next
	}
	return current
}
