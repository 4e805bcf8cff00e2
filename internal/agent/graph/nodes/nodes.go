package nodes

import (
	"context"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/autoemporium/showroom-assistant/internal/agent/graph/parsers"
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	"github.com/autoemporium/showroom-assistant/internal/agent/slots"
	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

// MemorySearcher is the read side of long-term memory.
type MemorySearcher interface {
	Search(ctx context.Context, userID, query string, limit int) ([]string, error)
}

// MemoryWriter is the best-effort write side of long-term memory.
// Implementations may apply writes after the turn has returned.
type MemoryWriter interface {
	AppendTurn(ctx context.Context, userID, threadID, userText, assistantText string) error
	RecordMilestone(ctx context.Context, userID, threadID, fact string, tags []string) error
}

// NewLoadCheckpointPreHandler seeds the per-turn state from the input.
func NewLoadCheckpointPreHandler() func(context.Context, model.TurnInput, *model.TurnState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.TurnState) (model.TurnInput, error) {
		s.ThreadID = in.ThreadID
		s.UserID = in.UserID
		s.ExtractionFailed = false
		s.OracleFailures = 0
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewLoadCheckpointNode reads the thread's last checkpoint. A failed read is
// treated as a new session.
func NewLoadCheckpointNode(store model.CheckpointStore) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) (*model.ConversationState, error) {
		st, found, err := store.Get(ctx, in.ThreadID)
		switch {
		case err != nil:
			logx.Info().Err(err).Str("thread_id", in.ThreadID).Msg("checkpoint read failed; starting a new session")
			st = model.NewConversationState()
		case !found || st == nil:
			logx.Debug().Str("thread_id", in.ThreadID).Msg("no checkpoint; starting a new session")
			st = model.NewConversationState()
		}
		st.BeginTurn(in.Message)
		return st, nil
	})
}

// NewLoadCheckpointPostHandler remembers the stage the turn started from.
func NewLoadCheckpointPostHandler() func(context.Context, *model.ConversationState, *model.TurnState) (*model.ConversationState, error) {
	return func(ctx context.Context, out *model.ConversationState, s *model.TurnState) (*model.ConversationState, error) {
		s.StageBefore = out.Stage
		return out, nil
	}
}

// NewRecallMemoryNode fetches cross-session facts once per session. A cached
// value, even an empty one, is reused as-is.
func NewRecallMemoryNode(mem MemorySearcher, limit int) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		if st.RecalledContext != nil || mem == nil {
			return st, nil
		}
		threadID, userID := turnIDs(ctx)

		facts, err := mem.Search(ctx, userID, st.RawMessage, limit)
		if err != nil {
			logx.Warn().Err(err).Str("thread_id", threadID).Str("node", NodeRecallMemory).
				Msg("memory search failed; continuing without recalled context")
			return st, nil
		}

		recalled := formatFacts(facts)
		st.RecalledContext = &recalled
		logx.Debug().Str("thread_id", threadID).Int("facts", len(facts)).Msg("recalled context cached")
		return st, nil
	})
}

// NewExtractSlotsNode merges this turn's extraction into the known
// preferences. Bans accumulate; test drive completion is sticky.
func NewExtractSlotsNode(ex *Extractor) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		threadID, _ := turnIDs(ctx)
		partial, ok := ex.Extract(ctx, threadID, st.RawMessage, st.Preferences, st.RecalledContext)
		if !ok {
			_ = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
				s.ExtractionFailed = true
				return nil
			})
		}

		previousBans := st.Preferences.TransmissionBan
		merged := slots.Merge(st.Preferences, partial)
		merged.TransmissionBan = slots.UnionBans(previousBans, merged.TransmissionBan)
		st.Preferences = merged
		st.TestDriveCompleted = slots.MergeCompletion(st.TestDriveCompleted, partial.TestDriveCompleted)
		return st, nil
	})
}

// NewEvaluateReadinessNode recomputes need_clarification from scratch.
func NewEvaluateReadinessNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		r := slots.Evaluate(st.Preferences)
		st.NeedClarification = r.NeedClarification
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.Readiness = r
			return nil
		})
		if err != nil {
			return nil, err
		}
		return st, nil
	})
}

// NewSynthesizeResponseNode asks a clarification question or produces the
// substantive reply.
func NewSynthesizeResponseNode(syn *Synthesizer) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		// completion without a chosen model cannot be genuine
		if model.Deref(st.TestDriveCompleted) && st.Preferences.Model == nil {
			st.TestDriveCompleted = nil
		}

		if !st.NeedClarification {
			applyReply(st, syn.Recommend(ctx, st))
			return st, nil
		}

		var missing model.Missing
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			missing = s.Readiness.Missing
			return nil
		})
		if err != nil {
			return nil, err
		}
		applyReply(st, syn.Clarify(ctx, st, missing))
		return st, nil
	})
}

// NewRouteCondition maps the routing decision onto graph node keys.
func NewRouteCondition() func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, st *model.ConversationState) (string, error) {
		route := Decide(st)
		threadID, _ := turnIDs(ctx)
		logx.Debug().Str("thread_id", threadID).Str("route", route.String()).Msg("routing turn")
		return RouteTarget(route), nil
	}
}

// RouteTarget is the node a route leads to. Ending the turn skips the funnel
// nodes but still records the transcript and commits.
func RouteTarget(r Route) string {
	if r.IsEnd() {
		return NodeRecordMemory
	}
	return r.Next()
}

func NewSuggestTestDriveNode(syn *Synthesizer) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		reply, ok := syn.SuggestTestDrive(ctx, st)
		if ok {
			applyReply(st, reply)
			st.Stage = moveTo(st.Stage, model.StageTestDrive)
		}
		return st, nil
	})
}

func NewSuggestFinancingNode(syn *Synthesizer) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		reply, ok := syn.SuggestFinancing(ctx, st)
		applyReply(st, reply)
		if ok {
			st.Stage = moveTo(st.Stage, model.StageFinancing)
		}
		return st, nil
	})
}

func NewAdvanceStageNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		st.Stage = moveTo(st.Stage, Advance(st.Stage))
		return st, nil
	})
}

// NewRecordMemoryNode hands the transcript and any stage milestone to the
// memory writer. Failures never reach the caller.
func NewRecordMemoryNode(w MemoryWriter) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (*model.ConversationState, error) {
		if w == nil {
			return st, nil
		}
		var threadID, userID string
		var before model.Stage
		_ = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			threadID, userID, before = s.ThreadID, s.UserID, s.StageBefore
			return nil
		})

		if st.Stage != before && st.Stage.IsSet() {
			fact := MilestoneFact(st)
			if err := w.RecordMilestone(ctx, userID, threadID, fact, []string{"milestone", string(st.Stage)}); err != nil {
				logx.Warn().Err(err).Str("thread_id", threadID).Str("node", NodeRecordMemory).Msg("milestone write dropped")
			}
		}
		if err := w.AppendTurn(ctx, userID, threadID, st.RawMessage, st.ResponseText); err != nil {
			logx.Warn().Err(err).Str("thread_id", threadID).Str("node", NodeRecordMemory).Msg("transcript write dropped")
		}
		return st, nil
	})
}

// NewCommitNode writes the checkpoint. A failed write fails the turn.
func NewCommitNode(store model.CheckpointStore, now func() time.Time) *compose.Lambda {
	if now == nil {
		now = time.Now
	}
	return compose.InvokableLambda(func(ctx context.Context, st *model.ConversationState) (model.TurnOutput, error) {
		threadID, _ := turnIDs(ctx)
		if st.ResponseText == "" {
			st.ResponseText = FallbackResponse
		}
		st.UpdatedAt = now().UTC()

		if err := store.Put(ctx, threadID, st); err != nil {
			logx.Error().Err(err).Str("thread_id", threadID).Str("node", NodeCommit).Msg("checkpoint write failed")
			return model.TurnOutput{}, errx.WrapCheckpoint(err)
		}

		return model.TurnOutput{
			ThreadID:     threadID,
			ResponseText: st.ResponseText,
			Journey:      st.Journey(),
		}, nil
	})
}

// NewCommitPostHandler logs the turn summary including accumulated cost.
func NewCommitPostHandler() func(context.Context, model.TurnOutput, *model.TurnState) (model.TurnOutput, error) {
	return func(ctx context.Context, out model.TurnOutput, s *model.TurnState) (model.TurnOutput, error) {
		stage := ""
		if out.Journey.Stage != nil {
			stage = string(*out.Journey.Stage)
		}
		logx.Info().
			Str("thread_id", s.ThreadID).
			Str("user_id", s.UserID).
			Str("stage_before", string(s.StageBefore)).
			Str("stage", stage).
			Bool("need_clarification", s.Readiness.NeedClarification).
			Bool("extraction_failed", s.ExtractionFailed).
			Int("oracle_failures", s.OracleFailures).
			Float64("total_cost_usd", s.TotalCostUSD).
			Msg("turn committed")
		return out, nil
	}
}

func applyReply(st *model.ConversationState, r parsers.Reply) {
	st.ResponseText = r.Response
	st.Rationale = r.Rationale
	st.NextStep = r.NextStep
}
