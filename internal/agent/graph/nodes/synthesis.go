package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"

	"github.com/autoemporium/showroom-assistant/internal/agent/graph/parsers"
	"github.com/autoemporium/showroom-assistant/internal/agent/graph/prompts"
	"github.com/autoemporium/showroom-assistant/internal/agent/graph/tools"
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	"github.com/autoemporium/showroom-assistant/internal/agent/slots"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

const (
	shortlistSize   = 3
	testDriveLayout = "Monday, January 2"
)

// testDriveOffsets are the days from today offered for a test drive.
var testDriveOffsets = []int{2, 3, 5}

// SynthesizerConfig wires the response stage.
type SynthesizerConfig struct {
	Oracle *Oracle
	Prompt model.PromptConfig
	// Vehicles grounds recommendations in inventory; nil skips the lookup.
	Vehicles tool.InvokableTool
	Terms    model.FinancingTerms
	Now      func() time.Time
}

// Synthesizer produces customer replies. Every method returns a usable
// reply: oracle problems are logged and replaced by deterministic text.
type Synthesizer struct {
	oracle   *Oracle
	prompt   model.PromptConfig
	vehicles tool.InvokableTool
	terms    model.FinancingTerms
	now      func() time.Time
}

func NewSynthesizer(cfg SynthesizerConfig) *Synthesizer {
	s := &Synthesizer{
		oracle:   cfg.Oracle,
		prompt:   cfg.Prompt,
		vehicles: cfg.Vehicles,
		terms:    cfg.Terms,
		now:      cfg.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.terms.DownPaymentPercents) == 0 {
		s.terms = model.DefaultFinancingTerms
	}
	return s
}

// Clarify asks about the single most important missing slot.
func (s *Synthesizer) Clarify(ctx context.Context, st *model.ConversationState, missing model.Missing) parsers.Reply {
	slot := slots.NextQuestion(missing)
	reply := parsers.Reply{
		Rationale: fmt.Sprintf("Missing %s; asking before recommending.", slot),
		NextStep:  fmt.Sprintf("Collect %s.", slot),
	}

	msgs, err := prompts.RenderClarify(ctx, s.prompt, prompts.ClarifyInput{
		Slot:            slot,
		Utterance:       st.RawMessage,
		Known:           st.Preferences,
		RecalledContext: model.Deref(st.RecalledContext),
	})
	if err == nil {
		reply.Response, err = s.oracle.Ask(ctx, NodeSynthesizeResponse, msgs)
	}
	if err != nil {
		logx.Warn().Err(err).Str("slot", string(slot)).Msg("clarification oracle failed; using canned question")
		reply.Response = FallbackQuestion(slot)
	}
	return reply
}

// Recommend produces the three-part substantive answer.
func (s *Synthesizer) Recommend(ctx context.Context, st *model.ConversationState) parsers.Reply {
	msgs, err := prompts.RenderRecommend(ctx, s.prompt, prompts.RecommendInput{
		Utterance:       st.RawMessage,
		Known:           st.Preferences,
		RecalledContext: model.Deref(st.RecalledContext),
		Vehicles:        s.shortlist(ctx, st.Preferences),
	})
	if err != nil {
		logx.Warn().Err(err).Msg("recommendation prompt failed; using fallback reply")
		return FallbackReply()
	}

	content, err := s.oracle.Ask(ctx, NodeSynthesizeResponse, msgs)
	if err != nil {
		logx.Warn().Err(err).Msg("recommendation oracle failed; using fallback reply")
		return FallbackReply()
	}

	parsed, err := parsers.ParseReply(content)
	if err != nil {
		logx.Warn().Err(err).Msg("unparsable recommendation reply; using fallback reply")
		return FallbackReply()
	}

	reply := *parsed
	if reply.Response == "" {
		reply.Response = FallbackResponse
	}
	if reply.Rationale == "" {
		reply.Rationale = defaultRationale
	}
	if reply.NextStep == "" {
		reply.NextStep = defaultNextStep
	}
	return reply
}

// SuggestTestDrive invites the customer to drive the chosen model on one of
// the offered dates. ok is false when no model is known.
func (s *Synthesizer) SuggestTestDrive(ctx context.Context, st *model.ConversationState) (reply parsers.Reply, ok bool) {
	if st.Preferences.Model == nil {
		return parsers.Reply{}, false
	}
	vehicle := VehicleName(st.Preferences)
	dates := TestDriveDates(s.now())

	reply = parsers.Reply{
		Rationale: fmt.Sprintf("Customer settled on the %s.", vehicle),
		NextStep:  "Schedule a test drive.",
	}

	msgs, err := prompts.RenderTestDrive(ctx, s.prompt, prompts.TestDriveInput{
		Utterance: st.RawMessage,
		Vehicle:   vehicle,
		Dates:     dates,
	})
	if err == nil {
		reply.Response, err = s.oracle.Ask(ctx, NodeSuggestTestDrive, msgs)
	}
	if err == nil && !mentionsAll(reply.Response, dates) {
		err = fmt.Errorf("invitation does not offer every date")
	}
	if err != nil {
		logx.Warn().Err(err).Msg("test drive oracle failed; using templated invitation")
		reply.Response = testDriveInvitation(vehicle, dates)
	}
	return reply, true
}

// SuggestFinancing presents the fixed financing terms. ok is false when a
// precondition is missing; the reply then asks the customer to complete it.
func (s *Synthesizer) SuggestFinancing(ctx context.Context, st *model.ConversationState) (reply parsers.Reply, ok bool) {
	if st.Preferences.Model == nil {
		return parsers.Reply{
			Response:  missingModelMessage,
			Rationale: "Financing needs a chosen model.",
			NextStep:  "Choose a model.",
		}, false
	}
	vehicle := VehicleName(st.Preferences)
	if !model.Deref(st.TestDriveCompleted) {
		return parsers.Reply{
			Response:  missingTestDriveMessage(vehicle),
			Rationale: "Financing is offered after the test drive.",
			NextStep:  "Schedule a test drive.",
		}, false
	}

	reply = parsers.Reply{
		Rationale: fmt.Sprintf("Test drive of the %s completed.", vehicle),
		NextStep:  "Agree on financing terms.",
	}

	msgs, err := prompts.RenderFinancing(ctx, s.prompt, prompts.FinancingInput{
		Utterance: st.RawMessage,
		Vehicle:   vehicle,
		Terms:     s.terms,
	})
	if err == nil {
		reply.Response, err = s.oracle.Ask(ctx, NodeSuggestFinancing, msgs)
	}
	if err != nil {
		logx.Warn().Err(err).Msg("financing oracle failed; using templated terms")
		reply.Response = financingPresentation(vehicle, s.terms)
	}
	return reply, true
}

// shortlist looks up matching inventory through the search tool. A miss on
// every filter retries with the body type alone; banned transmissions stay
// excluded.
func (s *Synthesizer) shortlist(ctx context.Context, p model.Preferences) []model.Vehicle {
	if s.vehicles == nil {
		return nil
	}
	in := tools.SearchVehiclesInput{
		Body:                 model.Deref(p.Body),
		Fuel:                 model.Deref(p.Fuel),
		Brand:                model.Deref(p.Brand),
		SeatsMin:             model.Deref(p.SeatsMin),
		ExcludeTransmissions: p.TransmissionBan,
		MaxResults:           shortlistSize,
	}
	found := s.searchVehicles(ctx, in)
	if len(found) == 0 && in.Body != "" {
		found = s.searchVehicles(ctx, tools.SearchVehiclesInput{
			Body:                 in.Body,
			ExcludeTransmissions: in.ExcludeTransmissions,
			MaxResults:           shortlistSize,
		})
	}
	return found
}

func (s *Synthesizer) searchVehicles(ctx context.Context, in tools.SearchVehiclesInput) []model.Vehicle {
	args, err := json.Marshal(in)
	if err != nil {
		return nil
	}
	raw, err := s.vehicles.InvokableRun(ctx, string(args))
	if err != nil {
		logx.Warn().Err(err).Str("tool", tools.ToolSearchVehicles).Msg("vehicle search failed")
		return nil
	}
	var out tools.SearchVehiclesOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logx.Warn().Err(err).Str("tool", tools.ToolSearchVehicles).Msg("vehicle search returned bad json")
		return nil
	}
	return out.Vehicles
}

// TestDriveDates are the offered dates, two, three and five days from now.
func TestDriveDates(now time.Time) []string {
	out := make([]string, 0, len(testDriveOffsets))
	for _, d := range testDriveOffsets {
		out = append(out, now.AddDate(0, 0, d).Format(testDriveLayout))
	}
	return out
}

// VehicleName renders "brand model", or just the model when no brand is known.
func VehicleName(p model.Preferences) string {
	return strings.TrimSpace(model.Deref(p.Brand) + " " + model.Deref(p.Model))
}

func mentionsAll(text string, parts []string) bool {
	for _, p := range parts {
		if !strings.Contains(text, p) {
			return false
		}
	}
	return true
}
