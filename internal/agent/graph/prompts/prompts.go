package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

var (
	//go:embed template/extraction_prompt.txt
	extractionSystemPrompt string

	//go:embed template/clarify_prompt.txt
	clarifySystemPrompt string

	//go:embed template/recommend_prompt.txt
	recommendSystemPrompt string

	//go:embed template/test_drive_prompt.txt
	testDriveSystemPrompt string

	//go:embed template/financing_prompt.txt
	financingSystemPrompt string
)

// ExtractionInput feeds the slot extraction prompt.
type ExtractionInput struct {
	Utterance       string
	Known           model.Preferences
	RecalledContext string
}

// RenderExtraction builds the system + user messages for slot extraction.
func RenderExtraction(ctx context.Context, cfg model.PromptConfig, in ExtractionInput) ([]*schema.Message, error) {
	return render(ctx, "extraction", extractionSystemPrompt, in.Utterance, map[string]any{
		"ShowroomName":    cfg.ShowroomName,
		"Known":           DescribePreferences(in.Known),
		"RecalledContext": strings.TrimSpace(in.RecalledContext),
	})
}

// ClarifyInput feeds the single-question clarification prompt.
type ClarifyInput struct {
	Slot            model.Slot
	Utterance       string
	Known           model.Preferences
	RecalledContext string
}

func RenderClarify(ctx context.Context, cfg model.PromptConfig, in ClarifyInput) ([]*schema.Message, error) {
	return render(ctx, "clarify", clarifySystemPrompt, in.Utterance, map[string]any{
		"ShowroomName":    cfg.ShowroomName,
		"SlotLabel":       SlotLabel(in.Slot),
		"Known":           DescribePreferences(in.Known),
		"RecalledContext": strings.TrimSpace(in.RecalledContext),
	})
}

// RecommendInput feeds the three-part substantive reply prompt.
type RecommendInput struct {
	Utterance       string
	Known           model.Preferences
	RecalledContext string
	Vehicles        []model.Vehicle
}

func RenderRecommend(ctx context.Context, cfg model.PromptConfig, in RecommendInput) ([]*schema.Message, error) {
	return render(ctx, "recommend", recommendSystemPrompt, in.Utterance, map[string]any{
		"ShowroomName":    cfg.ShowroomName,
		"Known":           DescribePreferences(in.Known),
		"Vehicles":        in.Vehicles,
		"RecalledContext": strings.TrimSpace(in.RecalledContext),
	})
}

// TestDriveInput feeds the test drive invitation prompt.
type TestDriveInput struct {
	Utterance string
	Vehicle   string
	Dates     []string
}

func RenderTestDrive(ctx context.Context, cfg model.PromptConfig, in TestDriveInput) ([]*schema.Message, error) {
	return render(ctx, "test_drive", testDriveSystemPrompt, in.Utterance, map[string]any{
		"ShowroomName": cfg.ShowroomName,
		"Vehicle":      in.Vehicle,
		"Dates":        in.Dates,
	})
}

// FinancingInput feeds the financing presentation prompt.
type FinancingInput struct {
	Utterance string
	Vehicle   string
	Terms     model.FinancingTerms
}

func RenderFinancing(ctx context.Context, cfg model.PromptConfig, in FinancingInput) ([]*schema.Message, error) {
	return render(ctx, "financing", financingSystemPrompt, in.Utterance, map[string]any{
		"ShowroomName": cfg.ShowroomName,
		"Vehicle":      in.Vehicle,
		"DownPayments": in.Terms.DownPaymentText(),
		"Tenures":      in.Terms.TenureText(),
		"RateFrom":     in.Terms.RateText(),
	})
}

// render formats the system template and appends the utterance as the user
// turn. Going through the Eino prompt component emits prompt callbacks.
func render(ctx context.Context, name, system, utterance string, vars map[string]any) ([]*schema.Message, error) {
	vars["Utterance"] = utterance
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(system),
		schema.UserMessage("{{.Utterance}}"),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("%s prompt render: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("%s prompt render: empty result", name)
	}
	return msgs, nil
}

// DescribePreferences renders known slots one per line, "none yet" when empty.
func DescribePreferences(p model.Preferences) string {
	var lines []string
	add := func(slot model.Slot, v string) {
		lines = append(lines, fmt.Sprintf("- %s: %s", slot, v))
	}
	if p.Body != nil {
		add(model.SlotBody, *p.Body)
	}
	if p.SeatsMin != nil {
		add(model.SlotSeatsMin, fmt.Sprintf("%d", *p.SeatsMin))
	}
	if p.Fuel != nil {
		add(model.SlotFuel, *p.Fuel)
	}
	if p.Brand != nil {
		add(model.SlotBrand, *p.Brand)
	}
	if p.Model != nil {
		add(model.SlotModel, *p.Model)
	}
	if len(p.TransmissionBan) > 0 {
		add(model.SlotTransmissionBan, strings.Join(p.TransmissionBan, ", "))
	}
	if len(lines) == 0 {
		return "none yet"
	}
	return strings.Join(lines, "\n")
}

// SlotLabel is the customer-facing wording of a slot.
func SlotLabel(s model.Slot) string {
	switch s {
	case model.SlotBody:
		return "preferred body type (SUV, sedan, hatchback...)"
	case model.SlotSeatsMin:
		return "minimum number of seats"
	case model.SlotFuel:
		return "preferred fuel type"
	case model.SlotBrand:
		return "preferred brand"
	case model.SlotModel:
		return "preferred model"
	default:
		return string(s)
	}
}
