package prompts

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

var cfg = model.PromptConfig{ShowroomName: "AutoEmporium"}

func TestRenderExtraction(t *testing.T) {
	msgs, err := RenderExtraction(context.Background(), cfg, ExtractionInput{
		Utterance:       "I want an SUV {{not a template}}",
		Known:           model.Preferences{Fuel: model.Ptr("diesel")},
		RecalledContext: "customer owns a golden retriever",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "AutoEmporium")
	assert.Contains(t, msgs[0].Content, "- fuel: diesel")
	assert.Contains(t, msgs[0].Content, "golden retriever")

	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "I want an SUV {{not a template}}", msgs[1].Content)
}

func TestRenderExtractionWithoutRecall(t *testing.T) {
	msgs, err := RenderExtraction(context.Background(), cfg, ExtractionInput{Utterance: "hi"})
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "none yet")
	assert.NotContains(t, msgs[0].Content, "earlier conversations")
}

func TestRenderRecommendListsVehicles(t *testing.T) {
	msgs, err := RenderRecommend(context.Background(), cfg, RecommendInput{
		Utterance: "show me",
		Known:     model.Preferences{Body: model.Ptr("suv")},
		Vehicles: []model.Vehicle{
			{Brand: "Volvo", Model: "XC90", Body: "suv", Fuel: "hybrid", Seats: 7, Transmission: "automatic", PriceUSD: 67000},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "Volvo XC90 (suv, hybrid, 7 seats, automatic, $67000)")
	assert.Contains(t, msgs[0].Content, `"next_step"`)
}

func TestRenderTestDriveAndFinancing(t *testing.T) {
	dates := []string{"Monday, March 2", "Tuesday, March 3", "Thursday, March 5"}
	msgs, err := RenderTestDrive(context.Background(), cfg, TestDriveInput{Vehicle: "volvo xc90", Dates: dates})
	require.NoError(t, err)
	for _, d := range dates {
		assert.Contains(t, msgs[0].Content, d)
	}

	msgs, err = RenderFinancing(context.Background(), cfg, FinancingInput{Vehicle: "volvo xc90", Terms: model.DefaultFinancingTerms})
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "10%, 20% or 30%")
	assert.Contains(t, msgs[0].Content, "36, 48 or 60 months")
	assert.Contains(t, msgs[0].Content, "6.9%")
}

func TestRenderClarify(t *testing.T) {
	msgs, err := RenderClarify(context.Background(), cfg, ClarifyInput{Slot: model.SlotSeatsMin, Utterance: "a car"})
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "minimum number of seats")
}
