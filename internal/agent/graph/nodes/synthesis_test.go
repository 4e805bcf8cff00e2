package nodes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoemporium/showroom-assistant/internal/agent/catalog"
	"github.com/autoemporium/showroom-assistant/internal/agent/graph/tools"
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

func newSynth(g *fakeGenerator) *Synthesizer {
	return NewSynthesizer(SynthesizerConfig{
		Oracle:   oracleWith(g),
		Prompt:   promptCfg,
		Vehicles: tools.NewSearchVehiclesTool(catalog.MustLoad()),
		Now:      fixedNow,
	})
}

func TestTestDriveDates(t *testing.T) {
	assert.Equal(t,
		[]string{"Wednesday, March 5", "Thursday, March 6", "Saturday, March 8"},
		TestDriveDates(fixedNow()),
	)
}

func TestClarify(t *testing.T) {
	st := &model.ConversationState{RawMessage: "I want a car"}
	missing := model.Missing{Required: []model.Slot{model.SlotBody}, Optional: []model.Slot{model.SlotSeatsMin}}

	reply := newSynth(&fakeGenerator{reply: "What kind of body style do you like?"}).Clarify(context.Background(), st, missing)
	assert.Equal(t, "What kind of body style do you like?", reply.Response)

	reply = newSynth(&fakeGenerator{err: errTransport}).Clarify(context.Background(), st, missing)
	assert.Equal(t, FallbackQuestion(model.SlotBody), reply.Response)

	// nothing reported missing: fall back to the first required slot
	reply = newSynth(&fakeGenerator{err: errTransport}).Clarify(context.Background(), st, model.Missing{})
	assert.Equal(t, FallbackQuestion(model.SlotBody), reply.Response)
}

func TestFallbackQuestions(t *testing.T) {
	for _, s := range []model.Slot{model.SlotBody, model.SlotSeatsMin, model.SlotFuel} {
		assert.NotEmpty(t, FallbackQuestion(s))
	}
	assert.Equal(t, FallbackQuestion(model.SlotBody), FallbackQuestion("unknown"))
}

func TestRecommend(t *testing.T) {
	st := &model.ConversationState{
		RawMessage:  "an SUV with 7 seats",
		Preferences: model.Preferences{Body: model.Ptr("suv"), SeatsMin: model.Ptr(7)},
	}

	g := &fakeGenerator{reply: `Here you go: {"response": "The Volvo XC90 seats seven.", "rationale": "7 seats", "next_step": "book a test drive"}`}
	reply := newSynth(g).Recommend(context.Background(), st)
	assert.Equal(t, "The Volvo XC90 seats seven.", reply.Response)
	assert.Equal(t, "7 seats", reply.Rationale)
	assert.Equal(t, "book a test drive", reply.NextStep)

	require.NotEmpty(t, g.lastMsgs)
	assert.Contains(t, g.lastMsgs[0].Content, "Inventory matches:")
	assert.Contains(t, g.lastMsgs[0].Content, "XC90")
}

func TestRecommendDefaultsAndFallback(t *testing.T) {
	st := &model.ConversationState{Preferences: model.Preferences{Body: model.Ptr("sedan")}}

	reply := newSynth(&fakeGenerator{reply: `{"response": "Try the Camry."}`}).Recommend(context.Background(), st)
	assert.Equal(t, "Try the Camry.", reply.Response)
	assert.Equal(t, defaultRationale, reply.Rationale)
	assert.Equal(t, defaultNextStep, reply.NextStep)

	for _, g := range []*fakeGenerator{{err: errTransport}, {reply: "no json here"}, {panics: true}} {
		reply = newSynth(g).Recommend(context.Background(), st)
		assert.Equal(t, FallbackReply(), reply)
		assert.Contains(t, reply.Response, "I'm here to help you find the perfect car")
	}
}

func TestShortlistRelaxesFiltersButKeepsBans(t *testing.T) {
	ctx := context.Background()
	synth := newSynth(&fakeGenerator{})

	// no electric coupe in stock: the retry drops fuel and finds the Mustang
	relaxed := synth.shortlist(ctx, model.Preferences{Body: model.Ptr("coupe"), Fuel: model.Ptr("electric")})
	require.NotEmpty(t, relaxed)
	assert.Equal(t, "Mustang", relaxed[0].Model)

	for _, body := range []string{"coupe", "convertible"} {
		prefs := model.Preferences{Body: model.Ptr(body), TransmissionBan: []string{"manual"}}
		for _, v := range synth.shortlist(ctx, prefs) {
			assert.NotEqual(t, "manual", v.Transmission, "%s %s", v.Brand, v.Model)
		}
	}
}

func TestRecommendNeverListsBannedTransmission(t *testing.T) {
	st := &model.ConversationState{
		RawMessage:  "a coupe, but no manual",
		Preferences: model.Preferences{Body: model.Ptr("coupe"), TransmissionBan: []string{"manual"}},
	}
	g := &fakeGenerator{reply: `{"response": "Let me check what else we have."}`}
	newSynth(g).Recommend(context.Background(), st)

	require.NotEmpty(t, g.lastMsgs)
	for _, m := range g.lastMsgs {
		assert.NotContains(t, m.Content, "Mustang")
	}
}

func TestSuggestTestDrive(t *testing.T) {
	st := &model.ConversationState{Preferences: model.Preferences{Brand: model.Ptr("volvo"), Model: model.Ptr("xc90")}}
	dates := TestDriveDates(fixedNow())

	reply, ok := newSynth(&fakeGenerator{err: errTransport}).SuggestTestDrive(context.Background(), st)
	require.True(t, ok)
	assert.Contains(t, reply.Response, "volvo xc90")
	for _, d := range dates {
		assert.Contains(t, reply.Response, d)
	}

	// an invitation that drops a date is replaced by the template
	reply, _ = newSynth(&fakeGenerator{reply: "Come by on " + dates[0] + "!"}).SuggestTestDrive(context.Background(), st)
	for _, d := range dates {
		assert.Contains(t, reply.Response, d)
	}

	full := "Join us on " + dates[0] + ", " + dates[1] + " or " + dates[2] + "."
	reply, _ = newSynth(&fakeGenerator{reply: full}).SuggestTestDrive(context.Background(), st)
	assert.Equal(t, full, reply.Response)

	_, ok = newSynth(&fakeGenerator{}).SuggestTestDrive(context.Background(), &model.ConversationState{})
	assert.False(t, ok)
}

func TestSuggestFinancing(t *testing.T) {
	ctx := context.Background()
	synth := newSynth(&fakeGenerator{err: errTransport})

	reply, ok := synth.SuggestFinancing(ctx, &model.ConversationState{TestDriveCompleted: model.Ptr(true)})
	assert.False(t, ok)
	assert.Equal(t, missingModelMessage, reply.Response)

	noDrive := &model.ConversationState{Preferences: model.Preferences{Model: model.Ptr("xc90")}}
	reply, ok = synth.SuggestFinancing(ctx, noDrive)
	assert.False(t, ok)
	assert.Contains(t, reply.Response, "test drive")
	assert.NotContains(t, reply.Response, "%")

	ready := &model.ConversationState{
		Preferences:        model.Preferences{Brand: model.Ptr("volvo"), Model: model.Ptr("xc90")},
		TestDriveCompleted: model.Ptr(true),
	}
	reply, ok = synth.SuggestFinancing(ctx, ready)
	require.True(t, ok)
	assert.Contains(t, reply.Response, "10%, 20% or 30%")
	assert.Contains(t, reply.Response, "36, 48 or 60 months")
	assert.Contains(t, reply.Response, "6.9%")

	reply, ok = newSynth(&fakeGenerator{reply: "Financing from 6.9% is available."}).SuggestFinancing(ctx, ready)
	require.True(t, ok)
	assert.Equal(t, "Financing from 6.9% is available.", reply.Response)
}

func TestMilestoneFact(t *testing.T) {
	st := &model.ConversationState{
		Stage: model.StageTestDrive,
		Preferences: model.Preferences{
			Body: model.Ptr("suv"), Brand: model.Ptr("volvo"), Model: model.Ptr("xc90"),
			TransmissionBan: []string{"manual"},
		},
	}
	assert.Equal(t,
		"Customer reached the test drive stage: chose the volvo xc90, wants a suv, refuses manual transmissions",
		MilestoneFact(st),
	)
}

func TestFormatFacts(t *testing.T) {
	assert.Equal(t, "- a\n- b", formatFacts([]string{"a", " ", "b"}))
	assert.Equal(t, "", formatFacts(nil))
}
