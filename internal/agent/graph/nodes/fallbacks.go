package nodes

import (
	"fmt"
	"strings"

	"github.com/autoemporium/showroom-assistant/internal/agent/graph/parsers"
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

// FallbackResponse is the last-resort customer reply.
const FallbackResponse = "I'm here to help you find the perfect car. Could you tell me a bit more about what you're looking for?"

const (
	fallbackRationale = "Generated reply unavailable; using the standard response."
	fallbackNextStep  = "Keep gathering the customer's preferences."

	defaultRationale = "The customer's preferences are sufficient for a recommendation."
	defaultNextStep  = "Shortlist matching vehicles."

	missingModelMessage = "Before we look at financing, let's settle on the car you'd like. Which model caught your eye?"
)

var fallbackQuestions = map[model.Slot]string{
	model.SlotBody:     "What type of vehicle are you looking for? For example an SUV, a sedan or a hatchback.",
	model.SlotSeatsMin: "How many seats do you need at minimum?",
	model.SlotFuel:     "Do you have a fuel preference, such as petrol, diesel, hybrid or electric?",
}

// FallbackQuestion is the canned clarification question for slot.
func FallbackQuestion(slot model.Slot) string {
	if q, ok := fallbackQuestions[slot]; ok {
		return q
	}
	return fallbackQuestions[model.SlotBody]
}

// FallbackReply is the deterministic triple used when the recommendation
// oracle cannot be used.
func FallbackReply() parsers.Reply {
	return parsers.Reply{
		Response:  FallbackResponse,
		Rationale: fallbackRationale,
		NextStep:  fallbackNextStep,
	}
}

func testDriveInvitation(vehicle string, dates []string) string {
	return fmt.Sprintf(
		"Great choice! Would you like to test drive the %s? We have slots available on %s. Which day suits you best?",
		vehicle, joinDates(dates),
	)
}

func financingPresentation(vehicle string, terms model.FinancingTerms) string {
	return fmt.Sprintf(
		"Glad you enjoyed the %s! Our financing options: a down payment of %s, a tenure of %s, with interest rates from %s per year. Which combination works best for you?",
		vehicle, terms.DownPaymentText(), terms.TenureText(), terms.RateText(),
	)
}

func missingTestDriveMessage(vehicle string) string {
	return fmt.Sprintf(
		"Financing comes right after your test drive. Shall we book a test drive of the %s first?",
		vehicle,
	)
}

func joinDates(dates []string) string {
	switch len(dates) {
	case 0:
		return "the coming days"
	case 1:
		return dates[0]
	}
	return strings.Join(dates[:len(dates)-1], ", ") + " or " + dates[len(dates)-1]
}
