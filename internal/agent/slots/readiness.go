package slots

import "github.com/autoemporium/showroom-assistant/internal/agent/model"

// RequiredSlots must be known before any substantive recommendation.
// Order is the question priority.
var RequiredSlots = []model.Slot{model.SlotBody}

// OptionalSlots are informative but never block a recommendation.
var OptionalSlots = []model.Slot{model.SlotSeatsMin, model.SlotFuel}

// Evaluate classifies which slots are still unknown.
func Evaluate(p model.Preferences) model.Readiness {
	r := model.Readiness{
		Missing: model.Missing{
			Required: []model.Slot{},
			Optional: []model.Slot{},
		},
	}
	for _, s := range RequiredSlots {
		if !isKnown(p, s) {
			r.Missing.Required = append(r.Missing.Required, s)
		}
	}
	for _, s := range OptionalSlots {
		if !isKnown(p, s) {
			r.Missing.Optional = append(r.Missing.Optional, s)
		}
	}
	r.NeedClarification = len(r.Missing.Required) > 0
	return r
}

// NextQuestion picks the single most important slot to ask about: required
// before optional. With nothing missing it falls back to the first required slot.
func NextQuestion(m model.Missing) model.Slot {
	if len(m.Required) > 0 {
		return m.Required[0]
	}
	if len(m.Optional) > 0 {
		return m.Optional[0]
	}
	return RequiredSlots[0]
}

func isKnown(p model.Preferences, s model.Slot) bool {
	switch s {
	case model.SlotBody:
		return p.Body != nil
	case model.SlotSeatsMin:
		return p.SeatsMin != nil
	case model.SlotFuel:
		return p.Fuel != nil
	case model.SlotBrand:
		return p.Brand != nil
	case model.SlotModel:
		return p.Model != nil
	default:
		return false
	}
}
