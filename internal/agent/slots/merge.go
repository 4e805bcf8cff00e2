// Package slots holds the side-effect-free preference logic: merging an
// extraction into known preferences and deciding whether enough is known.
package slots

import (
	"strings"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

// Merge applies one extraction on top of existing preferences.
//
// Non-nil extracted scalars replace the existing value after normalisation;
// nil means "not mentioned" and keeps the existing value. A non-empty
// transmission list is normalised and returned as this turn's list; callers
// accumulate it with UnionBans so earlier bans are never lost.
func Merge(existing model.Preferences, extracted model.PartialPreferences) model.Preferences {
	out := existing.Clone()

	if v, ok := normalizeSeats(extracted.SeatsMin); ok {
		out.SeatsMin = &v
	}
	if v, ok := normalizeString(extracted.Fuel); ok {
		out.Fuel = &v
	}
	if v, ok := normalizeString(extracted.Body); ok {
		out.Body = &v
	}
	if v, ok := normalizeString(extracted.Brand); ok {
		out.Brand = &v
	}
	if v, ok := normalizeString(extracted.Model); ok {
		out.Model = &v
	}

	if bans := NormalizeBans(extracted.TransmissionBan); len(bans) > 0 {
		out.TransmissionBan = bans
	}
	return out
}

// MergeCompletion applies OR semantics: once true it stays true.
func MergeCompletion(previous, observed *bool) *bool {
	if model.Deref(previous) || model.Deref(observed) {
		return model.Ptr(true)
	}
	if observed != nil {
		return model.Ptr(false)
	}
	if previous != nil {
		return model.Ptr(*previous)
	}
	return nil
}

// UnionBans appends the entries of delta that acc does not already hold
// (case-insensitive). The result never shrinks relative to acc.
func UnionBans(acc, delta []string) []string {
	out := make([]string, 0, len(acc)+len(delta))
	for _, v := range acc {
		if !containsFold(out, v) {
			out = append(out, v)
		}
	}
	for _, v := range delta {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || containsFold(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// NormalizeBans lower-cases, trims and de-duplicates a transmission list.
func NormalizeBans(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return UnionBans(nil, in)
}

func normalizeString(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	v := strings.ToLower(strings.TrimSpace(*p))
	if v == "" || v == "null" || v == "none" {
		return "", false
	}
	return v, true
}

func normalizeSeats(p *int) (int, bool) {
	if p == nil || *p < 1 {
		return 0, false
	}
	return *p, true
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
