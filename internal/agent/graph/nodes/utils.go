package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

// turnIDs reads the thread and user ids from the graph state. Outside a
// graph run both are empty.
func turnIDs(ctx context.Context) (threadID, userID string) {
	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
		threadID, userID = s.ThreadID, s.UserID
		return nil
	})
	return threadID, userID
}

// formatFacts renders recalled facts as a bullet list, most recent first.
func formatFacts(facts []string) string {
	var b strings.Builder
	for _, f := range facts {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(f)
	}
	return b.String()
}

// MilestoneFact describes a stage change in words the memory search can match.
func MilestoneFact(st *model.ConversationState) string {
	fact := fmt.Sprintf("Customer reached the %s stage", strings.ReplaceAll(string(st.Stage), "_", " "))
	var details []string
	if st.Preferences.Model != nil {
		details = append(details, "chose the "+VehicleName(st.Preferences))
	}
	if st.Preferences.Body != nil {
		details = append(details, "wants a "+*st.Preferences.Body)
	}
	if st.Preferences.SeatsMin != nil {
		details = append(details, fmt.Sprintf("needs at least %d seats", *st.Preferences.SeatsMin))
	}
	if st.Preferences.Fuel != nil {
		details = append(details, "prefers "+*st.Preferences.Fuel)
	}
	if len(st.Preferences.TransmissionBan) > 0 {
		details = append(details, "refuses "+strings.Join(st.Preferences.TransmissionBan, "/")+" transmissions")
	}
	if len(details) == 0 {
		return fact
	}
	return fact + ": " + strings.Join(details, ", ")
}
