package model

// Slot names a single preference attribute extracted from customer text.
type Slot string

const (
	SlotBody            Slot = "body"
	SlotSeatsMin        Slot = "seats_min"
	SlotFuel            Slot = "fuel"
	SlotBrand           Slot = "brand"
	SlotModel           Slot = "model"
	SlotTransmissionBan Slot = "transmission_ban"
)

// Preferences is the accumulated purchase profile of one thread.
type Preferences struct {
	SeatsMin        *int     `json:"seats_min,omitempty"`
	Fuel            *string  `json:"fuel,omitempty"`
	Body            *string  `json:"body,omitempty"`
	Brand           *string  `json:"brand,omitempty"`
	Model           *string  `json:"model,omitempty"`
	TransmissionBan []string `json:"transmission_ban"`
}

// PartialPreferences is one extraction result. A nil field means the
// utterance said nothing about that slot.
type PartialPreferences struct {
	SeatsMin           *int
	Fuel               *string
	Body               *string
	Brand              *string
	Model              *string
	TransmissionBan    []string
	TestDriveCompleted *bool
}

// IsEmpty reports whether the extraction carried no slot at all.
func (p PartialPreferences) IsEmpty() bool {
	return p.SeatsMin == nil && p.Fuel == nil && p.Body == nil && p.Brand == nil &&
		p.Model == nil && len(p.TransmissionBan) == 0 && p.TestDriveCompleted == nil
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (p Preferences) Clone() Preferences {
	out := Preferences{
		SeatsMin: clonePtr(p.SeatsMin),
		Fuel:     clonePtr(p.Fuel),
		Body:     clonePtr(p.Body),
		Brand:    clonePtr(p.Brand),
		Model:    clonePtr(p.Model),
	}
	out.TransmissionBan = append([]string{}, p.TransmissionBan...)
	return out
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns *p or the zero value.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
