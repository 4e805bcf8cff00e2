package model

// Stage is the customer's position in the showroom sales funnel.
type Stage string

const (
	StageUnset         Stage = ""
	StageNeedsAnalysis Stage = "needs_analysis"
	StageShortlist     Stage = "shortlist"
	StageTestDrive     Stage = "test_drive"
	StageFinancing     Stage = "financing"
)

// Rank orders stages so monotonicity can be checked: unset < needs_analysis
// < shortlist < test_drive < financing.
func (s Stage) Rank() int {
	switch s {
	case StageNeedsAnalysis:
		return 1
	case StageShortlist:
		return 2
	case StageTestDrive:
		return 3
	case StageFinancing:
		return 4
	default:
		return 0
	}
}

// IsSet reports whether the funnel has been entered.
func (s Stage) IsSet() bool {
	return s != StageUnset
}
