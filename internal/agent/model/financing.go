package model

import (
	"fmt"
	"strings"
)

// FinancingTerms are the fixed parameters offered once a test drive is done.
type FinancingTerms struct {
	DownPaymentPercents []int
	TenureMonths        []int
	RateFromPercent     float64
}

// DefaultFinancingTerms is what the showroom currently offers.
var DefaultFinancingTerms = FinancingTerms{
	DownPaymentPercents: []int{10, 20, 30},
	TenureMonths:        []int{36, 48, 60},
	RateFromPercent:     6.9,
}

func (f FinancingTerms) DownPaymentText() string {
	parts := make([]string, 0, len(f.DownPaymentPercents))
	for _, p := range f.DownPaymentPercents {
		parts = append(parts, fmt.Sprintf("%d%%", p))
	}
	return joinChoices(parts)
}

func (f FinancingTerms) TenureText() string {
	parts := make([]string, 0, len(f.TenureMonths))
	for _, m := range f.TenureMonths {
		parts = append(parts, fmt.Sprintf("%d", m))
	}
	return joinChoices(parts) + " months"
}

func (f FinancingTerms) RateText() string {
	return fmt.Sprintf("%.1f%%", f.RateFromPercent)
}

// joinChoices renders "a, b or c".
func joinChoices(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}
