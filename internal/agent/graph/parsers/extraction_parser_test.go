package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

func TestParseExtraction(t *testing.T) {
	content := "Here is what I found:\n" +
		`{"seats_min": "7", "fuel": "Diesel", "body": "SUV", "brand": null, "model": 3,` +
		` "transmission_ban": ["manual", "CVT"], "test_drive_completed": "no"}` +
		"\nLet me know if you need more."

	res, err := ParseExtraction(content)
	require.NoError(t, err)
	assert.Empty(t, res.Issues)

	p := res.Preferences
	assert.Equal(t, 7, model.Deref(p.SeatsMin))
	assert.Equal(t, "Diesel", model.Deref(p.Fuel))
	assert.Equal(t, "SUV", model.Deref(p.Body))
	assert.Nil(t, p.Brand)
	assert.Equal(t, "3", model.Deref(p.Model))
	assert.Equal(t, []string{"manual", "CVT"}, p.TransmissionBan)
	require.NotNil(t, p.TestDriveCompleted)
	assert.False(t, *p.TestDriveCompleted)
}

func TestParseExtractionDropsUncoercibleValues(t *testing.T) {
	res, err := ParseExtraction(`{"seats_min": "seven", "body": {"kind":"suv"}, "fuel": "petrol", "test_drive_completed": "maybe", "transmission_ban": [1, 2]}`)
	require.NoError(t, err)

	p := res.Preferences
	assert.Nil(t, p.SeatsMin)
	assert.Nil(t, p.Body)
	assert.Nil(t, p.TestDriveCompleted)
	assert.Nil(t, p.TransmissionBan)
	assert.Equal(t, "petrol", model.Deref(p.Fuel))
	assert.Len(t, res.Issues, 4)
}

func TestParseExtractionSeatsCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{raw: `{"seats_min": 5}`, want: model.Ptr(5)},
		{raw: `{"seats_min": 5.0}`, want: model.Ptr(5)},
		{raw: `{"seats_min": " 6 "}`, want: model.Ptr(6)},
		{raw: `{"seats_min": 5.5}`, want: nil},
		{raw: `{"seats_min": true}`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res, err := ParseExtraction(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Preferences.SeatsMin)
		})
	}
}

func TestParseExtractionFailures(t *testing.T) {
	for _, content := range []string{
		"",
		"no structured data here",
		`{"body": "suv"`,
		`{"body": suv}`,
	} {
		res, err := ParseExtraction(content)
		assert.Error(t, err, content)
		assert.Nil(t, res)
	}
}

func TestParseExtractionCommaSeparatedBans(t *testing.T) {
	res, err := ParseExtraction(`{"transmission_ban": "manual, cvt"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"manual", "cvt"}, res.Preferences.TransmissionBan)
	assert.True(t, res.Preferences.TestDriveCompleted == nil)
}
