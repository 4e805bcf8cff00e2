package nodes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
)

var promptCfg = model.PromptConfig{ShowroomName: "AutoEmporium"}

func TestExtract(t *testing.T) {
	g := &fakeGenerator{reply: "Sure thing!\n```json\n{\"brand\": \"Volvo\", \"model\": \"XC90\", \"body\": null}\n```"}
	ex := NewExtractor(oracleWith(g), promptCfg)

	recalled := "- customer has three kids"
	partial, ok := ex.Extract(context.Background(), "t1", "I'll take the XC90 from Volvo",
		model.Preferences{Body: model.Ptr("suv")}, &recalled)
	require.True(t, ok)
	assert.Equal(t, "Volvo", model.Deref(partial.Brand))
	assert.Equal(t, "XC90", model.Deref(partial.Model))
	assert.Nil(t, partial.Body)

	require.Len(t, g.lastMsgs, 2)
	assert.Contains(t, g.lastMsgs[0].Content, "- body: suv")
	assert.Contains(t, g.lastMsgs[0].Content, "three kids")
	assert.Equal(t, "I'll take the XC90 from Volvo", g.lastMsgs[1].Content)
}

func TestExtractDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "oracle error", gen: &fakeGenerator{err: errTransport}},
		{name: "prose only", gen: &fakeGenerator{reply: "I think they want an SUV."}},
		{name: "truncated object", gen: &fakeGenerator{reply: `{"body": "suv", "seats_min": `}},
		{name: "panic", gen: &fakeGenerator{panics: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			partial, ok := NewExtractor(oracleWith(tt.gen), promptCfg).
				Extract(context.Background(), "t1", "an SUV please", model.Preferences{}, nil)
			assert.False(t, ok)
			assert.True(t, partial.IsEmpty())
		})
	}
}
