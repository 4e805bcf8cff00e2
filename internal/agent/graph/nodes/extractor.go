package nodes

import (
	"context"

	"github.com/autoemporium/showroom-assistant/internal/agent/graph/parsers"
	"github.com/autoemporium/showroom-assistant/internal/agent/graph/prompts"
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

// Extractor turns an utterance into a partial preference update.
type Extractor struct {
	oracle *Oracle
	prompt model.PromptConfig
}

func NewExtractor(oracle *Oracle, prompt model.PromptConfig) *Extractor {
	return &Extractor{oracle: oracle, prompt: prompt}
}

// Extract never fails the turn. When the oracle is down or its reply cannot
// be parsed it returns an empty partial and ok=false.
func (e *Extractor) Extract(
	ctx context.Context,
	threadID string,
	utterance string,
	known model.Preferences,
	recalled *string,
) (partial model.PartialPreferences, ok bool) {
	msgs, err := prompts.RenderExtraction(ctx, e.prompt, prompts.ExtractionInput{
		Utterance:       utterance,
		Known:           known,
		RecalledContext: model.Deref(recalled),
	})
	if err != nil {
		logx.Warn().Err(err).Str("thread_id", threadID).Str("node", NodeExtractSlots).
			Msg("extraction prompt failed; keeping known preferences")
		return model.PartialPreferences{}, false
	}

	content, err := e.oracle.Ask(ctx, NodeExtractSlots, msgs)
	if err != nil {
		logx.Warn().Err(err).Str("thread_id", threadID).Str("node", NodeExtractSlots).
			Msg("extraction oracle failed; keeping known preferences")
		return model.PartialPreferences{}, false
	}

	res, err := parsers.ParseExtraction(content)
	if err != nil {
		logx.Warn().Err(err).Str("thread_id", threadID).Str("node", NodeExtractSlots).
			Msg("unparsable extraction reply; keeping known preferences")
		return model.PartialPreferences{}, false
	}
	if len(res.Issues) > 0 {
		logx.Debug().Strs("issues", res.Issues).Str("thread_id", threadID).
			Msg("dropped uncoercible extraction values")
	}

	return res.Preferences, true
}
