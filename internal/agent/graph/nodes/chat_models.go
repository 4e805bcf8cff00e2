package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey           string
	BaseURL          string
	ExtractionConfig *model.ExtractionModelConfig
	ResponseConfig   *model.ResponseModelConfig
}

// ChatModels holds the extraction and response chat models plus the shared
// genai client (reused for memory embeddings).
type ChatModels struct {
	Client              *genai.Client
	Extraction          *gemini.ChatModel
	Response            *gemini.ChatModel
	ExtractionModelName string
	ResponseModelName   string
}

// NewGenAIClient creates the Gemini API client shared by every Gemini component.
func NewGenAIClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

// NewChatModels creates both chat models with the given configuration
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.ExtractionConfig == nil || config.ResponseConfig == nil {
		return nil, fmt.Errorf("chat model config is incomplete")
	}

	client, err := NewGenAIClient(ctx, config.APIKey, config.BaseURL)
	if err != nil {
		return nil, err
	}

	// Extraction runs without thinking: it only has to fill a small JSON object.
	extraction, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ExtractionConfig.Model,
		Temperature: &config.ExtractionConfig.Temperature,
		MaxTokens:   &config.ExtractionConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating extraction model")
		return nil, fmt.Errorf("error creating extraction model: %w", err)
	}

	response, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.ResponseConfig.Model,
		Temperature: &config.ResponseConfig.Temperature,
		MaxTokens:   &config.ResponseConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(1024)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}

	return &ChatModels{
		Client:              client,
		Extraction:          extraction,
		Response:            response,
		ExtractionModelName: config.ExtractionConfig.Model,
		ResponseModelName:   config.ResponseConfig.Model,
	}, nil
}
