package model

import "time"

// ================ Config ================
type ExtractionModelConfig struct {
	Model       string  `envconfig:"EXTRACTION_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"EXTRACTION_MAX_TOKENS" default:"800"`
	Temperature float32 `envconfig:"EXTRACTION_TEMPERATURE" default:"0.0"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.3"`
}

type PromptConfig struct {
	ShowroomName string `envconfig:"PROMPT_SHOWROOM_NAME" default:"AutoEmporium"`
}

type OracleConfig struct {
	Timeout time.Duration `envconfig:"ORACLE_TIMEOUT" default:"30s"`
}

type CheckpointConfig struct {
	Backend string        `envconfig:"CHECKPOINT_BACKEND" default:"redis"`
	TTL     time.Duration `envconfig:"CHECKPOINT_TTL" default:"0"`
}

type MemoryConfig struct {
	Backend        string `envconfig:"MEMORY_BACKEND" default:"redis"`
	RecallLimit    int    `envconfig:"MEMORY_RECALL_LIMIT" default:"5"`
	MaxFacts       int    `envconfig:"MEMORY_MAX_FACTS" default:"200"`
	EmbeddingModel string `envconfig:"MEMORY_EMBEDDING_MODEL" default:"text-embedding-004"`
	Topic          string `envconfig:"MEMORY_TOPIC" default:"memory.writes"`
}
