package engine

import (
	"github.com/ChamsBouzaiene/reactchain/internal/prompts"
)

// AgentConfig holds configuration for an agent instance.
type AgentConfig struct {
	Model         string
	MaxSteps      int // completions per question before giving up
	Temperature   float32
	ResponseLimit int // max tokens per completion
	Language      string
	Streaming     bool // echo deltas to hooks as they arrive
	RetryConfig   RetryConfig
	Markers       Markers
	PromptID      string
	MergePromptID string
}

// DefaultMaxSteps bounds one question's cycle.
const DefaultMaxSteps = 15

// DefaultAgentConfig returns a default agent configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Model:         "gpt-3.5-turbo",
		MaxSteps:      DefaultMaxSteps,
		Temperature:   0.25,
		ResponseLimit: 512,
		Language:      "English",
		Streaming:     true,
		RetryConfig:   DefaultRetryConfig(),
		Markers:       DefaultMarkers(),
		PromptID:      prompts.ReactID,
		MergePromptID: prompts.MergeID,
	}
}
