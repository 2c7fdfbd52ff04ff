package engine

import (
	"context"
	"testing"

	"github.com/ChamsBouzaiene/reactchain/internal/prompts"
)

func TestAgentBuilder_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing LLM", func(t *testing.T) {
		builder := NewAgentBuilder()
		builder.WithSession(newTestSession())

		_, err := builder.Build(ctx)
		if err == nil {
			t.Fatal("Build() expected error for missing LLM, got nil")
		}
		if err.Error() != "LLM client not configured: use WithLLM" {
			t.Errorf("Build() error = %v, want 'LLM client not configured: use WithLLM'", err)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		builder := NewAgentBuilder()
		builder.WithLLM(&scriptedLLM{})

		_, err := builder.Build(ctx)
		if err == nil {
			t.Fatal("Build() expected error for missing session, got nil")
		}
		if err.Error() != "session not configured: use WithSession" {
			t.Errorf("Build() error = %v, want 'session not configured: use WithSession'", err)
		}
	})

	t.Run("unknown prompt", func(t *testing.T) {
		builder := NewAgentBuilder().
			WithLLM(&scriptedLLM{}).
			WithSession(newTestSession()).
			WithPromptRegistry(prompts.NewPromptRegistry()).
			WithHooks(Hooks{NopHook{}})

		if _, err := builder.Build(ctx); err == nil {
			t.Error("Build() expected error for an empty prompt registry, got nil")
		}
	})
}

func TestAgentBuilder_Success(t *testing.T) {
	ctx := context.Background()
	agent, err := NewAgentBuilder().
		WithLLM(&scriptedLLM{}).
		WithSession(newTestSession()).
		WithModel("test-model").
		WithMaxSteps(0).
		WithTemperature(0.5).
		WithLanguage("French").
		WithHooks(Hooks{NopHook{}}).
		Build(ctx)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	cfg := agent.Config()
	if cfg.Model != "test-model" {
		t.Errorf("Model = %q, want test-model", cfg.Model)
	}
	if cfg.MaxSteps != DefaultMaxSteps {
		t.Errorf("MaxSteps = %d, want default %d", cfg.MaxSteps, DefaultMaxSteps)
	}
	if cfg.Temperature != 0.5 {
		t.Errorf("Temperature = %v, want 0.5", cfg.Temperature)
	}
	if cfg.Markers.Action != "Action:" {
		t.Errorf("Markers not defaulted: %+v", cfg.Markers)
	}
	if agent.Session() == nil {
		t.Error("Session() = nil")
	}
}

func TestDefaultAgentConfig(t *testing.T) {
	cfg := DefaultAgentConfig()
	if cfg.MaxSteps != 15 || cfg.ResponseLimit != 512 || cfg.Temperature != 0.25 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.PromptID != prompts.ReactID || cfg.MergePromptID != prompts.MergeID {
		t.Errorf("unexpected prompt ids: %q %q", cfg.PromptID, cfg.MergePromptID)
	}
}
