package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/ChamsBouzaiene/reactchain/internal/prompts"
)

// AgentBuilder helps construct an Agent with a fluent API.
type AgentBuilder struct {
	config   AgentConfig
	llm      LLMClient
	session  *Session
	hooks    Hooks
	registry *prompts.PromptRegistry
	renderer MediaRenderer
}

// NewAgentBuilder creates a new agent builder with default configuration.
func NewAgentBuilder() *AgentBuilder {
	return &AgentBuilder{
		config: DefaultAgentConfig(),
	}
}

// WithLLM sets the LLM client.
func (b *AgentBuilder) WithLLM(llm LLMClient) *AgentBuilder {
	b.llm = llm
	return b
}

// WithSession sets the session holding tools and history.
func (b *AgentBuilder) WithSession(s *Session) *AgentBuilder {
	b.session = s
	return b
}

// WithModel sets the model name.
func (b *AgentBuilder) WithModel(model string) *AgentBuilder {
	b.config.Model = model
	return b
}

// WithMaxSteps sets the maximum number of completions per question.
func (b *AgentBuilder) WithMaxSteps(maxSteps int) *AgentBuilder {
	b.config.MaxSteps = maxSteps
	return b
}

func (b *AgentBuilder) WithTemperature(t float32) *AgentBuilder {
	b.config.Temperature = t
	return b
}

// WithResponseLimit sets the max tokens requested per completion.
func (b *AgentBuilder) WithResponseLimit(tokens int) *AgentBuilder {
	b.config.ResponseLimit = tokens
	return b
}

func (b *AgentBuilder) WithLanguage(lang string) *AgentBuilder {
	b.config.Language = lang
	return b
}

// WithStreaming enables or disables delta hooks.
func (b *AgentBuilder) WithStreaming(streaming bool) *AgentBuilder {
	b.config.Streaming = streaming
	return b
}

// WithHooks sets custom hooks.
func (b *AgentBuilder) WithHooks(hooks Hooks) *AgentBuilder {
	b.hooks = hooks
	return b
}

// WithMarkers replaces the transcript vocabulary.
func (b *AgentBuilder) WithMarkers(m Markers) *AgentBuilder {
	b.config.Markers = m
	return b
}

// WithPromptRegistry sets where templates are looked up. Defaults to
// prompts.DefaultRegistry().
func (b *AgentBuilder) WithPromptRegistry(r *prompts.PromptRegistry) *AgentBuilder {
	b.registry = r
	return b
}

// WithPrompt selects the ReAct template id.
func (b *AgentBuilder) WithPrompt(id string) *AgentBuilder {
	b.config.PromptID = id
	return b
}

// WithMediaRenderer enables the media side channel.
func (b *AgentBuilder) WithMediaRenderer(r MediaRenderer) *AgentBuilder {
	b.renderer = r
	return b
}

// WithRetryConfig sets the retry configuration.
func (b *AgentBuilder) WithRetryConfig(retryConfig RetryConfig) *AgentBuilder {
	b.config.RetryConfig = retryConfig
	return b
}

// Build constructs the Agent instance. ctx bounds the media renderer goroutine.
func (b *AgentBuilder) Build(ctx context.Context) (*Agent, error) {
	if b.llm == nil {
		return nil, fmt.Errorf("LLM client not configured: use WithLLM")
	}
	if b.session == nil {
		return nil, fmt.Errorf("session not configured: use WithSession")
	}

	if b.registry == nil {
		b.registry = prompts.DefaultRegistry()
	}
	if _, err := b.registry.GetLatest(b.config.PromptID); err != nil {
		return nil, err
	}
	if b.config.MaxSteps <= 0 {
		b.config.MaxSteps = DefaultMaxSteps
	}
	if b.config.Markers.Action == "" {
		b.config.Markers = DefaultMarkers()
	}

	if b.hooks == nil {
		b.hooks = DefaultHooks()
	}

	a := &Agent{
		llm:      b.llm,
		session:  b.session,
		parser:   NewParser(b.config.Markers),
		config:   b.config,
		hooks:    b.hooks,
		registry: b.registry,
	}
	if b.renderer != nil {
		a.media = NewMediaSink(ctx, b.renderer, DefaultMediaBuffer)
	}

	logInitialConfiguration(a)
	return a, nil
}

// logInitialConfiguration logs the prompt id, its token cost and the enabled tools.
func logInitialConfiguration(a *Agent) {
	p, err := a.registry.GetLatest(a.config.PromptID)
	if err != nil {
		return
	}
	tokens, _ := a.session.Budget().tokenizer().CountTokens(p.Content, a.config.Model)
	log.Printf("📋 PROMPT: %s@%s (~%d tokens)", p.ID, p.Version, tokens)

	enabled := a.session.Tools().List()
	if len(enabled) == 0 {
		log.Printf("🔧 TOOLS: none")
		return
	}
	log.Printf("🔧 TOOLS: %d enabled %v", len(enabled), enabled)
}
