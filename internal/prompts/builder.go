package prompts

import (
	"fmt"
	"strings"
)

// PromptBuilder realizes a registered template: fragments are appended, then
// ${name} placeholders are substituted in the order they were set.
type PromptBuilder struct {
	basePrompt *Prompt
	fragments  []string
	variables  []string // name, value pairs
}

// NewPromptBuilder creates a builder from the latest version of a registered prompt.
func NewPromptBuilder(registry *PromptRegistry, id string) (*PromptBuilder, error) {
	basePrompt, err := registry.GetLatest(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get base prompt: %w", err)
	}

	return &PromptBuilder{
		basePrompt: basePrompt,
		fragments:  []string{basePrompt.Content},
	}, nil
}

// AddFragment appends a fragment to the prompt.
func (b *PromptBuilder) AddFragment(text string) *PromptBuilder {
	b.fragments = append(b.fragments, text)
	return b
}

// SetVariable queues a placeholder substitution.
func (b *PromptBuilder) SetVariable(key, value string) *PromptBuilder {
	b.variables = append(b.variables, key, value)
	return b
}

// Build constructs the final prompt string.
func (b *PromptBuilder) Build() string {
	return Render(strings.Join(b.fragments, "\n\n"), b.variables...)
}
