// Package prompts holds the prompt templates used by the agent and the
// placeholder substitution applied to them.
package prompts

import "strings"

// PromptVersion represents a version identifier for prompts.
type PromptVersion string

const (
	// PromptV1 is the built-in version of every template.
	PromptV1 PromptVersion = "1.0.0"
)

// Prompt IDs of the built-in templates.
const (
	ReactID  = "react"  // question answering loop
	MergeID  = "merge"  // rewrites a question using the transcript
	PluginID = "plugin" // teaches the model a freshly installed API
)

// Prompt represents a versioned prompt with metadata.
type Prompt struct {
	ID          string
	Version     PromptVersion
	Content     string
	Description string
	Tags        []string
	Deprecated  bool
}

// Render substitutes ${name} placeholders. Pairs are name, value, name,
// value... and are applied in order; only the first occurrence of each
// placeholder is replaced.
func Render(template string, pairs ...string) string {
	for i := 0; i+1 < len(pairs); i += 2 {
		template = strings.Replace(template, "${"+pairs[i]+"}", pairs[i+1], 1)
	}
	return template
}
