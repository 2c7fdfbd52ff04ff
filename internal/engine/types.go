package engine

import (
	"context"

	"github.com/ChamsBouzaiene/reactchain/internal/stream"
)

// LLMClient abstracts the completion provider (OpenAI, Anthropic, etc.)
// Complete sends prompt and streams the decoded completion. A failure to
// connect, or a non-success status, is reported on the error channel.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (<-chan stream.Event, <-chan error)
}

// CompletionOptions keeps knobs forwarded to the provider.
type CompletionOptions struct {
	Model       string
	MaxTokens   int      // response limit
	Temperature float32
	Stop        []string // stop sequences; nil means DefaultStopSequences
	User        string   // end-user id sent with the request
}

// DefaultStopSequences end a completion before the model invents its own
// observation or the next question.
var DefaultStopSequences = []string{"Observation:", "Question:"}

// DefaultUser is the end-user id reported to providers.
const DefaultUser = "BingChain"

// StopSequences returns the configured stop sequences or the defaults.
func (o CompletionOptions) StopSequences() []string {
	if len(o.Stop) == 0 {
		return DefaultStopSequences
	}
	return o.Stop
}

// UserID returns the configured user id or DefaultUser.
func (o CompletionOptions) UserID() string {
	if o.User == "" {
		return DefaultUser
	}
	return o.User
}

// LLMFunc adapts a plain function to LLMClient.
type LLMFunc func(ctx context.Context, prompt string, opts CompletionOptions) (<-chan stream.Event, <-chan error)

// Complete implements LLMClient.
func (f LLMFunc) Complete(ctx context.Context, prompt string, opts CompletionOptions) (<-chan stream.Event, <-chan error) {
	return f(ctx, prompt, opts)
}
