package providers

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/stream"
)

// AnthropicClient implements engine.LLMClient with the Anthropic messages API.
// The whole prompt is sent as one user message.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Anthropic client for the engine. An empty
// baseURL keeps the SDK default.
func NewAnthropicClient(apiKey, modelName, baseURL string) (*AnthropicClient, error) {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &AnthropicClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  modelName,
	}, nil
}

// Model returns the configured default model.
func (c *AnthropicClient) Model() string { return c.model }

func (c *AnthropicClient) request(prompt string, opts engine.CompletionOptions) anthropic.MessagesRequest {
	model := opts.Model
	if model == "" {
		model = c.model
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}
	temperature := opts.Temperature

	return anthropic.MessagesRequest{
		Model: anthropic.Model(model),
		Messages: []anthropic.Message{{
			Role:    anthropic.RoleUser,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(prompt)},
		}},
		MaxTokens:     maxTokens,
		Temperature:   &temperature,
		StopSequences: opts.StopSequences(),
		Metadata:      map[string]any{"user_id": opts.UserID()},
	}
}

// Complete implements engine.LLMClient. Text deltas become stream events;
// an error event inside the stream becomes an EventError.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string, opts engine.CompletionOptions) (<-chan stream.Event, <-chan error) {
	eventCh := make(chan stream.Event)
	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)
		defer close(errCh)

		send := func(ev stream.Event) {
			select {
			case eventCh <- ev:
			case <-ctx.Done():
			}
		}

		req := anthropic.MessagesStreamRequest{MessagesRequest: c.request(prompt, opts)}
		req.OnError = func(errResp anthropic.ErrorResponse) {
			msg := "anthropic streaming error"
			if errResp.Error != nil {
				msg = errResp.Error.Message
			}
			send(stream.Event{Type: stream.EventError, Text: msg})
		}
		req.OnContentBlockDelta = func(delta anthropic.MessagesEventContentBlockDeltaData) {
			if delta.Delta.Type == "text_delta" && delta.Delta.Text != nil {
				send(stream.Event{Type: stream.EventDelta, Text: *delta.Delta.Text})
			}
		}
		req.OnMessageStop = func(anthropic.MessagesEventMessageStopData) {
			send(stream.Event{Type: stream.EventDone})
		}

		if _, err := c.client.CreateMessagesStream(ctx, req); err != nil {
			httpStatus, retryAfter := extractErrorMetadata(err)
			errCh <- engine.WrapLLMError(fmt.Errorf("anthropic: %w", err), httpStatus, retryAfter)
		}
	}()

	return eventCh, errCh
}
