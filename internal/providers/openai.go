package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/stream"
)

// SystemMessage opens every chat completion.
const SystemMessage = "You are a helpful assistant who tries to answer all questions accurately and comprehensively."

// DefaultOpenAIBaseURL is used when no base URL is configured.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient implements engine.LLMClient against the OpenAI completions and
// chat completions endpoints (or any compatible server). Request bodies are
// built from go-openai types; the event stream is decoded by internal/stream.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client

	// Trace, when set, receives every raw stream line.
	Trace func(line string)
}

// NewOpenAIClient creates a new OpenAI client for the engine.
func NewOpenAIClient(apiKey, modelName, baseURL string) (*OpenAIClient, error) {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   modelName,
		baseURL: strings.TrimRight(baseURL, "/"),
		// no overall timeout: completions stream for as long as the model writes
		http: &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: 60 * time.Second,
		}},
	}, nil
}

// Model returns the configured default model.
func (c *OpenAIClient) Model() string { return c.model }

// IsCompletionModel reports whether model uses the legacy completions endpoint.
func IsCompletionModel(model string) bool {
	return strings.HasPrefix(model, "text")
}

// completionBody overrides Temperature so it is always sent, including 0.
type completionBody struct {
	openai.CompletionRequest
	Temperature float32 `json:"temperature"`
}

// requestBody returns the endpoint path and JSON body for prompt.
func (c *OpenAIClient) requestBody(prompt string, opts engine.CompletionOptions) (string, []byte, error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	if IsCompletionModel(model) {
		body, err := json.Marshal(completionBody{
			CompletionRequest: openai.CompletionRequest{
				Model:     model,
				Prompt:    prompt,
				MaxTokens: opts.MaxTokens,
				Stream:    true,
				N:         1,
				Stop:      opts.StopSequences(),
				User:      opts.UserID(),
			},
			Temperature: opts.Temperature,
		})
		return "/completions", body, err
	}

	temperature := opts.Temperature
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: &temperature,
		Stream:      true,
		N:           1,
		Stop:        opts.StopSequences(),
		User:        opts.UserID(),
	}
	body, err := json.Marshal(req)
	return "/chat/completions", body, err
}

// Complete implements engine.LLMClient. Connection failures and non-2xx
// statuses are reported on the error channel as classified engine errors.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, opts engine.CompletionOptions) (<-chan stream.Event, <-chan error) {
	eventCh := make(chan stream.Event)
	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)
		defer close(errCh)

		path, body, err := c.requestBody(prompt, opts)
		if err != nil {
			errCh <- engine.NewEngineError(fmt.Errorf("encode request: %w", err), engine.RetryClassNonRetryable)
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			errCh <- engine.NewEngineError(err, engine.RetryClassNonRetryable)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			httpStatus, retryAfter := extractErrorMetadata(err)
			errCh <- engine.WrapLLMError(err, httpStatus, retryAfter)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			err := fmt.Errorf("openai: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
			errCh <- engine.WrapLLMError(err, resp.StatusCode, resp.Header.Get("Retry-After"))
			return
		}

		for ev := range stream.Decode(ctx, resp.Body, c.Trace) {
			select {
			case eventCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return eventCh, errCh
}

// extractErrorMetadata extracts HTTP status code and Retry-After header from an error.
func extractErrorMetadata(err error) (int, string) {
	if err == nil {
		return 0, ""
	}

	errStr := err.Error()
	var httpStatus int
	var retryAfter string

	// Common patterns: "429", "status code 429", "HTTP 429", etc.
	switch {
	case strings.Contains(errStr, "429"):
		httpStatus = http.StatusTooManyRequests
	case strings.Contains(errStr, "500"):
		httpStatus = http.StatusInternalServerError
	case strings.Contains(errStr, "502"):
		httpStatus = http.StatusBadGateway
	case strings.Contains(errStr, "503"):
		httpStatus = http.StatusServiceUnavailable
	case strings.Contains(errStr, "504"):
		httpStatus = http.StatusGatewayTimeout
	case strings.Contains(errStr, "529"):
		httpStatus = http.StatusServiceUnavailable // anthropic "overloaded"
	case strings.Contains(errStr, "401"):
		httpStatus = http.StatusUnauthorized
	case strings.Contains(errStr, "403"):
		httpStatus = http.StatusForbidden
	case strings.Contains(errStr, "400"):
		httpStatus = http.StatusBadRequest
	case strings.Contains(errStr, "402"):
		httpStatus = http.StatusPaymentRequired
	}

	lower := strings.ToLower(errStr)
	for _, key := range []string{"retry-after", "retry after"} {
		if idx := strings.Index(lower, key); idx != -1 {
			parts := strings.Fields(strings.TrimLeft(errStr[idx+len(key):], ": "))
			if len(parts) > 0 {
				retryAfter = parts[0]
			}
			break
		}
	}

	return httpStatus, retryAfter
}
