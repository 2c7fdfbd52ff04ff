package providers

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

// compatible describes an OpenAI-compatible server selectable by LLM_PROVIDER.
type compatible struct {
	prefix   string // env prefix: <PREFIX>_API_KEY, <PREFIX>_MODEL, <PREFIX>_BASE_URL
	baseURL  string
	model    string
	localKey string // placeholder key for local servers; "" means a key is required
}

var compatibleProviders = map[string]compatible{
	"ollama":   {prefix: "OLLAMA", baseURL: "http://localhost:11434/v1", model: "llama3.1", localKey: "ollama"},
	"lmstudio": {prefix: "LMSTUDIO", baseURL: "http://localhost:1234/v1", model: "local-model", localKey: "lm-studio"},
	"groq":     {prefix: "GROQ", baseURL: "https://api.groq.com/openai/v1", model: "llama-3.1-70b-versatile"},
	"deepseek": {prefix: "DEEPSEEK", baseURL: "https://api.deepseek.com/v1", model: "deepseek-chat"},
}

// NewLLMClientFromEnv creates an engine.LLMClient based on environment
// variables and returns it with the model name it will use.
func NewLLMClientFromEnv(ctx context.Context) (engine.LLMClient, string, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("OPENAI_API_KEY not set")
		}
		modelName := firstNonEmpty(os.Getenv("OPENAI_MODEL"), os.Getenv("MODEL"), "gpt-3.5-turbo")

		client, err := NewOpenAIClient(apiKey, modelName, os.Getenv("OPENAI_BASE_URL"))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		client.Trace = debugTrace()
		return client, modelName, nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		modelName := firstNonEmpty(os.Getenv("ANTHROPIC_MODEL"), "claude-3-haiku-20240307")

		client, err := NewAnthropicClient(apiKey, modelName, os.Getenv("ANTHROPIC_BASE_URL"))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create Anthropic client: %w", err)
		}
		return client, modelName, nil
	}

	p, ok := compatibleProviders[provider]
	if !ok {
		return nil, "", fmt.Errorf("unknown LLM_PROVIDER: %s (supported: openai, anthropic, ollama, lmstudio, groq, deepseek)", provider)
	}
	apiKey := firstNonEmpty(os.Getenv(p.prefix+"_API_KEY"), p.localKey)
	if apiKey == "" {
		return nil, "", fmt.Errorf("%s_API_KEY not set", p.prefix)
	}
	modelName := firstNonEmpty(os.Getenv(p.prefix+"_MODEL"), p.model)
	baseURL := firstNonEmpty(os.Getenv(p.prefix+"_BASE_URL"), p.baseURL)

	client, err := NewOpenAIClient(apiKey, modelName, baseURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s client: %w", provider, err)
	}
	client.Trace = debugTrace()
	return client, modelName, nil
}

// debugTrace logs raw stream lines when DEBUG is 3 or more.
func debugTrace() func(string) {
	level, _ := strconv.Atoi(os.Getenv("DEBUG"))
	if level < 3 {
		return nil
	}
	return func(line string) { log.Printf("🔎 stream: %s", line) }
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
