// Package config loads reactchain settings from the environment and from the
// persistent user config file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the user's persistent configuration preferences.
type Config struct {
	LLMProvider  string `json:"llm_provider,omitempty"` // openai, anthropic, ollama, etc.
	APIKey       string `json:"api_key,omitempty"`      // key for the selected provider
	Model        string `json:"model,omitempty"`
	BaseURL      string `json:"base_url,omitempty"`
	BingAPIKey   string `json:"bing_api_key,omitempty"`
	HistoryStore string `json:"history_store,omitempty"` // yaml or sqlite
	Language     string `json:"language,omitempty"`
	GUI          *bool  `json:"gui,omitempty"`
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a manager for os.UserConfigDir()/reactchain.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return NewManagerAt(filepath.Join(configDir, "reactchain")), nil
}

// NewManagerAt creates a manager storing config.json in dir.
func NewManagerAt(dir string) *Manager {
	return &Manager{configDir: dir}
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk.
// If the file does not exist, it returns an empty Config and no error.
func (m *Manager) Load() (*Config, error) {
	data, err := os.ReadFile(m.GetConfigPath())
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to disk readable only by the owner, since
// it may hold API keys.
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}

// providerEnvPrefix maps a provider to the prefix of its key, model and base
// URL variables.
var providerEnvPrefix = map[string]string{
	"openai":    "OPENAI",
	"anthropic": "ANTHROPIC",
	"ollama":    "OLLAMA",
	"lmstudio":  "LMSTUDIO",
	"groq":      "GROQ",
	"deepseek":  "DEEPSEEK",
}

// ProviderEnvPrefix returns the variable prefix of provider, or "".
func ProviderEnvPrefix(provider string) string {
	return providerEnvPrefix[provider]
}

// ApplyToEnv exports cfg as environment variables. Variables that are
// already set win over the file.
func ApplyToEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	setDefault("LLM_PROVIDER", cfg.LLMProvider)
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "openai"
	}
	// provider specific values only apply to the provider they were saved for
	if cfg.LLMProvider == "" || cfg.LLMProvider == provider {
		if prefix, ok := providerEnvPrefix[provider]; ok {
			setDefault(prefix+"_API_KEY", cfg.APIKey)
			setDefault(prefix+"_MODEL", cfg.Model)
			setDefault(prefix+"_BASE_URL", cfg.BaseURL)
		}
	}
	setDefault("BING_API_KEY", cfg.BingAPIKey)
	setDefault("HISTORY_STORE", cfg.HistoryStore)
	setDefault("LANGUAGE", cfg.Language)
	if cfg.GUI != nil {
		setDefault("GUI", strconv.FormatBool(*cfg.GUI))
	}
}

func setDefault(key, value string) {
	if value == "" {
		return
	}
	if _, ok := os.LookupEnv(key); ok {
		return
	}
	os.Setenv(key, value)
}
