package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// History store kinds.
const (
	StoreYAML   = "yaml"
	StoreSQLite = "sqlite"
)

// Settings is the typed view of the environment used to build a session.
type Settings struct {
	Provider      string
	Model         string
	ResponseLimit int
	Temperature   float32
	TokenLimit    int // half of TOKEN_LIMIT, the share one request may use
	MaxSteps      int
	Language      string
	Debug         int

	PromptDir    string
	HistoryPath  string
	HistoryStore string
	DataDir      string
	SnippetDir   string

	BingAPIKey string
	GUI        bool
}

// FromEnv reads Settings. Unparseable numbers fall back to their defaults
// with a warning.
func FromEnv() Settings {
	dataDir := envOr("REACTCHAIN_DATA_DIR", ".reactchain")
	s := Settings{
		Provider:      envOr("LLM_PROVIDER", "openai"),
		Model:         os.Getenv("MODEL"),
		ResponseLimit: envInt("RESPONSE_LIMIT", 512),
		Temperature:   envFloat("TEMPERATURE", 0.25),
		TokenLimit:    envInt("TOKEN_LIMIT", 4096) / 2,
		MaxSteps:      envInt("MAX_STEPS", 15),
		Language:      envOr("LANGUAGE", "English"),
		Debug:         envInt("DEBUG", 0),
		PromptDir:     envOr("PROMPT_DIR", "."),
		HistoryStore:  strings.ToLower(envOr("HISTORY_STORE", StoreYAML)),
		DataDir:       dataDir,
		SnippetDir:    envOr("SNIPPET_DIR", filepath.Join(dataDir, "snippets")),
		BingAPIKey:    os.Getenv("BING_API_KEY"),
		GUI:           envBool("GUI"),
	}
	if s.TokenLimit <= 0 {
		s.TokenLimit = 2048
	}
	switch s.HistoryStore {
	case StoreYAML:
		s.HistoryPath = envOr("HISTORY_PATH", "history.yaml")
	case StoreSQLite:
		s.HistoryPath = envOr("HISTORY_PATH", filepath.Join(dataDir, "history.db"))
	default:
		log.Printf("⚠️  unknown HISTORY_STORE %q, using %s", s.HistoryStore, StoreYAML)
		s.HistoryStore = StoreYAML
		s.HistoryPath = envOr("HISTORY_PATH", "history.yaml")
	}
	return s
}

// RecallPath is where the bleve index of past exchanges lives.
func (s Settings) RecallPath() string {
	return filepath.Join(s.DataDir, "recall.bleve")
}

func (s Settings) String() string {
	return fmt.Sprintf("provider=%s model=%s tokens=%d/%d temperature=%.2f steps=%d history=%s:%s",
		s.Provider, s.Model, s.TokenLimit, s.ResponseLimit, s.Temperature, s.MaxSteps, s.HistoryStore, s.HistoryPath)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func envFloat(key string, def float32) float32 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		log.Printf("⚠️  invalid %s=%q, using %v", key, v, def)
		return def
	}
	return float32(f)
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}
