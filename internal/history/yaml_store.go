package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultYAMLFile is the file name used when a directory is given.
const DefaultYAMLFile = "history.yaml"

// YAMLStore keeps the question list in a single YAML sequence. Answers are
// not persisted.
type YAMLStore struct {
	mu   sync.Mutex
	path string
}

// NewYAMLStore returns a store writing to path. A path without an extension
// is treated as a directory holding history.yaml.
func NewYAMLStore(path string) *YAMLStore {
	if filepath.Ext(path) == "" {
		path = filepath.Join(path, DefaultYAMLFile)
	}
	return &YAMLStore{path: path}
}

// Path returns the backing file.
func (s *YAMLStore) Path() string { return s.path }

// LoadQuestions reads the file. A missing file is an empty history.
func (s *YAMLStore) LoadQuestions() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *YAMLStore) load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var questions []string
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return dedupe(questions), nil
}

// AppendExchange adds question to the list and rewrites the file.
func (s *YAMLStore) AppendExchange(_ context.Context, question, _ string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := s.load()
	if err != nil {
		return err
	}
	questions = dedupe(append(questions, question))

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := yaml.Marshal(questions)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *YAMLStore) Close() error { return nil }
