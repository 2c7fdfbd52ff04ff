package prompts

import (
	"fmt"
	"sort"
	"sync"
)

// PromptRegistry manages versioned prompts and local overrides.
type PromptRegistry struct {
	mu        sync.RWMutex
	prompts   map[string]map[PromptVersion]*Prompt // ID -> Version -> Prompt
	overrides map[string]string                    // ID -> content loaded from disk
}

var defaultRegistry *PromptRegistry
var defaultRegistryOnce sync.Once

// DefaultRegistry returns the global registry with the built-in templates.
func DefaultRegistry() *PromptRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewPromptRegistry()
		RegisterBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

// NewPromptRegistry creates a new, empty prompt registry.
func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{
		prompts:   make(map[string]map[PromptVersion]*Prompt),
		overrides: make(map[string]string),
	}
}

// Register registers a prompt in the registry.
func (r *PromptRegistry) Register(p *Prompt) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.prompts[p.ID] == nil {
		r.prompts[p.ID] = make(map[PromptVersion]*Prompt)
	}
	r.prompts[p.ID][p.Version] = p
}

// Override replaces the content served for id, whatever its version.
// An empty content removes the override.
func (r *PromptRegistry) Override(id, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if content == "" {
		delete(r.overrides, id)
		return
	}
	r.overrides[id] = content
}

// Get retrieves a specific version of a prompt.
func (r *PromptRegistry) Get(id string, version PromptVersion) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}

	prompt, ok := versions[version]
	if !ok {
		return nil, fmt.Errorf("prompt %s version %s not found", id, version)
	}

	return r.withOverride(prompt), nil
}

// GetLatest retrieves the latest (non-deprecated) version of a prompt.
// If all versions are deprecated, returns the most recent version.
func (r *PromptRegistry) GetLatest(id string) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.prompts[id]
	if !ok {
		if content, ok := r.overrides[id]; ok {
			return &Prompt{ID: id, Content: content}, nil
		}
		return nil, fmt.Errorf("prompt not found: %s", id)
	}

	var latest *Prompt
	var latestVersion PromptVersion
	for version, prompt := range versions {
		if !prompt.Deprecated && (latest == nil || version > latestVersion) {
			latest = prompt
			latestVersion = version
		}
	}
	if latest == nil {
		for version, prompt := range versions {
			if latest == nil || version > latestVersion {
				latest = prompt
				latestVersion = version
			}
		}
	}

	return r.withOverride(latest), nil
}

// Content returns the latest content of id, or "" when unknown.
func (r *PromptRegistry) Content(id string) string {
	p, err := r.GetLatest(id)
	if err != nil {
		return ""
	}
	return p.Content
}

// withOverride must be called with r.mu held.
func (r *PromptRegistry) withOverride(p *Prompt) *Prompt {
	content, ok := r.overrides[p.ID]
	if !ok {
		return p
	}
	cp := *p
	cp.Content = content
	return &cp
}

// List returns all prompt IDs in the registry, sorted.
func (r *PromptRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.prompts))
	for id := range r.prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
