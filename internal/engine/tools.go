package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Tool is a named capability the model can invoke with a single string input.
type Tool interface {
	Name() string
	Description() string
	// Init runs once at startup. Returning false disables the tool.
	Init(ctx context.Context) bool
	Execute(ctx context.Context, input string) (string, error)
}

// ToolFunc is the executor signature used by FuncTool.
type ToolFunc func(ctx context.Context, input string) (string, error)

// FuncTool builds a Tool from a name, a description and an executor.
type FuncTool struct {
	ToolName string
	Desc     string
	Fn       ToolFunc
	InitFn   func(ctx context.Context) bool
}

func (t FuncTool) Name() string        { return t.ToolName }
func (t FuncTool) Description() string { return t.Desc }
func (t FuncTool) Init(ctx context.Context) bool {
	if t.InitFn == nil {
		return true
	}
	return t.InitFn(ctx)
}
func (t FuncTool) Execute(ctx context.Context, input string) (string, error) {
	return t.Fn(ctx, input)
}

// DisabledByDefault lists tools that touch the local machine or the session
// environment. They must be enabled explicitly.
var DisabledByDefault = []string{"readfile", "readdoc", "readpdf", "get"}

// ToolRegistry holds registered tools and their enablement state.
type ToolRegistry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	disabled map[string]bool
}

// NewToolRegistry returns an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools:    make(map[string]Tool),
		disabled: make(map[string]bool),
	}
}

func toolKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds t, replacing any tool with the same name. Tools listed in
// DisabledByDefault start disabled.
func (r *ToolRegistry) Register(t Tool) {
	if t == nil {
		return
	}
	key := toolKey(t.Name())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[key] = t
	for _, name := range DisabledByDefault {
		if name == key {
			r.disabled[key] = true
		}
	}
}

// Get looks up a tool by name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[toolKey(name)]
	return t, ok
}

// Has reports whether a tool with that name is registered.
func (r *ToolRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Enable clears the disabled flag. Idempotent.
func (r *ToolRegistry) Enable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.disabled, toolKey(name))
}

// Disable marks a tool disabled. Idempotent.
func (r *ToolRegistry) Disable(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disabled[toolKey(name)] = true
}

// IsEnabled reports whether name is registered and enabled.
func (r *ToolRegistry) IsEnabled(name string) bool {
	key := toolKey(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[key]
	return ok && !r.disabled[key]
}

// Names returns every registered tool name, sorted.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the enabled tool names, sorted.
func (r *ToolRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		if !r.disabled[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Descriptions renders "name: description" lines for the enabled tools.
func (r *ToolRegistry) Descriptions() []string {
	names := r.List()
	lines := make([]string, 0, len(names))
	for _, name := range names {
		if t, ok := r.Get(name); ok {
			lines = append(lines, fmt.Sprintf("%s: %s", name, t.Description()))
		}
	}
	return lines
}

// InitAll runs every tool's Init once, in name order. Tools that decline are
// disabled and passed to report. Init panics count as a decline.
func (r *ToolRegistry) InitAll(ctx context.Context, report func(name string, ok bool)) {
	for _, name := range r.Names() {
		t, _ := r.Get(name)
		ok := safeInit(ctx, t)
		if !ok {
			r.Disable(name)
		}
		if report != nil {
			report(name, ok)
		}
	}
}

func safeInit(ctx context.Context, t Tool) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()
	return t.Init(ctx)
}

// DisabledMessage is the observation returned for a disabled tool.
func DisabledMessage(name string) string {
	return fmt.Sprintf("The %s tool is currently disabled for security reasons.", toolKey(name))
}

// Dispatch invokes a tool and always returns observation text. Disabled tools
// are never executed; failures and panics are reported in-band.
func (r *ToolRegistry) Dispatch(ctx context.Context, name, input string) (out string) {
	key := toolKey(name)
	t, ok := r.Get(key)
	if !ok {
		return "ERROR: " + (&ToolError{Tool: key, Err: ErrToolNotFound}).Error()
	}
	if !r.IsEnabled(key) {
		return DisabledMessage(key)
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = fmt.Sprintf("ERROR: %s panicked: %v", key, rec)
		}
	}()

	result, err := t.Execute(ctx, input)
	if err != nil {
		return "ERROR: " + (&ToolError{Tool: key, Err: err}).Error()
	}
	return result
}
