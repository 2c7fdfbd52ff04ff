package engine

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Session variables the engine maintains itself.
const (
	VarPrompt  = "CHAT_PROMPT"
	VarHistory = "CHAT_HISTORY"
	VarQueries = "CHAT_QUERIES"
)

// Session owns the state shared by the agent loop and the tools: the tool
// registry, the installed API base, the transcript, the last realized prompt,
// the retrieved-text scratch area and the session variables.
type Session struct {
	ID string

	tools   *ToolRegistry
	history *History
	budget  *Budgeter

	mu        sync.RWMutex
	apiBase   string
	prompt    string
	retrieved string
	vars      map[string]string
}

// NewSession creates a session around reg. The budgeter, when nil, is built
// from DefaultBudgetConfig and measures against this session's history.
func NewSession(reg *ToolRegistry, budget *Budgeter) *Session {
	if reg == nil {
		reg = NewToolRegistry()
	}
	s := &Session{
		ID:      uuid.NewString(),
		tools:   reg,
		history: &History{},
		vars:    make(map[string]string),
	}
	if budget == nil {
		budget = NewBudgeter(DefaultBudgetConfig(), "", nil)
	}
	if budget.History == nil {
		budget.History = s.history.String
	}
	s.budget = budget
	return s
}

// Tools returns the session's tool registry.
func (s *Session) Tools() *ToolRegistry { return s.tools }

// History returns the session transcript.
func (s *Session) History() *History { return s.history }

// Budget returns the token budgeter bound to this session's history.
func (s *Session) Budget() *Budgeter { return s.budget }

// Truncate bounds text against the session's history.
func (s *Session) Truncate(text string) string { return s.budget.Truncate(text) }

// APIBase returns the server URL of the most recently installed API.
func (s *Session) APIBase() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiBase
}

// SetAPIBase replaces the installed API base.
func (s *Session) SetAPIBase(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiBase = url
}

// Prompt returns the last realized prompt.
func (s *Session) Prompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompt
}

// SetPrompt records the realized prompt and mirrors it to CHAT_PROMPT.
func (s *Session) SetPrompt(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = p
	s.vars[VarPrompt] = p
}

// RetrievedText returns the last text fetched by a retrieval tool.
func (s *Session) RetrievedText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retrieved
}

// SetRetrievedText stores text and returns it unchanged.
func (s *Session) SetRetrievedText(text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retrieved = text
	return text
}

func varKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Var reads a session variable. Keys are case-insensitive.
func (s *Session) Var(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[varKey(key)]
	return v, ok
}

// SetVar writes a session variable.
func (s *Session) SetVar(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[varKey(key)] = value
}

// VarNames lists the defined variables, sorted.
func (s *Session) VarNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AddExchange appends to the transcript and refreshes CHAT_HISTORY.
func (s *Session) AddExchange(question, answer string) {
	s.history.Add(question, answer)
	s.SetVar(VarHistory, s.history.String())
}

// ResetHistory clears the transcript and CHAT_HISTORY.
func (s *Session) ResetHistory() {
	s.history.Reset()
	s.SetVar(VarHistory, "")
}

// SetQueries publishes previously asked questions as CHAT_QUERIES.
func (s *Session) SetQueries(questions []string) {
	s.SetVar(VarQueries, strings.Join(questions, ", "))
}
