package engine

import (
	"strings"
	"sync"
)

// HistoryEntry is one completed exchange.
type HistoryEntry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// String renders the entry in transcript form.
func (e HistoryEntry) String() string {
	return "Q:" + e.Question + "\nA:" + e.Answer + "\n"
}

// History is the running transcript of the session, in arrival order.
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
}

// Add appends an exchange.
func (h *History) Add(question, answer string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, HistoryEntry{Question: question, Answer: answer})
}

// Reset clears the transcript.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// Len returns the number of exchanges.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Entries returns a copy of the exchanges.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Questions returns the questions asked so far.
func (h *History) Questions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	qs := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		qs = append(qs, e.Question)
	}
	return qs
}

// String renders the whole transcript.
func (h *History) String() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var sb strings.Builder
	for _, e := range h.entries {
		sb.WriteString(e.String())
	}
	return sb.String()
}
