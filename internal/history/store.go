// Package history persists the questions and answers of past sessions so a
// new session can recall them.
package history

import "context"

// Store persists exchanges across sessions.
type Store interface {
	// LoadQuestions returns previously asked questions, oldest first, without
	// duplicates.
	LoadQuestions() ([]string, error)
	AppendExchange(ctx context.Context, question, answer string) error
	Close() error
}

// dedupe keeps the first occurrence of every non-empty question.
func dedupe(questions []string) []string {
	seen := make(map[string]bool, len(questions))
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}
