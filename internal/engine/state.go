// Package engine runs the ReAct loop: prompt, complete, classify, dispatch,
// observe, until the model answers.
package engine

import "strings"

// Phase is the position of the loop within one question's cycle.
type Phase string

const (
	PhaseBuildPrompt     Phase = "BUILD_PROMPT"
	PhaseAwaitCompletion Phase = "AWAIT_COMPLETION"
	PhaseClassify        Phase = "CLASSIFY"
	PhaseDispatchAction  Phase = "DISPATCH_ACTION"
	PhaseReturnAnswer    Phase = "RETURN_ANSWER"
)

// State is the per-question loop state handed to hooks.
type State struct {
	Question string
	Prompt   strings.Builder // append-only within the question
	Step     int             // completions requested so far
	Retries  int             // provider connection retries
	Phase    Phase
	Model    string
	MaxSteps int
	Done     bool
	Answer   string

	// Last holds the most recent completion text.
	Last string
	// Actions counts dispatched tool calls.
	Actions int
}

// append adds text to the running prompt. The prompt never shrinks.
func (s *State) append(text string) { s.Prompt.WriteString(text) }
