package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ChamsBouzaiene/reactchain/internal/stream"
)

// Console palette.
var (
	StyleCompletion = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	StyleTool       = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff"))
	StyleAnswer     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950"))
	StyleError      = lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149"))
	StyleNotice     = lipgloss.NewStyle().Foreground(lipgloss.Color("#bc8cff"))
)

// ConsoleHook renders the interactive transcript: streamed completion text in
// grey, tool calls in blue, provider errors in red. Answers are printed by the caller.
type ConsoleHook struct {
	NopHook
	W io.Writer
}

// NewConsoleHook creates a console hook writing to stdout.
func NewConsoleHook() *ConsoleHook {
	return &ConsoleHook{W: os.Stdout}
}

// OnStreamDelta prints streaming text as it arrives.
func (h *ConsoleHook) OnStreamDelta(_ context.Context, _ *State, delta string) {
	fmt.Fprint(h.W, StyleCompletion.Render(delta))
}

func (h *ConsoleHook) OnAfterLLM(_ context.Context, _ *State, r stream.Result) {
	if r.Fallback && r.Err != nil {
		fmt.Fprintln(h.W, StyleError.Render(fmt.Sprintf("(%v)", r.Err)))
	}
	for _, msg := range r.Errors {
		fmt.Fprintln(h.W, StyleError.Render(fmt.Sprintf("(%s)", msg)))
	}
}

func (h *ConsoleHook) OnToolCall(_ context.Context, _ *State, c OutcomeAction) {
	fmt.Fprintln(h.W, StyleTool.Render(fmt.Sprintf("\nCalling %s with %s", c.Tool, c.Input)))
}

func (h *ConsoleHook) OnRetryAttempt(_ context.Context, _ *State, attempt int, maxAttempts int, delay time.Duration, err error) {
	fmt.Fprintln(h.W, StyleNotice.Render(fmt.Sprintf("(retrying %d/%d in %v: %v)", attempt, maxAttempts, delay.Round(time.Millisecond), err)))
}

func (h *ConsoleHook) OnMaxSteps(_ context.Context, st *State) {
	fmt.Fprintln(h.W, StyleError.Render(fmt.Sprintf("(gave up after %d steps)", st.MaxSteps)))
}
