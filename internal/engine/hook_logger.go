// engine/hook_logger.go
package engine

import (
	"context"
	"log"
	"time"

	"github.com/ChamsBouzaiene/reactchain/internal/stream"
)

type LoggerHook struct {
	L *log.Logger
	// Verbose also logs stutters and observation previews.
	Verbose bool
}

func (h LoggerHook) OnQuestion(_ context.Context, st *State) {
	h.L.Printf("❓ question: %s", preview(st.Question, 120))
}
func (h LoggerHook) OnStepStart(_ context.Context, st *State) {
	h.L.Printf("step=%d/%d phase=%s", st.Step, st.MaxSteps, st.Phase)
}
func (h LoggerHook) OnBeforeLLM(_ context.Context, st *State, prompt string) {
	tokens, _ := GetTokenizerForModel(st.Model).CountTokens(prompt, st.Model)
	h.L.Printf("📤 step=%d: prompt %d chars | 💰 tokens=~%d", st.Step, len(prompt), tokens)
}
func (h LoggerHook) OnStreamDelta(_ context.Context, _ *State, _ string) {}
func (h LoggerHook) OnAfterLLM(_ context.Context, st *State, r stream.Result) {
	if r.Fallback {
		h.L.Printf("⚠️  step=%d: provider unavailable: %v", st.Step, r.Err)
		return
	}
	h.L.Printf("📥 step=%d: completion %d chars", st.Step, len(r.Text))
	for _, msg := range r.Errors {
		h.L.Printf("⚠️  provider error: %s", msg)
	}
	if h.Verbose {
		for _, s := range r.Stutters {
			h.L.Printf("%s", s)
		}
	}
}
func (h LoggerHook) OnToolCall(_ context.Context, _ *State, c OutcomeAction) {
	h.L.Printf("tool → %s input=%s", c.Tool, preview(c.Input, 100))
}
func (h LoggerHook) OnToolResult(_ context.Context, _ *State, c OutcomeAction, obs string) {
	if h.Verbose {
		h.L.Printf("tool %s result: %s", c.Tool, preview(obs, 200))
		return
	}
	h.L.Printf("tool %s result: %d chars", c.Tool, len(obs))
}
func (h LoggerHook) OnMedia(_ context.Context, _ *State, m Media, queued bool) {
	if !queued {
		h.L.Printf("🖼️  dropped %s %s: renderer busy", m.Kind, m.URL)
	}
}
func (h LoggerHook) OnRetryAttempt(_ context.Context, _ *State, attempt int, maxAttempts int, delay time.Duration, err error) {
	h.L.Printf("retry attempt=%d/%d delay=%v error=%v", attempt, maxAttempts, delay, err)
}
func (h LoggerHook) OnRetryExhausted(_ context.Context, _ *State, err error) {
	h.L.Printf("retries exhausted: %v", err)
}
func (h LoggerHook) OnAnswer(_ context.Context, st *State, _ string) {
	h.L.Printf("✅ done: steps=%d actions=%d", st.Step, st.Actions)
}
func (h LoggerHook) OnMaxSteps(_ context.Context, st *State) {
	h.L.Printf("⚠️  step limit reached: %d", st.MaxSteps)
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
