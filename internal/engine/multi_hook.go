package engine

import (
	"context"
	"time"

	"github.com/ChamsBouzaiene/reactchain/internal/stream"
)

type Hooks []Hook

func (hs Hooks) OnQuestion(ctx context.Context, st *State) {
	for _, h := range hs {
		h.OnQuestion(ctx, st)
	}
}
func (hs Hooks) OnStepStart(ctx context.Context, st *State) {
	for _, h := range hs {
		h.OnStepStart(ctx, st)
	}
}
func (hs Hooks) OnBeforeLLM(ctx context.Context, st *State, prompt string) {
	for _, h := range hs {
		h.OnBeforeLLM(ctx, st, prompt)
	}
}
func (hs Hooks) OnStreamDelta(ctx context.Context, st *State, d string) {
	for _, h := range hs {
		h.OnStreamDelta(ctx, st, d)
	}
}
func (hs Hooks) OnAfterLLM(ctx context.Context, st *State, r stream.Result) {
	for _, h := range hs {
		h.OnAfterLLM(ctx, st, r)
	}
}
func (hs Hooks) OnToolCall(ctx context.Context, st *State, c OutcomeAction) {
	for _, h := range hs {
		h.OnToolCall(ctx, st, c)
	}
}
func (hs Hooks) OnToolResult(ctx context.Context, st *State, c OutcomeAction, obs string) {
	for _, h := range hs {
		h.OnToolResult(ctx, st, c, obs)
	}
}
func (hs Hooks) OnMedia(ctx context.Context, st *State, m Media, queued bool) {
	for _, h := range hs {
		h.OnMedia(ctx, st, m, queued)
	}
}
func (hs Hooks) OnRetryAttempt(ctx context.Context, st *State, attempt int, maxAttempts int, delay time.Duration, err error) {
	for _, h := range hs {
		h.OnRetryAttempt(ctx, st, attempt, maxAttempts, delay, err)
	}
}
func (hs Hooks) OnRetryExhausted(ctx context.Context, st *State, err error) {
	for _, h := range hs {
		h.OnRetryExhausted(ctx, st, err)
	}
}
func (hs Hooks) OnAnswer(ctx context.Context, st *State, answer string) {
	for _, h := range hs {
		h.OnAnswer(ctx, st, answer)
	}
}
func (hs Hooks) OnMaxSteps(ctx context.Context, st *State) {
	for _, h := range hs {
		h.OnMaxSteps(ctx, st)
	}
}
