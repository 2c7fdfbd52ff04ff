// engine/hooks.go
package engine

import (
	"context"
	"time"

	"github.com/ChamsBouzaiene/reactchain/internal/stream"
)

type Hook interface {
	OnQuestion(ctx context.Context, st *State)
	OnStepStart(ctx context.Context, st *State)
	OnBeforeLLM(ctx context.Context, st *State, prompt string)
	OnStreamDelta(ctx context.Context, st *State, delta string)
	OnAfterLLM(ctx context.Context, st *State, res stream.Result)
	OnToolCall(ctx context.Context, st *State, call OutcomeAction)
	OnToolResult(ctx context.Context, st *State, call OutcomeAction, observation string)
	OnMedia(ctx context.Context, st *State, m Media, queued bool)
	OnRetryAttempt(ctx context.Context, st *State, attempt int, maxAttempts int, delay time.Duration, err error)
	OnRetryExhausted(ctx context.Context, st *State, err error)
	OnAnswer(ctx context.Context, st *State, answer string)
	OnMaxSteps(ctx context.Context, st *State)
}

// NopHook lets you implement any hook you need.
type NopHook struct{}

func (NopHook) OnQuestion(context.Context, *State)                                     {}
func (NopHook) OnStepStart(context.Context, *State)                                    {}
func (NopHook) OnBeforeLLM(context.Context, *State, string)                            {}
func (NopHook) OnStreamDelta(context.Context, *State, string)                          {}
func (NopHook) OnAfterLLM(context.Context, *State, stream.Result)                      {}
func (NopHook) OnToolCall(context.Context, *State, OutcomeAction)                      {}
func (NopHook) OnToolResult(context.Context, *State, OutcomeAction, string)            {}
func (NopHook) OnMedia(context.Context, *State, Media, bool)                           {}
func (NopHook) OnRetryAttempt(context.Context, *State, int, int, time.Duration, error) {}
func (NopHook) OnRetryExhausted(context.Context, *State, error)                        {}
func (NopHook) OnAnswer(context.Context, *State, string)                               {}
func (NopHook) OnMaxSteps(context.Context, *State)                                     {}
