package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ChamsBouzaiene/reactchain/internal/prompts"
	"github.com/ChamsBouzaiene/reactchain/internal/stream"
)

// Agent answers questions by alternating completions and tool calls.
type Agent struct {
	llm       LLMClient
	session   *Session
	parser    *Parser
	config    AgentConfig
	hooks     Hooks
	registry  *prompts.PromptRegistry
	media     *MediaSink
	lastState *State
}

// Session returns the session the agent reads tools and history from.
func (a *Agent) Session() *Session { return a.session }

// Config returns a copy of the agent configuration.
func (a *Agent) Config() AgentConfig { return a.config }

// LastState returns the state of the most recent Ask. Callers should treat it
// as read-only.
func (a *Agent) LastState() *State { return a.lastState }

// SetLLM replaces the provider and model between questions.
func (a *Agent) SetLLM(client LLMClient, model string) {
	a.llm = client
	a.config.Model = model
}

// BuildPrompt realizes the ReAct template for question with the currently
// enabled tools.
func (a *Agent) BuildPrompt(question string) (string, error) {
	b, err := prompts.NewPromptBuilder(a.registry, a.config.PromptID)
	if err != nil {
		return "", err
	}
	tools := a.session.Tools()
	b.SetVariable("tools", strings.Join(tools.Descriptions(), "\n")).
		SetVariable("toolList", strings.Join(tools.List(), ", ")).
		SetVariable("language", a.config.Language).
		SetVariable("question", question)
	return b.Build(), nil
}

// Ask runs one question to completion. The prompt starts from the template and
// only grows: each completion is appended, followed by the observation of any
// tool it called. When MaxSteps completions pass without an answer, Ask returns
// the best answer found in the last completion together with ErrMaxSteps.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	st := &State{
		Question: question,
		Phase:    PhaseBuildPrompt,
		Model:    a.config.Model,
		MaxSteps: a.config.MaxSteps,
	}
	if st.MaxSteps <= 0 {
		st.MaxSteps = DefaultMaxSteps
	}
	a.lastState = st
	a.hooks.OnQuestion(ctx, st)

	prompt, err := a.BuildPrompt(question)
	if err != nil {
		return "", WrapWithContext(fmt.Errorf("build prompt: %w", err), st, "build_prompt")
	}
	st.append(prompt)
	a.session.SetPrompt(prompt)

	tools := a.session.Tools()
	for {
		if st.Step >= st.MaxSteps {
			a.hooks.OnMaxSteps(ctx, st)
			st.Done = true
			st.Answer = a.parser.Conclude(st.Last)
			return st.Answer, fmt.Errorf("%w: %d completions without an answer", ErrMaxSteps, st.Step)
		}
		st.Step++
		st.Phase = PhaseAwaitCompletion
		a.hooks.OnStepStart(ctx, st)

		res := a.complete(ctx, st)
		if err := ctx.Err(); err != nil {
			return "", WrapWithContext(err, st, "complete")
		}
		st.Last = res.Text
		st.append(res.Text)
		a.session.SetPrompt(st.Prompt.String())
		a.emitMedia(ctx, st, res.Text)

		st.Phase = PhaseClassify
		switch o := a.parser.Parse(res.Text, tools.Has).(type) {
		case OutcomeAction:
			st.Phase = PhaseDispatchAction
			a.hooks.OnToolCall(ctx, st, o)
			obs := tools.Dispatch(ctx, o.Tool, o.Input)
			st.Actions++
			a.hooks.OnToolResult(ctx, st, o, obs)
			if obs == "" {
				obs = "None"
			}
			st.append(a.config.Markers.Observation + " " + obs + "\n")
			a.session.SetPrompt(st.Prompt.String())
		case OutcomeAnswer:
			st.Phase = PhaseReturnAnswer
			st.Done = true
			st.Answer = o.Text
			a.hooks.OnAnswer(ctx, st, o.Text)
			return o.Text, nil
		case OutcomeNone:
			// the named action cannot run; ask again
		}
	}
}

// Merge rewrites question into a standalone question using the session
// history. With no history, or when the provider is unavailable, the question
// is returned unchanged.
func (a *Agent) Merge(ctx context.Context, question string) (string, error) {
	history := a.session.History()
	if history.Len() == 0 {
		return question, nil
	}
	b, err := prompts.NewPromptBuilder(a.registry, a.config.MergePromptID)
	if err != nil {
		return question, err
	}
	b.SetVariable("history", history.String()).SetVariable("question", question)

	st := &State{Question: question, Model: a.config.Model, MaxSteps: 1, Step: 1, Phase: PhaseAwaitCompletion}
	st.append(b.Build())
	res := a.complete(ctx, st)
	if res.Fallback {
		return question, nil
	}
	merged := strings.TrimSpace(res.Text)
	if merged == "" {
		return question, nil
	}
	return merged, nil
}

// Close stops the media renderer after pending items are shown.
func (a *Agent) Close() {
	if a.media != nil {
		a.media.Close()
	}
}

// complete requests one completion for the current prompt, retrying the
// provider connection per the LLM policy. It never fails: an unreachable
// provider yields the fallback result.
func (a *Agent) complete(ctx context.Context, st *State) stream.Result {
	prompt := st.Prompt.String()
	a.hooks.OnBeforeLLM(ctx, st, prompt)

	opts := CompletionOptions{
		Model:       a.config.Model,
		MaxTokens:   a.config.ResponseLimit,
		Temperature: a.config.Temperature,
	}
	var echo func(string)
	if a.config.Streaming {
		echo = func(delta string) { a.hooks.OnStreamDelta(ctx, st, delta) }
	}

	policy := a.config.RetryConfig.LLMPolicy
	res, err := RetryWithPolicy(ctx, policy, func(ctx context.Context) (stream.Result, error) {
		events, errs := a.llm.Complete(ctx, prompt, opts)
		r := stream.Collect(ctx, events, errs, echo)
		if r.Fallback {
			if r.Err == nil {
				return r, errors.New("provider returned no completion")
			}
			return r, r.Err
		}
		return r, nil
	}, ClassifyLLMError, func(attempt int, delay time.Duration, err error) {
		st.Retries++
		a.hooks.OnRetryAttempt(ctx, st, attempt, policy.MaxRetries, delay, err)
	})
	if err != nil {
		if IsRetryExhausted(err) {
			a.hooks.OnRetryExhausted(ctx, st, err)
		}
		res = stream.Result{Text: stream.FallbackText, Fallback: true, Err: err}
	}
	a.hooks.OnAfterLLM(ctx, st, res)
	return res
}

func (a *Agent) emitMedia(ctx context.Context, st *State, text string) {
	if a.media == nil {
		return
	}
	for _, m := range ScanMedia(text) {
		a.hooks.OnMedia(ctx, st, m, a.media.Notify(m))
	}
}
