package engine

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/reactchain/internal/stream"
)

func TestConsoleHook(t *testing.T) {
	var buf bytes.Buffer
	h := &ConsoleHook{W: &buf}
	ctx := context.Background()
	st := &State{MaxSteps: 3}

	h.OnStreamDelta(ctx, st, "thinking")
	h.OnToolCall(ctx, st, OutcomeAction{Tool: "search", Input: "cats"})
	h.OnAfterLLM(ctx, st, stream.Result{Fallback: true, Err: errors.New("dial failed")})
	h.OnMaxSteps(ctx, st)

	out := buf.String()
	for _, want := range []string{"thinking", "Calling search with cats", "dial failed", "gave up after 3 steps"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestLoggerHook(t *testing.T) {
	var buf bytes.Buffer
	h := LoggerHook{L: log.New(&buf, "", 0)}
	ctx := context.Background()
	st := &State{Question: "why?", Step: 2, MaxSteps: 5, Actions: 1}

	h.OnQuestion(ctx, st)
	h.OnToolCall(ctx, st, OutcomeAction{Tool: "calculator", Input: "1+1"})
	h.OnToolResult(ctx, st, OutcomeAction{Tool: "calculator"}, "2")
	h.OnMedia(ctx, st, Media{Kind: MediaImage, URL: "https://a.test/x.png"}, false)
	h.OnAnswer(ctx, st, "2")

	out := buf.String()
	for _, want := range []string{"question: why?", "tool → calculator input=1+1", "tool calculator result: 1 chars", "renderer busy", "steps=2 actions=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

// recordingHook notes the events it sees.
type recordingHook struct {
	NopHook
	kinds *[]string
}

func (h recordingHook) OnQuestion(context.Context, *State) { *h.kinds = append(*h.kinds, "question") }
func (h recordingHook) OnToolCall(context.Context, *State, OutcomeAction) {
	*h.kinds = append(*h.kinds, "tool")
}
func (h recordingHook) OnAnswer(context.Context, *State, string) { *h.kinds = append(*h.kinds, "answer") }

func TestHooksFanOut(t *testing.T) {
	var first, second []string
	hooks := Hooks{recordingHook{kinds: &first}, NopHook{}, recordingHook{kinds: &second}}
	ctx := context.Background()
	st := &State{Question: "q"}

	hooks.OnQuestion(ctx, st)
	hooks.OnStepStart(ctx, st)
	hooks.OnToolCall(ctx, st, OutcomeAction{Tool: "search", Input: "x"})
	hooks.OnAnswer(ctx, st, "done")

	for _, kinds := range [][]string{first, second} {
		if got := strings.Join(kinds, ","); got != "question,tool,answer" {
			t.Errorf("events = %s", got)
		}
	}
}

func TestPreview(t *testing.T) {
	if got := preview("héllo world", 5); got != "héllo..." {
		t.Errorf("preview() = %q", got)
	}
	if got := preview("short", 10); got != "short" {
		t.Errorf("preview() = %q", got)
	}
}
