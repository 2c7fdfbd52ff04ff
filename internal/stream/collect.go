package stream

import (
	"context"
	"strings"
)

// FallbackText is returned instead of a completion when the provider could not be reached.
const FallbackText = "I took too long thinking about that."

// Result is the outcome of draining one completion stream.
type Result struct {
	Text     string   // normalized completion, or FallbackText
	Fallback bool     // true when Text is FallbackText
	Err      error    // transport error reported by the provider, if any
	Stutters []string // diagnostics for records that could not be parsed
	Errors   []string // error payloads reported inside the stream
}

// Collect drains events and errs into a single completion. Each delta is passed
// to echo as it arrives; echo is best-effort and a panic inside it is ignored.
//
// A transport error that arrives before any text produces the fallback string.
// Stutter and error records are kept out of the completion text; when the stream
// carried no text at all, the first provider error message is used instead.
func Collect(ctx context.Context, events <-chan Event, errs <-chan error, echo func(string)) Result {
	var (
		sb  strings.Builder
		res Result
	)

	for events != nil || errs != nil {
		select {
		case <-ctx.Done():
			return Result{Text: FallbackText, Fallback: true, Err: ctx.Err()}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			switch ev.Type {
			case EventDelta:
				sb.WriteString(ev.Text)
				safeEcho(echo, ev.Text)
			case EventStutter:
				res.Stutters = append(res.Stutters, ev.Text)
			case EventError:
				res.Errors = append(res.Errors, ev.Text)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil && res.Err == nil {
				res.Err = err
			}
		}
	}

	text := sb.String()
	if text == "" && res.Err != nil {
		res.Text = FallbackText
		res.Fallback = true
		return res
	}
	if text == "" && len(res.Errors) > 0 {
		text = res.Errors[0]
	}
	res.Text = Normalize(text)
	return res
}

// Normalize drops a single leading space and makes sure the completion ends
// with a newline, leaving text that already ends in a blank line untouched.
func Normalize(text string) string {
	text = strings.TrimPrefix(text, " ")
	if !strings.HasSuffix(text, "\n\n") {
		text += "\n"
	}
	return text
}

func safeEcho(echo func(string), s string) {
	if echo == nil {
		return
	}
	defer func() { _ = recover() }()
	echo(s)
}
