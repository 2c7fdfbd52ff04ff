package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func feed(events []Event, err error) (<-chan Event, <-chan error) {
	evCh := make(chan Event, len(events))
	errCh := make(chan error, 1)
	for _, ev := range events {
		evCh <- ev
	}
	close(evCh)
	if err != nil {
		errCh <- err
	}
	close(errCh)
	return evCh, errCh
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{" Answer: 42", "Answer: 42\n"},
		{"Answer: 42\n", "Answer: 42\n\n"},
		{"Answer: 42\n\n", "Answer: 42\n\n"},
		{"  two spaces", " two spaces\n"},
		{"", "\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestCollect_AccumulatesAndEchoes(t *testing.T) {
	events, errs := feed([]Event{
		{Type: EventDelta, Text: " I will"},
		{Type: EventStutter, Text: "(Stutter: bad)"},
		{Type: EventDelta, Text: " look."},
		{Type: EventDone},
	}, nil)

	var echoed []string
	res := Collect(context.Background(), events, errs, func(s string) { echoed = append(echoed, s) })

	assert.Equal(t, "I will look.\n", res.Text)
	assert.False(t, res.Fallback)
	assert.NoError(t, res.Err)
	assert.Equal(t, []string{" I will", " look."}, echoed)
	assert.Equal(t, []string{"(Stutter: bad)"}, res.Stutters)
}

func TestCollect_PanickingSinkIsIgnored(t *testing.T) {
	events, errs := feed([]Event{
		{Type: EventDelta, Text: "a"},
		{Type: EventDelta, Text: "b"},
	}, nil)

	res := Collect(context.Background(), events, errs, func(string) { panic("terminal gone") })
	assert.Equal(t, "ab\n", res.Text)
}

func TestCollect_TransportFailureFallsBack(t *testing.T) {
	events, errs := feed(nil, errors.New("dial tcp: connection refused"))

	res := Collect(context.Background(), events, errs, nil)
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackText, res.Text)
	assert.EqualError(t, res.Err, "dial tcp: connection refused")
}

func TestCollect_ErrorRecordBecomesCompletionWhenEmpty(t *testing.T) {
	events, errs := feed([]Event{{Type: EventError, Text: "context length exceeded"}}, nil)

	res := Collect(context.Background(), events, errs, nil)
	assert.False(t, res.Fallback)
	assert.Equal(t, "context length exceeded\n", res.Text)
}

func TestCollect_ErrorRecordIgnoredWhenTextPresent(t *testing.T) {
	events, errs := feed([]Event{
		{Type: EventDelta, Text: "Answer: yes"},
		{Type: EventError, Text: "late failure"},
	}, nil)

	res := Collect(context.Background(), events, errs, nil)
	assert.Equal(t, "Answer: yes\n", res.Text)
	assert.Equal(t, []string{"late failure"}, res.Errors)
}

func TestCollect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	events := make(chan Event)
	errs := make(chan error)

	res := Collect(ctx, events, errs, nil)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Err, context.Canceled)
}
