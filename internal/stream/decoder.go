// Package stream decodes the server-sent event framing used by completion
// providers into an ordered sequence of text deltas.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// EventType classifies a decoded record.
type EventType string

const (
	EventDelta   EventType = "text_delta" // incremental completion text
	EventDone    EventType = "done"       // provider end-of-stream sentinel
	EventError   EventType = "error"      // record carried an error payload
	EventStutter EventType = "stutter"    // record could not be parsed
)

// Event is one decoded unit of a completion stream.
type Event struct {
	Type EventType
	Text string
}

const (
	doneSentinel = "[DONE]"
	doneToken    = `["DONE"]`
)

// record is the union of the chat, completion and legacy Anthropic envelopes.
type record struct {
	Choices []struct {
		Delta *struct {
			Content string `json:"content"`
		} `json:"delta"`
		Text string `json:"text"`
	} `json:"choices"`
	Completion string          `json:"completion"`
	Error      json.RawMessage `json:"error"`
}

func (r record) text() string {
	if len(r.Choices) > 0 {
		c := r.Choices[0]
		if c.Delta != nil && c.Delta.Content != "" {
			return c.Delta.Content
		}
		return c.Text
	}
	return r.Completion
}

func (r record) errorMessage() string {
	if len(r.Error) == 0 || string(r.Error) == "null" {
		return ""
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Error, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	var s string
	if err := json.Unmarshal(r.Error, &s); err == nil && s != "" {
		return s
	}
	return string(r.Error)
}

// Decoder reads newline-delimited event records from a provider response.
// The sequence it produces is finite and cannot be restarted.
type Decoder struct {
	r   *bufio.Reader
	err error // sticky: io.EOF or the transport failure

	// Trace, when set, receives every non-empty raw record before parsing.
	Trace func(line string)
}

// NewDecoder wraps r. Records split across reads are reassembled.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next event, or io.EOF once the underlying reader is exhausted.
// Malformed records never end the sequence; they surface as stutter events.
// A read failure is returned as is, and again on every later call. The torn
// record in front of it is dropped.
func (d *Decoder) Next() (Event, error) {
	for {
		if d.err != nil {
			return Event{}, d.err
		}
		line, err := d.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			d.err = err
			return Event{}, err
		}
		if err != nil {
			d.err = io.EOF
		}
		if line != "" {
			if ev, ok := d.decodeLine(line); ok {
				return ev, nil
			}
		}
	}
}

func (d *Decoder) decodeLine(line string) (Event, bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ":") {
		return Event{}, false
	}
	if d.Trace != nil {
		d.Trace(line)
	}

	payload, ok := strings.CutPrefix(line, "data:")
	if !ok {
		for _, field := range []string{"event:", "id:", "retry:"} {
			if strings.HasPrefix(line, field) {
				return Event{}, false
			}
		}
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Event{}, false
	}

	// The sentinel is not valid JSON on its own.
	payload = strings.ReplaceAll(payload, doneSentinel, doneToken)
	if strings.HasPrefix(payload, "[") {
		var marker []string
		if err := json.Unmarshal([]byte(payload), &marker); err == nil && len(marker) == 1 && marker[0] == "DONE" {
			return Event{Type: EventDone}, true
		}
	}

	var rec record
	if err := unmarshalRecord([]byte(payload), &rec); err != nil {
		return Event{Type: EventStutter, Text: fmt.Sprintf("(Stutter: %s)", err.Error())}, true
	}
	if msg := rec.errorMessage(); msg != "" {
		return Event{Type: EventError, Text: msg}, true
	}
	text := rec.text()
	if text == "" {
		return Event{}, false
	}
	return Event{Type: EventDelta, Text: text}, true
}

// unmarshalRecord decodes a record, repairing it first when it is syntactically broken.
func unmarshalRecord(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		fixed, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr != nil {
			return err
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}

// Decode runs a Decoder over r in a goroutine and delivers its events on the
// returned channel, which is closed when the stream ends or ctx is cancelled.
// A transport failure mid-stream is delivered as a final error event.
func Decode(ctx context.Context, r io.Reader, trace func(string)) <-chan Event {
	out := make(chan Event, 16)
	go func() {
		defer close(out)
		d := NewDecoder(r)
		d.Trace = trace
		for {
			ev, err := d.Next()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					select {
					case out <- Event{Type: EventError, Text: err.Error()}:
					case <-ctx.Done():
					}
				}
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
