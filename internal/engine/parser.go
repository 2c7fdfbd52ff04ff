package engine

import (
	"regexp"
	"strings"
)

// Markers is the vocabulary of the ReAct transcript.
type Markers struct {
	Action      string
	ActionInput string
	Answer      []string // any of these ends the cycle
	Observation string
	Fence       string // code fence
	IIFE        string // end of an immediately-invoked function expression
}

// DefaultMarkers returns the conventional ReAct markers.
func DefaultMarkers() Markers {
	return Markers{
		Action:      "Action:",
		ActionInput: "Action Input:",
		Answer:      []string{"Final Answer:", "Answer:"},
		Observation: "Observation:",
		Fence:       "```",
		IIFE:        ")()",
	}
}

// NoAnswer is returned when a completion ends the cycle with no usable text.
const NoAnswer = "No answer"

// Outcome is the classification of one completion: OutcomeAction,
// OutcomeAnswer or OutcomeNone.
type Outcome interface {
	outcome()
}

// OutcomeAction asks for a tool to be dispatched.
type OutcomeAction struct {
	Tool  string
	Input string
}

// OutcomeAnswer ends the cycle.
type OutcomeAnswer struct {
	Text string
}

// OutcomeNone means the completion named an action that cannot run. The
// loop asks again with the same prompt.
type OutcomeNone struct{}

func (OutcomeAction) outcome() {}
func (OutcomeAnswer) outcome() {}
func (OutcomeNone) outcome()   {}

// Parser classifies completions. Markers must not change after NewParser.
type Parser struct {
	Markers Markers

	langTag *regexp.Regexp // a fence and the language tag following it
}

// NewParser builds a parser for m.
func NewParser(m Markers) *Parser {
	p := &Parser{Markers: m}
	if m.Fence != "" {
		p.langTag = regexp.MustCompile(regexp.QuoteMeta(m.Fence) + `.+`)
	}
	return p
}

// Parse classifies completion. known reports whether a tool name is registered;
// it is only consulted for the last Action marker in the text.
func (p *Parser) Parse(completion string, known func(name string) bool) Outcome {
	m := p.Markers

	if m.Action != "" {
		if idx := strings.LastIndex(completion, m.Action); idx >= 0 {
			name := completion[idx+len(m.Action):]
			if nl := strings.IndexByte(name, '\n'); nl >= 0 {
				name = name[:nl]
			}
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" && known != nil && known(name) {
				if input, ok := p.ActionInput(completion); ok {
					return OutcomeAction{Tool: name, Input: input}
				}
			}
			return OutcomeNone{}
		}
	}

	return OutcomeAnswer{Text: p.Conclude(completion)}
}

// Conclude extracts an answer from completion ignoring any action: the text
// after the last answer marker, else after the last observation marker, else
// the whole text. It never returns an empty string.
func (p *Parser) Conclude(completion string) string {
	if text, ok := p.answer(completion); ok {
		if text == "" {
			return NoAnswer
		}
		return text
	}

	text := completion
	if obs := p.Markers.Observation; obs != "" {
		if idx := strings.LastIndex(completion, obs); idx >= 0 {
			text = completion[idx+len(obs):]
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return NoAnswer
	}
	return text
}

// answer returns the trimmed text after the last answer marker and whether
// any marker was present.
func (p *Parser) answer(completion string) (string, bool) {
	end := -1
	for _, marker := range p.Markers.Answer {
		if marker == "" {
			continue
		}
		if idx := strings.LastIndex(completion, marker); idx >= 0 && idx+len(marker) > end {
			end = idx + len(marker)
		}
	}
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(completion[end:]), true
}

// ActionInput extracts the argument following the last Action Input marker.
// In order: the body of the first fenced block, text up to and including an
// IIFE terminator, text before a lone fence, text before the first blank line.
// Empty input, or input starting with "[", is rejected.
func (p *Parser) ActionInput(completion string) (string, bool) {
	m := p.Markers
	input := completion
	if m.ActionInput != "" {
		if idx := strings.LastIndex(completion, m.ActionInput); idx >= 0 {
			input = completion[idx+len(m.ActionInput):]
		}
	}
	input = strings.TrimSpace(input)

	fences := 0
	if m.Fence != "" {
		fences = strings.Count(input, m.Fence)
	}

	switch {
	case fences >= 2:
		// drop language tags: everything after a fence on its line
		if p.langTag != nil {
			input = p.langTag.ReplaceAllString(input, m.Fence)
		}
		input = strings.TrimSpace(strings.Split(input, m.Fence)[1])
	case m.IIFE != "" && strings.Contains(input, m.IIFE):
		input = input[:strings.Index(input, m.IIFE)] + m.IIFE
	case fences == 1:
		input = strings.TrimSpace(input[:strings.Index(input, m.Fence)])
	default:
		input, _, _ = strings.Cut(input, "\n\n")
		input = strings.TrimSpace(input)
	}

	if input == "" || strings.HasPrefix(input, "[") {
		return "", false
	}
	return input, true
}
