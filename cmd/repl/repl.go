package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

// recallQuestion opens every session so the model learns what was asked
// before.
const recallQuestion = "Can you get the CHAT_QUERIES so you can remember the previous questions I have asked? You do not need to list them."

const promptText = "How can I help? > "

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149"))
	shortcutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bc8cff"))
)

// asker is the part of the agent the loop drives.
type asker interface {
	Ask(ctx context.Context, question string) (string, error)
	Merge(ctx context.Context, question string) (string, error)
}

type repl struct {
	env   *runtimeEnv
	agent asker
	in    io.Reader
	out   io.Writer
	merge bool
}

func (r *repl) run(ctx context.Context, recall bool) error {
	if r.agent == nil {
		r.agent = r.env.Agent
	}
	if recall {
		answer := r.answer(ctx, recallQuestion)
		r.env.Session.AddExchange(recallQuestion, answer)
	}

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Fprint(r.out, promptStyle.Render(promptText))
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		question := r.expand(ctx, line)
		if r.merge {
			merged, err := r.agent.Merge(ctx, question)
			if err != nil {
				log.Printf("⚠️  merge: %v", err)
			} else {
				question = merged
			}
		}

		answer := r.answer(ctx, question)
		r.env.Session.AddExchange(question, answer)
		if err := r.env.Store.AppendExchange(ctx, line, answer); err != nil {
			log.Printf("⚠️  Failed to save history: %v", err)
		}
		if questions, err := r.env.Store.LoadQuestions(); err == nil {
			r.env.Session.SetQueries(questions)
		}
	}
}

// expand runs a tool when the first word of line, ignoring "please", names
// one. The tool output becomes the question. Any other line is asked as typed.
func (r *repl) expand(ctx context.Context, line string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(line, "please", ""))
	verb, rest, _ := strings.Cut(cleaned, " ")
	verb = strings.ToLower(verb)
	reg := r.env.Session.Tools()
	if verb == "" || !reg.Has(verb) {
		return line
	}
	out := reg.Dispatch(ctx, verb, strings.TrimSpace(rest))
	fmt.Fprintln(r.out, shortcutStyle.Render(out))
	return out
}

func (r *repl) answer(ctx context.Context, question string) string {
	answer, err := r.agent.Ask(ctx, question)
	switch {
	case errors.Is(err, engine.ErrMaxSteps):
		log.Printf("⚠️  %v", err)
	case err != nil:
		log.Printf("error: %v", err)
	}
	answer = strings.TrimLeft(answer, " \t\n")
	fmt.Fprintf(r.out, "\n%s\n", engine.StyleAnswer.Render(answer))
	return answer
}
