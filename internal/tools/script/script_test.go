package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/sandbox"
)

// fakeRunner records the files the tool wrote and replays a canned result.
type fakeRunner struct {
	isolated bool
	result   sandbox.Result
	err      error

	files map[string]string
	name  string
	args  []string
}

func (f *fakeRunner) RunCmd(ctx context.Context, workDir, name string, args []string, timeout time.Duration) (sandbox.Result, error) {
	f.name, f.args = name, args
	f.files = map[string]string{}
	entries, _ := os.ReadDir(workDir)
	for _, e := range entries {
		b, _ := os.ReadFile(filepath.Join(workDir, e.Name()))
		f.files[e.Name()] = string(b)
	}
	return f.result, f.err
}

func (f *fakeRunner) Isolated() bool { return f.isolated }

func newSession() *engine.Session {
	b := engine.NewBudgeter(engine.DefaultBudgetConfig(), "", nil)
	b.Tokenizer = engine.DefaultTokenizer{}
	return engine.NewSession(nil, b)
}

func marked(json string) string {
	return "console output\n" + resultMarker + json + "\n"
}

func TestScript_Response(t *testing.T) {
	sess := newSession()
	sess.SetPrompt("what is up")
	sess.SetRetrievedText("it's \"quoted\"")
	r := &fakeRunner{isolated: true, result: sandbox.Result{Stdout: marked(`{"response":"42"}`)}}
	s := &Script{Session: sess, Runner: r}

	out, err := s.Execute(context.Background(), "chatResponse = String(6*7);")
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	assert.Equal(t, "node", r.name)
	assert.Equal(t, []string{"main.mjs"}, r.args)
	assert.Equal(t, "chatResponse = String(6*7);", r.files["script.mjs"])
	assert.Contains(t, r.files["globals.mjs"], `globalThis.prompt = "what is up";`)
	assert.Contains(t, r.files["globals.mjs"], `retrievedText: "it's \"quoted\""`)
	assert.Contains(t, r.files["main.mjs"], "import('./script.mjs')")
}

func TestScript_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		result sandbox.Result
		err    error
		want   string
	}{
		{"empty response", sandbox.Result{Stdout: marked(`{"response":""}`)}, nil, "No results."},
		{"syntax error", sandbox.Result{Stdout: marked(`{"error":"Unexpected token","parse":true}`)}, nil, "Parsing your script threw an error: Unexpected token"},
		{"runtime error", sandbox.Result{Stdout: marked(`{"error":"x is not defined"}`)}, nil, "Running your script threw an error: x is not defined"},
		{"crash", sandbox.Result{Stderr: "out of memory\n", Code: 137}, errors.New("exit status 137"), "Running your script threw an error: out of memory"},
		{"timeout", sandbox.Result{TimedOut: true}, context.DeadlineExceeded, "Running your script threw an error: it took too long."},
		{"no marker", sandbox.Result{Stdout: "hello\n"}, nil, "No results."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Script{Session: newSession(), Runner: &fakeRunner{isolated: true, result: tt.result, err: tt.err}}
			out, err := s.Execute(context.Background(), "export default () => 1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestScript_Init(t *testing.T) {
	ctx := context.Background()
	assert.False(t, (&Script{}).Init(ctx))
	assert.True(t, (&Script{Runner: &fakeRunner{isolated: true}}).Init(ctx))

	missing := func(string) (string, error) { return "", errors.New("not found") }
	found := func(string) (string, error) { return "/usr/bin/node", nil }
	assert.False(t, (&Script{Runner: &fakeRunner{}, LookPath: missing}).Init(ctx))
	assert.True(t, (&Script{Runner: &fakeRunner{}, LookPath: found}).Init(ctx))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1 + 2", "3"},
		{"7 / 2", "3.5"},
		{"2 ** 10", "1024"},
		{"2 + 3 * 4", "14"},
		{"sqrt(16)", "4"},
		{"sqrt(16.0)", "4"},
		{"pow(2, 3)", "8"},
		{"pow(2, 10)", "1024"},
		{"exp(0)", "1"},
		{"round(PI * 100) / 100", "3.14"},
		{"cos(0)", "1"},
		{"3 > 2", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Evaluate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Evaluate("")
	assert.Error(t, err)
}

func TestCalculatorTool(t *testing.T) {
	calc := NewCalculatorTool()
	out, err := calc.Execute(context.Background(), "10 * 4 + 2")
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	out, err = calc.Execute(context.Background(), "sqrt(81) + 1")
	require.NoError(t, err)
	assert.Equal(t, "10", out)

	out, err = calc.Execute(context.Background(), "what is love")
	require.NoError(t, err)
	assert.Empty(t, out)
}
