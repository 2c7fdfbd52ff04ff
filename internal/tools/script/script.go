// Package script evaluates model-written code: JavaScript modules in the
// sandbox and arithmetic in the calculator.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/sandbox"
)

// resultMarker prefixes the line the harness writes with the script result.
const resultMarker = "\x1eREACTCHAIN_RESULT "

// harness runs the model's module after the globals are in place. Static
// imports are hoisted, so the globals live in their own module.
const harness = `import './globals.mjs';
let payload;
try {
  const mod = await import('./script.mjs');
  let out;
  if (typeof mod.default === 'function') out = await mod.default();
  const response = globalThis.chatResponse || (out === undefined || out === null ? '' : String(out));
  payload = { response };
} catch (err) {
  payload = { error: String(err && err.message || err), parse: err instanceof SyntaxError };
}
process.stdout.write('\n` + "\x1e" + `REACTCHAIN_RESULT ' + JSON.stringify(payload) + '\n');
`

type scriptResult struct {
	Response string `json:"response"`
	Error    string `json:"error"`
	Parse    bool   `json:"parse"`
}

// Script runs JavaScript modules with Node through a sandbox runner. The
// module sees the globals prompt, chatEnvironment.retrievedText and
// chatResponse.
type Script struct {
	Session *engine.Session
	Runner  sandbox.Runner
	Timeout time.Duration
	// LookPath finds node for host runners. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

func (s *Script) Name() string { return "script" }
func (s *Script) Description() string {
	return "An ECMAScript/Javascript execution sandbox. Use this to evaluate Javascript programs. You do not need to use this tool just to have output displayed. The input should be in the form of a self-contained Javascript module (esm), which has an IIFE (Immediately Invoked Function Expression), or a default export function. To return text, assign it to the pre-existing global variable chatResponse. Do not redefine the chatResponse variable. You have access to global variables prompt and chatEnvironment.retrievedText Do not attempt to break out of the sandbox."
}

// Init declines without a runner, or when a host runner has no node binary.
func (s *Script) Init(ctx context.Context) bool {
	if s.Runner == nil {
		return false
	}
	if s.Runner.Isolated() {
		return true
	}
	look := s.LookPath
	if look == nil {
		look = exec.LookPath
	}
	_, err := look("node")
	return err == nil
}

func globalsModule(prompt, retrieved string) (string, error) {
	p, err := json.Marshal(prompt)
	if err != nil {
		return "", err
	}
	r, err := json.Marshal(retrieved)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("globalThis.prompt = %s;\nglobalThis.chatEnvironment = { retrievedText: %s };\nglobalThis.chatResponse = '';\n", p, r), nil
}

// Execute writes the module to a scratch directory and runs it.
func (s *Script) Execute(ctx context.Context, source string) (string, error) {
	dir, err := os.MkdirTemp("", "reactchain-script-")
	if err != nil {
		return "", fmt.Errorf("create script dir: %w", err)
	}
	defer os.RemoveAll(dir)
	// The container user is not the directory owner.
	if err := os.Chmod(dir, 0755); err != nil {
		return "", err
	}

	globals, err := globalsModule(s.Session.Prompt(), s.Session.RetrievedText())
	if err != nil {
		return "", err
	}
	files := map[string]string{
		"globals.mjs": globals,
		"script.mjs":  source,
		"main.mjs":    harness,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}

	log.Println("⚙️  Evaluating script...")
	res, runErr := s.Runner.RunCmd(ctx, dir, "node", []string{"main.mjs"}, s.Timeout)
	if res.TimedOut {
		return "Running your script threw an error: it took too long.", nil
	}

	out, ok := parseResult(res.Stdout)
	if !ok {
		if runErr != nil {
			msg := strings.TrimSpace(res.Stderr)
			if msg == "" {
				msg = runErr.Error()
			}
			return fmt.Sprintf("Running your script threw an error: %s", msg), nil
		}
		return "No results.", nil
	}
	switch {
	case out.Error != "" && out.Parse:
		return fmt.Sprintf("Parsing your script threw an error: %s", out.Error), nil
	case out.Error != "":
		return fmt.Sprintf("Running your script threw an error: %s", out.Error), nil
	case out.Response == "":
		return "No results.", nil
	}
	return out.Response, nil
}

// parseResult finds the harness line in stdout. Output the script printed
// itself is ignored.
func parseResult(stdout string) (scriptResult, bool) {
	var res scriptResult
	i := strings.LastIndex(stdout, resultMarker)
	if i < 0 {
		return res, false
	}
	line := stdout[i+len(resultMarker):]
	if j := strings.IndexByte(line, '\n'); j >= 0 {
		line = line[:j]
	}
	if err := json.Unmarshal([]byte(line), &res); err != nil {
		return res, false
	}
	return res, true
}
