package prompts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		pairs    []string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "Question: ${question}",
			pairs:    []string{"question", "why?"},
			want:     "Question: why?",
		},
		{
			name:     "only first occurrence",
			template: "${x} and ${x}",
			pairs:    []string{"x", "1"},
			want:     "1 and ${x}",
		},
		{
			name:     "applied in order",
			template: "${question} [${toolList}]",
			pairs:    []string{"question", "use ${toolList}", "toolList", "a, b"},
			want:     "use a, b [${toolList}]",
		},
		{
			name:     "unknown placeholder left alone",
			template: "${language}",
			pairs:    []string{"question", "q"},
			want:     "${language}",
		},
		{
			name:     "odd pair count ignores the tail",
			template: "${a}${b}",
			pairs:    []string{"a", "1", "b"},
			want:     "1${b}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.template, tt.pairs...); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuiltinsHavePlaceholders(t *testing.T) {
	r := NewPromptRegistry()
	RegisterBuiltins(r)

	react := r.Content(ReactID)
	for _, ph := range []string{"${question}", "${tools}", "${toolList}", "${language}"} {
		if !strings.Contains(react, ph) {
			t.Errorf("react template missing %s", ph)
		}
	}
	merge := r.Content(MergeID)
	for _, ph := range []string{"${question}", "${history}"} {
		if !strings.Contains(merge, ph) {
			t.Errorf("merge template missing %s", ph)
		}
	}
	if r.Content(PluginID) == "" {
		t.Error("plugin template is empty")
	}
}

func TestRegistryOverride(t *testing.T) {
	r := NewPromptRegistry()
	RegisterBuiltins(r)

	r.Override(ReactID, "custom ${question}")
	p, err := r.GetLatest(ReactID)
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if p.Content != "custom ${question}" {
		t.Errorf("Content = %q, want override", p.Content)
	}
	if p.Version != PromptV1 {
		t.Errorf("Version = %q, want %q", p.Version, PromptV1)
	}

	r.Override(ReactID, "")
	if r.Content(ReactID) != reactTemplate {
		t.Error("clearing the override did not restore the built-in")
	}

	if _, err := r.GetLatest("missing"); err == nil {
		t.Error("GetLatest(missing) expected error")
	}
}

func TestPromptBuilder(t *testing.T) {
	r := NewPromptRegistry()
	r.Register(&Prompt{ID: "t", Version: PromptV1, Content: "Q: ${question}"})

	b, err := NewPromptBuilder(r, "t")
	if err != nil {
		t.Fatalf("NewPromptBuilder() error = %v", err)
	}
	got := b.AddFragment("L: ${language}").
		SetVariable("question", "hi").
		SetVariable("language", "English").
		Build()
	if got != "Q: hi\n\nL: English" {
		t.Errorf("Build() = %q", got)
	}

	if _, err := NewPromptBuilder(r, "nope"); err == nil {
		t.Error("NewPromptBuilder(nope) expected error")
	}
}

func TestLoadDir(t *testing.T) {
	dir, err := os.MkdirTemp("", "prompts-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "merge.txt"), []byte("M ${history}"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewPromptRegistry()
	RegisterBuiltins(r)
	loaded, err := LoadDir(r, dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0] != MergeID {
		t.Errorf("loaded = %v, want [merge]", loaded)
	}
	if r.Content(MergeID) != "M ${history}" {
		t.Errorf("merge content = %q", r.Content(MergeID))
	}
	if r.Content(ReactID) != reactTemplate {
		t.Error("react template should be untouched")
	}
}

func TestTemplateWatcherReloads(t *testing.T) {
	dir, err := os.MkdirTemp("", "prompts-watch-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	r := NewPromptRegistry()
	RegisterBuiltins(r)

	tw, err := NewTemplateWatcher(r, dir)
	if err != nil {
		t.Fatalf("NewTemplateWatcher() error = %v", err)
	}
	reloaded := make(chan string, 4)
	tw.OnReload(func(id string) { reloaded <- id })
	if err := tw.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer tw.Stop()

	if err := os.WriteFile(filepath.Join(dir, "prompt.txt"), []byte("edited ${question}"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-reloaded:
			if r.Content(ReactID) == "edited ${question}" {
				return
			}
		case <-deadline:
			t.Fatalf("template not reloaded, content = %q", r.Content(ReactID))
		}
	}
}
