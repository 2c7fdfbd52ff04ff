package save

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		input    string
		contains []string
	}{
		{"code", KindCode, "console.log(1 < 2)", []string{"<pre><code>console.log(1 &lt; 2)</code></pre>", `<script type="module">console.log(1 < 2)</script>`}},
		{"css", KindCSS, "body { color: red }", []string{"<style>body { color: red }</style>"}},
		{"plain text", KindHTML, "hello world", []string{"<html><div>hello world</div>"}},
		{"html fragment", KindHTML, "<p>hi</p>", []string{"<p>hi</p>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(tt.kind, "slug", tt.input)
			require.NoError(t, err)
			assert.Contains(t, out, "<title>slug</title>")
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}

	doc := "<!DOCTYPE html><html><body>x</body></html>"
	out, err := Render(KindHTML, "slug", doc)
	require.NoError(t, err)
	assert.Equal(t, doc, out)

	_, err = Render("yaml", "slug", "x")
	assert.Error(t, err)
}

func TestSaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snippets")
	var opened string
	s := &Saver{Dir: dir, GUI: true, Open: func(url string) error { opened = url; return nil }}

	tools := s.Tools()
	require.Len(t, tools, 4)

	out, err := tools[3].Execute(context.Background(), "some text")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "The html was saved to "+dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	name := entries[0].Name()
	assert.True(t, strings.HasPrefix(name, "reactchain-"))
	assert.True(t, strings.HasSuffix(name, ".html"))

	body, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(body), "<div>some text</div>")
	assert.True(t, strings.HasPrefix(opened, "file://"))
	assert.True(t, strings.HasSuffix(opened, name))
}

func TestSaver_NoGUI(t *testing.T) {
	called := false
	s := &Saver{Dir: t.TempDir(), Open: func(string) error { called = true; return nil }}
	_, err := s.Save(KindCSS, "a{}")
	require.NoError(t, err)
	assert.False(t, called)
}
