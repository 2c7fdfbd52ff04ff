// Package save writes model output to standalone HTML preview pages.
package save

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

// Kind selects how a snippet is embedded in the page.
type Kind string

const (
	KindCode Kind = "code"
	KindCSS  Kind = "css"
	KindHTML Kind = "html"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .CSS}}
<style>{{.CSS}}</style>
{{- end}}
</head>
<body>
{{- if .HTML}}
{{.HTML}}
{{- else}}
<pre><code>{{.Source}}</code></pre>
{{- end}}
{{- if .JS}}
<script type="module">{{.JS}}</script>
{{- end}}
</body>
</html>
`))

type pageData struct {
	Title  string
	Source string
	CSS    template.CSS
	JS     template.JS
	HTML   template.HTML
}

// Saver writes snippets to Dir, opening them in the browser when GUI is set.
type Saver struct {
	Dir  string
	GUI  bool
	Open func(url string) error
}

// Render builds the preview page for a snippet.
func Render(kind Kind, title, input string) (string, error) {
	data := pageData{Title: title, Source: input}
	switch kind {
	case KindCode:
		data.JS = template.JS(input)
	case KindCSS:
		data.CSS = template.CSS(input)
	case KindHTML:
		if !strings.HasPrefix(strings.TrimSpace(input), "<") {
			input = fmt.Sprintf("<html><div>%s</div>", input)
		}
		// a full document is saved as written
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "<!doctype") {
			return input, nil
		}
		data.HTML = template.HTML(input)
	default:
		return "", fmt.Errorf("unknown snippet kind %q", kind)
	}
	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Save writes the snippet and returns the file path.
func (s *Saver) Save(kind Kind, input string) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snippet dir: %w", err)
	}
	slug := "reactchain-" + uuid.NewString()
	body, err := Render(kind, slug, input)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, slug+".html")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("write snippet: %w", err)
	}
	log.Printf("💾 Saved %s snippet to %s", kind, path)

	if s.GUI && s.Open != nil {
		if abs, err := filepath.Abs(path); err == nil {
			if err := s.Open("file://" + filepath.ToSlash(abs)); err != nil {
				log.Printf("⚠️  open browser: %v", err)
			}
		}
	}
	return path, nil
}

func (s *Saver) tool(name, desc string, kind Kind) engine.Tool {
	return engine.FuncTool{
		ToolName: name,
		Desc:     desc,
		Fn: func(ctx context.Context, input string) (string, error) {
			path, err := s.Save(kind, input)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("The %s was saved to %s.", kind, path), nil
		},
	}
}

// Tools returns savecode, savehtml, savecss and savetext.
func (s *Saver) Tools() []engine.Tool {
	return []engine.Tool{
		s.tool("savecode", "A tool used to save a javascript snippet and open it in a browser. Input should be in the form of the javascript to save in plain text.", KindCode),
		s.tool("savehtml", "A tool used to save a html text and open it in a browser. Input should be in the form of the html to save in plain text.", KindHTML),
		s.tool("savecss", "A tool used to save CSS/SCSS/SASS stylesheets and open them in a browser. Input should be in the form of the stylesheet to save in plain text.", KindCSS),
		s.tool("savetext", "A tool used to save a some text and open it in a browser. Input should be in the form of the text to save.", KindHTML),
	}
}
