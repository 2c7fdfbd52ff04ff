package web

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// skipped elements are dropped with their content.
var skipped = map[string]bool{
	"aside": true, "script": true, "style": true, "frame": true, "iframe": true,
	"applet": true, "audio": true, "canvas": true, "datagrid": true, "table": true,
	"noscript": true, "svg": true, "head": true, "template": true,
}

var blockElements = map[string]bool{
	"div": true, "p": true, "section": true, "article": true, "header": true,
	"footer": true, "nav": true, "main": true, "ul": true, "ol": true,
	"blockquote": true, "form": true, "fieldset": true, "figure": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"dl": true, "dt": true, "dd": true, "hr": true,
}

var (
	spaceRun   = regexp.MustCompile(`[ \t\r\n\f]+`)
	blankLines = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
)

// ToMarkdown converts an HTML document to markdown text. Links, images,
// headings, emphasis, lists and preformatted blocks are kept.
func ToMarkdown(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	var sb strings.Builder
	w := &mdWriter{sb: &sb}
	w.node(doc)
	out := blankLines.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out), nil
}

type mdWriter struct {
	sb    *strings.Builder
	pre   int
	lists []listState
}

type listState struct {
	ordered bool
	n       int
}

func (w *mdWriter) block() {
	s := w.sb.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	if strings.HasSuffix(s, "\n") {
		w.sb.WriteString("\n")
		return
	}
	w.sb.WriteString("\n\n")
}

func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

func (w *mdWriter) text(n *html.Node) string {
	var sb strings.Builder
	sub := &mdWriter{sb: &sb, pre: w.pre}
	sub.children(n)
	return strings.TrimSpace(sb.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func (w *mdWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if w.pre > 0 {
			w.sb.WriteString(n.Data)
			return
		}
		t := spaceRun.ReplaceAllString(n.Data, " ")
		if strings.TrimSpace(t) == "" {
			s := w.sb.String()
			if s != "" && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
				w.sb.WriteString(" ")
			}
			return
		}
		w.sb.WriteString(t)
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	tag := strings.ToLower(n.Data)
	if skipped[tag] {
		return
	}

	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.block()
		w.sb.WriteString(strings.Repeat("#", int(tag[1]-'0')) + " " + w.text(n))
		w.block()
	case "br":
		w.sb.WriteString("\n")
	case "hr":
		w.block()
		w.sb.WriteString("---")
		w.block()
	case "pre":
		w.block()
		w.sb.WriteString("```\n")
		w.pre++
		w.children(n)
		w.pre--
		if !strings.HasSuffix(w.sb.String(), "\n") {
			w.sb.WriteString("\n")
		}
		w.sb.WriteString("```")
		w.block()
	case "code":
		if w.pre > 0 {
			w.children(n)
			return
		}
		w.sb.WriteString("`" + w.text(n) + "`")
	case "strong", "b":
		if t := w.text(n); t != "" {
			w.sb.WriteString("**" + t + "**")
		}
	case "em", "i":
		if t := w.text(n); t != "" {
			w.sb.WriteString("_" + t + "_")
		}
	case "del", "s", "strike":
		if t := w.text(n); t != "" {
			w.sb.WriteString("~~" + t + "~~")
		}
	case "a":
		t := w.text(n)
		href := attr(n, "href")
		if href == "" || strings.HasPrefix(href, "javascript:") {
			w.sb.WriteString(t)
			return
		}
		if t == "" {
			t = href
		}
		w.sb.WriteString("[" + t + "](" + href + ")")
	case "img":
		if src := attr(n, "src"); src != "" {
			w.sb.WriteString("![" + attr(n, "alt") + "](" + src + ")")
		}
	case "ul", "ol":
		w.block()
		w.lists = append(w.lists, listState{ordered: tag == "ol"})
		w.children(n)
		w.lists = w.lists[:len(w.lists)-1]
		w.block()
	case "li":
		if !strings.HasSuffix(w.sb.String(), "\n") && w.sb.Len() > 0 {
			w.sb.WriteString("\n")
		}
		depth := len(w.lists)
		marker := "- "
		if depth > 0 {
			l := &w.lists[depth-1]
			l.n++
			if l.ordered {
				marker = fmt.Sprintf("%d. ", l.n)
			}
			w.sb.WriteString(strings.Repeat("  ", depth-1))
		}
		w.sb.WriteString(marker + w.text(n) + "\n")
	case "blockquote":
		w.block()
		for _, line := range strings.Split(w.text(n), "\n") {
			w.sb.WriteString("> " + line + "\n")
		}
		w.block()
	default:
		if blockElements[tag] {
			w.block()
			w.children(n)
			w.block()
			return
		}
		w.children(n)
	}
}
