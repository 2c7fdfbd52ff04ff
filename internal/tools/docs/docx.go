package docs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// DocxText returns the paragraphs of a .docx file as plain text separated by
// blank lines. Tables are rendered as markdown tables.
func DocxText(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a .docx file: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			sb.WriteString(it.String())
		case *docx.Table:
			sb.WriteString(it.String())
		default:
			continue
		}
		sb.WriteString("\n\n")
	}
	return cleanText(sb.String()), nil
}
