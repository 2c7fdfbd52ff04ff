// Package docs extracts text from PDF and Word documents, fetched by URL or
// read from the local filesystem.
package docs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF is the extracted content of a PDF file.
type PDF struct {
	Pages int               `yaml:"pages"`
	Info  map[string]string `yaml:"info,omitempty"`
	Text  string            `yaml:"-"`
}

// ParsePDF extracts the text and document information of data. The pdf
// reader panics on some malformed input; that is reported as an error.
func ParsePDF(data []byte) (doc *PDF, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	doc = &PDF{
		Pages: r.NumPage(),
		Info:  pdfInfo(r.Trailer().Key("Info")),
	}

	fonts := make(map[string]*pdf.Font)
	var sb strings.Builder
	for i := 1; i <= doc.Pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	doc.Text = cleanText(sb.String())
	return doc, nil
}

func pdfInfo(info pdf.Value) map[string]string {
	keys := info.Keys()
	if len(keys) == 0 {
		return nil
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v := info.Key(k)
		switch v.Kind() {
		case pdf.String:
			out[k] = v.Text()
		case pdf.Name:
			out[k] = v.Name()
		case pdf.Integer, pdf.Real, pdf.Bool:
			out[k] = v.String()
		}
	}
	return out
}

// cleanText collapses double spaces and runs of blank lines.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "  ", " ")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s)
}
