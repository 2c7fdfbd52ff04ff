package docs

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/files"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/web"
)

// Documents backs the pdf and docx tools.
type Documents struct {
	Session *engine.Session
	Client  *http.Client
	Guard   *files.Guard
}

// download fetches url. On failure the second result is the observation to
// return instead.
func (d *Documents) download(ctx context.Context, url, what string) ([]byte, string) {
	resp, err := web.Get(ctx, d.Client, web.CleanURL(url))
	if err == nil {
		return resp.Body, ""
	}
	log.Printf("⚠️  %s: %v", url, err)
	if resp != nil {
		return nil, fmt.Sprintf("%s reading that %s.", resp.StatusLine(), what)
	}
	return nil, fmt.Sprintf("Error %v reading that %s.", err, what)
}

func (d *Documents) pdfText(data []byte) string {
	doc, err := ParsePDF(data)
	if err != nil {
		return fmt.Sprintf("Error %v processing that PDF.", err)
	}
	log.Printf("📄 Rendered %d pages", doc.Pages)
	if doc.Text == "" {
		return "No results."
	}
	return d.Session.SetRetrievedText(d.Session.Truncate(doc.Text))
}

func (d *Documents) docText(data []byte) string {
	text, err := DocxText(data)
	if err != nil {
		return fmt.Sprintf("Error %v processing that .docx file.", err)
	}
	if text == "" {
		return "No results."
	}
	return d.Session.SetRetrievedText(d.Session.Truncate(text))
}

// RetrievePDF is the retrievepdf tool.
func (d *Documents) RetrievePDF(ctx context.Context, url string) (string, error) {
	data, msg := d.download(ctx, url, "PDF")
	if data == nil {
		return msg, nil
	}
	return d.pdfText(data), nil
}

// PDFMetadata is the metadatapdf tool: page count and document info as YAML.
func (d *Documents) PDFMetadata(ctx context.Context, url string) (string, error) {
	data, msg := d.download(ctx, url, "PDF")
	if data == nil {
		return msg, nil
	}
	doc, err := ParsePDF(data)
	if err != nil {
		return fmt.Sprintf("Error %v processing that PDF.", err), nil
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RetrieveDoc is the retrievedoc tool.
func (d *Documents) RetrieveDoc(ctx context.Context, url string) (string, error) {
	data, msg := d.download(ctx, url, ".docx file")
	if data == nil {
		return msg, nil
	}
	return d.docText(data), nil
}

// ReadPDF is the readpdf tool.
func (d *Documents) ReadPDF(ctx context.Context, path string) (string, error) {
	data, err := d.Guard.ReadFile(web.CleanURL(path))
	if err != nil {
		return err.Error(), nil
	}
	return d.pdfText(data), nil
}

// ReadDoc is the readdoc tool.
func (d *Documents) ReadDoc(ctx context.Context, path string) (string, error) {
	data, err := d.Guard.ReadFile(web.CleanURL(path))
	if err != nil {
		return err.Error(), nil
	}
	return d.docText(data), nil
}

// Tools returns the five document tools.
func (d *Documents) Tools() []engine.Tool {
	return []engine.Tool{
		engine.FuncTool{
			ToolName: "retrievepdf",
			Desc:     "A tool used to read online PDFs by URL. The result is the contents of the given PDF in plain text form.",
			Fn:       d.RetrievePDF,
		},
		engine.FuncTool{
			ToolName: "metadatapdf",
			Desc:     "A tool used to read online PDFs by URL. The result is the metadata from the given PDF, including the number of pages and author, in plain text form.",
			Fn:       d.PDFMetadata,
		},
		engine.FuncTool{
			ToolName: "retrievedoc",
			Desc:     "A tool used to read online Microsoft .docx files by URL. The result is the contents of the given .docx file in plain text form.",
			Fn:       d.RetrieveDoc,
		},
		engine.FuncTool{
			ToolName: "readpdf",
			Desc:     "A tool used to read PDF files only from the local filesystem we share. The result is the contents of the given PDF in plain text form.",
			Fn:       d.ReadPDF,
		},
		engine.FuncTool{
			ToolName: "readdoc",
			Desc:     "A tool used to read .docx files only from the local filesystem we share. The result is the contents of the given .docx file in plain text form.",
			Fn:       d.ReadDoc,
		},
	}
}
