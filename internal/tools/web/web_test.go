package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

func newSession(tools ...engine.Tool) *engine.Session {
	reg := engine.NewToolRegistry()
	for _, t := range tools {
		reg.Register(t)
	}
	budget := engine.NewBudgeter(engine.DefaultBudgetConfig(), "", nil)
	budget.Tokenizer = engine.DefaultTokenizer{}
	return engine.NewSession(reg, budget)
}

func TestToMarkdown(t *testing.T) {
	src := `<html><head><title>T</title><style>p{}</style></head><body>
<h1>Hello</h1>
<p>Some <b>bold</b> and <em>soft</em> text with a <a href="https://x.test/a">link</a>.</p>
<script>alert(1)</script>
<ul><li>one</li><li>two</li></ul>
<ol><li>first</li><li>second</li></ol>
<pre><code>x := 1
y := 2</code></pre>
<table><tr><td>dropped</td></tr></table>
<img src="https://x.test/i.png" alt="pic">
</body></html>`

	md, err := ToMarkdown(src)
	require.NoError(t, err)

	assert.Contains(t, md, "# Hello")
	assert.Contains(t, md, "Some **bold** and _soft_ text with a [link](https://x.test/a).")
	assert.Contains(t, md, "- one\n- two")
	assert.Contains(t, md, "1. first\n2. second")
	assert.Contains(t, md, "```\nx := 1\ny := 2\n```")
	assert.Contains(t, md, "![pic](https://x.test/i.png)")
	assert.NotContains(t, md, "alert")
	assert.NotContains(t, md, "dropped")
	assert.NotContains(t, md, "p{}")
	assert.NotContains(t, md, "\n\n\n")
}

func TestExtractMetadata(t *testing.T) {
	src := `<html lang="en"><head>
<title> Page </title>
<meta name="description" content="About things">
<meta property="og:image" content="https://x.test/og.png">
<meta name="twitter:card" content="summary">
<meta name="author" content="Ann">
<link rel="canonical" href="https://x.test/">
</head></html>`
	md, err := ExtractMetadata("https://x.test/page", src)
	require.NoError(t, err)
	assert.Equal(t, "Page", md.Title)
	assert.Equal(t, "About things", md.Description)
	assert.Equal(t, "en", md.Language)
	assert.Equal(t, "https://x.test/", md.Canonical)
	assert.Equal(t, "https://x.test/og.png", md.OpenGraph["image"])
	assert.Equal(t, "summary", md.Twitter["card"])
	assert.Equal(t, "Ann", md.Meta["author"])
}

func TestMetadataTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Hi</title></head></html>`)
	}))
	defer srv.Close()

	sess := newSession()
	out, err := NewMetadataTool(sess, srv.Client()).Execute(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "title: Hi")
	assert.Equal(t, out, sess.RetrievedText())
}

func TestSearch(t *testing.T) {
	var key, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Ocp-Apim-Subscription-Key")
		query = r.URL.Query().Get("q")
		fmt.Fprint(w, `{
			"images": {"value": [{"name": "Cat", "description": "a cat", "contentUrl": "https://x.test/cat.png"}]},
			"webPages": {"value": [
				{"name": "Doc", "snippet": "pdf", "url": "https://x.test/paper.pdf"},
				{"name": "Word", "snippet": "docx", "url": "https://x.test/a.docx"},
				{"name": "Home", "snippet": "html", "url": "https://x.test/"}
			]}
		}`)
	}))
	defer srv.Close()

	s := &Search{APIKey: "k", Endpoint: srv.URL, Client: srv.Client()}
	assert.True(t, s.Init(context.Background()))

	out, err := s.Execute(context.Background(), "cats and dogs")
	require.NoError(t, err)
	assert.Equal(t, "k", key)
	assert.Equal(t, "cats and dogs", query)
	assert.True(t, strings.HasPrefix(out, "Results:\n"))
	assert.Contains(t, out, "To retrieve, use this URL https://x.test/cat.png with the image tool.")
	assert.Contains(t, out, "For further details, retrievepdf this URL: https://x.test/paper.pdf")
	assert.Contains(t, out, "For further details, retrievedoc this URL: https://x.test/a.docx")
	assert.Contains(t, out, "For further details, retrieve this URL: https://x.test/")
	assert.True(t, strings.HasSuffix(out, "\nEnd of results."))
}

func TestSearch_NoKeyDeclines(t *testing.T) {
	s := &Search{}
	assert.False(t, s.Init(context.Background()))
}

func TestSearch_NoHits(t *testing.T) {
	assert.Equal(t, "Results:\nNone found.\nEnd of results.", formatResults(bingResponse{}))
}

func TestRetrieve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><h2>Title</h2><p>Body text</p></body></html>`)
	}))
	defer srv.Close()

	sess := newSession()
	r := &Retriever{Session: sess, Client: srv.Client()}

	out, err := NewRetrieveTool(r).Execute(context.Background(), `"`+srv.URL+`"`)
	require.NoError(t, err)
	assert.Equal(t, "## Title\n\nBody text", out)
	assert.Equal(t, out, sess.RetrievedText())

	out, err = NewPageSourceTool(r).Execute(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "<h2>Title</h2>")
}

func TestRetrieve_DelegatesDocuments(t *testing.T) {
	var got string
	pdf := engine.FuncTool{ToolName: "retrievepdf", Desc: "pdf", Fn: func(ctx context.Context, input string) (string, error) {
		got = input
		return "pdf text", nil
	}}
	sess := newSession(pdf)
	r := &Retriever{Session: sess}

	out, err := r.Retrieve(context.Background(), "https://x.test/paper.PDF", false)
	require.NoError(t, err)
	assert.Equal(t, "pdf text", out)
	assert.Equal(t, "https://x.test/paper.PDF", got)
}

func TestRetrieve_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r := &Retriever{Session: newSession(), Client: srv.Client()}
	_, err := r.Retrieve(context.Background(), srv.URL, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404 - Not Found")
}

func TestDisplay(t *testing.T) {
	var buf bytes.Buffer
	d := &Display{Out: &buf}
	out, err := NewImageTool(d).Execute(context.Background(), "https://x.test/a.png")
	require.NoError(t, err)
	assert.Equal(t, "The image was displayed successfully in the terminal.", out)
	assert.Contains(t, buf.String(), "https://x.test/a.png")

	var opened string
	gui := &Display{GUI: true, Open: func(url string) error { opened = url; return nil }}
	out, err = NewVideoTool(gui).Execute(context.Background(), " https://x.test/v.mp4 ")
	require.NoError(t, err)
	assert.Equal(t, "The video was displayed successfully in the browser.", out)
	assert.Equal(t, "https://x.test/v.mp4", opened)

	_, err = d.Show(engine.MediaImage, "  ")
	assert.Error(t, err)
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t, "https://x.test", CleanURL(` "https://x.test" `))
	assert.Equal(t, "https://x.test", CleanURL(`'https://x.test'`))
	assert.Equal(t, "https://x.test", CleanURL(`\"https://x.test\"`))
}
