package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

// GraphQLAPIsURL lists public GraphQL endpoints.
const GraphQLAPIsURL = "https://raw.githubusercontent.com/graphql-kit/graphql-apis/master/README.md"

// Retriever backs the retrieve, pagesource and findgraphql tools.
type Retriever struct {
	Session *engine.Session
	Client  *http.Client
}

// delegate picks the tool that handles a document URL better than HTML
// conversion would.
func delegate(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".pdf"):
		return "retrievepdf"
	case strings.Contains(lower, ".docx"):
		return "retrievedoc"
	case strings.Contains(lower, ".svg"):
		return "image"
	}
	return ""
}

// Retrieve fetches url and returns its text, converted to markdown unless
// raw is set. The result is truncated to the token budget and kept as the
// session's retrieved text.
func (r *Retriever) Retrieve(ctx context.Context, url string, raw bool) (string, error) {
	url = CleanURL(url)
	if !raw {
		if tool := delegate(url); tool != "" {
			return r.Session.Tools().Dispatch(ctx, tool, url), nil
		}
	}

	resp, err := Get(ctx, r.Client, url)
	if err != nil {
		return "", err
	}
	text := string(resp.Body)
	if !raw && looksLikeHTML(resp.ContentType, text) {
		md, err := ToMarkdown(text)
		if err != nil {
			return "", err
		}
		text = md
	}
	return r.Session.SetRetrievedText(r.Session.Truncate(text)), nil
}

func looksLikeHTML(contentType, body string) bool {
	if strings.Contains(contentType, "html") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html")
}

// NewRetrieveTool returns the retrieve tool.
func NewRetrieveTool(r *Retriever) engine.Tool {
	return engine.FuncTool{
		ToolName: "retrieve",
		Desc:     "A URL retrieval tool. Useful for returning the plain text of a web site from its URL. Javascript is not supported. Input should be in the form of an absolute URL. If using Wikipedia, always use https://simple.wikipedia.org in preference to https://en.wikipedia.org",
		Fn: func(ctx context.Context, input string) (string, error) {
			return r.Retrieve(ctx, input, false)
		},
	}
}

// NewPageSourceTool returns the pagesource tool.
func NewPageSourceTool(r *Retriever) engine.Tool {
	return engine.FuncTool{
		ToolName: "pagesource",
		Desc:     "A URL retrieval tool. Useful for returning the source HTML of a web site from its URL. Javascript is not supported. Input should be in the form of an absolute URL.",
		Fn: func(ctx context.Context, input string) (string, error) {
			return r.Retrieve(ctx, input, true)
		},
	}
}

// NewFindGraphQLTool returns the findgraphql tool.
func NewFindGraphQLTool(r *Retriever, listURL string) engine.Tool {
	if listURL == "" {
		listURL = GraphQLAPIsURL
	}
	return engine.FuncTool{
		ToolName: "findgraphql",
		Desc:     "A tool used to locate public GraphQL endpoints. The result is a table of public GraphQL endpoints in markdown format. The table contains the API identifier, the description, the GraphiQL URL from which the endpoint can be derived and a documentation / Github repository link.",
		Fn: func(ctx context.Context, _ string) (string, error) {
			return r.Retrieve(ctx, listURL, false)
		},
	}
}
