package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBingEndpoint is the Bing Web Search v7 endpoint.
const DefaultBingEndpoint = "https://api.bing.microsoft.com/v7.0/search"

type bingValue struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Snippet     string `json:"snippet"`
	URL         string `json:"url"`
	ContentURL  string `json:"contentUrl"`
}

type bingResponse struct {
	Images   struct{ Value []bingValue } `json:"images"`
	Videos   struct{ Value []bingValue } `json:"videos"`
	WebPages struct{ Value []bingValue } `json:"webPages"`
}

// Search queries Bing. It needs an API key; without one Init disables it.
type Search struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
}

func (s *Search) Name() string { return "search" }
func (s *Search) Description() string {
	return "A search engine. Useful for when you need to answer questions about current events or retrieve in-depth answers. Input should be a search query."
}

// Init declines when no API key is configured.
func (s *Search) Init(ctx context.Context) bool {
	return s.APIKey != ""
}

// Execute runs the query and formats images, videos and web pages as hints
// naming the tool that can follow each result up.
func (s *Search) Execute(ctx context.Context, query string) (string, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultBingEndpoint
	}
	target := endpoint + "?q=" + url.QueryEscape(strings.TrimSpace(query))
	resp, err := Fetch(ctx, s.Client, http.MethodGet, target, map[string]string{
		"Ocp-Apim-Subscription-Key": s.APIKey,
	}, nil)
	if err != nil {
		return "", err
	}

	var res bingResponse
	if resp.OK() {
		if err := json.Unmarshal(resp.Body, &res); err != nil {
			return "", fmt.Errorf("decode search results: %w", err)
		}
	} else {
		log.Printf("⚠️  search: %s", resp.StatusLine())
	}
	return formatResults(res), nil
}

// formatResults renders search hits the way the prompt expects them.
func formatResults(res bingResponse) string {
	var sb strings.Builder
	hits := 0
	sb.WriteString("Results:\n")
	for _, v := range res.Images.Value {
		hits++
		fmt.Fprintf(&sb, "%s:\n%s\nTo retrieve, use this URL %s with the image tool.\n", v.Name, v.Description, v.ContentURL)
	}
	for _, v := range res.Videos.Value {
		hits++
		fmt.Fprintf(&sb, "%s:\n%s\nTo retrieve, use this URL: %s with the video tool.\n", v.Name, v.Description, v.ContentURL)
	}
	for _, v := range res.WebPages.Value {
		hits++
		lower := strings.ToLower(v.URL)
		tool := "retrieve"
		switch {
		case strings.Contains(lower, ".pdf"):
			tool = "retrievepdf"
		case strings.Contains(lower, ".docx"):
			tool = "retrievedoc"
		}
		fmt.Fprintf(&sb, "%s:\n%s\nFor further details, %s this URL: %s\n", v.Name, v.Snippet, tool, v.URL)
	}
	if hits == 0 {
		sb.WriteString("None found.")
	}
	sb.WriteString("\nEnd of results.")
	return sb.String()
}
