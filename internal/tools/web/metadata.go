package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
)

// Metadata is what the metadata tool reports for a page.
type Metadata struct {
	URL         string            `yaml:"url"`
	Title       string            `yaml:"title,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Canonical   string            `yaml:"canonical,omitempty"`
	Language    string            `yaml:"language,omitempty"`
	OpenGraph   map[string]string `yaml:"opengraph,omitempty"`
	Twitter     map[string]string `yaml:"twitter,omitempty"`
	Meta        map[string]string `yaml:"meta,omitempty"`
}

// ExtractMetadata reads the title, description, canonical link and the
// OpenGraph and Twitter card properties of a page.
func ExtractMetadata(pageURL, src string) (*Metadata, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	md := &Metadata{
		URL:       pageURL,
		OpenGraph: map[string]string{},
		Twitter:   map[string]string{},
		Meta:      map[string]string{},
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "html":
				md.Language = attr(n, "lang")
			case "title":
				if md.Title == "" && n.FirstChild != nil {
					md.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "link":
				if strings.EqualFold(attr(n, "rel"), "canonical") {
					md.Canonical = attr(n, "href")
				}
			case "meta":
				name := strings.ToLower(attr(n, "property"))
				if name == "" {
					name = strings.ToLower(attr(n, "name"))
				}
				content := strings.TrimSpace(attr(n, "content"))
				if name == "" || content == "" {
					break
				}
				switch {
				case strings.HasPrefix(name, "og:"):
					md.OpenGraph[strings.TrimPrefix(name, "og:")] = content
				case strings.HasPrefix(name, "twitter:"):
					md.Twitter[strings.TrimPrefix(name, "twitter:")] = content
				case name == "description":
					md.Description = content
				case name == "author", name == "keywords", name == "generator", name == "theme-color":
					md.Meta[name] = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if md.Title == "" {
		md.Title = md.OpenGraph["title"]
	}
	if md.Description == "" {
		md.Description = md.OpenGraph["description"]
	}
	return md, nil
}

// NewMetadataTool returns the metadata tool: page metadata as YAML, also
// stored as the session's retrieved text.
func NewMetadataTool(sess *engine.Session, client *http.Client) engine.Tool {
	return engine.FuncTool{
		ToolName: "metadata",
		Desc:     "A tool used to retrieve metadata from a web page, including videos. Input should be in the form of a URL. The response will be in YAML format.",
		Fn: func(ctx context.Context, input string) (string, error) {
			url := CleanURL(input)
			resp, err := Get(ctx, client, url)
			if err != nil {
				return "", err
			}
			md, err := ExtractMetadata(url, string(resp.Body))
			if err != nil {
				return "No metadata found.", nil
			}
			out, err := yaml.Marshal(md)
			if err != nil {
				return "", err
			}
			return sess.SetRetrievedText(string(out)), nil
		},
	}
}
