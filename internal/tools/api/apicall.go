package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/web"
)

// Call is a parsed apicall input.
type Call struct {
	Method  string
	URL     string
	Headers map[string]string
}

// ParseCall parses "METHOD:url#{json headers}". A URL that does not start
// with http is appended to base.
func ParseCall(input, base string) (*Call, error) {
	method, rest, ok := strings.Cut(strings.TrimSpace(input), ":")
	if !ok {
		return nil, fmt.Errorf("input should be METHOD:url")
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return nil, fmt.Errorf("missing HTTP method")
	}

	rest = strings.TrimSpace(rest)
	path, hdrs, _ := strings.Cut(rest, "#")
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "http") {
		path = base + path
	}

	c := &Call{Method: method, URL: path, Headers: map[string]string{}}
	if strings.TrimSpace(hdrs) != "" {
		var raw map[string]any
		if err := decodeJSON([]byte(hdrs), &raw); err != nil {
			log.Printf("⚠️  apicall: could not parse headers map JSON: %v", err)
		}
		for k, v := range raw {
			c.Headers[k] = fmt.Sprint(v)
		}
	}
	if _, ok := c.Headers["Accept"]; !ok {
		if _, ok := c.Headers["accept"]; !ok {
			c.Headers["accept"] = "application/json"
		}
	}
	return c, nil
}

func isXML(contentType, body string) bool {
	return strings.HasPrefix(body, "<") ||
		strings.Contains(contentType, "/xml") ||
		strings.Contains(contentType, "+xml")
}

// APICall backs the apicall tool.
type APICall struct {
	Session *engine.Session
	Client  *http.Client
}

// Execute calls the endpoint and renders the response as YAML. A non-2xx
// status is reported as "<status> - <status text>".
func (a *APICall) Execute(ctx context.Context, input string) (string, error) {
	call, err := ParseCall(input, a.Session.APIBase())
	if err != nil {
		return "", err
	}
	log.Printf("🌐 Using the %s method to call the %s endpoint", call.Method, call.URL)

	resp, err := web.Fetch(ctx, a.Client, call.Method, call.URL, call.Headers, nil)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", call.Method, call.URL, err)
	}
	if !resp.OK() {
		return resp.StatusLine(), nil
	}

	body := string(resp.Body)
	var value any
	if isXML(resp.ContentType, body) {
		value, err = xmlToValue(body)
	} else if strings.TrimSpace(body) != "" {
		err = decodeJSON(resp.Body, &value)
	}
	if err != nil {
		// Not a structured payload; hand back the text itself.
		return a.Session.Truncate(body), nil
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return "", err
	}
	return a.Session.Truncate(string(out)), nil
}

// NewAPICallTool returns the apicall tool.
func NewAPICallTool(a *APICall) engine.Tool {
	return engine.FuncTool{
		ToolName: "apicall",
		Desc:     "A tool used to call a known API endpoint. Input should be in the form of an HTTP method in capital letters, followed by a colon (:) and the URL to call, made up of the relevant servers object entry and the selected operation's pathitem object key, having already replaced the templated path parameters. Headers should be provided after a # sign in the form of a JSON object of key/value pairs.",
		Fn:       a.Execute,
	}
}
