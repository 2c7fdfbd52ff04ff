package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/tools/web"
)

// GraphQLRequest is the graphql tool input. Filter is an optional jq
// expression applied to the response data.
type GraphQLRequest struct {
	URL       string         `yaml:"url" json:"url"`
	Query     string         `yaml:"query" json:"query"`
	Variables map[string]any `yaml:"variables" json:"variables"`
	Filter    string         `yaml:"filter" json:"filter"`
}

type graphqlResponse struct {
	Data   any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GraphQL backs the graphql tool.
type GraphQL struct {
	Session *engine.Session
	Client  *http.Client
}

// ParseGraphQLRequest accepts YAML or JSON (JSON is valid YAML).
func ParseGraphQLRequest(input string) (*GraphQLRequest, error) {
	var req GraphQLRequest
	if err := yaml.Unmarshal([]byte(input), &req); err != nil {
		if jerr := decodeJSON([]byte(input), &req); jerr != nil {
			return nil, fmt.Errorf("parse graphql input: %w", err)
		}
	}
	if req.URL == "" || strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("graphql input needs url and query")
	}
	return &req, nil
}

// Execute posts the query. Errors from the endpoint are returned in-band as
// "An error occurred: ...".
func (g *GraphQL) Execute(ctx context.Context, input string) (string, error) {
	req, err := ParseGraphQLRequest(input)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]any{"query": req.Query, "variables": req.Variables})
	if err != nil {
		return "", err
	}
	resp, err := web.Fetch(ctx, g.Client, http.MethodPost, req.URL, map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}, bytes.NewReader(payload))
	if err != nil {
		return fmt.Sprintf("An error occurred: %v", err), nil
	}

	var res graphqlResponse
	if err := json.Unmarshal(resp.Body, &res); err != nil {
		if !resp.OK() {
			return fmt.Sprintf("An error occurred: %s", resp.StatusLine()), nil
		}
		return fmt.Sprintf("An error occurred: %v", err), nil
	}
	if len(res.Errors) > 0 && res.Data == nil {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, e.Message)
		}
		return "An error occurred: " + strings.Join(msgs, "; "), nil
	}

	var value any = res.Data
	if req.Filter != "" {
		value, err = applyFilter(ctx, req.Filter, res.Data)
		if err != nil {
			return fmt.Sprintf("An error occurred: %v", err), nil
		}
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return "", err
	}
	return g.Session.Truncate(string(out)), nil
}

// applyFilter runs a jq expression. A single result is returned as is,
// several as a list.
func applyFilter(ctx context.Context, expr string, data any) (any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	var results []any
	iter := query.RunWithContext(ctx, data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, err
		}
		results = append(results, v)
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// NewGraphQLTool returns the graphql tool.
func NewGraphQLTool(g *GraphQL) engine.Tool {
	return engine.FuncTool{
		ToolName: "graphql",
		Desc:     "A tool which should always be used to execute GraphQL queries. Input should be a YAML or JSON object in text form containing url and query properties, and optionally variables and a jq filter applied to the result data.",
		Fn:       g.Execute,
	}
}
