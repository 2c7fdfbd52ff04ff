// Package web holds the tools that read the public web: search, page
// retrieval, page metadata and media display.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// UserAgent is sent with every outbound tool request.
const UserAgent = "postman-open-technologies/BingChain/1.1.0"

// MaxBody bounds how much of a response body the tools read.
const MaxBody = 8 << 20

// DefaultClient follows redirects and gives up after 30 seconds.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// Response is a fully read HTTP response.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status <= 299 }

// StatusLine renders "<status> - <status text>".
func (r *Response) StatusLine() string {
	return fmt.Sprintf("%d - %s", r.Status, http.StatusText(r.Status))
}

// Fetch performs a request and reads the body. Non-2xx statuses are not an
// error; callers decide how to report them.
func Fetch(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body io.Reader) (*Response, error) {
	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// Get fetches url and fails on a non-2xx status.
func Get(ctx context.Context, client *http.Client, url string) (*Response, error) {
	resp, err := Fetch(ctx, client, http.MethodGet, url, nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return resp, fmt.Errorf("%s", resp.StatusLine())
	}
	return resp, nil
}

// CleanURL strips the quotes and whitespace the model tends to wrap a URL in.
func CleanURL(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, `\"`, "")
	s = strings.ReplaceAll(s, `\'`, "")
	return strings.Trim(s, `"'`+"`")
}
