package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// idempotencyHeader matches the header the moments endpoint reads.
const idempotencyHeader = "Idempotency-Key"

// client wraps http.Client for JSON calls against one base URL.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// response is a fully read HTTP response.
type response struct {
	Status int
	Body   []byte
}

func (c *client) get(ctx context.Context, path string) (response, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

func (c *client) put(ctx context.Context, path string, body any) (response, error) {
	return c.do(ctx, http.MethodPut, path, body, nil)
}

func (c *client) post(ctx context.Context, path string, body any, headers map[string]string) (response, error) {
	return c.do(ctx, http.MethodPost, path, body, headers)
}

func (c *client) do(ctx context.Context, method, path string, body any, headers map[string]string) (response, error) {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("marshal request body: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	return response{Status: resp.StatusCode, Body: raw}, nil
}

func expectStatus(r response, want ...int) error {
	for _, w := range want {
		if r.Status == w {
			return nil
		}
	}
	return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, r.Status, truncate(string(r.Body), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
