// Package gemini is a minimal client for the generateContent endpoint of
// the Gemini API. It sends one request per call with text and inline image
// parts and returns the first candidate's text.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/glowplan/pkg/logger"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const apiKeyHeader = "x-goog-api-key"

// Defaults for the public endpoint.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
	defaultTimeout = 30 * time.Second

	textPath        = "candidates.0.content.parts.0.text"
	errorPath       = "error.message"
	maxErrorBodyLen = 512
)

// Part is one piece of request content: either text or an inline image.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart builds a text part.
func TextPart(text string) Part { return Part{Text: text} }

// ImagePart builds an inline image part.
func ImagePart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// Client calls the generateContent endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger
}

// New builds a client. Without WithAPIKey every call fails with
// ErrCredentialMissing.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	c.logger = logger.OrGlobal(c.logger).Named("gemini")
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return strings.TrimSpace(c.apiKey) != "" }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type wirePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type wireContent struct {
	Parts []wirePart `json:"parts"`
}

type wireRequest struct {
	Contents []wireContent `json:"contents"`
}

// GenerateContent sends parts as a single user turn and returns the text of
// the first candidate. It makes exactly one HTTP request and never retries.
func (c *Client) GenerateContent(ctx context.Context, parts []Part) (string, error) {
	if !c.Configured() {
		return "", ErrCredentialMissing
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
	}

	body, err := json.Marshal(buildRequest(parts))
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = stripURL(err)
		c.logger.Warn(ctx, "generate content request failed",
			logger.String("model", c.model), logger.Error(err))
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(raw, errorPath).String()
		if msg == "" {
			msg = truncate(strings.TrimSpace(string(raw)), maxErrorBodyLen)
		}
		c.logger.Warn(ctx, "generate content returned error status",
			logger.Int("status", resp.StatusCode), logger.String("message", msg))
		return "", fmt.Errorf("%w %d: %s", ErrUpstreamStatus, resp.StatusCode, msg)
	}

	text := gjson.GetBytes(raw, textPath)
	if !text.Exists() || strings.TrimSpace(text.String()) == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug(ctx, "generate content ok",
		logger.String("model", c.model),
		logger.Duration("latency", time.Since(start)),
		logger.Int("text_len", len(text.String())))
	return text.String(), nil
}

// stripURL drops the request URL from transport errors so callers that
// log or persist the message never see the endpoint.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

func buildRequest(parts []Part) wireRequest {
	wp := make([]wirePart, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			wp = append(wp, wirePart{InlineData: &inlineData{
				MIMEType: p.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		wp = append(wp, wirePart{Text: p.Text})
	}
	return wireRequest{Contents: []wireContent{{Parts: wp}}}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
