// Package client calls a remote tpformat server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TimurManjosov/tpformat/internal/match"
	"github.com/TimurManjosov/tpformat/internal/render"
)

// ErrMalformedDocument is returned when the server rejects the document as
// unparsable.
var ErrMalformedDocument = errors.New("failed to parse")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (status %d, %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// Client is an HTTP client for the tpformat API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Format renders content on the server.
func (c *Client) Format(ctx context.Context, content string) (string, error) {
	var resp struct {
		Expression string `json:"expression"`
	}
	if err := c.post(ctx, "/v1/format", map[string]string{"content": content}, &resp); err != nil {
		return "", err
	}
	return resp.Expression, nil
}

// Inspect returns the server-side expression tree for content.
func (c *Client) Inspect(ctx context.Context, content string) (*render.Expression, error) {
	var expr render.Expression
	if err := c.post(ctx, "/v1/inspect", map[string]string{"content": content}, &expr); err != nil {
		return nil, err
	}
	return &expr, nil
}

// JSONLogic returns the compiled JSON Logic rule for content.
func (c *Client) JSONLogic(ctx context.Context, content string) (match.Rule, error) {
	var resp struct {
		Rule match.Rule `json:"rule"`
	}
	if err := c.post(ctx, "/v1/jsonlogic", map[string]string{"content": content}, &resp); err != nil {
		return nil, err
	}
	return resp.Rule, nil
}

// CEL returns the compiled CEL expression for content.
func (c *Client) CEL(ctx context.Context, content string) (string, error) {
	var resp struct {
		Expression string `json:"expression"`
	}
	if err := c.post(ctx, "/v1/cel", map[string]string{"content": content}, &resp); err != nil {
		return "", err
	}
	return resp.Expression, nil
}

// Evaluate asks the server whether req satisfies content. An empty engine
// leaves the choice to the server.
func (c *Client) Evaluate(ctx context.Context, content, engine string, req match.Request) (bool, error) {
	body := struct {
		Content string        `json:"content"`
		Engine  string        `json:"engine,omitempty"`
		Request match.Request `json:"request"`
	}{content, engine, req}

	var resp struct {
		Matched bool `json:"matched"`
	}
	if err := c.post(ctx, "/v1/evaluate", body, &resp); err != nil {
		return false, err
	}
	return resp.Matched, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil || envelope.Message == "" {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(bodyBytes))}
	}
	if envelope.Code == "MALFORMED_DOCUMENT" {
		return ErrMalformedDocument
	}
	return &APIError{Status: resp.StatusCode, Code: envelope.Code, Message: envelope.Message}
}
