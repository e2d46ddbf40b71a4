// Package assistant sends a single prompt to a Gemini-style text completion
// endpoint and returns the reply. It shares no state with the journal.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/moodlog/pkg/logging"
)

var (
	// ErrNoKey is returned when no API key is configured.
	ErrNoKey = errors.New("assistant: no API key (set GEMINI_API_KEY or `moodlog secret set assistant-api-key`)")
	// ErrNoReply is returned when the endpoint answered with no text.
	ErrNoReply = errors.New("assistant: no reply")
)

// Client talks to the generateContent API.
type Client struct {
	Endpoint string
	Model    string
	APIKey   string
	HTTP     *http.Client
}

// New returns a client with a bounded request timeout.
func New(endpoint, model, apiKey string) *Client {
	return &Client{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Model:    model,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 60 * time.Second},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Reply sends prompt and returns the model's text.
func (c *Client) Reply(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", ErrNoKey
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("assistant: empty prompt")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("assistant: marshal request: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.Endpoint, url.PathEscape(c.Model), url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assistant: build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	logging.Debug("assistant: request", "id", reqID, "model", c.Model)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("assistant: read response: %w", err)
	}
	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("assistant: decode response (http %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		logging.Warn("assistant: request rejected", "id", reqID, "status", resp.StatusCode)
		return "", fmt.Errorf("assistant: http %d: %s", resp.StatusCode, msg)
	}

	var b strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			break
		}
	}
	reply := strings.TrimSpace(b.String())
	if reply == "" {
		return "", ErrNoReply
	}
	return reply, nil
}
