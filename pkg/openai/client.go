// Package openai is a small chat-completions client used by the content
// generator.
package openai

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

	"github.com/solsticedigital/backoffice/pkg/config"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
)

var (
	errAPIKeyRequired = errors.New("openai api key is required")
	errLoggerRequired = errors.New("openai logger is required")
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the chat completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *logger.Logger
}

// Option customizes the client, mainly for tests.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient initializes the chat completions wrapper and validates credentials.
func NewClient(ctx context.Context, cfg config.OpenAIConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     apiKey,
		model:      cfg.Model,
		logger:     logg,
	}
	for _, opt := range opts {
		opt(c)
	}

	logg.Info(ctx, "openai client initialized")
	return c, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete runs one chat completion and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "at least one message is required")
	}

	encoded, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding chat request")
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	ctx = c.logger.WithFields(ctx, map[string]any{"model": c.model, "messages": len(messages)})
	c.logger.Info(ctx, "openai chat completion request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "openai chat completion failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading openai response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := pkgerrors.CodeDependency
		if resp.StatusCode == http.StatusUnauthorized {
			code = pkgerrors.CodeUnauthorized
		}
		return "", pkgerrors.New(code, fmt.Sprintf("openai chat completion failed (%d): %s",
			resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var payload chatResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding openai response")
	}
	if len(payload.Choices) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "openai returned no choices")
	}

	return payload.Choices[0].Message.Content, nil
}
