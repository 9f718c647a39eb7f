// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud sends prompts to hosted chat-completion APIs.
//
// Two wire protocols are supported: OpenAI-compatible chat completions and
// Anthropic-compatible messages. The model identifier picks the protocol
// through the model catalog.
package cloud

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

	"github.com/rs/zerolog"

	"github.com/jeranaias/promptpad/internal/model"
)

// Configuration constants.
const (
	// DefaultOpenAIURL is the base URL of the OpenAI API.
	DefaultOpenAIURL = "https://api.openai.com"

	// DefaultAnthropicURL is the base URL of the Anthropic API.
	DefaultAnthropicURL = "https://api.anthropic.com"

	// DefaultAnthropicVersion is sent in the anthropic-version header.
	DefaultAnthropicVersion = "2023-06-01"

	// DefaultMaxTokens is the max_tokens value of Anthropic requests.
	DefaultMaxTokens = 1024

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	openAIPath    = "/v1/chat/completions"
	anthropicPath = "/v1/messages"
)

// Error variables for completion failures.
var (
	// ErrMalformedResponse indicates a response that is not JSON or lacks the generated text.
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrMissingKey indicates the credential for the selected provider is not set.
	ErrMissingKey = errors.New("API key not configured")
)

// APIError is a non-2xx response from a completion API.
type APIError struct {
	Provider model.Provider
	Status   int
	Type     string
	Message  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s error [%s] (HTTP %d): %s", e.Provider.DisplayName(), e.Type, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error (HTTP %d): %s", e.Provider.DisplayName(), e.Status, e.Message)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRequest is the body of both request kinds. MaxTokens is only sent to Anthropic.
type ChatRequest struct {
	Model     string          `json:"model"`
	Messages  []model.Message `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

// openAIResponse is the subset of a chat completion that carries the reply.
type openAIResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// anthropicResponse accepts both the messages[0].content shape and the
// content[0].text shape of the messages API.
type anthropicResponse struct {
	Messages []json.RawMessage `json:"messages"`
	Content  []struct {
		Type string  `json:"type"`
		Text *string `json:"text"`
	} `json:"content"`
}

// apiErrorResponse is the error envelope shared by both providers.
type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to both completion APIs. Safe for concurrent use.
type Client struct {
	openAIURL        string
	anthropicURL     string
	anthropicVersion string
	maxTokens        int
	httpClient       *http.Client
	logger           zerolog.Logger
}

// NewClient creates a client for the public endpoints. Requests have no
// timeout; the caller's context is the only cancellation.
func NewClient() *Client {
	return &Client{
		openAIURL:        DefaultOpenAIURL,
		anthropicURL:     DefaultAnthropicURL,
		anthropicVersion: DefaultAnthropicVersion,
		maxTokens:        DefaultMaxTokens,
		httpClient:       &http.Client{},
		logger:           zerolog.Nop(),
	}
}

// WithOpenAIBaseURL sets the base URL of the OpenAI-compatible API.
func (c *Client) WithOpenAIBaseURL(url string) *Client {
	if url != "" {
		c.openAIURL = strings.TrimSuffix(url, "/")
	}
	return c
}

// WithAnthropicBaseURL sets the base URL of the Anthropic-compatible API.
func (c *Client) WithAnthropicBaseURL(url string) *Client {
	if url != "" {
		c.anthropicURL = strings.TrimSuffix(url, "/")
	}
	return c
}

// WithAnthropicVersion sets the anthropic-version header value.
func (c *Client) WithAnthropicVersion(version string) *Client {
	if version != "" {
		c.anthropicVersion = version
	}
	return c
}

// WithMaxTokens sets max_tokens for Anthropic requests.
func (c *Client) WithMaxTokens(n int) *Client {
	if n > 0 {
		c.maxTokens = n
	}
	return c
}

// WithTimeout sets a per-request timeout. Zero means none.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLogger sets the diagnostics logger.
func (c *Client) WithLogger(logger zerolog.Logger) *Client {
	c.logger = logger.With().Str("component", "cloud").Logger()
	return c
}

// Endpoint returns the URL requests for provider are sent to.
func (c *Client) Endpoint(provider model.Provider) string {
	if provider == model.ProviderAnthropic {
		return c.anthropicURL + anthropicPath
	}
	return c.openAIURL + openAIPath
}

// Complete sends turns to the provider serving modelID and returns the
// generated text. Empty turns are dropped and ids stripped before sending.
func (c *Client) Complete(ctx context.Context, modelID string, turns []model.Turn, creds model.Credentials) (string, error) {
	provider := model.ProviderFor(modelID)

	key := creds.KeyFor(provider)
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, provider.DisplayName())
	}

	body := ChatRequest{Model: modelID, Messages: model.SendTransform(turns)}
	if provider == model.ProviderAnthropic {
		body.MaxTokens = c.maxTokens
	}

	respBody, err := c.post(ctx, provider, key, body)
	if err != nil {
		return "", err
	}

	if provider == model.ProviderAnthropic {
		return parseAnthropic(respBody)
	}
	return parseOpenAI(respBody)
}

// post sends body and returns the response body of a 2xx response.
func (c *Client) post(ctx context.Context, provider model.Provider, key string, body ChatRequest) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(provider), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, provider, key)

	c.logRequest(req, provider, body.Model)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, provider, time.Since(start))

	respBody, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, handleErrorResponse(provider, resp.StatusCode, respBody)
	}
	return respBody, nil
}

// setHeaders sets content type and provider authentication.
func (c *Client) setHeaders(req *http.Request, provider model.Provider, key string) {
	req.Header.Set("Content-Type", "application/json")
	if provider == model.ProviderAnthropic {
		req.Header.Set("x-api-key", key)
		req.Header.Set("anthropic-version", c.anthropicVersion)
		return
	}
	req.Header.Set("Authorization", "Bearer "+key)
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check if we hit the limit (response was truncated)
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// handleErrorResponse converts a non-2xx response into an *APIError.
func handleErrorResponse(provider model.Provider, statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return &APIError{
			Provider: provider,
			Status:   statusCode,
			Type:     apiErr.Error.Type,
			Message:  apiErr.Error.Message,
		}
	}

	// Fallback for unparseable error responses
	return &APIError{
		Provider: provider,
		Status:   statusCode,
		Message:  strings.TrimSpace(string(body)),
	}
}

// =============================================================================
// RESPONSE PARSING
// =============================================================================

func parseOpenAI(body []byte) (string, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("%w: no choices[0].message.content", ErrMalformedResponse)
	}
	return *resp.Choices[0].Message.Content, nil
}

func parseAnthropic(body []byte) (string, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(resp.Messages) > 0 {
		return messageText(resp.Messages[0])
	}
	for _, block := range resp.Content {
		if block.Text != nil && (block.Type == "" || block.Type == "text") {
			return *block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: no messages[0] or text content", ErrMalformedResponse)
}

// messageText extracts text from a messages[0] element, which is either a
// bare string or an object with a string content field.
func messageText(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var msg struct {
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Content == nil {
		return "", fmt.Errorf("%w: messages[0] has no text content", ErrMalformedResponse)
	}
	return *msg.Content, nil
}

// =============================================================================
// REQUEST LOGGING
// =============================================================================

// logRequest logs an API request. Headers and bodies carry credentials and
// prompt text and are never logged.
func (c *Client) logRequest(req *http.Request, provider model.Provider, modelID string) {
	c.logger.Debug().
		Str("provider", string(provider)).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("model", modelID).
		Msg("api request")
}

// logResponse logs status code and duration only.
func (c *Client) logResponse(resp *http.Response, provider model.Provider, duration time.Duration) {
	c.logger.Debug().
		Str("provider", string(provider)).
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("api response")
}
