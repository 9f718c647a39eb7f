// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/promptpad/internal/model"
)

var testCreds = model.Credentials{
	OpenAIKey:    "sk-test",
	AnthropicKey: "sk-ant-test",
	Model:        model.DefaultModel,
}

func testTurns() []model.Turn {
	return model.Renumber([]model.Turn{
		{Role: model.RoleSystem, Content: "be brief"},
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: ""},
	})
}

// recorded captures what a test server received.
type recorded struct {
	path    string
	headers http.Header
	body    ChatRequest
}

func newServer(t *testing.T, status int, response string, rec *recorded) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.path = r.URL.Path
			rec.headers = r.Header.Clone()
			data, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(data, &rec.body); err != nil {
				t.Errorf("server received invalid JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server
}

// =============================================================================
// ROUTING TESTS
// =============================================================================

func TestComplete_RoutesClaudeToAnthropic(t *testing.T) {
	var rec recorded
	server := newServer(t, http.StatusOK, `{"messages":[{"role":"assistant","content":"from claude"}]}`, &rec)

	client := NewClient().WithAnthropicBaseURL(server.URL).WithOpenAIBaseURL("http://127.0.0.1:1")
	text, err := client.Complete(context.Background(), "claude-3-haiku-20240307", testTurns(), testCreds)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if text != "from claude" {
		t.Errorf("text = %q, want %q", text, "from claude")
	}
	if rec.path != "/v1/messages" {
		t.Errorf("path = %q, want /v1/messages", rec.path)
	}
	if got := rec.headers.Get("x-api-key"); got != "sk-ant-test" {
		t.Errorf("x-api-key = %q", got)
	}
	if got := rec.headers.Get("anthropic-version"); got != DefaultAnthropicVersion {
		t.Errorf("anthropic-version = %q", got)
	}
	if rec.headers.Get("Authorization") != "" {
		t.Error("Anthropic request must not carry a bearer token")
	}
	if rec.body.Model != "claude-3-haiku-20240307" {
		t.Errorf("model = %q", rec.body.Model)
	}
	if rec.body.MaxTokens != DefaultMaxTokens {
		t.Errorf("max_tokens = %d, want %d", rec.body.MaxTokens, DefaultMaxTokens)
	}
}

func TestComplete_RoutesGPTToOpenAI(t *testing.T) {
	var rec recorded
	server := newServer(t, http.StatusOK, `{"choices":[{"message":{"content":"hi"}}]}`, &rec)

	client := NewClient().WithOpenAIBaseURL(server.URL + "/").WithAnthropicBaseURL("http://127.0.0.1:1")
	text, err := client.Complete(context.Background(), "gpt-4-turbo-preview", testTurns(), testCreds)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if text != "hi" {
		t.Errorf("text = %q, want hi", text)
	}
	if rec.path != "/v1/chat/completions" {
		t.Errorf("path = %q, want /v1/chat/completions", rec.path)
	}
	if got := rec.headers.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q", got)
	}
	if rec.body.MaxTokens != 0 {
		t.Errorf("OpenAI request carries max_tokens = %d", rec.body.MaxTokens)
	}
}

func TestComplete_SendsTransformedTurns(t *testing.T) {
	var rec recorded
	server := newServer(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`, &rec)

	client := NewClient().WithOpenAIBaseURL(server.URL)
	if _, err := client.Complete(context.Background(), "gpt-4", testTurns(), testCreds); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	want := []model.Message{
		{Role: model.RoleSystem, Content: "be brief"},
		{Role: model.RoleUser, Content: "hello"},
	}
	if len(rec.body.Messages) != len(want) {
		t.Fatalf("sent %d messages, want %d", len(rec.body.Messages), len(want))
	}
	for i := range want {
		if rec.body.Messages[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, rec.body.Messages[i], want[i])
		}
	}
}

func TestEndpoint(t *testing.T) {
	client := NewClient()
	if got := client.Endpoint(model.ProviderOpenAI); got != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("OpenAI endpoint = %q", got)
	}
	if got := client.Endpoint(model.ProviderAnthropic); got != "https://api.anthropic.com/v1/messages" {
		t.Errorf("Anthropic endpoint = %q", got)
	}
}

// =============================================================================
// RESPONSE TESTS
// =============================================================================

func TestParseAnthropic_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"messages object", `{"messages":[{"content":"a"}]}`, "a"},
		{"messages string", `{"messages":["b"]}`, "b"},
		{"content blocks", `{"content":[{"type":"text","text":"c"}]}`, "c"},
		{"messages wins", `{"messages":[{"content":"d"}],"content":[{"type":"text","text":"e"}]}`, "d"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAnthropic([]byte(tc.body))
			if err != nil {
				t.Fatalf("parseAnthropic failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestComplete_MalformedResponses(t *testing.T) {
	tests := []struct {
		name  string
		model string
		body  string
	}{
		{"openai not json", "gpt-4", `<html>`},
		{"openai no choices", "gpt-4", `{"choices":[]}`},
		{"openai no message", "gpt-4", `{"choices":[{}]}`},
		{"openai null content", "gpt-4", `{"choices":[{"message":{"content":null}}]}`},
		{"anthropic not json", "claude-3-opus-20240229", `nope`},
		{"anthropic empty", "claude-3-opus-20240229", `{}`},
		{"anthropic message without content", "claude-3-opus-20240229", `{"messages":[{"role":"assistant"}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := newServer(t, http.StatusOK, tc.body, nil)
			client := NewClient().WithOpenAIBaseURL(server.URL).WithAnthropicBaseURL(server.URL)

			_, err := client.Complete(context.Background(), tc.model, testTurns(), testCreds)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestComplete_APIError(t *testing.T) {
	server := newServer(t, http.StatusUnauthorized,
		`{"error":{"type":"invalid_request_error","message":"bad key"}}`, nil)
	client := NewClient().WithOpenAIBaseURL(server.URL)

	_, err := client.Complete(context.Background(), "gpt-4", testTurns(), testCreds)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "bad key" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
	if !strings.Contains(apiErr.Error(), "OpenAI") {
		t.Errorf("error text %q does not name the provider", apiErr.Error())
	}
}

func TestComplete_UnparseableErrorBody(t *testing.T) {
	server := newServer(t, http.StatusBadGateway, "upstream down\n", nil)
	client := NewClient().WithAnthropicBaseURL(server.URL)

	_, err := client.Complete(context.Background(), "claude-3-haiku-20240307", testTurns(), testCreds)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "upstream down" || apiErr.Provider != model.ProviderAnthropic {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
}

func TestComplete_MissingKeyMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := NewClient().WithOpenAIBaseURL(server.URL).WithAnthropicBaseURL(server.URL)
	creds := model.NewCredentials()

	if _, err := client.Complete(context.Background(), "gpt-4", testTurns(), creds); !errors.Is(err, ErrMissingKey) {
		t.Errorf("err = %v, want ErrMissingKey", err)
	}
	if _, err := client.Complete(context.Background(), "claude-3-haiku-20240307", testTurns(), creds); !errors.Is(err, ErrMissingKey) {
		t.Errorf("err = %v, want ErrMissingKey", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server received %d requests, want 0", hits.Load())
	}
}

func TestComplete_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient().WithOpenAIBaseURL(server.URL)
	_, err := client.Complete(ctx, "gpt-4", testTurns(), testCreds)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}
