package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/docqa/internal/config"
	"github.com/futig/docqa/internal/entity"
	"github.com/futig/docqa/internal/pkg/retry"
	"go.uber.org/zap"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *map[string]any) {
	t.Helper()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestGenerate_Success(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Dogs bark."}, "finish_reason": "stop"}]
	}`)

	c := NewConnector(config.OpenAIConfig{HTTPClientConfig: config.HTTPClientConfig{Url: srv.URL + "/v1"}}, zap.NewNop())
	out, err := c.Generate(context.Background(), "gemma3:1b", "do dogs bark?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Dogs bark." {
		t.Errorf("unexpected answer: %q", out)
	}

	if (*got)["model"] != "gemma3:1b" {
		t.Errorf("unexpected model in request: %v", (*got)["model"])
	}
	messages, _ := (*got)["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected a single message, got %v", (*got)["messages"])
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"id": "x", "choices": []}`)

	c := NewConnector(config.OpenAIConfig{HTTPClientConfig: config.HTTPClientConfig{Url: srv.URL + "/v1"}}, zap.NewNop())
	_, err := c.Generate(context.Background(), "gemma3:1b", "hi")

	var invErr *entity.ModelInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ModelInvocationError, got %v", err)
	}
}

func TestGenerate_ServerError(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError, `{"error": {"message": "model crashed", "type": "server_error"}}`)

	c := NewConnector(config.OpenAIConfig{HTTPClientConfig: config.HTTPClientConfig{Url: srv.URL + "/v1"}}, zap.NewNop())
	_, err := c.Generate(context.Background(), "gemma3:1b", "hi")

	var invErr *entity.ModelInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ModelInvocationError, got %v", err)
	}
	if invErr.Model != "gemma3:1b" {
		t.Errorf("unexpected model: %q", invErr.Model)
	}
}

func TestWaitReady(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": [{"id": "gemma3:1b", "object": "model"}, {"id": "qwen3:4b", "object": "model"}]}`))
	}))
	defer srv.Close()

	c := NewConnector(config.OpenAIConfig{HTTPClientConfig: config.HTTPClientConfig{Url: srv.URL + "/v1"}}, zap.NewNop())
	names, err := c.WaitReady(context.Background(), &retry.RetryConfig{
		Attempts: 5,
		Delay:    time.Millisecond,
		MaxDelay: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "gemma3:1b" || names[1] != "qwen3:4b" {
		t.Errorf("unexpected models: %v", names)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
}

func TestWaitReady_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewConnector(config.OpenAIConfig{HTTPClientConfig: config.HTTPClientConfig{Url: srv.URL}}, zap.NewNop())
	_, err := c.WaitReady(context.Background(), &retry.RetryConfig{
		Attempts: 5,
		Delay:    time.Millisecond,
		MaxDelay: 5 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error for a server without /models")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("a 404 must not be retried, got %d calls", got)
	}
}
