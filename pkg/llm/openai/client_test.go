package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ilkoid/mrkl-agent/pkg/config"
)

// chatStub возвращает handler, имитирующий OpenAI chat completions API.
func chatStub(delay time.Duration, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + content + `"}}]}`))
	}
}

// TestCompleteReturnsText verifies the happy path against a stub server.
func TestCompleteReturnsText(t *testing.T) {
	srv := httptest.NewServer(chatStub(0, "Final Answer: 4"))
	defer srv.Close()

	client := NewClient(config.ModelDef{
		ModelName: "test-model",
		APIKey:    "test-key",
		BaseURL:   srv.URL,
	})

	got, err := client.Complete(context.Background(), "What is 2+2?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Final Answer: 4" {
		t.Errorf("unexpected response: %q", got)
	}
}

// TestCompleteAppliesModelTimeout verifies the configured timeout cuts off
// a slow request.
func TestCompleteAppliesModelTimeout(t *testing.T) {
	srv := httptest.NewServer(chatStub(2*time.Second, "too late"))
	defer srv.Close()

	client := NewClient(config.ModelDef{
		ModelName: "test-model",
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		Timeout:   50 * time.Millisecond,
	})

	start := time.Now()
	_, err := client.Complete(context.Background(), "slow question")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed >= 2*time.Second {
		t.Errorf("request was not cut off by the timeout, took %v", elapsed)
	}
}

// TestCompleteEmptyChoices verifies the no-choices error path.
func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(config.ModelDef{
		ModelName: "test-model",
		APIKey:    "test-key",
		BaseURL:   srv.URL,
	})

	if _, err := client.Complete(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
