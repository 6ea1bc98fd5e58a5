package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"elicitcam/internal/annotate"
)

func completionBody(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{"content": content},
			},
		},
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected ErrNotConfigured")
	}
	if _, err := NewClient(Config{AzureAPIKey: "key"}); err == nil {
		t.Fatal("expected error for Azure key without endpoint")
	}
	if _, err := NewClient(Config{APIKey: "a", AzureAPIKey: "b", AzureEndpoint: "https://x"}); err == nil {
		t.Fatal("expected error for both schemes configured")
	}
}

func TestProduceDirectScheme(t *testing.T) {
	var gotAuth string
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		var payload chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Model != "gpt-4o" || payload.MaxTokens != 200 {
			t.Fatalf("unexpected payload model=%s max_tokens=%d", payload.Model, payload.MaxTokens)
		}
		if len(payload.Messages) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(payload.Messages))
		}
		_ = json.NewEncoder(w).Encode(completionBody("Closed fist moves up."))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	outcome, err := client.Produce(context.Background(), annotate.Request{
		Task: annotate.TaskPredictCommand, Text: "A fist moves upward.",
	})
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if outcome.Status != annotate.StatusFilled || outcome.Text != "Closed fist moves up." {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if gotAuth != "Bearer test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestProduceAzureScheme(t *testing.T) {
	var gotKey, gotPath, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("api-version")
		_ = json.NewEncoder(w).Encode(completionBody("Wave."))
	}))
	defer server.Close()

	client, err := NewClient(Config{AzureAPIKey: "azkey", AzureEndpoint: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	outcome, err := client.Produce(context.Background(), annotate.Request{
		Task: annotate.TaskDescribePoses, Text: "Image 1: {}",
	})
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if outcome.Status != annotate.StatusFilled {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if gotKey != "azkey" {
		t.Fatalf("unexpected api-key header %q", gotKey)
	}
	if gotPath != "/openai/deployments/gpt-4o/chat/completions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotVersion != "2024-02-01" {
		t.Fatalf("unexpected api-version %q", gotVersion)
	}
}

func TestProduceImageSequencePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		var parts []contentPart
		if err := json.Unmarshal(payload.Messages[2].Content, &parts); err != nil {
			t.Fatalf("image message should carry content parts: %v", err)
		}
		if len(parts) != 2 {
			t.Fatalf("expected 2 image parts, got %d", len(parts))
		}
		if !strings.HasPrefix(parts[0].ImageURL.URL, "data:image/jpeg;base64,") {
			t.Fatalf("unexpected image url %q", parts[0].ImageURL.URL)
		}
		_ = json.NewEncoder(w).Encode(completionBody("Open palm waves."))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	outcome, err := client.Produce(context.Background(), annotate.Request{
		Task: annotate.TaskDescribeImages, Images: []string{"aaaa", "bbbb"},
	})
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if outcome.Text != "Open palm waves." {
		t.Fatalf("unexpected text %q", outcome.Text)
	}
}

func TestProduceContentFilterIsRejectedNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "content_filter", "message": "blocked"},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	outcome, err := client.Produce(context.Background(), annotate.Request{
		Task: annotate.TaskPredictCommand, Text: "desc",
	})
	if err != nil {
		t.Fatalf("content filter must not be an error: %v", err)
	}
	if outcome.Status != annotate.StatusRejected {
		t.Fatalf("expected rejected outcome, got %+v", outcome)
	}
}

func TestProduceEmptyCompletionIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionBody(""))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	outcome, err := client.Produce(context.Background(), annotate.Request{
		Task: annotate.TaskPredictCommand, Text: "desc",
	})
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if outcome.Status != annotate.StatusRejected {
		t.Fatalf("expected rejected outcome, got %+v", outcome)
	}
}

func TestProduceUnauthorizedIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "bad", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Produce(context.Background(), annotate.Request{
		Task: annotate.TaskPredictCommand, Text: "desc",
	}); err == nil {
		t.Fatal("401 should abort the run")
	}
}

func TestProduceRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(completionBody("Thumbs up."))
	}))
	defer server.Close()

	var slept int
	client, err := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithSleeper(func(time.Duration) { slept++ }),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	outcome, err := client.Produce(context.Background(), annotate.Request{
		Task: annotate.TaskPredictCommand, Text: "desc",
	})
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if outcome.Text != "Thumbs up." {
		t.Fatalf("unexpected text %q", outcome.Text)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if slept != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", slept)
	}
}

func TestProduceExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithRetryMaxAttempts(2),
		WithSleeper(func(time.Duration) {}),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Produce(context.Background(), annotate.Request{
		Task: annotate.TaskPredictCommand, Text: "desc",
	}); err == nil {
		t.Fatal("exhausted retries should surface an error")
	}
}
