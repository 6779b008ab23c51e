package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doeshing/agentgate/internal/domain"
)

func TestAnthropicCompleterRoundTrip(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	var gotBody map[string]interface{}
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": "the answer"}},
		})
	}))
	defer server.Close()

	model := domain.ModelDefinition{Name: "claude", Endpoint: server.URL, ModelID: "claude-x", MaxTokens: 256}
	c := newHTTPCompleter("anthropic", model, server.Client(), anthropicAdapter())

	answer, err := c.Complete(context.Background(), "be helpful", "what is in stock?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if answer != "the answer" {
		t.Fatalf("answer = %q", answer)
	}

	if gotHeaders.Get("x-api-key") != "test-key" {
		t.Fatalf("x-api-key = %q", gotHeaders.Get("x-api-key"))
	}
	if gotHeaders.Get("anthropic-version") == "" {
		t.Fatal("anthropic-version header missing")
	}
	if gotBody["model"] != "claude-x" {
		t.Fatalf("model = %v", gotBody["model"])
	}
	if gotBody["system"] != "be helpful" {
		t.Fatalf("system = %v", gotBody["system"])
	}
	if gotBody["max_tokens"] != float64(256) {
		t.Fatalf("max_tokens = %v", gotBody["max_tokens"])
	}
	messages, ok := gotBody["messages"].([]interface{})
	if !ok || len(messages) != 1 {
		t.Fatalf("messages = %v", gotBody["messages"])
	}
}

func TestAnthropicCompleterRequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	model := domain.ModelDefinition{Name: "claude", Endpoint: "http://unused.example"}
	c := newHTTPCompleter("anthropic", model, http.DefaultClient, anthropicAdapter())
	if _, err := c.Complete(context.Background(), "sys", "hi"); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestChatCompletionCompleterParsesChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  trimmed answer \n"}},
			},
		})
	}))
	defer server.Close()

	model := domain.ModelDefinition{Name: "ollama-llama3", Endpoint: server.URL, ModelID: "llama3"}
	c := newHTTPCompleter("ollama", model, server.Client(), ollamaAdapter())

	answer, err := c.Complete(context.Background(), "sys", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "trimmed answer" {
		t.Fatalf("answer = %q", answer)
	}
}

func TestCompleterReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	model := domain.ModelDefinition{Name: "ollama-local", Endpoint: server.URL}
	c := newHTTPCompleter("ollama", model, server.Client(), ollamaAdapter())
	if _, err := c.Complete(context.Background(), "sys", "hi"); err == nil {
		t.Fatal("expected status error")
	}
}

func TestInferProviderKind(t *testing.T) {
	cases := []struct {
		endpoint string
		name     string
		want     domain.ProviderKind
	}{
		{"https://api.anthropic.com/v1/messages", "claude", domain.ProviderKindAnthropic},
		{"https://api.openai.com/v1/chat/completions", "gpt", domain.ProviderKindOpenAI},
		{"http://localhost:11434/api/chat", "llama3", domain.ProviderKindOllama},
		{"http://models.internal:8080/chat", "ollama-mirror", domain.ProviderKindOllama},
		{"https://models.example/v1/chat", "mystery", domain.ProviderKindUnknown},
	}
	for _, tc := range cases {
		if got := inferProviderKind(tc.endpoint, tc.name); got != tc.want {
			t.Errorf("inferProviderKind(%q, %q) = %v, want %v", tc.endpoint, tc.name, got, tc.want)
		}
	}
}

func TestFactoryFallsBackToOfflineCompleter(t *testing.T) {
	f := NewFactory(time.Second)
	c, err := f.ForModel(domain.ModelDefinition{Name: "mystery", Endpoint: "https://models.example/v1/chat"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != "offline" {
		t.Fatalf("completer = %q, want offline", c.Name())
	}
	if _, err := c.Complete(context.Background(), "sys", "hi"); err == nil {
		t.Fatal("offline completer must error")
	}
}
