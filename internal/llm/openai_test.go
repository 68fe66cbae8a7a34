package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func openAIServer(t *testing.T, status int, body any, seen *map[string]any) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenAI(Config{Provider: "openai", APIKey: "test-key", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	return p
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var seen map[string]any
	p := openAIServer(t, http.StatusOK, chatCompletion(`{"explanation":"x","hint":"y"}`, "stop"), &seen)

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a Solana tutor.",
		Messages:  []Message{{Role: RoleUser, Content: "Explain."}},
		Schema:    testSchema(),
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.Finish != FinishStop {
		t.Errorf("finish = %q", resp.Finish)
	}

	msgs, _ := seen["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(msgs))
	}
	format, _ := seen["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v", seen["response_format"])
	}
}

func TestOpenAIInvalidOutput(t *testing.T) {
	p := openAIServer(t, http.StatusOK, chatCompletion(`{"explanation":"x"}`, "stop"), nil)
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, Schema: testSchema()})
	if !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("err = %v, want ErrInvalidOutput", err)
	}
}

func TestOpenAIRateLimit(t *testing.T) {
	body := map[string]any{"error": map[string]any{"message": "Rate limit", "type": "rate_limit_error", "code": "rate_limit_exceeded"}}
	p := openAIServer(t, http.StatusTooManyRequests, body, nil)
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestOpenAIServerError(t *testing.T) {
	body := map[string]any{"error": map[string]any{"message": "boom", "type": "server_error"}}
	p := openAIServer(t, http.StatusInternalServerError, body, nil)
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestOpenRouterDefaults(t *testing.T) {
	p, err := NewOpenRouter(Config{Provider: "openrouter", APIKey: "sk-or"})
	if err != nil {
		t.Fatalf("NewOpenRouter: %v", err)
	}
	if p.Name() != "openrouter" {
		t.Errorf("Name = %q", p.Name())
	}
	if p.Model() != "google/gemini-2.0-flash-exp" {
		t.Errorf("Model = %q", p.Model())
	}
	if _, err := NewOpenRouter(Config{Provider: "openrouter"}); err == nil {
		t.Error("expected error without API key")
	}
}
