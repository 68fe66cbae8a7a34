package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ACADEMY_LLM_PROVIDER", "ACADEMY_LLM_API_KEY", "ACADEMY_LLM_MODEL",
		"ACADEMY_LLM_BASE_URL", "ACADEMY_LLM_TIMEOUT",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ACADEMY_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-standard")
	t.Setenv("ACADEMY_LLM_MODEL", "gpt-4o")
	t.Setenv("ACADEMY_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" || cfg.APIKey != "sk-standard" || cfg.ResolvedModel() != "gpt-4o" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", cfg.Timeout)
	}

	t.Setenv("ACADEMY_LLM_API_KEY", "sk-academy")
	if got := ConfigFromEnv().APIKey; got != "sk-academy" {
		t.Errorf("APIKey = %q, want the ACADEMY_LLM_API_KEY value", got)
	}
}

func TestResolveConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := ResolveConfig(); ok {
		t.Fatal("expected no provider with empty env")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := ResolveConfig()
	if !ok || cfg.Provider != "openai" {
		t.Fatalf("discovered = %+v, %v; openai is probed before anthropic", cfg, ok)
	}

	t.Setenv("ACADEMY_LLM_PROVIDER", "mock")
	cfg, ok = ResolveConfig()
	if !ok || cfg.Provider != "mock" {
		t.Fatalf("explicit = %+v, %v", cfg, ok)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{Provider: "mock"}, false},
		{Config{Provider: "anthropic", APIKey: "k"}, false},
		{Config{Provider: "gemini"}, true},
		{Config{Provider: "cohere", APIKey: "k"}, true},
		{Config{}, true},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) = %v, wantErr %v", tt.cfg, err, tt.wantErr)
		}
	}
}

func TestResolvedModelAliases(t *testing.T) {
	if got := (Config{Provider: "anthropic", Model: "claude-sonnet"}).ResolvedModel(); got != "claude-sonnet-4-20250514" {
		t.Errorf("claude-sonnet = %q", got)
	}
	if got := (Config{Provider: "anthropic"}).ResolvedModel(); got != "claude-haiku-4-5-20251001" {
		t.Errorf("default = %q", got)
	}
}

func TestNewMockIsDecorated(t *testing.T) {
	p, err := New(context.Background(), Config{Provider: "mock", Timeout: time.Second, Retry: fastRetry()}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := p.(*timeoutProvider); !ok {
		t.Errorf("provider = %T, want *timeoutProvider", p)
	}
	if p.Name() != "mock" {
		t.Errorf("Name = %q", p.Name())
	}
	// An unscripted mock fails as unavailable after all retries.
	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Error("expected error from empty mock")
	}
}

func TestNewMissingKey(t *testing.T) {
	if _, err := New(context.Background(), Config{Provider: "openrouter"}, nil, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestFromEnvNone(t *testing.T) {
	clearLLMEnv(t)
	p, err := FromEnv(context.Background(), "", nil, nil)
	if err != nil || p != nil {
		t.Fatalf("FromEnv = %v, %v; want nil, nil", p, err)
	}
}

func TestMockScriptAndRequests(t *testing.T) {
	m := NewMockProvider()
	m.Script(MockReply{Content: `{"a":1}`})
	resp, err := m.Generate(context.Background(), Request{Purpose: "p"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(resp.Content, &got); err != nil || got["a"] != 1 {
		t.Errorf("content = %s", resp.Content)
	}
	if reqs := m.Requests(); len(reqs) != 1 || reqs[0].Purpose != "p" {
		t.Errorf("requests = %+v", reqs)
	}
}
