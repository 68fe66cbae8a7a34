package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures one provider.
type Config struct {
	// Provider is anthropic, openai, openrouter, gemini or mock.
	Provider string
	APIKey   string

	// Model is a provider model id or one of the short aliases in the
	// catalog. Empty uses the provider default.
	Model string

	// BaseURL overrides the endpoint of OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

type catalogEntry struct {
	keyEnv       string
	defaultModel string
	aliases      map[string]string
}

var catalog = map[string]catalogEntry{
	"gemini": {
		keyEnv:       "GEMINI_API_KEY",
		defaultModel: "gemini-2.0-flash",
		aliases:      map[string]string{"gemini-flash": "gemini-2.0-flash", "gemini-pro": "gemini-2.0-pro"},
	},
	"openai": {
		keyEnv:       "OPENAI_API_KEY",
		defaultModel: "gpt-4o-mini",
	},
	"anthropic": {
		keyEnv:       "ANTHROPIC_API_KEY",
		defaultModel: "claude-haiku-4-5-20251001",
		aliases:      map[string]string{"claude-haiku": "claude-haiku-4-5-20251001", "claude-sonnet": "claude-sonnet-4-20250514"},
	},
	"openrouter": {
		keyEnv:       "OPENROUTER_API_KEY",
		defaultModel: "google/gemini-2.0-flash-exp",
	},
}

// discoveryOrder is the order standard key variables are probed in.
var discoveryOrder = []string{"gemini", "openai", "anthropic", "openrouter"}

// DefaultConfig returns retry and timeout defaults with no provider.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// ResolvedModel maps aliases and fills the provider default.
func (c Config) ResolvedModel() string {
	entry := catalog[c.Provider]
	if c.Model == "" {
		return entry.defaultModel
	}
	if id, ok := entry.aliases[c.Model]; ok {
		return id
	}
	return c.Model
}

// Validate checks that the provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	entry, ok := catalog[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s provider needs an API key (%sAPI_KEY or %s)", c.Provider, envPrefix, entry.keyEnv)
	}
	return nil
}

// envPrefix namespaces LLM settings next to the rest of the academy
// configuration.
const envPrefix = "ACADEMY_LLM_"

func env(name string) string {
	return os.Getenv(envPrefix + name)
}

// ConfigFromEnv builds a Config for the provider named by
// ACADEMY_LLM_PROVIDER. The key comes from ACADEMY_LLM_API_KEY or the
// provider's standard variable.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Provider = env("PROVIDER")
	cfg.APIKey = env("API_KEY")
	if cfg.APIKey == "" {
		if entry, ok := catalog[cfg.Provider]; ok {
			cfg.APIKey = os.Getenv(entry.keyEnv)
		}
	}
	cfg.Model = env("MODEL")
	cfg.BaseURL = env("BASE_URL")
	if t := env("TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// DiscoverConfig returns a Config for the first provider whose standard
// key variable is set.
func DiscoverConfig() (Config, bool) {
	for _, name := range discoveryOrder {
		if k := os.Getenv(catalog[name].keyEnv); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = name
			cfg.APIKey = k
			cfg.Model = env("MODEL")
			return cfg, true
		}
	}
	return Config{}, false
}

// ResolveConfig prefers an explicit ACADEMY_LLM_PROVIDER and otherwise
// discovers one. ok is false when no provider is available.
func ResolveConfig() (cfg Config, ok bool) {
	if env("PROVIDER") != "" {
		return ConfigFromEnv(), true
	}
	return DiscoverConfig()
}
