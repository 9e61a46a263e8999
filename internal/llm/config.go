package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects the insight provider and holds per-vendor settings.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one insight request, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures backoff for transient provider failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the built-in configuration. Gemini is the
// default vendor; the model is the flash tier.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Gemini:     GeminiConfig{Model: "gemini-2.0-flash"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		// Insight requests are not retried unless configured.
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// vendorKeys is the probe order used by DiscoverConfig.
var vendorKeys = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// DiscoverConfig looks for a vendor's own API key variable and returns a
// Config for the first one found.
func DiscoverConfig() (Config, bool) {
	for _, vk := range vendorKeys {
		k := os.Getenv(vk.env)
		if k == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = vk.provider
		cfg.setKey(k)
		return cfg, true
	}
	return Config{}, false
}

func (c *Config) setKey(k string) {
	switch c.Provider {
	case ProviderGemini:
		c.Gemini.APIKey = k
	case ProviderOpenAI:
		c.OpenAI.APIKey = k
	case ProviderAnthropic:
		c.Anthropic.APIKey = k
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = k
	}
}

// Validate reports whether the selected provider can be constructed.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "OPTIMAPPED_GEMINI_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "OPTIMAPPED_OPENAI_API_KEY"
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "OPTIMAPPED_ANTHROPIC_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "OPTIMAPPED_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
