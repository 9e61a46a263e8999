package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/store"
)

// NewProvider builds the configured provider. Requests flow
// caller → retry → logging → vendor, so every attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = &MockProvider{Default: MockInsight}
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, cfg.Provider, events, log), cfg.Retry), nil
}
