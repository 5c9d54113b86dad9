// -- internal/llmclient/factory.go --
package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/api/schemas"
	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/config"
)

// NewClient is a factory function that creates an LLMClient based on the
// configuration.
func NewClient(cfg config.LLMConfig, logger *zap.Logger) (schemas.LLMClient, error) {
	// Using constants defined in config package to avoid magic strings.
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(cfg, logger)
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: '%s'. Supported: [%s, %s]",
			cfg.Provider, config.ProviderGemini, config.ProviderOpenAI)
	}
}
