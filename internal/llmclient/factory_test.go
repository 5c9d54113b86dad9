// -- internal/llmclient/factory_test.go --
package llmclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RatnakarVise/db-rule-3320010-assess-llm/internal/config"
)

func TestNewClient_OpenAI(t *testing.T) {
	cfg := getValidLLMConfig()

	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)
}

func TestNewClient_Gemini(t *testing.T) {
	cfg := getValidLLMConfig()
	cfg.Provider = config.ProviderGemini
	cfg.Model = "gemini-2.5-pro"

	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, client)
}

func TestNewClient_UnknownProvider(t *testing.T) {
	cfg := getValidLLMConfig()
	cfg.Provider = "watson"

	client, err := NewClient(cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "unknown or unsupported LLM provider")
}

func TestNewClient_MissingKeySurfacesProviderError(t *testing.T) {
	cfg := getValidLLMConfig()
	cfg.APIKey = ""

	client, err := NewClient(cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, client)
}
