package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_Predicates(t *testing.T) {
	tests := []struct {
		provider       AIProvider
		valid          bool
		needsKey       bool
		supportsEmbed  bool
		expectedString string
	}{
		{AIProviderOllama, true, false, true, "Ollama (local)"},
		{AIProviderOpenAI, true, true, true, "OpenAI (cloud)"},
		{AIProviderAnthropic, true, true, false, "Anthropic (cloud)"},
		{AIProvider("other"), false, false, false, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
			assert.Equal(t, tt.needsKey, tt.provider.RequiresAPIKey())
			assert.Equal(t, tt.supportsEmbed, tt.provider.SupportsEmbedding())
			assert.Equal(t, tt.expectedString, tt.provider.Description())
		})
	}
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "k"}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderOllama, s.Embedding.Provider)
	assert.Equal(t, "snowflake-arctic-embed2:latest", s.Embedding.Model)
	assert.Equal(t, "gemma3:12b", s.LLM.Model)
	assert.Equal(t, "http://localhost:11434", s.LLM.BaseURL)
	assert.Equal(t, 30*time.Second, s.Embedding.Timeout)
	assert.Equal(t, 120*time.Second, s.LLM.Timeout)
	assert.Equal(t, CacheBackendMemory, s.Cache.Backend)
	assert.Equal(t, time.Hour, s.Cache.TTL)
	assert.Equal(t, 3, s.Gateway.MaxAttempts)
	assert.Equal(t, 0.40, s.Thresholds.TopicDrift)
}

func TestCacheBackend_IsValid(t *testing.T) {
	assert.True(t, CacheBackendSQLite.IsValid())
	assert.True(t, CacheBackendOff.IsValid())
	assert.False(t, CacheBackend("redis").IsValid())
}
