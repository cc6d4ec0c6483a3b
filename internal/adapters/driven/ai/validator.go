package ai

import (
	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings against the live backend
// before the settings command persists them.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding builds the embedding adapter and pings it.
// A generation-only provider is rejected without a network call.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config != nil && config.Provider == domain.AIProviderAnthropic {
		_, err := CreateEmbeddingService(config)
		return err
	}
	return ValidateEmbeddingConfig(config)
}

// ValidateLLM builds the LLM adapter and pings it.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	return ValidateLLMConfig(config)
}
