package driven

import "github.com/custodia-labs/ccv-cli/internal/core/domain"

// AIConfigValidator checks backend settings before they are saved.
// Both methods accept an unconfigured (nil or empty provider) value and
// return nil for it.
type AIConfigValidator interface {
	// ValidateEmbedding rejects providers that cannot embed and
	// probes the endpoint of the rest.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM probes the generation endpoint.
	ValidateLLM(config *domain.LLMSettings) error
}
