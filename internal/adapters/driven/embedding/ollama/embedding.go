// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ccv-cli/internal/adapters/driven/apiclient"
	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: snowflake-arctic-embed2:latest).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// EmbeddingService generates embeddings using Ollama.
type EmbeddingService struct {
	api   *apiclient.Client
	model string
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// TagsResponse is the Ollama /api/tags response format.
type TagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Names returns the installed model names.
func (r TagsResponse) Names() []string {
	names := make([]string, 0, len(r.Models))
	for _, m := range r.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		names = append(names, name)
	}
	return names
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultEmbeddingModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = domain.DefaultEmbeddingTimeout
	}

	return &EmbeddingService{
		api:   apiclient.New("ollama", cfg.BaseURL, cfg.Timeout, nil),
		model: cfg.Model,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embedResponse
	if err := s.api.Post(ctx, "/api/embeddings", embedRequest{Model: s.model, Prompt: text}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, errors.New("ollama: empty embedding returned")
	}
	return apiclient.ToFloat32(resp.Embedding), nil
}

// ListModels returns the models installed on the Ollama server.
func (s *EmbeddingService) ListModels(ctx context.Context) ([]string, error) {
	var tags TagsResponse
	if err := s.api.Get(ctx, "/api/tags", &tags); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return tags.Names(), nil
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.api.Get(ctx, "/api/tags", nil); err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
