package driven

import "context"

// ModelCatalog lists the models installed on or offered by an AI backend.
type ModelCatalog interface {
	// ListModels returns the names of all available models.
	ListModels(ctx context.Context) ([]string, error)
}

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - Ollama (snowflake-arctic-embed2, nomic-embed-text)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	ModelCatalog

	// Embed generates a vector embedding for the given text.
	// Implementations make exactly one attempt; retries belong to the caller.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
