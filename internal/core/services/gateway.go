package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ccv-cli/internal/logger"
)

// GatewayConfig configures the embedding gateway.
type GatewayConfig struct {
	// Concurrency bounds the number of embedding requests in flight (default: 4).
	Concurrency int

	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64

	// MaxAttempts is the number of tries per call, including the first (default: 3).
	MaxAttempts int

	// InitialBackoff and MaxBackoff bound the exponential wait (defaults: 1s, 10s).
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// CacheTTL is how long cached vectors stay valid (default: 1h).
	CacheTTL time.Duration

	// EmbeddingProvider and LLMProvider select the remediation hints
	// reported by readiness checks.
	EmbeddingProvider domain.AIProvider
	LLMProvider       domain.AIProvider
}

// GatewayConfigFromSettings derives a gateway configuration from app settings.
func GatewayConfigFromSettings(s *domain.AppSettings) GatewayConfig {
	return GatewayConfig{
		Concurrency:       s.Gateway.Concurrency,
		RequestsPerSecond: s.Gateway.RequestsPerSecond,
		MaxAttempts:       s.Gateway.MaxAttempts,
		InitialBackoff:    s.Gateway.InitialBackoff,
		MaxBackoff:        s.Gateway.MaxBackoff,
		CacheTTL:          s.Cache.TTL,
		EmbeddingProvider: s.Embedding.Provider,
		LLMProvider:       s.LLM.Provider,
	}
}

func (c GatewayConfig) withDefaults() GatewayConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = domain.DefaultCacheTTL
	}
	if c.EmbeddingProvider == "" {
		c.EmbeddingProvider = domain.AIProviderOllama
	}
	if c.LLMProvider == "" {
		c.LLMProvider = domain.AIProviderOllama
	}
	return c
}

// EmbeddingGateway is the single point of contact with the AI backends.
// It adds retries, throttling, memoisation and concurrent fan-out on top
// of the raw embedding and LLM adapters.
type EmbeddingGateway struct {
	embedder driven.EmbeddingService
	llm      driven.LLMService
	cache    driven.EmbeddingCache
	limiter  *rate.Limiter
	cfg      GatewayConfig
}

// NewEmbeddingGateway creates a gateway.
// The llm and cache parameters are optional (can be nil).
func NewEmbeddingGateway(
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	cache driven.EmbeddingCache,
	cfg GatewayConfig,
) *EmbeddingGateway {
	cfg = cfg.withDefaults()
	g := &EmbeddingGateway{
		embedder: embedder,
		llm:      llm,
		cache:    cache,
		cfg:      cfg,
	}
	if cfg.RequestsPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Concurrency)
	}
	return g
}

// EmbeddingModel returns the configured embedding model name.
func (g *EmbeddingGateway) EmbeddingModel() string {
	if g.embedder == nil {
		return ""
	}
	return g.embedder.ModelName()
}

// LLMModel returns the configured generation model name, or "" without an LLM.
func (g *EmbeddingGateway) LLMModel() string {
	if g.llm == nil {
		return ""
	}
	return g.llm.ModelName()
}

// HasLLM reports whether a generation backend is configured.
func (g *EmbeddingGateway) HasLLM() bool {
	return g.llm != nil
}

// ClearCache drops every memoised vector. It is a no-op without a cache.
func (g *EmbeddingGateway) ClearCache(ctx context.Context) error {
	if g.cache == nil {
		return nil
	}
	if err := g.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear embedding cache: %w", err)
	}
	return nil
}

// EmbedOne returns the embedding of a single text.
func (g *EmbeddingGateway) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if g.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}
	return g.embedCached(ctx, text)
}

// EmbedMany embeds every non-empty element concurrently and returns the
// vectors in element order. Any element failure fails the whole batch.
func (g *EmbeddingGateway) EmbedMany(ctx context.Context, elements []domain.TextElement) (*domain.EmbeddingMap, error) {
	if g.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	todo := make([]domain.TextElement, 0, len(elements))
	for _, el := range elements {
		if strings.TrimSpace(el.Text) != "" {
			todo = append(todo, el)
		}
	}
	logger.Debug("Embedding %d of %d elements with %s (concurrency %d)",
		len(todo), len(elements), g.embedder.ModelName(), g.cfg.Concurrency)

	vectors := make([][]float32, len(todo))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Concurrency)
	for i, el := range todo {
		eg.Go(func() error {
			v, err := g.embedCached(egCtx, el.Text)
			if err != nil {
				return fmt.Errorf("embed %s: %w", el.Key, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	m := domain.NewEmbeddingMap()
	for i, el := range todo {
		m.Set(el.Key, vectors[i])
	}
	return m, nil
}

// GenerateText runs one generation call with retries.
func (g *EmbeddingGateway) GenerateText(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if g.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	var out string
	err := g.retry(ctx, "generate", func() error {
		text, err := g.llm.Generate(ctx, prompt, opts)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	return out, nil
}

// IsReachable reports whether the embedding backend answers.
func (g *EmbeddingGateway) IsReachable(ctx context.Context) bool {
	if g.embedder == nil {
		return false
	}
	if err := g.embedder.Ping(ctx); err != nil {
		logger.Debug("Embedding backend unreachable: %v", err)
		return false
	}
	return true
}

// IsLLMReachable reports whether the generation backend answers.
func (g *EmbeddingGateway) IsLLMReachable(ctx context.Context) bool {
	if g.llm == nil {
		return false
	}
	if err := g.llm.Ping(ctx); err != nil {
		logger.Debug("LLM backend unreachable: %v", err)
		return false
	}
	return true
}

// ListAvailableModels lists the models of the embedding backend.
func (g *EmbeddingGateway) ListAvailableModels(ctx context.Context) ([]string, error) {
	if g.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	return g.embedder.ListModels(ctx)
}

// HasModel reports whether the embedding backend offers a model.
func (g *EmbeddingGateway) HasModel(ctx context.Context, name string) (bool, error) {
	if g.embedder == nil {
		return false, domain.ErrEmbeddingUnavailable
	}
	return hasModel(ctx, g.embedder, name)
}

// HasLLMModel reports whether the generation backend offers a model.
func (g *EmbeddingGateway) HasLLMModel(ctx context.Context, name string) (bool, error) {
	if g.llm == nil {
		return false, domain.ErrLLMUnavailable
	}
	return hasModel(ctx, g.llm, name)
}

// hasModel matches when name is a substring of an available model name,
// so "gemma3" matches "gemma3:12b".
func hasModel(ctx context.Context, catalog driven.ModelCatalog, name string) (bool, error) {
	models, err := catalog.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if strings.Contains(m, name) {
			return true, nil
		}
	}
	return false, nil
}

func (g *EmbeddingGateway) embedCached(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(g.embedder.ModelName(), text)
	if g.cache != nil {
		v, ok, err := g.cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("Embedding cache read failed: %v", err)
		case ok:
			return v, nil
		}
	}

	var vector []float32
	err := g.retry(ctx, "embed", func() error {
		v, err := g.embedder.Embed(ctx, text)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			return errors.New("empty embedding returned")
		}
		vector = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}

	if g.cache != nil {
		if err := g.cache.Put(ctx, key, vector, g.cfg.CacheTTL); err != nil {
			logger.Warn("Embedding cache write failed: %v", err)
		}
	}
	return vector, nil
}

// retryable is implemented by adapter errors that know whether a
// repeat can succeed (for example an HTTP 404 cannot).
type retryable interface {
	Retryable() bool
}

// retry runs fn up to MaxAttempts times with exponential backoff.
// Context cancellation stops further attempts.
func (g *EmbeddingGateway) retry(ctx context.Context, op string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.cfg.InitialBackoff
	b.MaxInterval = g.cfg.MaxBackoff
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(g.cfg.MaxAttempts-1)), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		err := fn()
		var r retryable
		if errors.As(err, &r) && !r.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		logger.Warn("%s attempt %d/%d failed: %v (retrying in %s)", op, attempt, g.cfg.MaxAttempts, err, wait)
	})
}

// CacheKey derives the embedding cache key from the model and the exact text.
func CacheKey(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "emb:" + hex.EncodeToString(h.Sum(nil))
}
