package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedTimeout      = "embedding.timeout_seconds"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMTimeout        = "llm.timeout_seconds"
	keyCacheBackend      = "cache.backend"
	keyCacheTTL          = "cache.ttl_seconds"
	keyCachePath         = "cache.path"
	keyGatewayWorkers    = "gateway.concurrency"
	keyGatewayRPS        = "gateway.requests_per_second"
	keyGatewayAttempts   = "gateway.max_attempts"
	keyGatewayBackoff    = "gateway.initial_backoff_ms"
	keyGatewayMaxBackoff = "gateway.max_backoff_ms"
	keyThresholdPrefix   = "thresholds."
	keyTopicDrift        = "thresholds.topic_drift"
)

// Environment variables that override stored settings.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOllamaURL      = "CCV_OLLAMA_URL"
	EnvEmbeddingModel = "CCV_EMBEDDING_MODEL"
	EnvLLMModel       = "CCV_LLM_MODEL"
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvAnthropicKey   = "ANTHROPIC_API_KEY"
)

// Threshold band names accepted by SetThreshold.
const (
	BandTitleMeta = "title_meta"
	BandTitleH1   = "title_h1"
	BandMetaH1    = "meta_h1"
	BandH2        = "h2"
)

// BandNames lists the configurable similarity bands.
var BandNames = []string{BandTitleMeta, BandTitleH1, BandMetaH1, BandH2}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings: stored values over
// defaults, then environment overrides.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.stored()
	s.applyEnv(settings)
	return settings, nil
}

// stored reads persisted settings over defaults, without environment
// overrides, so updates never write environment values back to disk.
func (s *SettingsService) stored() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
			Timeout:  s.getSeconds(keyEmbedTimeout, defaults.Embedding.Timeout),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
		},
		Cache: domain.CacheSettings{
			Backend: s.getCacheBackend(defaults.Cache.Backend),
			TTL:     s.getSeconds(keyCacheTTL, defaults.Cache.TTL),
			Path:    s.configStore.GetString(keyCachePath),
		},
		Gateway: domain.GatewaySettings{
			Concurrency:       s.getInt(keyGatewayWorkers, defaults.Gateway.Concurrency),
			RequestsPerSecond: s.configStore.GetFloat(keyGatewayRPS),
			MaxAttempts:       s.getInt(keyGatewayAttempts, defaults.Gateway.MaxAttempts),
			InitialBackoff:    s.getMillis(keyGatewayBackoff, defaults.Gateway.InitialBackoff),
			MaxBackoff:        s.getMillis(keyGatewayMaxBackoff, defaults.Gateway.MaxBackoff),
		},
		Thresholds: domain.SimilarityThresholds{
			TitleMeta:  s.getBand(BandTitleMeta, defaults.Thresholds.TitleMeta),
			TitleH1:    s.getBand(BandTitleH1, defaults.Thresholds.TitleH1),
			MetaH1:     s.getBand(BandMetaH1, defaults.Thresholds.MetaH1),
			H2:         s.getBand(BandH2, defaults.Thresholds.H2),
			TopicDrift: s.getFloat(keyTopicDrift, defaults.Thresholds.TopicDrift),
		},
	}

	// Local providers need a base URL
	if settings.Embedding.Provider.IsLocal() && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = domain.DefaultBaseURL
	}
	if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = domain.DefaultBaseURL
	}
	return settings
}

// applyEnv overrides settings from the environment.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if v, ok := s.env(EnvOllamaURL); ok {
		if settings.Embedding.Provider.IsLocal() {
			settings.Embedding.BaseURL = v
		}
		if settings.LLM.Provider.IsLocal() {
			settings.LLM.BaseURL = v
		}
	}
	if v, ok := s.env(EnvEmbeddingModel); ok {
		settings.Embedding.Model = v
	}
	if v, ok := s.env(EnvLLMModel); ok {
		settings.LLM.Model = v
	}

	// API keys only fill gaps; a stored key wins.
	if settings.Embedding.Provider == domain.AIProviderOpenAI && settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey, _ = s.env(EnvOpenAIKey)
	}
	if settings.LLM.APIKey == "" {
		switch settings.LLM.Provider {
		case domain.AIProviderOpenAI:
			settings.LLM.APIKey, _ = s.env(EnvOpenAIKey)
		case domain.AIProviderAnthropic:
			settings.LLM.APIKey, _ = s.env(EnvAnthropicKey)
		}
	}
}

func (s *SettingsService) env(name string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	v, ok := s.lookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedTimeout, int(settings.Embedding.Timeout / time.Second)},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{keyCacheBackend, settings.Cache.Backend.String()},
		{keyCacheTTL, int(settings.Cache.TTL / time.Second)},
		{keyCachePath, settings.Cache.Path},
		{keyGatewayWorkers, settings.Gateway.Concurrency},
		{keyGatewayRPS, settings.Gateway.RequestsPerSecond},
		{keyGatewayAttempts, settings.Gateway.MaxAttempts},
		{keyGatewayBackoff, int(settings.Gateway.InitialBackoff / time.Millisecond)},
		{keyGatewayMaxBackoff, int(settings.Gateway.MaxBackoff / time.Millisecond)},
		{keyThresholdPrefix + BandTitleMeta, settings.Thresholds.TitleMeta.Values()},
		{keyThresholdPrefix + BandTitleH1, settings.Thresholds.TitleH1.Values()},
		{keyThresholdPrefix + BandMetaH1, settings.Thresholds.MetaH1.Values()},
		{keyThresholdPrefix + BandH2, settings.Thresholds.H2.Values()},
		{keyTopicDrift, settings.Thresholds.TopicDrift},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Empty keys are not written so a key from the environment is never
	// replaced by a blank.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !provider.SupportsEmbedding() {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.stored()
	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, provider, domain.DefaultEmbeddingModels())
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.stored()
	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, provider, domain.DefaultLLMModels())
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetCacheBackend selects the embedding cache backend.
func (s *SettingsService) SetCacheBackend(backend domain.CacheBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid cache backend: %s", backend)
	}
	return s.configStore.Set(keyCacheBackend, backend.String())
}

// SetThreshold overrides one similarity band.
func (s *SettingsService) SetThreshold(name string, band domain.ThresholdBand) error {
	if !isBandName(name) {
		return fmt.Errorf("%w: unknown threshold %q", domain.ErrInvalidInput, name)
	}
	if _, ok := domain.BandFromValues(band.Values()); !ok {
		return fmt.Errorf("%w: threshold %s must be non-decreasing", domain.ErrInvalidInput, name)
	}
	if band.Min < -1 || band.Max > 1 {
		return fmt.Errorf("%w: threshold %s must lie within [-1, 1]", domain.ErrInvalidInput, name)
	}
	return s.configStore.Set(keyThresholdPrefix+name, band.Values())
}

// Validate checks that the current settings are usable for analysis.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider))
	}
	if settings.Embedding.Model == "" {
		errs = append(errs, errors.New("embedding model is empty"))
	}
	if !settings.Cache.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("invalid cache backend: %s", settings.Cache.Backend))
	}
	if d := settings.Thresholds.TopicDrift; d < -1 || d > 1 {
		errs = append(errs, fmt.Errorf("topic drift threshold %.2f outside [-1, 1]", d))
	}
	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if n := s.configStore.GetInt(key); n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if n := s.configStore.GetInt(key); n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getCacheBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	val := s.configStore.GetString(keyCacheBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.CacheBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// getBand reads a 4-float band. Malformed values fall back to the default.
func (s *SettingsService) getBand(name string, defaultVal domain.ThresholdBand) domain.ThresholdBand {
	values := s.configStore.GetFloatSlice(keyThresholdPrefix + name)
	if values == nil {
		return defaultVal
	}
	band, ok := domain.BandFromValues(values)
	if !ok {
		return defaultVal
	}
	return band
}

func modelOrDefault(model string, provider domain.AIProvider, defaults map[domain.AIProvider]string) string {
	if model != "" {
		return model
	}
	return defaults[provider]
}

// baseURLFor keeps a custom URL for local providers and clears it for
// cloud providers.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return domain.DefaultBaseURL
	}
	return current
}

func isBandName(name string) bool {
	for _, n := range BandNames {
		if n == name {
			return true
		}
	}
	return false
}
