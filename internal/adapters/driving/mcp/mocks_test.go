package mcp

import (
	"context"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	result   *domain.AnalysisResult
	matrix   domain.SimilarityMatrix
	status   *domain.BackendStatus
	readyErr error
	err      error

	gotRaw   string
	gotHint  string
	gotHints []string
}

func (m *mockAnalysisService) Analyze(_ context.Context, raw []byte, hints ...string) (*domain.AnalysisResult, error) {
	m.gotRaw = string(raw)
	m.gotHints = hints
	if len(hints) > 0 {
		m.gotHint = hints[0]
	}
	return m.result, m.err
}

func (m *mockAnalysisService) AnalyzeDocument(
	_ context.Context, _ *domain.DocumentStructure,
) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

func (m *mockAnalysisService) Matrix(_ *domain.AnalysisResult) domain.SimilarityMatrix {
	return m.matrix
}

func (m *mockAnalysisService) CheckReady(_ context.Context) error {
	return m.readyErr
}

func (m *mockAnalysisService) Status(_ context.Context) (*domain.BackendStatus, error) {
	return m.status, m.err
}

func (m *mockAnalysisService) ClearCache(_ context.Context) error {
	return nil
}

// mockSuggestionService is a mock implementation of driving.SuggestionService.
type mockSuggestionService struct {
	suggestions []domain.Suggestion
	readyErr    error
	err         error

	gotCode string
}

func (m *mockSuggestionService) Suggest(
	_ context.Context, _ *domain.AnalysisResult, code string,
) (domain.Suggestion, error) {
	m.gotCode = code
	if m.err != nil {
		return domain.Suggestion{}, m.err
	}
	return domain.Suggestion{Code: code, Body: "fix " + code}, nil
}

func (m *mockSuggestionService) SuggestAll(_ context.Context, _ *domain.AnalysisResult) ([]domain.Suggestion, error) {
	return m.suggestions, m.err
}

func (m *mockSuggestionService) CheckReady(_ context.Context) error {
	return m.readyErr
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) { return m.settings, m.err }

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error { return m.err }

func (m *mockSettingsService) SetCacheBackend(_ domain.CacheBackend) error { return m.err }

func (m *mockSettingsService) SetThreshold(_ string, _ domain.ThresholdBand) error { return m.err }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.err }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.err }

// sampleResult builds a small analysis result with one failing rule.
func sampleResult() *domain.AnalysisResult {
	structure := &domain.DocumentStructure{
		Title:           domain.StringPtr("Cold Brew Coffee Guide"),
		MetaDescription: domain.StringPtr("How to make cold brew at home"),
		H1List:          []string{"Cold Brew Coffee"},
		SourceType:      domain.SourceHTML,
	}
	return &domain.AnalysisResult{
		ID:        "res-1",
		Structure: structure,
		Context:   domain.KeyH1,
		SimilarityScores: []domain.SimilarityScore{
			{ElementA: domain.KeyTitle, ElementB: domain.KeyH1, Score: 0.86, Status: domain.StatusPass},
		},
		ChecklistResults: []domain.ChecklistItem{
			{Code: "CV-001", Name: "Title has content", Priority: domain.PriorityCritical, Status: domain.StatusPass},
			{
				Code: "CV-002", Name: "Title length", Priority: domain.PriorityHigh, Status: domain.StatusFail,
				Value: "22", Target: "50-60", Message: "Title too short",
			},
		},
		OverallScore:   50,
		EmbeddingModel: "snowflake-arctic-embed2:latest",
	}
}
