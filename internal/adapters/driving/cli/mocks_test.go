package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	result   *domain.AnalysisResult
	matrix   domain.SimilarityMatrix
	status   *domain.BackendStatus
	readyErr error
	clearErr error
	err      error

	calls    int
	gotRaw   string
	gotHint  string
	gotHints []string
}

func (m *mockAnalysisService) Analyze(_ context.Context, raw []byte, hints ...string) (*domain.AnalysisResult, error) {
	m.calls++
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
	return m.clearErr
}

// mockSuggestionService is a mock implementation of driving.SuggestionService.
type mockSuggestionService struct {
	readyErr error
	err      error

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

func (m *mockSuggestionService) SuggestAll(_ context.Context, r *domain.AnalysisResult) ([]domain.Suggestion, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Suggestion
	for _, item := range r.Problems() {
		out = append(out, domain.Suggestion{Code: item.Code, Body: "fix " + item.Code})
	}
	return out, nil
}

func (m *mockSuggestionService) CheckReady(_ context.Context) error {
	return m.readyErr
}

// stubEmbedder implements driven.EmbeddingService with vectors derived
// from the text length, for running the real analysis pipeline.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{1, float32(len(text)) / 100}, nil
}

func (stubEmbedder) ListModels(_ context.Context) ([]string, error) { return []string{"stub-embed"}, nil }
func (stubEmbedder) ModelName() string                              { return "stub-embed" }
func (stubEmbedder) Ping(_ context.Context) error                   { return nil }
func (stubEmbedder) Close() error                                   { return nil }

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    *domain.AppSettings
	err         error
	validateErr error

	gotCache     domain.CacheBackend
	gotThreshold string
	gotBand      domain.ThresholdBand
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) { return m.settings, m.err }

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error { return m.err }

func (m *mockSettingsService) SetCacheBackend(b domain.CacheBackend) error {
	m.gotCache = b
	return m.err
}

func (m *mockSettingsService) SetThreshold(name string, band domain.ThresholdBand) error {
	m.gotThreshold = name
	m.gotBand = band
	return m.err
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.err }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.err }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	analysis   *mockAnalysisService
	suggestion *mockSuggestionService
	settings   *mockSettingsService
}

// setupTestServices installs mock services and resets command flags.
// Everything is restored when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	defaults := domain.DefaultAppSettings()
	ts := &testServices{
		analysis: &mockAnalysisService{
			result: sampleResult(),
			matrix: domain.SimilarityMatrix{
				Labels: []domain.ElementKey{domain.KeyTitle, domain.KeyH1},
				Values: [][]float64{{1, 0.86}, {0.86, 1}},
			},
			status: &domain.BackendStatus{
				EmbeddingReachable: true,
				EmbeddingModel:     "snowflake-arctic-embed2:latest",
				EmbeddingModelOK:   true,
			},
		},
		suggestion: &mockSuggestionService{},
		settings:   &mockSettingsService{settings: &defaults},
	}

	prevA, prevS, prevC := analysisService, suggestionService, settingsService
	SetServices(ts.analysis, ts.suggestion, ts.settings)
	resetFlags()

	t.Cleanup(func() {
		SetServices(prevA, prevS, prevC)
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return ts
}

// resetFlags clears flag variables left over from earlier executions.
func resetFlags() {
	analyzeURL, analyzeFormat = "", ""
	analyzeJSON, analyzeMatrix, analyzeSuggest, analyzeWatch = false, false, false, false
	suggestFormat, suggestJSON = "", false
	checkJSON, rulesJSON = false, false
	tuiFormat = ""
	verbose = false
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := Execute(context.Background())
	return buf.String(), err
}

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
			{
				ElementA: domain.KeyTitle, ElementB: domain.KeyH1, Score: 0.86, Status: domain.StatusPass,
				TargetMin: 0.80, TargetMax: 0.95,
			},
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
