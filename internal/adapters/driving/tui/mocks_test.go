package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	mu       sync.Mutex
	result   *domain.AnalysisResult
	matrix   domain.SimilarityMatrix
	err      error
	calls    int
	gotRaw   string
	gotHint  string
	gotHints []string
}

func (m *mockAnalysisService) Analyze(_ context.Context, raw []byte, hints ...string) (*domain.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	return nil
}

func (m *mockAnalysisService) Status(_ context.Context) (*domain.BackendStatus, error) {
	return &domain.BackendStatus{}, nil
}

func (m *mockAnalysisService) ClearCache(_ context.Context) error {
	return nil
}

// mockSuggestionService is a mock implementation of driving.SuggestionService.
type mockSuggestionService struct {
	err     error
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
	return nil, m.err
}

func (m *mockSuggestionService) CheckReady(_ context.Context) error {
	return nil
}

// sampleResult builds a small analysis result with one failing rule.
func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Structure: &domain.DocumentStructure{
			Title:  domain.StringPtr("Cold Brew Coffee Guide"),
			H1List: []string{"Cold Brew Coffee"},
		},
		ChecklistResults: []domain.ChecklistItem{
			{Code: "CV-001", Name: "Title has content", Priority: domain.PriorityCritical, Status: domain.StatusPass},
			{Code: "CV-002", Name: "Title length", Priority: domain.PriorityHigh, Status: domain.StatusFail},
		},
		OverallScore: 64.5,
	}
}

// staticDocument returns a Document serving content.
func staticDocument(content string) Document {
	return Document{
		Label: "page.html",
		Hint:  "html",
		Read:  func() ([]byte, error) { return []byte(content), nil },
	}
}
