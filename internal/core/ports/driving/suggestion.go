package driving

import (
	"context"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// SuggestionService proposes fixes for failed checklist items.
// Generation failures never surface as errors: the returned suggestion
// carries Failed=true and a readable description instead.
type SuggestionService interface {
	// Suggest generates a suggestion for one checklist item of a result.
	Suggest(ctx context.Context, result *domain.AnalysisResult, code string) (domain.Suggestion, error)

	// SuggestAll generates suggestions for every FAIL and WARNING item.
	SuggestAll(ctx context.Context, result *domain.AnalysisResult) ([]domain.Suggestion, error)

	// CheckReady verifies the LLM backend is reachable and the model is installed.
	CheckReady(ctx context.Context) error
}
