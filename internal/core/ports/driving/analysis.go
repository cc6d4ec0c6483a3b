package driving

import (
	"context"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// AnalysisService runs the content context vector analysis.
type AnalysisService interface {
	// Analyze parses raw markup and analyses the resulting structure.
	// Each hint is a format name, MIME type or file path; the first one the
	// parser registry resolves selects the parser. Empty hints are skipped.
	Analyze(ctx context.Context, raw []byte, hints ...string) (*domain.AnalysisResult, error)

	// AnalyzeDocument analyses an already parsed structure. The result is
	// either complete or an error is returned; there are no partial results.
	AnalyzeDocument(ctx context.Context, structure *domain.DocumentStructure) (*domain.AnalysisResult, error)

	// Matrix returns the full pairwise similarity matrix of a result.
	Matrix(result *domain.AnalysisResult) domain.SimilarityMatrix

	// CheckReady verifies the embedding backend is reachable and the
	// embedding model is installed. Failures are *domain.PreconditionError.
	CheckReady(ctx context.Context) error

	// Status reports backend reachability and model availability.
	Status(ctx context.Context) (*domain.BackendStatus, error)

	// ClearCache removes all cached embeddings.
	ClearCache(ctx context.Context) error
}
