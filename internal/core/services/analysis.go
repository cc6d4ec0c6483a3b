package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ccv-cli/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisService orchestrates one analysis run:
// embed, align, detect drift, evaluate, apply drift, score.
type AnalysisService struct {
	gateway   *EmbeddingGateway
	analyzer  *SimilarityAnalyzer
	evaluator *ChecklistEvaluator
	parsers   driven.ParserRegistry
	now       func() time.Time
}

// NewAnalysisService creates a new analysis service.
// The parsers parameter is optional; without it only AnalyzeDocument works.
func NewAnalysisService(
	gateway *EmbeddingGateway,
	analyzer *SimilarityAnalyzer,
	evaluator *ChecklistEvaluator,
	parsers driven.ParserRegistry,
) *AnalysisService {
	return &AnalysisService{
		gateway:   gateway,
		analyzer:  analyzer,
		evaluator: evaluator,
		parsers:   parsers,
		now:       time.Now,
	}
}

// Analyze parses raw markup with the first parser any hint resolves to and
// analyses it.
func (s *AnalysisService) Analyze(ctx context.Context, raw []byte, hints ...string) (*domain.AnalysisResult, error) {
	if s.parsers == nil {
		return nil, fmt.Errorf("%w: no parsers registered", domain.ErrUnsupportedType)
	}

	parser, err := s.lookupParser(hints)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parsing %d bytes as %s", len(raw), parser.Format())

	structure, err := parser.Parse(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", parser.Format(), err)
	}
	return s.AnalyzeDocument(ctx, structure)
}

// lookupParser returns the parser for the first hint the registry knows.
// When none resolves, the error names the first non-empty hint.
func (s *AnalysisService) lookupParser(hints []string) (driven.StructureParser, error) {
	var firstErr error
	for _, h := range hints {
		if strings.TrimSpace(h) == "" {
			continue
		}
		p, err := s.parsers.Lookup(h)
		if err == nil {
			return p, nil
		}
		logger.Debug("No parser for hint %q: %v", h, err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		return nil, fmt.Errorf("%w: no format given", domain.ErrUnsupportedType)
	}
	return nil, firstErr
}

// AnalyzeDocument runs the full pipeline on a parsed structure.
func (s *AnalysisService) AnalyzeDocument(
	ctx context.Context, structure *domain.DocumentStructure,
) (*domain.AnalysisResult, error) {
	if structure == nil {
		return nil, fmt.Errorf("%w: nil structure", domain.ErrInvalidInput)
	}

	logger.Section("Analysis")
	elements := structure.TextElements()
	if len(elements) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	logger.Debug("Structure: title=%t meta=%t h1=%d h2=%d h3=%d",
		structure.Title != nil, structure.MetaDescription != nil,
		structure.H1Count(), structure.H2Count(), structure.H3Count())

	embeddings, err := s.gateway.EmbedMany(ctx, elements)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	logger.Section("Similarity")
	core := s.analyzer.CoreAlignment(embeddings)
	scores := append([]domain.SimilarityScore{}, core...)

	var drifts []domain.TopicDrift
	ctxKey, hasContext := domain.ResolveContext(embeddings)
	if hasContext {
		logger.Debug("Primary context: %s", ctxKey)
		scores = append(scores, s.analyzer.HeadingAlignmentFor(embeddings, ctxKey)...)
		drifts = s.analyzer.TopicDriftFor(embeddings, ctxKey)
	} else {
		logger.Debug("No primary context (no H1 or title), skipping heading alignment")
	}
	logger.Debug("Scores: %d core, %d heading, %d drift(s)", len(core), len(scores)-len(core), len(drifts))

	logger.Section("Checklist")
	items := s.evaluator.EvaluateAll(structure, core)
	// The score is taken before drift adjusts CV-012; drift only changes the item.
	overall := s.evaluator.CalculateOverallScore(items)
	items = s.evaluator.ApplyTopicDrift(items, drifts)
	logger.Info("Overall score: %.1f", overall)

	return &domain.AnalysisResult{
		ID:               uuid.NewString(),
		Structure:        structure,
		Embeddings:       embeddings,
		Context:          ctxKey,
		SimilarityScores: scores,
		ChecklistResults: items,
		TopicDrifts:      drifts,
		OverallScore:     overall,
		EmbeddingModel:   s.gateway.EmbeddingModel(),
		CreatedAt:        s.now(),
	}, nil
}

// Matrix returns the pairwise similarity matrix of a result's embeddings.
func (s *AnalysisService) Matrix(result *domain.AnalysisResult) domain.SimilarityMatrix {
	if result == nil {
		return domain.SimilarityMatrix{}
	}
	return s.analyzer.SimilarityMatrix(result.Embeddings)
}

// ClearCache removes all cached embeddings.
func (s *AnalysisService) ClearCache(ctx context.Context) error {
	return s.gateway.ClearCache(ctx)
}

// CheckReady verifies the embedding backend and model before a run.
func (s *AnalysisService) CheckReady(ctx context.Context) error {
	g := s.gateway
	return checkBackend(ctx, g.cfg.EmbeddingProvider, g.EmbeddingModel(), g.IsReachable, g.HasModel)
}

// Status reports reachability and model availability of both backends.
func (s *AnalysisService) Status(ctx context.Context) (*domain.BackendStatus, error) {
	g := s.gateway
	st := &domain.BackendStatus{
		EmbeddingModel: g.EmbeddingModel(),
		LLMConfigured:  g.HasLLM(),
		LLMModel:       g.LLMModel(),
	}

	st.EmbeddingReachable = g.IsReachable(ctx)
	if st.EmbeddingReachable {
		models, err := g.ListAvailableModels(ctx)
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		st.AvailableModels = models
		st.EmbeddingModelOK = containsModel(models, st.EmbeddingModel)
	}

	if st.LLMConfigured {
		st.LLMReachable = g.IsLLMReachable(ctx)
		if st.LLMReachable {
			ok, err := g.HasLLMModel(ctx, st.LLMModel)
			if err != nil {
				return nil, fmt.Errorf("list llm models: %w", err)
			}
			st.LLMModelOK = ok
		}
	}
	return st, nil
}

func containsModel(models []string, name string) bool {
	for _, m := range models {
		if name != "" && strings.Contains(m, name) {
			return true
		}
	}
	return false
}
