package services

import (
	"math"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// SimilarityAnalyzer computes pairwise similarity over an embedding map and
// classifies it against threshold bands. It is pure: no I/O, no state
// beyond its thresholds.
type SimilarityAnalyzer struct {
	thresholds domain.SimilarityThresholds
}

// NewSimilarityAnalyzer creates an analyzer with the given thresholds.
func NewSimilarityAnalyzer(thresholds domain.SimilarityThresholds) *SimilarityAnalyzer {
	return &SimilarityAnalyzer{thresholds: thresholds}
}

// Thresholds returns the analyzer's bands.
func (a *SimilarityAnalyzer) Thresholds() domain.SimilarityThresholds {
	return a.thresholds
}

// PairwiseSimilarity returns the cosine similarity of two vectors.
func (a *SimilarityAnalyzer) PairwiseSimilarity(x, y []float32) float64 {
	return CosineSimilarity(x, y)
}

// CosineSimilarity returns the cosine of the angle between x and y.
// Zero vectors and length mismatches yield 0.
func CosineSimilarity(x, y []float32) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}

	var dot, nx, ny float64
	for i := range x {
		xi, yi := float64(x[i]), float64(y[i])
		dot += xi * yi
		nx += xi * xi
		ny += yi * yi
	}
	if nx == 0 || ny == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(nx) * math.Sqrt(ny))
	return math.Max(-1, math.Min(1, sim))
}

// SimilarityMatrix returns the symmetric matrix of all pairwise similarities,
// labelled in map order, with 1.0 on the diagonal.
func (a *SimilarityAnalyzer) SimilarityMatrix(m *domain.EmbeddingMap) domain.SimilarityMatrix {
	keys := m.Keys()
	vectors := make([][]float32, len(keys))
	for i, k := range keys {
		vectors[i], _ = m.Vector(k)
	}

	values := make([][]float64, len(keys))
	for i := range values {
		values[i] = make([]float64, len(keys))
		values[i][i] = 1.0
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			s := CosineSimilarity(vectors[i], vectors[j])
			values[i][j] = s
			values[j][i] = s
		}
	}
	return domain.SimilarityMatrix{Labels: keys, Values: values}
}

// CoreAlignment scores the title/meta/H1 triad. Only pairs with both ends
// present are scored, in the order (title, meta), (title, h1), (meta, h1).
func (a *SimilarityAnalyzer) CoreAlignment(m *domain.EmbeddingMap) []domain.SimilarityScore {
	pairs := []struct {
		a, b domain.ElementKey
		band domain.ThresholdBand
	}{
		{domain.KeyTitle, domain.KeyMeta, a.thresholds.TitleMeta},
		{domain.KeyTitle, domain.KeyH1, a.thresholds.TitleH1},
		{domain.KeyMeta, domain.KeyH1, a.thresholds.MetaH1},
	}

	var scores []domain.SimilarityScore
	for _, p := range pairs {
		if s, ok := a.score(m, p.a, p.b, p.band); ok {
			scores = append(scores, s)
		}
	}
	return scores
}

// HeadingAlignment scores every H2 against the resolved primary context.
func (a *SimilarityAnalyzer) HeadingAlignment(m *domain.EmbeddingMap) []domain.SimilarityScore {
	ctxKey, ok := domain.ResolveContext(m)
	if !ok {
		return nil
	}
	return a.HeadingAlignmentFor(m, ctxKey)
}

// HeadingAlignmentFor scores every H2 against an explicit context key.
func (a *SimilarityAnalyzer) HeadingAlignmentFor(m *domain.EmbeddingMap, ctxKey domain.ElementKey) []domain.SimilarityScore {
	if !m.Has(ctxKey) {
		return nil
	}

	var scores []domain.SimilarityScore
	for _, key := range m.Keys() {
		if key.Kind != domain.KindH2 {
			continue
		}
		if s, ok := a.score(m, key, ctxKey, a.thresholds.H2); ok {
			scores = append(scores, s)
		}
	}
	return scores
}

// DetectTopicDrift finds H2/H3 elements that stray from the resolved context.
func (a *SimilarityAnalyzer) DetectTopicDrift(m *domain.EmbeddingMap) []domain.TopicDrift {
	ctxKey, ok := domain.ResolveContext(m)
	if !ok {
		return nil
	}
	return a.TopicDriftFor(m, ctxKey)
}

// TopicDriftFor finds elements whose similarity to ctxKey is below the
// drift threshold. Core elements are never reported. H3 headings are
// compared with the document context, not their parent H2.
func (a *SimilarityAnalyzer) TopicDriftFor(m *domain.EmbeddingMap, ctxKey domain.ElementKey) []domain.TopicDrift {
	ctxVec, ok := m.Vector(ctxKey)
	if !ok {
		return nil
	}

	var drifts []domain.TopicDrift
	m.Each(func(key domain.ElementKey, v []float32) {
		if key.Kind.IsCore() || key == ctxKey {
			return
		}
		s := CosineSimilarity(v, ctxVec)
		if s < a.thresholds.TopicDrift {
			drifts = append(drifts, domain.TopicDrift{Element: key, Context: ctxKey, Score: s})
		}
	})
	return drifts
}

func (a *SimilarityAnalyzer) score(
	m *domain.EmbeddingMap, x, y domain.ElementKey, band domain.ThresholdBand,
) (domain.SimilarityScore, bool) {
	vx, okx := m.Vector(x)
	vy, oky := m.Vector(y)
	if !okx || !oky {
		return domain.SimilarityScore{}, false
	}

	s := CosineSimilarity(vx, vy)
	return domain.SimilarityScore{
		ElementA:  x,
		ElementB:  y,
		Score:     s,
		Status:    band.Classify(s),
		TargetMin: band.TargetMin,
		TargetMax: band.TargetMax,
	}, true
}
