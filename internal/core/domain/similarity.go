package domain

// ThresholdBand is a four-point scale classifying a similarity score.
// Only low similarity is penalised: scores above TargetMax or Max still PASS.
// TargetMax and Max are carried for display.
type ThresholdBand struct {
	Min       float64 `json:"min" toml:"min"`
	TargetMin float64 `json:"target_min" toml:"target_min"`
	TargetMax float64 `json:"target_max" toml:"target_max"`
	Max       float64 `json:"max" toml:"max"`
}

// Classify maps a score onto PASS, WARNING or FAIL.
func (b ThresholdBand) Classify(score float64) CheckStatus {
	switch {
	case score >= b.TargetMin:
		return StatusPass
	case score >= b.Min:
		return StatusWarning
	default:
		return StatusFail
	}
}

// Values returns the band as a 4-element slice (min, target_min, target_max, max).
func (b ThresholdBand) Values() []float64 {
	return []float64{b.Min, b.TargetMin, b.TargetMax, b.Max}
}

// BandFromValues builds a band from a 4-element slice. It returns false
// when the slice has the wrong length or is not non-decreasing.
func BandFromValues(v []float64) (ThresholdBand, bool) {
	if len(v) != 4 {
		return ThresholdBand{}, false
	}
	for i := 1; i < len(v); i++ {
		if v[i] < v[i-1] {
			return ThresholdBand{}, false
		}
	}
	return ThresholdBand{Min: v[0], TargetMin: v[1], TargetMax: v[2], Max: v[3]}, true
}

// SimilarityThresholds configures the similarity analyzer.
type SimilarityThresholds struct {
	TitleMeta  ThresholdBand
	TitleH1    ThresholdBand
	MetaH1     ThresholdBand
	H2         ThresholdBand
	TopicDrift float64
}

// DefaultSimilarityThresholds returns the built-in bands.
func DefaultSimilarityThresholds() SimilarityThresholds {
	return SimilarityThresholds{
		TitleMeta:  ThresholdBand{Min: 0.50, TargetMin: 0.60, TargetMax: 0.80, Max: 0.85},
		TitleH1:    ThresholdBand{Min: 0.75, TargetMin: 0.80, TargetMax: 0.90, Max: 0.95},
		MetaH1:     ThresholdBand{Min: 0.65, TargetMin: 0.70, TargetMax: 0.85, Max: 0.90},
		H2:         ThresholdBand{Min: 0.40, TargetMin: 0.50, TargetMax: 0.70, Max: 0.80},
		TopicDrift: 0.40,
	}
}

// SimilarityScore is the classified similarity of one element pair.
type SimilarityScore struct {
	ElementA  ElementKey  `json:"element_a"`
	ElementB  ElementKey  `json:"element_b"`
	Score     float64     `json:"score"`
	Status    CheckStatus `json:"status"`
	TargetMin float64     `json:"target_min"`
	TargetMax float64     `json:"target_max"`
}

// IsCorePair returns true when both ends are title, meta or H1.
func (s SimilarityScore) IsCorePair() bool {
	return s.ElementA.Kind.IsCore() && s.ElementB.Kind.IsCore()
}

// Matches reports whether the score is for the pair (a, b) in that order.
func (s SimilarityScore) Matches(a, b ElementKey) bool {
	return s.ElementA == a && s.ElementB == b
}

// TopicDrift records a non-core element that strays from the primary context.
type TopicDrift struct {
	Element ElementKey `json:"element"`
	Context ElementKey `json:"context"`
	Score   float64    `json:"score"`
}

// SimilarityMatrix is a labelled square matrix of pairwise similarities.
type SimilarityMatrix struct {
	Labels []ElementKey `json:"labels"`
	Values [][]float64  `json:"values"`
}

// At returns the similarity between labels i and j.
func (m SimilarityMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// SimilarityColor returns a hex colour for a score: green, yellow, orange or red.
func SimilarityColor(score float64) string {
	switch {
	case score >= 0.8:
		return "#28a745"
	case score >= 0.6:
		return "#ffc107"
	case score >= 0.4:
		return "#fd7e14"
	default:
		return "#dc3545"
	}
}
