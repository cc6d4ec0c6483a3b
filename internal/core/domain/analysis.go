package domain

import "time"

// AnalysisResult is the complete, read-only outcome of one analysis run.
type AnalysisResult struct {
	ID               string             `json:"id"`
	Structure        *DocumentStructure `json:"structure"`
	Embeddings       *EmbeddingMap      `json:"-"`
	Context          ElementKey         `json:"context,omitempty"`
	SimilarityScores []SimilarityScore  `json:"similarity_scores"`
	ChecklistResults []ChecklistItem    `json:"checklist_results"`
	TopicDrifts      []TopicDrift       `json:"topic_drifts"`
	OverallScore     float64            `json:"overall_score"`
	EmbeddingModel   string             `json:"embedding_model"`
	CreatedAt        time.Time          `json:"created_at"`
}

// Item returns the checklist item with the given code.
func (r *AnalysisResult) Item(code string) (ChecklistItem, bool) {
	for _, item := range r.ChecklistResults {
		if item.Code == code {
			return item, true
		}
	}
	return ChecklistItem{}, false
}

// CriticalIssues returns FAIL items with CRITICAL priority.
func (r *AnalysisResult) CriticalIssues() []ChecklistItem {
	return r.filter(func(i ChecklistItem) bool {
		return i.Status == StatusFail && i.Priority == PriorityCritical
	})
}

// Warnings returns all WARNING items.
func (r *AnalysisResult) Warnings() []ChecklistItem {
	return r.filter(func(i ChecklistItem) bool { return i.Status == StatusWarning })
}

// Failures returns all FAIL items.
func (r *AnalysisResult) Failures() []ChecklistItem {
	return r.filter(func(i ChecklistItem) bool { return i.Status == StatusFail })
}

// Problems returns all FAIL and WARNING items in checklist order.
func (r *AnalysisResult) Problems() []ChecklistItem {
	return r.filter(func(i ChecklistItem) bool { return i.Status.IsProblem() })
}

// CoreScores returns the similarity scores between title, meta and H1.
func (r *AnalysisResult) CoreScores() []SimilarityScore {
	var out []SimilarityScore
	for _, s := range r.SimilarityScores {
		if s.IsCorePair() {
			out = append(out, s)
		}
	}
	return out
}

// Score returns the similarity score for the pair (a, b).
func (r *AnalysisResult) Score(a, b ElementKey) (SimilarityScore, bool) {
	for _, s := range r.SimilarityScores {
		if s.Matches(a, b) {
			return s, true
		}
	}
	return SimilarityScore{}, false
}

func (r *AnalysisResult) filter(keep func(ChecklistItem) bool) []ChecklistItem {
	var out []ChecklistItem
	for _, item := range r.ChecklistResults {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
