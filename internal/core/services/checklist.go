package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// minRepeatWordLen is the rune length a title word must exceed to count
// towards keyword stuffing.
const minRepeatWordLen = 4

// ChecklistEvaluator evaluates the CV-001..CV-019 rules. It is stateless:
// every call depends only on its arguments and the configured thresholds.
type ChecklistEvaluator struct {
	t domain.StructureThresholds
}

// NewChecklistEvaluator creates an evaluator with the given thresholds.
func NewChecklistEvaluator(t domain.StructureThresholds) *ChecklistEvaluator {
	return &ChecklistEvaluator{t: t}
}

// EvaluateAll runs all rule groups in fixed order: title, meta, H1,
// semantic alignment, H2, H3. CV-012 is always emitted as PASS; the
// caller applies the drift outcome with ApplyTopicDrift.
func (e *ChecklistEvaluator) EvaluateAll(
	s *domain.DocumentStructure, scores []domain.SimilarityScore,
) []domain.ChecklistItem {
	if s == nil {
		s = &domain.DocumentStructure{}
	}

	items := make([]domain.ChecklistItem, 0, len(domain.Rules))
	items = append(items, e.evaluateTitle(s)...)
	items = append(items, e.evaluateMeta(s)...)
	items = append(items, e.evaluateH1(s, scores)...)
	items = append(items, e.evaluateSemantic(scores)...)
	items = append(items, e.evaluateH2(s)...)
	items = append(items, e.evaluateH3(s)...)
	return items
}

func (e *ChecklistEvaluator) evaluateTitle(s *domain.DocumentStructure) []domain.ChecklistItem {
	title := s.TitleText()
	n := utf8.RuneCountInString(title)

	present := item(domain.CodeTitlePresent, passIf(n > 0, domain.StatusFail),
		fmt.Sprintf("%d chars", n), "Keyword within the first 60 chars", "")

	var lengthStatus domain.CheckStatus
	switch {
	case n >= e.t.TitleOptimalMin && n <= e.t.TitleOptimalMax:
		lengthStatus = domain.StatusPass
	case n < e.t.TitleOptimalMin || n > e.t.TitleMaxLength:
		lengthStatus = domain.StatusFail
	default:
		lengthStatus = domain.StatusWarning
	}
	length := item(domain.CodeTitleLength, lengthStatus,
		fmt.Sprintf("%d chars", n), fmt.Sprintf("%d-%d chars", e.t.TitleOptimalMin, e.t.TitleOptimalMax), "")

	unique := item(domain.CodeTitleUnique, domain.StatusPass,
		"N/A", "Unique title", "Requires comparison with other pages")

	repeats := maxWordRepeat(title)
	stuffing := item(domain.CodeTitleStuffing, passIf(repeats <= e.t.TitleMaxRepeats, domain.StatusWarning),
		fmt.Sprintf("max %dx repeated", repeats), fmt.Sprintf("max %dx per word", e.t.TitleMaxRepeats), "")

	return []domain.ChecklistItem{present, length, unique, stuffing}
}

func (e *ChecklistEvaluator) evaluateMeta(s *domain.DocumentStructure) []domain.ChecklistItem {
	meta := s.MetaText()
	title := s.TitleText()
	n := utf8.RuneCountInString(meta)
	const extendsTarget = "min 60% unique content"

	var extends domain.ChecklistItem
	switch {
	case meta == "":
		extends = item(domain.CodeMetaExtendsTitle, domain.StatusFail, "No meta", extendsTarget, "")
	case title == "":
		extends = item(domain.CodeMetaExtendsTitle, domain.StatusWarning, "No title", extendsTarget, "")
	default:
		ratio := uniqueWordRatio(title, meta)
		status := domain.StatusFail
		switch {
		case ratio >= 0.4:
			status = domain.StatusPass
		case ratio >= 0.2:
			status = domain.StatusWarning
		}
		extends = item(domain.CodeMetaExtendsTitle, status,
			fmt.Sprintf("%.0f%% unique content", ratio*100), extendsTarget, "")
	}

	var lengthStatus domain.CheckStatus
	switch {
	case n >= e.t.MetaOptimalMin && n <= e.t.MetaOptimalMax:
		lengthStatus = domain.StatusPass
	case n == 0:
		lengthStatus = domain.StatusFail
	default:
		lengthStatus = domain.StatusWarning
	}
	length := item(domain.CodeMetaLength, lengthStatus,
		fmt.Sprintf("%d chars", n), fmt.Sprintf("%d-%d chars", e.t.MetaOptimalMin, e.t.MetaOptimalMax), "")

	keywords := item(domain.CodeMetaKeywords, passIf(n > e.t.MetaKeywordsMinLen, domain.StatusWarning),
		"N/A", "1-2 LSI keywords", "Requires manual review")

	return []domain.ChecklistItem{extends, length, keywords}
}

func (e *ChecklistEvaluator) evaluateH1(
	s *domain.DocumentStructure, scores []domain.SimilarityScore,
) []domain.ChecklistItem {
	count := s.H1Count()
	single := item(domain.CodeSingleH1, passIf(count == 1, domain.StatusFail),
		fmt.Sprintf("%d H1", count), "1 H1", "")

	var similarity domain.ChecklistItem
	if sc, ok := findScore(scores, domain.KeyTitle, domain.KeyH1); ok {
		similarity = item(domain.CodeH1TitleSimilarity, sc.Status,
			fmt.Sprintf("%.0f%%", sc.Score*100), "80-90%", "")
	} else {
		similarity = item(domain.CodeH1TitleSimilarity, domain.StatusFail,
			"N/A", "80-90%", "No data to analyse")
	}

	value := "Present"
	if s.H1() == "" {
		value = "No H1"
	}
	present := item(domain.CodeH1Present, passIf(s.H1() != "", domain.StatusFail), value, "Keyword present", "")

	return []domain.ChecklistItem{single, similarity, present}
}

func (e *ChecklistEvaluator) evaluateSemantic(scores []domain.SimilarityScore) []domain.ChecklistItem {
	const chainTarget = "100% consistency"

	var core []domain.SimilarityScore
	for _, sc := range scores {
		if sc.IsCorePair() {
			core = append(core, sc)
		}
	}

	var chain domain.ChecklistItem
	if len(core) == 0 {
		chain = item(domain.CodeSemanticChain, domain.StatusFail, "N/A", chainTarget, "No data to analyse")
	} else {
		allPass, anyFail := true, false
		var sum float64
		for _, sc := range core {
			allPass = allPass && sc.Status == domain.StatusPass
			anyFail = anyFail || sc.Status == domain.StatusFail
			sum += sc.Score
		}
		status := domain.StatusWarning
		switch {
		case allPass:
			status = domain.StatusPass
		case anyFail:
			status = domain.StatusFail
		}
		chain = item(domain.CodeSemanticChain, status,
			fmt.Sprintf("avg %.0f%%", sum/float64(len(core))*100), chainTarget, "")
	}

	drift := item(domain.CodeNoTopicDrift, domain.StatusPass, "Checked", "0 topic changes", "")

	return []domain.ChecklistItem{chain, drift}
}

func (e *ChecklistEvaluator) evaluateH2(s *domain.DocumentStructure) []domain.ChecklistItem {
	count := s.H2Count()

	var countStatus domain.CheckStatus
	switch {
	case count >= e.t.H2CountMin && count <= e.t.H2CountMax:
		countStatus = domain.StatusPass
	case count == 0:
		countStatus = domain.StatusFail
	default:
		countStatus = domain.StatusWarning
	}
	countItem := item(domain.CodeH2Count, countStatus,
		fmt.Sprintf("%d H2", count), fmt.Sprintf("%d-%d H2", e.t.H2CountMin, e.t.H2CountMax), "")

	questionTarget := fmt.Sprintf("min %.0f%%", e.t.H2QuestionRatioMin*100)
	if count == 0 {
		return []domain.ChecklistItem{
			countItem,
			item(domain.CodeH2SelfExplaining, domain.StatusFail, "No H2", "100% self-explaining", ""),
			item(domain.CodeH2Questions, domain.StatusFail, "No H2", questionTarget, ""),
			item(domain.CodeH2Variants, domain.StatusWarning, "N/A", "Max 2 H2 with the same phrase", "Requires manual review"),
		}
	}

	var wordy, questions int
	for _, h := range s.H2List {
		if h.WordCount() >= e.t.H2MinWords {
			wordy++
		}
		if h.IsQuestion() {
			questions++
		}
	}

	wordyRatio := float64(wordy) / float64(count)
	selfExplaining := item(domain.CodeH2SelfExplaining, passIf(wordyRatio >= e.t.H2WordyRatioMin, domain.StatusWarning),
		fmt.Sprintf("%.0f%% long enough", wordyRatio*100), "100% self-explaining", "")

	questionRatio := float64(questions) / float64(count)
	questionItem := item(domain.CodeH2Questions, passIf(questionRatio >= e.t.H2QuestionRatioMin, domain.StatusWarning),
		fmt.Sprintf("%.0f%% questions (%d/%d)", questionRatio*100, questions, count), questionTarget, "")

	variants := item(domain.CodeH2Variants, domain.StatusPass,
		"N/A", "Max 2 H2 with the same phrase", "Requires manual review")

	return []domain.ChecklistItem{countItem, selfExplaining, questionItem, variants}
}

func (e *ChecklistEvaluator) evaluateH3(s *domain.DocumentStructure) []domain.ChecklistItem {
	orphans := s.OrphanH3Count()

	nesting := item(domain.CodeH3Nesting, passIf(orphans == 0, domain.StatusWarning),
		fmt.Sprintf("%d orphaned H3", orphans), "0 orphaned H3", "")

	skipValue := "OK"
	if orphans > 0 {
		skipValue = fmt.Sprintf("%d skipped levels", orphans)
	}
	skip := item(domain.CodeH3NoLevelSkip, passIf(orphans == 0, domain.StatusFail), skipValue, "0 skipped levels", "")

	sub := item(domain.CodeH3SubConcepts, passIf(s.H3Count() > 0, domain.StatusWarning),
		fmt.Sprintf("%d H3", s.H3Count()), "H3 under every long H2", "Requires similarity analysis")

	return []domain.ChecklistItem{nesting, skip, sub}
}

// ApplyTopicDrift returns a copy of items with CV-012 resolved from the
// drift count: 0 leaves it PASS, 1-2 makes it WARNING, 3 or more FAIL.
func (e *ChecklistEvaluator) ApplyTopicDrift(
	items []domain.ChecklistItem, drifts []domain.TopicDrift,
) []domain.ChecklistItem {
	out := make([]domain.ChecklistItem, len(items))
	copy(out, items)

	n := len(drifts)
	if n == 0 {
		return out
	}
	for i := range out {
		if out[i].Code != domain.CodeNoTopicDrift {
			continue
		}
		out[i].Status = domain.StatusWarning
		if n >= 3 {
			out[i].Status = domain.StatusFail
		}
		out[i].Value = fmt.Sprintf("%d drift(s)", n)
	}
	return out
}

// CalculateOverallScore weights each item by priority (CRITICAL 3, HIGH 2,
// MEDIUM 1) and credits PASS fully and WARNING by half. The result is in
// [0, 100]; an empty list scores 0.
func (e *ChecklistEvaluator) CalculateOverallScore(items []domain.ChecklistItem) float64 {
	var total, earned float64
	for _, it := range items {
		w := it.Priority.Weight()
		total += w
		earned += w * it.Status.Credit()
	}
	if total == 0 {
		return 0
	}
	return earned / total * 100
}

func item(code string, status domain.CheckStatus, value, target, message string) domain.ChecklistItem {
	it := domain.NewChecklistItem(code, status)
	it.Value = value
	it.Target = target
	it.Message = message
	return it
}

// passIf returns PASS when ok, else the given status.
func passIf(ok bool, otherwise domain.CheckStatus) domain.CheckStatus {
	if ok {
		return domain.StatusPass
	}
	return otherwise
}

func findScore(scores []domain.SimilarityScore, a, b domain.ElementKey) (domain.SimilarityScore, bool) {
	for _, s := range scores {
		if s.Matches(a, b) {
			return s, true
		}
	}
	return domain.SimilarityScore{}, false
}

// maxWordRepeat returns the highest occurrence count of any title word
// longer than minRepeatWordLen runes, case-insensitively.
func maxWordRepeat(title string) int {
	counts := make(map[string]int)
	best := 0
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if utf8.RuneCountInString(w) <= minRepeatWordLen {
			continue
		}
		counts[w]++
		best = max(best, counts[w])
	}
	return best
}

// uniqueWordRatio returns 1 minus the share of distinct title words that
// also appear in the meta description.
func uniqueWordRatio(title, meta string) float64 {
	titleWords := wordSet(title)
	if len(titleWords) == 0 {
		return 1
	}
	metaWords := wordSet(meta)

	overlap := 0
	for w := range titleWords {
		if _, ok := metaWords[w]; ok {
			overlap++
		}
	}
	return 1 - float64(overlap)/float64(len(titleWords))
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
