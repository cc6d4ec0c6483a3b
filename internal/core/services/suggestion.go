package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ccv-cli/internal/logger"
)

// Ensure SuggestionService implements the interface.
var _ driving.SuggestionService = (*SuggestionService)(nil)

// Generation parameters of the suggestion flows.
const (
	lengthRounds        = 3
	lengthVariants      = 5
	lengthValidEnough   = 2
	minVariantLen       = 10
	lengthTemperature   = 0.8
	defaultTemperature  = 0.7
	similarityIssueBand = 0.80
)

// fallbackGenericPrompt is used when the prompt store cannot render the
// generic template. Arguments: element type, current value, problem, title.
const fallbackGenericPrompt = `Element: %s
Current value: %s
Problem: %s
Page title: %s

Suggest a concrete fix for this problem. Give 2-3 rewritten examples.`

var variantNumbering = regexp.MustCompile(`^\d+[.)]\s*`)

// SuggestionService generates fix suggestions for failed checklist items.
type SuggestionService struct {
	gateway *EmbeddingGateway
	prompts driven.PromptStore
	t       domain.StructureThresholds
}

// NewSuggestionService creates a new suggestion service.
func NewSuggestionService(
	gateway *EmbeddingGateway,
	prompts driven.PromptStore,
	thresholds domain.StructureThresholds,
) *SuggestionService {
	return &SuggestionService{
		gateway: gateway,
		prompts: prompts,
		t:       thresholds,
	}
}

// Suggest generates a suggestion for the item with the given code.
func (s *SuggestionService) Suggest(
	ctx context.Context, result *domain.AnalysisResult, code string,
) (domain.Suggestion, error) {
	if result == nil || result.Structure == nil {
		return domain.Suggestion{}, fmt.Errorf("%w: no analysis result", domain.ErrInvalidInput)
	}
	item, ok := result.Item(code)
	if !ok {
		return domain.Suggestion{}, fmt.Errorf("checklist item %s: %w", code, domain.ErrNotFound)
	}

	logger.Section("Suggestion " + code)
	structure := result.Structure

	switch code {
	case domain.CodeTitleLength:
		return s.lengthSuggestion(ctx, code, "Title Tag", structure.TitleText(),
			s.t.TitleOptimalMin, s.t.TitleOptimalMax), nil
	case domain.CodeMetaLength:
		return s.lengthSuggestion(ctx, code, "Meta Description", structure.MetaText(),
			s.t.MetaOptimalMin, s.t.MetaOptimalMax), nil
	}

	prompt := s.buildPrompt(item, structure, similarityFor(result, code))
	resp, err := s.gateway.GenerateText(ctx, prompt, driven.GenerateOptions{
		System:      s.systemPrompt(),
		Temperature: defaultTemperature,
	})
	if err != nil {
		return failedSuggestion(code, err), nil
	}
	return domain.Suggestion{Code: code, Body: strings.TrimSpace(resp)}, nil
}

// SuggestAll generates suggestions for every FAIL and WARNING item in
// checklist order.
func (s *SuggestionService) SuggestAll(
	ctx context.Context, result *domain.AnalysisResult,
) ([]domain.Suggestion, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: no analysis result", domain.ErrInvalidInput)
	}

	problems := result.Problems()
	out := make([]domain.Suggestion, 0, len(problems))
	for _, item := range problems {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		sug, err := s.Suggest(ctx, result, item.Code)
		if err != nil {
			return out, err
		}
		out = append(out, sug)
	}
	return out, nil
}

// CheckReady verifies the LLM backend is configured, reachable and has its model.
func (s *SuggestionService) CheckReady(ctx context.Context) error {
	g := s.gateway
	if !g.HasLLM() {
		return &domain.PreconditionError{
			Err:  domain.ErrLLMUnavailable,
			Hint: "Configure a generation model: ccv settings llm",
		}
	}
	return checkBackend(ctx, g.cfg.LLMProvider, g.LLMModel(), g.IsLLMReachable, g.HasLLMModel)
}

// similarityFor picks the similarity fed into the prompt: the title-H1
// score for CV-009 and the mean core score for CV-011.
func similarityFor(result *domain.AnalysisResult, code string) *float64 {
	switch code {
	case domain.CodeH1TitleSimilarity:
		if sc, ok := result.Score(domain.KeyTitle, domain.KeyH1); ok {
			return &sc.Score
		}
	case domain.CodeSemanticChain:
		core := result.CoreScores()
		if len(core) == 0 {
			return nil
		}
		var sum float64
		for _, sc := range core {
			sum += sc.Score
		}
		mean := sum / float64(len(core))
		return &mean
	}
	return nil
}

func (s *SuggestionService) lengthSuggestion(
	ctx context.Context, code, element, text string, minLen, maxLen int,
) domain.Suggestion {
	current := utf8.RuneCountInString(text)
	system := s.systemPrompt()

	var candidates []domain.LengthCandidate
	rounds := 0
	for round := 0; round < lengthRounds; round++ {
		rounds++
		hint := lengthHint(round, current, minLen, maxLen, candidates)
		logger.Debug("Length round %d: %s", rounds, hint)

		prompt := s.renderNamed(driven.PromptLengthVariants, map[string]string{
			"element": element,
			"text":    text,
			"length":  fmt.Sprint(current),
			"hint":    hint,
			"count":   fmt.Sprint(lengthVariants),
		}, func() string {
			return fmt.Sprintf("Original %s: %q (%d chars)\n\n%s\n\nReply with %d numbered variants only.",
				element, text, current, hint, lengthVariants)
		})

		resp, err := s.gateway.GenerateText(ctx, prompt, driven.GenerateOptions{
			System:      system,
			Temperature: lengthTemperature,
		})
		if err != nil {
			return failedSuggestion(code, err)
		}

		for _, v := range ParseVariants(resp) {
			candidates = append(candidates, classifyLength(v, minLen, maxLen))
		}
		if countValid(candidates) >= lengthValidEnough {
			break
		}
	}

	return domain.Suggestion{
		Code:       code,
		Body:       formatLengthBody(element, text, current, minLen, maxLen, candidates),
		Candidates: candidates,
		Rounds:     rounds,
	}
}

// lengthHint builds the feedback line for one round of the length loop.
// Later rounds steer by the average length of all invalid candidates so far.
func lengthHint(round, current, minLen, maxLen int, prior []domain.LengthCandidate) string {
	if round == 0 {
		direction := "Lengthen"
		if current > maxLen {
			direction = "Shorten"
		}
		return fmt.Sprintf("Generate %d variants. Target: %d-%d characters. %s the original text.",
			lengthVariants, minLen, maxLen, direction)
	}

	var sum, n int
	for _, c := range prior {
		if !c.Valid {
			sum += c.Length
			n++
		}
	}
	if n == 0 {
		return fmt.Sprintf("Generate more variants. Target: %d-%d characters.", minLen, maxLen)
	}

	avg := float64(sum) / float64(n)
	if avg > float64(maxLen) {
		return fmt.Sprintf("Previous attempts were too LONG (avg %.0f chars). Target: %d-%d chars. SHORTEN the text more.",
			avg, minLen, maxLen)
	}
	return fmt.Sprintf("Previous attempts were too SHORT (avg %.0f chars). Target: %d-%d chars. LENGTHEN the text.",
		avg, minLen, maxLen)
}

// ParseVariants extracts candidate rewrites from a numbered-list reply.
// Numbering and surrounding quotes are stripped, items of 10 characters
// or fewer are dropped and at most five are kept.
func ParseVariants(response string) []string {
	var out []string
	for _, line := range strings.Split(response, "\n") {
		cleaned := variantNumbering.ReplaceAllString(strings.TrimSpace(line), "")
		cleaned = strings.Trim(cleaned, `"'`)
		if utf8.RuneCountInString(cleaned) > minVariantLen {
			out = append(out, cleaned)
		}
		if len(out) == lengthVariants {
			break
		}
	}
	return out
}

func classifyLength(text string, minLen, maxLen int) domain.LengthCandidate {
	n := utf8.RuneCountInString(text)
	c := domain.LengthCandidate{Text: text, Length: n}
	switch {
	case n > maxLen:
		c.Distance = n - maxLen
	case n < minLen:
		c.Distance = minLen - n
	default:
		c.Valid = true
	}
	return c
}

func countValid(cs []domain.LengthCandidate) int {
	n := 0
	for _, c := range cs {
		if c.Valid {
			n++
		}
	}
	return n
}

func formatLengthBody(element, text string, current, minLen, maxLen int, cs []domain.LengthCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** length analysis\n\n", element)
	fmt.Fprintf(&b, "**Original:** %q (%d chars)\n", text, current)
	fmt.Fprintf(&b, "**Target:** %d-%d characters\n\n", minLen, maxLen)

	var valid, invalid []domain.LengthCandidate
	for _, c := range cs {
		if c.Valid {
			valid = append(valid, c)
		} else {
			invalid = append(invalid, c)
		}
	}

	if len(valid) > 0 {
		fmt.Fprintf(&b, "### Valid variants (%d)\n", len(valid))
		for i, c := range valid {
			fmt.Fprintf(&b, "%d. %q (%d chars)\n", i+1, c.Text, c.Length)
		}
		b.WriteString("\n")
	}
	if len(invalid) > 0 {
		fmt.Fprintf(&b, "### Invalid variants (%d)\n", len(invalid))
		for i, c := range invalid {
			fmt.Fprintf(&b, "%d. %q (%d chars, %+d)\n", i+1, c.Text, c.Length, c.Distance)
		}
		b.WriteString("\n")
	}
	if len(valid) == 0 {
		b.WriteString("No variant within the target length was generated. Adjust the text manually.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func failedSuggestion(code string, err error) domain.Suggestion {
	logger.Warn("Suggestion for %s failed: %v", code, err)
	return domain.Suggestion{
		Code:   code,
		Body:   fmt.Sprintf("Suggestion generation failed: %v", err),
		Failed: true,
	}
}

// buildPrompt renders the dedicated template for the item's rule, falling
// back to the generic template on absence or any substitution failure.
func (s *SuggestionService) buildPrompt(
	item domain.ChecklistItem, structure *domain.DocumentStructure, similarity *float64,
) string {
	data := promptData(item, structure, similarity)

	if s.prompts != nil {
		if tpl, ok := s.prompts.LoadForCode(item.Code); ok {
			out, err := renderTemplate(item.Code, tpl, data)
			if err == nil {
				return out
			}
			logger.Debug("Dedicated prompt for %s unusable, using generic: %v", item.Code, err)
		}
	}

	return s.renderNamed(driven.PromptGeneric, data, func() string {
		return fmt.Sprintf(fallbackGenericPrompt, data["element_type"], data["current_value"], data["problem"], data["title"])
	})
}

// renderNamed renders a named template from the prompt store, or returns
// fallback() when the store is missing, the template cannot be loaded or
// it fails to render.
func (s *SuggestionService) renderNamed(name string, data map[string]string, fallback func() string) string {
	if s.prompts == nil {
		return fallback()
	}
	tpl, err := s.prompts.Load(name)
	if err != nil {
		logger.Debug("Prompt %q unavailable: %v", name, err)
		return fallback()
	}
	out, err := renderTemplate(name, tpl, data)
	if err != nil {
		logger.Debug("Prompt %q failed to render: %v", name, err)
		return fallback()
	}
	return out
}

func (s *SuggestionService) systemPrompt() string {
	if s.prompts == nil {
		return ""
	}
	p, err := s.prompts.Load(driven.PromptSystem)
	if err != nil {
		logger.Debug("System prompt unavailable: %v", err)
		return ""
	}
	return p
}

func renderTemplate(name, text string, data map[string]string) (string, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// promptData builds the substitution values available to templates.
func promptData(
	item domain.ChecklistItem, structure *domain.DocumentStructure, similarity *float64,
) map[string]string {
	var h2, h3 []string
	questions := 0
	for _, h := range structure.H2List {
		h2 = append(h2, "- "+h.Text)
		if h.IsQuestion() {
			questions++
		}
	}
	for _, h := range structure.H3List {
		h3 = append(h3, "- "+h.Text)
	}
	total := max(len(structure.H2List), 1)

	sim, issue := "N/A", "unknown"
	if similarity != nil {
		sim = fmt.Sprintf("%.0f", *similarity*100)
		issue = "too high"
		if *similarity < similarityIssueBand {
			issue = "too low"
		}
	}

	return map[string]string{
		"title":            structure.TitleText(),
		"meta":             structure.MetaText(),
		"h1":               structure.H1(),
		"current_value":    orNA(item.Value),
		"target":           orNA(item.Target),
		"similarity":       sim,
		"similarity_issue": issue,
		"h2_list":          strings.Join(h2, "\n"),
		"h3_list":          strings.Join(h3, "\n"),
		"question_ratio":   fmt.Sprintf("%.0f", float64(questions)/float64(total)*100),
		"problem":          firstNonEmpty(item.Message, item.Description),
		"element_type":     item.Name,
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
