package domain

// Checklist rule codes. These are stable external identifiers and are never
// renumbered.
const (
	CodeTitlePresent      = "CV-001"
	CodeTitleLength       = "CV-002"
	CodeTitleUnique       = "CV-003"
	CodeTitleStuffing     = "CV-004"
	CodeMetaExtendsTitle  = "CV-005"
	CodeMetaLength        = "CV-006"
	CodeMetaKeywords      = "CV-007"
	CodeSingleH1          = "CV-008"
	CodeH1TitleSimilarity = "CV-009"
	CodeH1Present         = "CV-010"
	CodeSemanticChain     = "CV-011"
	CodeNoTopicDrift      = "CV-012"
	CodeH2Count           = "CV-013"
	CodeH2SelfExplaining  = "CV-014"
	CodeH2Questions       = "CV-015"
	CodeH2Variants        = "CV-016"
	CodeH3Nesting         = "CV-017"
	CodeH3NoLevelSkip     = "CV-018"
	CodeH3SubConcepts     = "CV-019"
)

// RuleGroup is a group of related checklist rules.
type RuleGroup string

// Rule groups, in evaluation order.
const (
	GroupTitle    RuleGroup = "Title"
	GroupMeta     RuleGroup = "Meta Description"
	GroupH1       RuleGroup = "H1"
	GroupSemantic RuleGroup = "Semantic Alignment"
	GroupH2       RuleGroup = "H2"
	GroupH3       RuleGroup = "H3"
)

// Rule describes one checklist rule.
type Rule struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Group       RuleGroup `json:"group"`
}

// Rules is the fixed, ordered rule catalogue.
var Rules = []Rule{
	{CodeTitlePresent, "Title has content", "Title tag should contain the main keyword within the first 60 characters", PriorityCritical, GroupTitle},
	{CodeTitleLength, "Title length", "Title tag should be 50-60 characters long", PriorityHigh, GroupTitle},
	{CodeTitleUnique, "Title uniqueness", "Title tag should be unique across the site", PriorityHigh, GroupTitle},
	{CodeTitleStuffing, "No keyword stuffing", "Title should not repeat the same word more than twice", PriorityHigh, GroupTitle},
	{CodeMetaExtendsTitle, "Meta extends Title", "Meta description should extend the title, not duplicate it", PriorityHigh, GroupMeta},
	{CodeMetaLength, "Meta length", "Meta description should be 150-160 characters long", PriorityMedium, GroupMeta},
	{CodeMetaKeywords, "LSI keywords in Meta", "Meta description should contain 1-2 additional keywords", PriorityMedium, GroupMeta},
	{CodeSingleH1, "Single H1 per page", "The page should have exactly one H1 heading", PriorityCritical, GroupH1},
	{CodeH1TitleSimilarity, "H1-Title similarity", "H1 should have 80-90% semantic similarity with the title", PriorityCritical, GroupH1},
	{CodeH1Present, "Keyword in H1", "H1 should contain the main keyword", PriorityHigh, GroupH1},
	{CodeSemanticChain, "Semantic chain", "Title, Meta and H1 should form a coherent semantic chain", PriorityCritical, GroupSemantic},
	{CodeNoTopicDrift, "No topic drift", "All elements should stay on the same topic", PriorityCritical, GroupSemantic},
	{CodeH2Count, "H2 count", "The page should have 4-8 H2 headings", PriorityHigh, GroupH2},
	{CodeH2SelfExplaining, "Self-explaining H2", "Every H2 should be understandable on its own", PriorityHigh, GroupH2},
	{CodeH2Questions, "H2 as questions", "At least 50% of H2 headings should be questions", PriorityMedium, GroupH2},
	{CodeH2Variants, "Keyword variants in H2", "H2 headings should use natural keyword variants", PriorityMedium, GroupH2},
	{CodeH3Nesting, "H3 nesting", "H3 headings should be nested under the right H2", PriorityHigh, GroupH3},
	{CodeH3NoLevelSkip, "No skipped levels", "There should be no H3 without a preceding H2", PriorityHigh, GroupH3},
	{CodeH3SubConcepts, "H3 as sub-concepts", "H3 headings should narrow down the topic of their H2", PriorityMedium, GroupH3},
}

// LookupRule returns the rule for code.
func LookupRule(code string) (Rule, bool) {
	for _, r := range Rules {
		if r.Code == code {
			return r, true
		}
	}
	return Rule{}, false
}

// ChecklistItem is the evaluation result of one rule.
// Value, Target and Message are empty when absent.
type ChecklistItem struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Priority    Priority    `json:"priority"`
	Status      CheckStatus `json:"status"`
	Value       string      `json:"value,omitempty"`
	Target      string      `json:"target,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// NewChecklistItem creates an item pre-filled from the rule catalogue.
func NewChecklistItem(code string, status CheckStatus) ChecklistItem {
	rule, _ := LookupRule(code)
	return ChecklistItem{
		Code:        code,
		Name:        rule.Name,
		Description: rule.Description,
		Priority:    rule.Priority,
		Status:      status,
	}
}

// StructureThresholds configures the structural checklist rules.
type StructureThresholds struct {
	TitleOptimalMin    int
	TitleOptimalMax    int
	TitleMaxLength     int
	TitleMaxRepeats    int
	MetaOptimalMin     int
	MetaOptimalMax     int
	MetaKeywordsMinLen int
	H2CountMin         int
	H2CountMax         int
	H2MinWords         int
	H2WordyRatioMin    float64
	H2QuestionRatioMin float64
}

// DefaultStructureThresholds returns the built-in structural thresholds.
func DefaultStructureThresholds() StructureThresholds {
	return StructureThresholds{
		TitleOptimalMin:    50,
		TitleOptimalMax:    60,
		TitleMaxLength:     70,
		TitleMaxRepeats:    2,
		MetaOptimalMin:     150,
		MetaOptimalMax:     160,
		MetaKeywordsMinLen: 100,
		H2CountMin:         4,
		H2CountMax:         8,
		H2MinWords:         3,
		H2WordyRatioMin:    0.8,
		H2QuestionRatioMin: 0.50,
	}
}
