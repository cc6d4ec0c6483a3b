package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// AnalyzeInput is the input schema for the analyze_document tool.
type AnalyzeInput struct {
	Content       string `json:"content" jsonschema:"the page source, HTML or Markdown"`
	Format        string `json:"format,omitempty" jsonschema:"input format: html or markdown (default html)"`
	IncludeMatrix bool   `json:"include_matrix,omitempty" jsonschema:"include the pairwise similarity matrix"`
}

// AnalyzeOutput is the output schema for the analyze_document tool.
type AnalyzeOutput struct {
	Score          float64            `json:"score"`
	EmbeddingModel string             `json:"embedding_model"`
	Context        string             `json:"context,omitempty"`
	Checklist      []ChecklistOutput  `json:"checklist"`
	Similarity     []SimilarityOutput `json:"similarity"`
	TopicDrift     []SimilarityOutput `json:"topic_drift,omitempty"`
	HeadingIssues  []string           `json:"heading_issues,omitempty"`
	Matrix         *MatrixOutput      `json:"matrix,omitempty"`
}

// MatrixOutput is the pairwise similarity matrix keyed by element labels.
type MatrixOutput struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// ChecklistOutput is one evaluated checklist rule.
type ChecklistOutput struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Value    string `json:"value,omitempty"`
	Target   string `json:"target,omitempty"`
	Message  string `json:"message,omitempty"`
}

// SimilarityOutput is a similarity between two labelled elements.
type SimilarityOutput struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Score  float64 `json:"score"`
	Status string  `json:"status,omitempty"`
}

// SuggestInput is the input schema for the suggest_fix tool.
type SuggestInput struct {
	Content string `json:"content" jsonschema:"the page source, HTML or Markdown"`
	Format  string `json:"format,omitempty" jsonschema:"input format: html or markdown (default html)"`
	Code    string `json:"code,omitempty" jsonschema:"checklist code such as CV-002; omit to fix every FAIL and WARNING item"`
}

// SuggestOutput is the output schema for the suggest_fix tool.
type SuggestOutput struct {
	Score       float64             `json:"score"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// CheckInput is the (empty) input schema for the check_backend tool.
type CheckInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_document",
		Description: "Grade the semantic alignment of a page's title, meta description and headings",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest_fix",
		Description: "Generate LLM rewrite suggestions for failed checklist items of a page",
	}, s.handleSuggest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_backend",
		Description: "Report whether the embedding and LLM backends are reachable and have their models",
	}, s.handleCheck)
}

func (s *Server) analyze(ctx context.Context, content, format string) (*domain.AnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is empty", domain.ErrInvalidInput)
	}
	if format == "" {
		format = "html"
	}
	if err := s.ports.Analysis.CheckReady(ctx); err != nil {
		return nil, err
	}
	return s.ports.Analysis.Analyze(ctx, []byte(content), format)
}

// handleAnalyze handles the analyze_document tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	result, err := s.analyze(ctx, input.Content, input.Format)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	output := toAnalyzeOutput(result)
	if input.IncludeMatrix {
		output.Matrix = toMatrixOutput(s.ports.Analysis.Matrix(result))
	}
	return nil, output, nil
}

// handleSuggest handles the suggest_fix tool invocation.
func (s *Server) handleSuggest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SuggestInput,
) (*mcp.CallToolResult, SuggestOutput, error) {
	if s.ports.Suggestion == nil {
		return nil, SuggestOutput{}, ErrSuggestionsDisabled
	}
	if err := s.ports.Suggestion.CheckReady(ctx); err != nil {
		return nil, SuggestOutput{}, err
	}

	result, err := s.analyze(ctx, input.Content, input.Format)
	if err != nil {
		return nil, SuggestOutput{}, err
	}

	output := SuggestOutput{Score: result.OverallScore}
	if input.Code == "" {
		output.Suggestions, err = s.ports.Suggestion.SuggestAll(ctx, result)
		if err != nil {
			return nil, SuggestOutput{}, err
		}
		return nil, output, nil
	}

	sug, err := s.ports.Suggestion.Suggest(ctx, result, strings.ToUpper(input.Code))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, SuggestOutput{}, fmt.Errorf("unknown checklist code %q", input.Code)
		}
		return nil, SuggestOutput{}, err
	}
	output.Suggestions = []domain.Suggestion{sug}
	return nil, output, nil
}

// handleCheck handles the check_backend tool invocation.
func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CheckInput,
) (*mcp.CallToolResult, domain.BackendStatus, error) {
	st, err := s.ports.Analysis.Status(ctx)
	if err != nil {
		return nil, domain.BackendStatus{}, err
	}
	return nil, *st, nil
}

func toAnalyzeOutput(r *domain.AnalysisResult) AnalyzeOutput {
	out := AnalyzeOutput{
		Score:          r.OverallScore,
		EmbeddingModel: r.EmbeddingModel,
		Checklist:      make([]ChecklistOutput, len(r.ChecklistResults)),
		Similarity:     make([]SimilarityOutput, len(r.SimilarityScores)),
	}
	if !r.Context.IsZero() {
		out.Context = r.Context.String()
	}

	for i, item := range r.ChecklistResults {
		out.Checklist[i] = ChecklistOutput{
			Code:     item.Code,
			Name:     item.Name,
			Priority: item.Priority.String(),
			Status:   item.Status.String(),
			Value:    item.Value,
			Target:   item.Target,
			Message:  item.Message,
		}
	}

	label := func(k domain.ElementKey) string { return k.String() }
	if r.Structure != nil {
		label = r.Structure.DisplayName
		out.HeadingIssues = r.Structure.HeadingIssues()
	}
	for i, sc := range r.SimilarityScores {
		out.Similarity[i] = SimilarityOutput{
			A:      label(sc.ElementA),
			B:      label(sc.ElementB),
			Score:  sc.Score,
			Status: sc.Status.String(),
		}
	}
	for _, d := range r.TopicDrifts {
		out.TopicDrift = append(out.TopicDrift, SimilarityOutput{
			A:     label(d.Element),
			B:     label(d.Context),
			Score: d.Score,
		})
	}
	return out
}

func toMatrixOutput(m domain.SimilarityMatrix) *MatrixOutput {
	out := &MatrixOutput{
		Labels: make([]string, len(m.Labels)),
		Values: m.Values,
	}
	for i, l := range m.Labels {
		out.Labels[i] = l.String()
	}
	return out
}
