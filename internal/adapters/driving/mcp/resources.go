package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for ccv resources.
	uriScheme = "ccv://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "rules",
		Name:        "rules",
		Description: "The CV-001..CV-019 checklist rule catalogue",
		MIMEType:    "application/json",
	}, s.handleRulesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "rules/{code}",
		Name:        "rule",
		Description: "A single checklist rule",
		MIMEType:    "application/json",
	}, s.handleRuleResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "thresholds",
		Name:        "thresholds",
		Description: "The similarity bands and topic drift threshold in effect",
		MIMEType:    "application/json",
	}, s.handleThresholdsResource)
}

// handleRulesResource returns the full rule catalogue.
func (s *Server) handleRulesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, domain.Rules)
}

// handleRuleResource returns one rule looked up by code.
func (s *Server) handleRuleResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	code := extractRuleCode(req.Params.URI)
	if code == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	rule, ok := domain.LookupRule(code)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, rule)
}

// handleThresholdsResource returns the configured thresholds, or the
// defaults when no settings service is wired.
func (s *Server) handleThresholdsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	thresholds := domain.DefaultSimilarityThresholds()
	if s.ports.Settings != nil {
		settings, err := s.ports.Settings.Get()
		if err != nil {
			return nil, fmt.Errorf("getting settings: %w", err)
		}
		thresholds = settings.Thresholds
	}

	type thresholdsInfo struct {
		TitleMeta  domain.ThresholdBand `json:"title_meta"`
		TitleH1    domain.ThresholdBand `json:"title_h1"`
		MetaH1     domain.ThresholdBand `json:"meta_h1"`
		H2         domain.ThresholdBand `json:"h2"`
		TopicDrift float64              `json:"topic_drift"`
	}
	return jsonResource(req.Params.URI, thresholdsInfo{
		TitleMeta:  thresholds.TitleMeta,
		TitleH1:    thresholds.TitleH1,
		MetaH1:     thresholds.MetaH1,
		H2:         thresholds.H2,
		TopicDrift: thresholds.TopicDrift,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRuleCode extracts the rule code from a URI like ccv://rules/{code}.
func extractRuleCode(uri string) string {
	const prefix = uriScheme + "rules/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.ToUpper(strings.TrimPrefix(uri, prefix))
}
