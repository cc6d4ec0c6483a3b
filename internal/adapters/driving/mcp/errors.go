// Package mcp provides an MCP (Model Context Protocol) server adapter for ccv.
// It lets AI assistants analyse pages and request fix suggestions.
package mcp

import "errors"

var (
	// ErrMissingAnalysisService is returned when the analysis service is not provided.
	ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

	// ErrSuggestionsDisabled is returned by suggest_fix when no LLM is configured.
	ErrSuggestionsDisabled = errors.New("mcp: suggestions are disabled, configure an LLM provider")
)
