package tui

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("tui: analysis service is required")

// ErrMissingDocument is returned when no document source is given.
var ErrMissingDocument = errors.New("tui: document source is required")
