package driven

import (
	"context"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
)

// StructureParser extracts the title, meta description and heading
// hierarchy from one markup format.
type StructureParser interface {
	// Format returns the source type produced by this parser.
	Format() domain.SourceType

	// SupportedMIMETypes returns the MIME types this parser handles.
	SupportedMIMETypes() []string

	// SupportedExtensions returns file extensions (with leading dot) this parser handles.
	SupportedExtensions() []string

	// Parse builds a document structure from raw markup.
	// Malformed markup is parsed leniently; only I/O-level problems are errors.
	Parse(ctx context.Context, raw []byte) (*domain.DocumentStructure, error)
}

// ParserRegistry selects the structural parser for a document.
type ParserRegistry interface {
	// Register adds a parser to the registry.
	Register(parser StructureParser)

	// Lookup returns the parser for a format name ("html", "markdown"),
	// a MIME type or a file path. It returns domain.ErrUnsupportedType
	// when nothing matches.
	Lookup(hint string) (StructureParser, error)

	// Formats returns the source types of all registered parsers.
	Formats() []domain.SourceType
}
