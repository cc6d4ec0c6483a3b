// Package parsers turns raw markup into a domain.DocumentStructure.
//
// Each sub-package implements driven.StructureParser for one format:
//
//   - html: golang.org/x/net/html tokenised DOM
//   - markdown: goldmark AST with YAML frontmatter
//
// Parsers are registered with the Registry at startup, which selects one
// by format name, MIME type or file extension.
package parsers
