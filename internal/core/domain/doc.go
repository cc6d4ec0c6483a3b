// Package domain defines the core business entities for ccv.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentStructure: title, meta description and H1/H2/H3 headings
//   - ElementKey: the identity of one text element ("title", "h2_3", ...)
//   - EmbeddingMap: ordered element key to vector mapping
//   - SimilarityScore, TopicDrift: similarity analysis output
//   - ChecklistItem, Rule: checklist evaluation output and the rule catalogue
//   - AnalysisResult: the aggregate of one analysis run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
