// Package html provides a StructureParser for HTML documents.
// It reads the title, meta description and H1-H3 headings from the parsed
// DOM and collects visible text, skipping scripts, styles and templates.
package html
