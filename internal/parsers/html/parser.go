package html

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ccv-cli/internal/parsers"
)

// Ensure Parser implements the interface.
var _ driven.StructureParser = (*Parser)(nil)

// Parser handles HTML documents.
type Parser struct{}

// New creates a new HTML parser.
func New() *Parser {
	return &Parser{}
}

// Format returns domain.SourceHTML.
func (p *Parser) Format() domain.SourceType {
	return domain.SourceHTML
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *Parser) SupportedExtensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Parse extracts the document structure. The HTML5 parsing algorithm
// recovers from malformed markup, so only reader errors are returned.
func (p *Parser) Parse(ctx context.Context, raw []byte) (*domain.DocumentStructure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("html: parse: %w", err)
	}

	w := &walker{}
	w.walk(root)

	s := &domain.DocumentStructure{
		Title:           w.title,
		MetaDescription: w.meta,
		RawText:         strings.Join(w.text, " "),
		SourceType:      domain.SourceHTML,
	}
	w.outline.Apply(s)
	return s, nil
}

type walker struct {
	title   *string
	meta    *string
	outline parsers.Outline
	text    []string
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if t := parsers.CollapseSpace(n.Data); t != "" {
			w.text = append(w.text, t)
		}
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.Title:
			if w.title == nil {
				t := parsers.CollapseSpace(textContent(n))
				w.title = &t
			}
		case atom.Meta:
			w.readMeta(n)
		case atom.H1:
			w.outline.Add(1, textContent(n))
		case atom.H2:
			w.outline.Add(2, textContent(n))
		case atom.H3:
			w.outline.Add(3, textContent(n))
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// readMeta records the first non-empty <meta name="description">.
func (w *walker) readMeta(n *html.Node) {
	if w.meta != nil || !strings.EqualFold(attr(n, "name"), "description") {
		return
	}
	if content := strings.TrimSpace(attr(n, "content")); content != "" {
		w.meta = &content
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates the text below n, separating nodes with a space.
func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
