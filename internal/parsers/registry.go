package parsers

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps format names, MIME types and file extensions to parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers []driven.StructureParser
}

// NewRegistry creates a registry holding the given parsers.
func NewRegistry(parsers ...driven.StructureParser) *Registry {
	r := &Registry{}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// Register adds a parser. A later parser for the same format replaces the earlier one.
func (r *Registry) Register(parser driven.StructureParser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.parsers {
		if p.Format() == parser.Format() {
			r.parsers[i] = parser
			return
		}
	}
	r.parsers = append(r.parsers, parser)
}

// Lookup resolves hint as a format name, then a MIME type, then a file path.
func (r *Registry) Lookup(hint string) (driven.StructureParser, error) {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return nil, fmt.Errorf("%w: no format given", domain.ErrUnsupportedType)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.parsers {
		if string(p.Format()) == h {
			return p, nil
		}
	}

	if mediaType, _, err := mime.ParseMediaType(h); err == nil && strings.Contains(mediaType, "/") {
		for _, p := range r.parsers {
			for _, m := range p.SupportedMIMETypes() {
				if m == mediaType {
					return p, nil
				}
			}
		}
	}

	if ext := filepath.Ext(h); ext != "" {
		for _, p := range r.parsers {
			for _, e := range p.SupportedExtensions() {
				if e == ext {
					return p, nil
				}
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, hint)
}

// Formats returns the source types of all registered parsers in registration order.
func (r *Registry) Formats() []domain.SourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.SourceType, 0, len(r.parsers))
	for _, p := range r.parsers {
		out = append(out, p.Format())
	}
	return out
}
