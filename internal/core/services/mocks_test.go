package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ccv-cli/internal/core/domain"
	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
// Vectors are looked up by exact text; unknown texts get fallback.
type mockEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	errs     []error // returned in order by successive Embed calls
	calls    int
	models   []string
	listErr  error
	pingErr  error
	model    string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockEmbedder) ListModels(_ context.Context) ([]string, error) {
	return m.models, m.listErr
}

func (m *mockEmbedder) ModelName() string {
	if m.model == "" {
		return "mock-embed"
	}
	return m.model
}

func (m *mockEmbedder) Ping(_ context.Context) error { return m.pingErr }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.LLMService for testing.
// Responses are returned in order; the last one repeats.
type mockLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
	opts      []driven.GenerateOptions
	models    []string
	pingErr   error
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

func (m *mockLLM) ListModels(_ context.Context) ([]string, error) { return m.models, nil }
func (m *mockLLM) ModelName() string                              { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error                   { return m.pingErr }
func (m *mockLLM) Close() error                                   { return nil }

// mockCache implements driven.EmbeddingCache for testing.
type mockCache struct {
	mu      sync.Mutex
	entries map[string][]float32
	getErr  error
	puts    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]float32)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mockCache) Put(_ context.Context, key string, vector []float32, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = vector
	m.puts++
	return nil
}

func (m *mockCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]float32)
	return nil
}

func (m *mockCache) Close() error { return nil }

// mockPrompts implements driven.PromptStore for testing.
type mockPrompts struct {
	named map[string]string
	codes map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	if p, ok := m.named[name]; ok {
		return p, nil
	}
	return "", errors.New("prompt not found: " + name)
}

func (m *mockPrompts) LoadForCode(code string) (string, bool) {
	p, ok := m.codes[code]
	return p, ok
}

func (m *mockPrompts) Reload() {}

// mockParser implements driven.StructureParser for testing.
type mockParser struct {
	structure *domain.DocumentStructure
	err       error
}

func (m *mockParser) Format() domain.SourceType     { return domain.SourceHTML }
func (m *mockParser) SupportedMIMETypes() []string  { return []string{"text/html"} }
func (m *mockParser) SupportedExtensions() []string { return []string{".html"} }

func (m *mockParser) Parse(_ context.Context, _ []byte) (*domain.DocumentStructure, error) {
	return m.structure, m.err
}

// mockRegistry implements driven.ParserRegistry for testing.
type mockRegistry struct {
	parser driven.StructureParser
}

func (m *mockRegistry) Register(p driven.StructureParser) { m.parser = p }

func (m *mockRegistry) Lookup(hint string) (driven.StructureParser, error) {
	if m.parser == nil || strings.Contains(hint, "pdf") {
		return nil, domain.ErrUnsupportedType
	}
	return m.parser, nil
}

func (m *mockRegistry) Formats() []domain.SourceType {
	return []domain.SourceType{domain.SourceHTML}
}

// fastGateway builds a gateway with no backoff delay for tests.
func fastGateway(e driven.EmbeddingService, l driven.LLMService, c driven.EmbeddingCache) *EmbeddingGateway {
	return NewEmbeddingGateway(e, l, c, GatewayConfig{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
	})
}

// testStructure builds a document with the given title, H1 and H2s.
func testStructure(title, h1 string, h2 ...string) *domain.DocumentStructure {
	s := &domain.DocumentStructure{SourceType: domain.SourceHTML}
	if title != "" {
		s.Title = domain.StringPtr(title)
	}
	if h1 != "" {
		s.H1List = []string{h1}
	}
	for _, t := range h2 {
		s.H2List = append(s.H2List, domain.Heading{Text: t, Level: domain.HeadingH2})
	}
	return s
}
