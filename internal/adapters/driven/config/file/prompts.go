package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ccv-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// Rule-specific templates are files named after the rule code, for example
// CV-009-h1-title-similarity.txt. The first match in lexical order wins.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts, keyed by file name without extension.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSystem: `You are an SEO and content-structure expert. You help authors align a page's title, meta description and headings around one clear topic.
Answer in the language of the page. Be concrete: give rewritten text, not general advice. Do not explain what SEO is.`,

	driven.PromptGeneric: `Element: {{.element_type}}
Current value: {{.current_value}}
Target: {{.target}}
Problem: {{.problem}}

Page title: {{.title}}
Meta description: {{.meta}}
H1: {{.h1}}

Suggest a concrete fix for this problem. Give 2-3 rewritten examples that keep the page's main keywords.`,

	driven.PromptLengthVariants: `Original {{.element}}: "{{.text}}" ({{.length}} chars)

{{.hint}}

Requirements:
- Keep the main keywords
- Keep the meaning and the value proposition
- One variant per line

Reply with exactly {{.count}} numbered variants and nothing else:
1. [variant]
2. [variant]`,

	"CV-009-h1-title-similarity": `The H1 and the title tag describe the page differently (similarity {{.similarity}}%, {{.similarity_issue}}).

Title: {{.title}}
H1: {{.h1}}
Meta description: {{.meta}}

Rewrite the H1 so it states the same topic as the title in natural wording. It may be longer than the title but must not introduce a new topic.
Give 3 H1 variants, one per line.`,

	"CV-015-h2-questions": `Only {{.question_ratio}} of the H2 headings are phrased as questions.

Page title: {{.title}}
H1: {{.h1}}
Current H2 headings:
{{.h2_list}}

Rewrite the H2 headings as questions a reader would search for, keeping each section's subject.
Return the rewritten list in the same order, one heading per line.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.ccv/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".ccv", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Falls back to the embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	if prompt, ok := s.cached(name); ok {
		return prompt, nil
	}

	prompt, err := s.loadFromFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	return s.store(name, prompt), nil
}

// LoadForCode returns the first CODE-*.txt template in the prompt directory,
// or the embedded default for the code.
func (s *PromptStore) LoadForCode(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	s.initOnce.Do(s.initialise)

	key := "code:" + code
	if prompt, ok := s.cached(key); ok {
		return prompt, true
	}

	if s.initErr == nil {
		matches, err := filepath.Glob(filepath.Join(s.promptDir, code+"-*.txt"))
		if err == nil && len(matches) > 0 {
			sort.Strings(matches)
			if prompt, err := s.loadFromFile(matches[0]); err == nil {
				return s.store(key, prompt), true
			}
		}
	}

	for name, prompt := range defaultPrompts {
		if strings.HasPrefix(name, code+"-") {
			return prompt, true
		}
	}
	return "", false
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) cached(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prompt, ok := s.cache[key]
	return prompt, ok
}

// store caches prompt unless a concurrent load got there first,
// and returns the cached value.
func (s *PromptStore) store(key, prompt string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[key]; ok {
		return existing
	}
	s.cache[key] = prompt
	return prompt
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# ccv prompts

Templates used by ` + "`ccv suggest`" + ` to ask the LLM for fixes.

## Files

- ` + "`system_prompt.txt`" + ` - system instruction sent with every request
- ` + "`generic.txt`" + ` - used for rules without a dedicated template
- ` + "`length_variants.txt`" + ` - title and meta description rewrites (CV-002, CV-006)
- ` + "`CV-NNN-<slug>.txt`" + ` - dedicated template for one rule code

Add a file named after any rule code (for example ` + "`CV-012-topic-drift.txt`" + `)
to give that rule its own template.

## Placeholders

Templates use Go text/template syntax, e.g. ` + "`{{.title}}`" + `. Available fields:

title, meta, h1, current_value, target, similarity, similarity_issue,
h2_list, h3_list, question_ratio, problem, element_type

length_variants.txt uses: element, text, length, hint, count

An unknown placeholder makes the template unusable and the generic
template is used instead.
`
	return os.WriteFile(path, []byte(content), 0600)
}
