package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// LoadForCode returns the dedicated template for a checklist rule code
	// (for example "CV-009"). The boolean is false when the rule has none.
	LoadForCode(code string) (string, bool)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// Templates use text/template syntax with string fields such as {{.title}}.
const (
	// PromptSystem is the system instruction sent with every suggestion request.
	PromptSystem = "system_prompt"

	// PromptGeneric is the fallback template for rules without a dedicated one.
	PromptGeneric = "generic"

	// PromptLengthVariants asks for numbered rewrites of a title or meta
	// description within a target length band.
	PromptLengthVariants = "length_variants"
)
