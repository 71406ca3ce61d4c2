package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptCoachSystem is the system prompt that makes the model answer
	// in the seven-habit plan format the planner understands.
	// This prompt has no format placeholders.
	PromptCoachSystem = "coach_system"
)
