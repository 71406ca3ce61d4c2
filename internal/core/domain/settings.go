package domain

// Default settings values.
const (
	DefaultDocumentTitle  = "7-Habit Todo List"
	DefaultInitialContent = "记录你的待办事项，帮助你成为高效人士"
	DefaultFallbackText   = "不好意思请重试"
	DefaultMaxRetries     = 3
	DefaultUserID         = "local"
	DefaultServerAddr     = ":8080"
	DefaultInboxRate      = 2.0
	DefaultLLMRPM         = 20
)

// Settings holds user-configurable application settings.
type Settings struct {
	// DataDir is where the SQLite database lives. Empty means ~/.habitplan/data.
	DataDir string

	// UserID is the identity used by the local CLI.
	UserID string

	// Document holds defaults for newly created documents.
	Document DocumentSettings

	// LLM configures the coaching model used by "ask".
	LLM LLMSettings

	// Server configures the HTTP API.
	Server ServerSettings

	// Inbox configures the watched inbox directory.
	Inbox InboxSettings
}

// DocumentSettings holds document defaults and the write policy.
type DocumentSettings struct {
	// Title is the title of a newly created document.
	Title string

	// Kind is the kind of a newly created document.
	Kind string

	// InitialContent seeds a newly created document.
	InitialContent string

	// FallbackText is appended when an upvoted message yields no plan.
	FallbackText string

	// MaxRetries bounds re-reads after a version conflict.
	MaxRetries int
}

// AIProvider identifies a language model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI API or any compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if the provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// LLMSettings configures the coaching model.
type LLMSettings struct {
	// Provider selects the adapter. Empty disables "ask".
	Provider AIProvider

	// Model is the model name. Empty selects the provider default.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey authenticates against cloud providers.
	APIKey string

	// RequestsPerMinute throttles calls to the provider. Zero means unlimited.
	RequestsPerMinute int
}

// IsConfigured reports whether enough is set to create a client.
func (s LLMSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	return !s.Provider.RequiresAPIKey() || s.APIKey != ""
}

// ModelOrDefault returns the configured model or the provider default.
func (s LLMSettings) ModelOrDefault() string {
	if s.Model != "" {
		return s.Model
	}
	return DefaultLLMModels()[s.Provider]
}

// DefaultLLMModels returns the model used per provider when none is set.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string
}

// InboxSettings configures the inbox watcher.
type InboxSettings struct {
	// Dir is the watched directory. Empty disables the watcher.
	Dir string

	// ChatID is the chat new inbox messages are attached to.
	ChatID string

	// Rate is the maximum number of inbox files processed per second.
	Rate float64
}

// DefaultSettings returns settings populated with defaults.
func DefaultSettings() Settings {
	return Settings{
		UserID: DefaultUserID,
		Document: DocumentSettings{
			Title:          DefaultDocumentTitle,
			Kind:           DocumentKindText,
			InitialContent: DefaultInitialContent,
			FallbackText:   DefaultFallbackText,
			MaxRetries:     DefaultMaxRetries,
		},
		LLM: LLMSettings{
			RequestsPerMinute: DefaultLLMRPM,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
		Inbox: InboxSettings{
			Rate: DefaultInboxRate,
		},
	}
}
