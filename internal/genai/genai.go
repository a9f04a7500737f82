// Package genai provides hosted chat-completion and embedding clients for DiaBuddy.
//
// Two providers are supported: Gemini (the google.golang.org/genai SDK) and
// OpenAI (the openai-go SDK). Callers depend on ClientInterface and a
// provider-neutral Message type so the pipeline stays independent of the
// configured provider.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Provider identifies a hosted model provider.
type Provider string

const (
	// ProviderGemini uses the Google Gemini API.
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI uses the OpenAI API.
	ProviderOpenAI Provider = "openai"
)

// Default models per provider.
const (
	DefaultGeminiChatModel       = "gemini-2.0-flash"
	DefaultGeminiEmbeddingModel  = "embedding-001"
	DefaultOpenAIChatModel       = "gpt-4o-mini"
	DefaultOpenAIEmbeddingModel  = "text-embedding-3-small"
	DefaultMaxOutputTokens       = 2048
)

// Message roles for provider-neutral chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a provider-neutral chat message.
type Message struct {
	Role    string
	Content string
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage creates a user-role message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage creates an assistant-role message.
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// ClientInterface defines the operations the answer pipeline needs from a
// hosted model provider.
type ClientInterface interface {
	// GenerateWithMessages produces a chat completion for the given messages.
	GenerateWithMessages(ctx context.Context, messages []Message) (string, error)
	// EmbedTexts generates one embedding vector per input text.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Options holds configuration for client construction.
type Options struct {
	provider       Provider
	apiKey         string
	chatModel      string
	embeddingModel string
}

// Option configures client construction.
type Option func(*Options)

// WithProvider selects the model provider explicitly.
func WithProvider(p Provider) Option {
	return func(o *Options) { o.provider = p }
}

// WithAPIKey sets the provider API key, overriding environment lookup.
func WithAPIKey(key string) Option {
	return func(o *Options) { o.apiKey = key }
}

// WithChatModel overrides the provider's default chat model.
func WithChatModel(model string) Option {
	return func(o *Options) { o.chatModel = model }
}

// WithEmbeddingModel overrides the provider's default embedding model.
func WithEmbeddingModel(model string) Option {
	return func(o *Options) { o.embeddingModel = model }
}

// NewClient initializes a model client. When no provider is selected
// explicitly, it prefers Gemini if GEMINI_API_KEY is set and falls back to
// OpenAI if OPENAI_API_KEY is set.
func NewClient(ctx context.Context, opts ...Option) (ClientInterface, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	if o.provider == "" {
		switch {
		case o.apiKey != "":
			return nil, fmt.Errorf("api key provided without a provider; use WithProvider")
		case os.Getenv("GEMINI_API_KEY") != "":
			o.provider = ProviderGemini
		case os.Getenv("OPENAI_API_KEY") != "":
			o.provider = ProviderOpenAI
		default:
			return nil, fmt.Errorf("no provider configured: set GEMINI_API_KEY or OPENAI_API_KEY")
		}
		slog.Debug("genai.NewClient: provider resolved from environment", "provider", o.provider)
	}

	switch o.provider {
	case ProviderGemini:
		if o.apiKey == "" {
			o.apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if o.apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		return newGeminiClient(ctx, o)
	case ProviderOpenAI:
		if o.apiKey == "" {
			o.apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if o.apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return newOpenAIClient(o), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", o.provider)
	}
}
