package classify

import (
	"context"
	"strings"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ProviderConfig selects and authenticates a model provider.
type ProviderConfig struct {
	Provider     string
	GeminiAPIKey string
	OpenAIAPIKey string
	Model        string
}

// NewCompleter builds the completer for cfg.Provider.
func NewCompleter(ctx context.Context, cfg ProviderConfig) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		c, err := NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderOpenAI:
		c, err := NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, &CollaboratorError{Op: "NewCompleter", Provider: cfg.Provider, Err: ErrUnknownProvider}
	}
}
