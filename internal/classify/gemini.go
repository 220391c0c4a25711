package classify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"closebook/internal/logger"
)

// DefaultGeminiModels is tried in order until one answers.
var DefaultGeminiModels = []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-pro"}

// GeminiCompleter calls the Gemini API with model fallback.
type GeminiCompleter struct {
	client *genai.Client
	models []string
	log    zerolog.Logger
}

// NewGeminiCompleter creates a Gemini client. An empty model uses
// DefaultGeminiModels.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	const op = "NewGeminiCompleter"

	if apiKey == "" {
		return nil, &CollaboratorError{Op: op, Provider: ProviderGemini, Err: ErrNoProvider}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &CollaboratorError{Op: op, Provider: ProviderGemini, Err: err}
	}

	models := DefaultGeminiModels
	if model != "" {
		models = []string{model}
	}

	return &GeminiCompleter{
		client: client,
		models: models,
		log:    logger.WithComponent("classify-gemini"),
	}, nil
}

// Complete sends prompt to each model in turn and returns the first
// non-empty answer.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	const op = "Complete"

	var errs []error
	for _, model := range g.models {
		resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			if ctx.Err() != nil {
				return "", &CollaboratorError{Op: op, Provider: ProviderGemini, Model: model, Err: ctx.Err()}
			}
			g.log.Warn().Err(err).Str("model", model).Msg("Gemini model failed, trying next")
			errs = append(errs, &CollaboratorError{Op: op, Provider: ProviderGemini, Model: model, Err: err})
			continue
		}

		text := resp.Text()
		if text == "" {
			errs = append(errs, &CollaboratorError{Op: op, Provider: ProviderGemini, Model: model, Err: ErrEmptyResponse})
			continue
		}

		g.log.Debug().Str("model", model).Int("response_length", len(text)).Msg("Gemini response received")
		return text, nil
	}

	return "", &CollaboratorError{Op: op, Provider: ProviderGemini, Err: errors.Join(append([]error{ErrAllModelsFailed}, errs...)...)}
}
