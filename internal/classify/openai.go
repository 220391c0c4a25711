package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"closebook/internal/logger"
)

const (
	defaultOpenAIRetries     = 3
	defaultOpenAITemperature = 0.1
)

const systemPrompt = "You are an accounting assistant for a Korean company. " +
	"Classify card charges into the company's own account names. " +
	"Answer with a single JSON object only."

// OpenAICompleter calls the OpenAI chat completion API.
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
	maxRetries  int
	log         zerolog.Logger
}

// NewOpenAICompleter creates an OpenAI client. An empty model uses
// gpt-4o-mini.
func NewOpenAICompleter(apiKey, model string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, &CollaboratorError{Op: "NewOpenAICompleter", Provider: ProviderOpenAI, Err: ErrNoProvider}
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompleter{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: defaultOpenAITemperature,
		maxRetries:  defaultOpenAIRetries,
		log:         logger.WithComponent("classify-openai"),
	}, nil
}

// Complete sends prompt and retries on transport failures.
func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	const op = "Complete"

	var lastErr error
	for attempt := 1; attempt <= o.maxRetries; attempt++ {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       o.model,
			Temperature: o.temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens: 2000,
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", &CollaboratorError{Op: op, Provider: ProviderOpenAI, Model: o.model, Err: ctx.Err()}
			}
			lastErr = err
			o.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_retries", o.maxRetries).
				Msg("OpenAI request failed, retrying")
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no response choices")
			continue
		}

		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			lastErr = ErrEmptyResponse
			continue
		}
		return text, nil
	}

	return "", &CollaboratorError{Op: op, Provider: ProviderOpenAI, Model: o.model, Err: lastErr}
}
