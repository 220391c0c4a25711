// Package classify asks a language model to suggest accounts for card
// charges the journal has no history for.
//
// The model is an external collaborator: every failure is caught in
// Enrich and reported as a message, never as an error.
package classify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"closebook/internal/journal"
	"closebook/internal/logger"
	"closebook/internal/reconciliation"
)

const (
	DefaultSampleSize   = 10
	DefaultPatternLimit = 20
	DefaultTimeout      = 60 * time.Second
)

// Completer sends a prompt to a model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Outcome is the result of an enrichment run. Raw is kept even when it
// could not be parsed.
type Outcome struct {
	Raw         string       `json:"raw,omitempty"`
	Suggestions []Suggestion `json:"suggestions"`
	Message     string       `json:"message,omitempty"`
	Sampled     int          `json:"sampled"`
}

// OK reports whether suggestions were parsed.
func (o Outcome) OK() bool {
	return o.Message == "" && len(o.Suggestions) > 0
}

// Service builds prompts from journal patterns and parses model output.
type Service struct {
	completer    Completer
	sampleSize   int
	patternLimit int
	timeout      time.Duration
	log          zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSampleSize caps how many records are sent to the model.
func WithSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// WithPatternLimit caps how many learned merchant patterns go into the
// prompt.
func WithPatternLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.patternLimit = n
		}
	}
}

// WithTimeout bounds a single Enrich call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService creates a classification service. A nil completer is
// allowed; Enrich then reports that no provider is configured.
func NewService(c Completer, opts ...Option) *Service {
	s := &Service{
		completer:    c,
		sampleSize:   DefaultSampleSize,
		patternLimit: DefaultPatternLimit,
		timeout:      DefaultTimeout,
		log:          logger.WithComponent("classify"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Unclassified returns the records without a prior-period account.
func Unclassified(records []reconciliation.Record) []reconciliation.Record {
	var out []reconciliation.Record
	for _, r := range records {
		if r.HistoryHint == "" {
			out = append(out, r)
		}
	}
	return out
}

// Enrich asks the model to classify a sample of records using patterns
// learned from txs. Suggestions are annotated with the confidence the
// journal itself supports.
func (s *Service) Enrich(ctx context.Context, records []reconciliation.Record, txs []journal.Transaction) Outcome {
	out := Outcome{Suggestions: []Suggestion{}}

	if s.completer == nil {
		out.Message = ErrNoProvider.Error()
		return out
	}
	if len(records) == 0 {
		out.Message = "no records to classify"
		return out
	}

	sample := records
	if len(sample) > s.sampleSize {
		sample = sample[:s.sampleSize]
	}
	out.Sampled = len(sample)

	patterns := journal.NewPatterns(txs)
	prompt, err := BuildPrompt(patterns, ItemsFrom(sample), s.patternLimit)
	if err != nil {
		out.Message = fmt.Sprintf("AI call failed: building prompt: %v", err)
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.log.Info().
		Int("sampled", out.Sampled).
		Int("prompt_length", len(prompt)).
		Msg("Requesting account suggestions")

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.log.Warn().Err(err).Msg("Classification call failed")
		out.Message = fmt.Sprintf("AI call failed: %v", err)
		return out
	}
	out.Raw = raw

	suggestions, err := ParseSuggestions(raw)
	if err != nil {
		s.log.Warn().Err(err).Int("response_length", len(raw)).Msg("Classification response not parsed")
		out.Message = err.Error()
		return out
	}

	for i := range suggestions {
		suggestions[i].Confidence, suggestions[i].ConfidenceBasis = patterns.Confidence(suggestions[i].Merchant, suggestions[i].Account)
	}
	out.Suggestions = suggestions

	s.log.Info().Int("suggestions", len(suggestions)).Msg("Account suggestions parsed")
	return out
}
