package speech

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Chain implements Speaker by trying multiple speakers in order.
// The first success wins; if all fail, an aggregate error is returned.
// On Linux there is no single canonical synthesizer, so a chain of
// candidates (espeak, flite, spd-say) covers most installs.
type Chain struct {
	speakers []Speaker
	logger   *slog.Logger
}

// NewChain creates a speaker chain. At least one speaker is required.
func NewChain(speakers ...Speaker) (*Chain, error) {
	if len(speakers) == 0 {
		return nil, ErrNoSpeaker
	}

	return &Chain{
		speakers: speakers,
		logger:   slog.Default().With("component", "speech.chain"),
	}, nil
}

// Speak tries each speaker until one succeeds.
func (c *Chain) Speak(ctx context.Context, text string) error {
	var errs []error

	for i, s := range c.speakers {
		err := s.Speak(ctx, text)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback speaker succeeded", "speaker_index", i)
			}
			return nil
		}

		errs = append(errs, err)
		c.logger.Warn("speaker failed, trying next",
			"speaker_index", i,
			"error", err,
		)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return &ChainError{Errors: errs}
}

// Close closes every speaker in the chain, returning the first error.
func (c *Chain) Close() error {
	var first error
	for _, s := range c.speakers {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ChainError aggregates the errors from every speaker in a chain.
type ChainError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("speech: all speakers failed: %s", strings.Join(msgs, "; "))
}

// Verify Chain implements Speaker at compile time.
var _ Speaker = (*Chain)(nil)
