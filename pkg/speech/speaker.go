// Package speech provides local text-to-speech output.
//
// Speakers consume the strings produced by the scene engines and never
// inspect them. The Command speaker shells out to a system synthesizer
// (say, espeak, flite); Chain tries several speakers in order; Mock is
// for tests.
package speech

import (
	"context"
	"errors"
	"fmt"
)

// Speaker converts text to audible speech.
type Speaker interface {
	// Speak synthesizes and plays the text, blocking until playback
	// finishes or the context is cancelled.
	Speak(ctx context.Context, text string) error

	// Close releases any resources held by the speaker.
	Close() error
}

// Sentinel errors for common conditions.
var (
	// ErrNoSpeaker is returned when a chain has no speakers.
	ErrNoSpeaker = errors.New("speech: no speakers available")

	// ErrCommandNotFound is returned when the synthesizer binary is not
	// on PATH.
	ErrCommandNotFound = errors.New("speech: synthesizer command not found")
)

// SpeakerError wraps an error with the speaker that produced it.
type SpeakerError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *SpeakerError) Error() string {
	return fmt.Sprintf("speech [%s]: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *SpeakerError) Unwrap() error {
	return e.Err
}

// wrapError wraps an error with speaker context.
func wrapError(name string, err error) error {
	if err == nil {
		return nil
	}
	return &SpeakerError{Name: name, Err: err}
}
