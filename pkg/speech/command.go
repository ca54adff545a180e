package speech

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
)

// Command speaks by running a system text-to-speech binary with the text
// as its final argument, e.g. `say` on macOS or `espeak` on Linux.
type Command struct {
	name string
	path string
	args []string
}

// NewCommand resolves a synthesizer binary and returns a speaker for it.
// Extra args are passed before the text on every invocation (e.g. espeak
// -s 150 for the speech rate).
func NewCommand(binary string, args ...string) (*Command, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, wrapError(binary, ErrCommandNotFound)
	}

	return &Command{
		name: filepath.Base(binary),
		path: path,
		args: args,
	}, nil
}

// Speak runs the synthesizer and waits for playback to finish.
func (c *Command) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, c.path, append(slices.Clone(c.args), text)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return wrapError(c.name, fmt.Errorf("%w: %s", err, out))
	}
	return nil
}

// Close is a no-op; each utterance is a fresh process.
func (c *Command) Close() error { return nil }

// Verify Command implements Speaker at compile time.
var _ Speaker = (*Command)(nil)
