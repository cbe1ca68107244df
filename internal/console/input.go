package console

import (
	"errors"
	"io"

	"github.com/chzyer/readline"
)

// readlineInput reads lines from the terminal with history and the usual
// line-editing keys.
type readlineInput struct {
	rl *readline.Instance
}

// NewTerminalInput creates a LineReader over the controlling terminal using
// the standard prompt.
func NewTerminalInput() (LineReader, error) {
	rl, err := readline.New(Prompt)
	if err != nil {
		return nil, err
	}
	return &readlineInput{rl: rl}, nil
}

func (r *readlineInput) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if err != nil {
		// Ctrl-C ends the console the same way Ctrl-D does.
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}
	return line, nil
}

func (r *readlineInput) Close() error {
	return r.rl.Close()
}
