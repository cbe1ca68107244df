// Package console implements the interactive RCON console: a
// read-eval-print loop that forwards typed lines to a live session and
// prints the replies.
package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/craftctl-project/craftctl/internal/rcon"
	"github.com/craftctl-project/craftctl/internal/util"
)

// Prompt is printed before each line of input.
const Prompt = "> "

const exitNotice = "Exiting console."

// Executor runs one remote command and returns its textual reply. Satisfied
// by *rcon.Session.
type Executor interface {
	Execute(command string) (string, error)
}

// LineReader yields one line of user input per call, prompting as needed.
// io.EOF signals end of input.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// Console drives the interactive loop over a live session.
type Console struct {
	session Executor
	input   LineReader
	out     io.Writer
	errOut  io.Writer
	logger  zerolog.Logger
}

// New creates a console over session. Replies go to out, per-command errors
// to errOut.
func New(session Executor, input LineReader, out, errOut io.Writer) *Console {
	return &Console{
		session: session,
		input:   input,
		out:     out,
		errOut:  errOut,
		logger:  util.ComponentLogger("console"),
	}
}

// Run loops until end of input, a quit request, or a connection-level
// failure. Per-command errors are printed and the loop continues; a dead
// connection ends the loop with the exit notice rather than an error. The
// returned error is non-nil only for input failures other than EOF.
func (c *Console) Run() error {
	for {
		line, err := c.input.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out, exitNotice)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}
		if strings.EqualFold(cmd, "q") {
			fmt.Fprintln(c.out, exitNotice)
			return nil
		}

		reply, err := c.session.Execute(cmd)
		switch {
		case err == nil:
			if reply != "" {
				fmt.Fprintln(c.out, reply)
			}
		case isCommandError(err):
			fmt.Fprintf(c.errOut, "Error: %v\n", err)
		default:
			// Connection-level failure: the session is gone.
			c.logger.Debug().Err(err).Msg("session error, leaving console")
			fmt.Fprintf(c.errOut, "Error: %v\n", err)
			fmt.Fprintln(c.out, exitNotice)
			return nil
		}

		// A server receiving "stop" may close the socket or misbehave if
		// anything else is sent afterwards, so leave right away.
		if strings.EqualFold(cmd, "stop") {
			fmt.Fprintln(c.out, exitNotice)
			return nil
		}
	}
}

// isCommandError reports whether err is scoped to a single command rather
// than the whole connection. Framing and correlation errors leave the
// session usable; anything else means the stream is dead.
func isCommandError(err error) bool {
	var fe *rcon.FramingError
	var ce *rcon.CorrelationError
	return errors.As(err, &fe) || errors.As(err, &ce)
}
