package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/craftctl-project/craftctl/internal/config"
	"github.com/craftctl-project/craftctl/internal/console"
	"github.com/craftctl-project/craftctl/internal/rcon"
)

// ConsoleOptions control the interactive console.
type ConsoleOptions struct {
	// Host, Port and Password override values resolved from
	// server.properties when non-zero.
	Host     string
	Port     uint16
	Password string

	// Timeout bounds each RCON round trip. Zero blocks indefinitely.
	Timeout time.Duration
}

// Console connects to the server's RCON port and runs the interactive loop
// until the user quits or the connection dies.
func (a *App) Console(ctx context.Context, opts ConsoleOptions) error {
	target := config.ResolveRCON(a.projectPath(config.DefaultPropertiesFile))
	if opts.Host != "" {
		target.Host = opts.Host
	}
	if opts.Port != 0 {
		target.Port = opts.Port
	}
	if opts.Password != "" {
		target.Password = opts.Password
	}

	session, err := rcon.Connect(ctx, target.Host, target.Port, target.Password, rcon.Options{
		Timeout: opts.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", target.Addr(), err)
	}
	defer session.Close()

	// Ctrl-C while a command is in flight closes the connection, which
	// unblocks the loop and ends it cleanly.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		select {
		case <-sigc:
			session.Close()
		case <-ctx.Done():
		}
	}()

	input, err := console.NewTerminalInput()
	if err != nil {
		return fmt.Errorf("failed to initialize console input: %w", err)
	}
	defer input.Close()

	fmt.Printf("Connected to %s. Type Q to quit.\n", target.Addr())
	return console.New(session, input, os.Stdout, os.Stderr).Run()
}
