// craftctl - Minecraft (Fabric) server management CLI.
//
// craftctl initializes server projects, manages the server process,
// installs mods from Modrinth, edits server.properties, and provides an
// interactive RCON console.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/craftctl-project/craftctl/internal/cli"
	"github.com/craftctl-project/craftctl/internal/config"
	"github.com/craftctl-project/craftctl/internal/util"
)

const (
	appName    = "craftctl"
	appVersion = "0.1.0"
)

const usage = `usage: craftctl <command> [arguments]

Commands:
  init      Initialize a new server project in the current directory
  run       Start the server (foreground by default)
  stop      Stop the running server
  status    Show server process status
  props     Get or set a server.properties value
  mods      Search, install, and update mods from Modrinth
  console   Open an interactive RCON console
  version   Print the craftctl version
  help      Show this message

Run 'craftctl <command> -h' for command-specific flags.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "craftctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	logLevel := "warn"
	if v := os.Getenv("CRAFTCTL_LOG"); v != "" {
		logLevel = v
	}
	if err := util.InitLogger(util.LogConfig{Level: logLevel, Console: true}); err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	app := cli.NewApp(dir)
	ctx := context.Background()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "init":
		return cmdInit(ctx, app, rest)
	case "run":
		return cmdRun(ctx, app, rest)
	case "stop":
		return app.Stop()
	case "status":
		return app.Status()
	case "props":
		return cmdProps(app, rest)
	case "mods":
		return cmdMods(ctx, app, rest)
	case "console":
		return cmdConsole(ctx, app, rest)
	case "version":
		fmt.Printf("%s %s\n", appName, appVersion)
		return nil
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdInit(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	name := fs.String("name", "", "project name")
	mcVersion := fs.String("mc-version", "", "Minecraft version (default: pick interactively)")
	yes := fs.Bool("yes", false, "skip prompts, use latest stable versions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return app.Init(ctx, cli.InitOptions{
		Name:        *name,
		MCVersion:   *mcVersion,
		Interactive: !*yes,
	})
}

func cmdRun(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	daemon := fs.Bool("daemon", false, "run the server in the background")
	nogui := fs.Bool("nogui", false, "force the nogui server flag")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return app.Run(ctx, cli.RunOptions{Daemon: *daemon, NoGUI: *nogui})
}

func cmdProps(app *cli.App, args []string) error {
	fs := flag.NewFlagSet("props", flag.ContinueOnError)
	file := fs.String("file", config.DefaultPropertiesFile, "properties file to edit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch fs.NArg() {
	case 1:
		return app.PropsGet(*file, fs.Arg(0))
	case 2:
		return app.PropsSet(*file, fs.Arg(0), fs.Arg(1))
	default:
		return fmt.Errorf("usage: craftctl props [-file <path>] <key> [value]")
	}
}

func cmdMods(ctx context.Context, app *cli.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: craftctl mods {search|add|remove|list|update}")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "search":
		fs := flag.NewFlagSet("mods search", flag.ContinueOnError)
		gameVersion := fs.String("game-version", "", "filter by Minecraft version")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("usage: craftctl mods search [-game-version <v>] <query>")
		}
		var gameVersions []string
		if *gameVersion != "" {
			gameVersions = []string{*gameVersion}
		}
		return app.ModsSearch(ctx, fs.Arg(0), gameVersions)

	case "add":
		if len(rest) < 1 || len(rest) > 2 {
			return fmt.Errorf("usage: craftctl mods add <slug> [version]")
		}
		version := ""
		if len(rest) == 2 {
			version = rest[1]
		}
		return app.ModsAdd(ctx, rest[0], version)

	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("usage: craftctl mods remove <slug>")
		}
		return app.ModsRemove(rest[0])

	case "list":
		return app.ModsList(ctx)

	case "update":
		return app.ModsUpdate(ctx)

	default:
		return fmt.Errorf("unknown mods subcommand %q", sub)
	}
}

func cmdConsole(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	host := fs.String("host", "", "RCON host (default: from server.properties)")
	port := fs.Uint("port", 0, "RCON port (default: from server.properties)")
	password := fs.String("password", "", "RCON password (default: from server.properties)")
	timeout := fs.Duration("timeout", 0, "per-command timeout (0 blocks indefinitely)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *port > 65535 {
		return fmt.Errorf("invalid port %d", *port)
	}

	return app.Console(ctx, cli.ConsoleOptions{
		Host:     *host,
		Port:     uint16(*port),
		Password: *password,
		Timeout:  *timeout,
	})
}
