// Package cli implements the craftctl subcommands: project initialization,
// server lifecycle, properties editing, mod management, and the interactive
// RCON console.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/craftctl-project/craftctl/internal/config"
	"github.com/craftctl-project/craftctl/internal/util"
)

// Loader identifier recorded in mc.toml and used for Modrinth compatibility
// filtering.
const loaderName = "fabric"

// App carries the shared state of one craftctl invocation.
type App struct {
	dir    string
	logger zerolog.Logger
}

// NewApp creates an App rooted at the project directory dir.
func NewApp(dir string) *App {
	return &App{
		dir:    dir,
		logger: util.ComponentLogger("cli"),
	}
}

// projectPath returns the path of a file inside the project directory.
func (a *App) projectPath(name string) string {
	return filepath.Join(a.dir, name)
}

// loadProject loads mc.toml, failing with a hint when the directory has not
// been initialized.
func (a *App) loadProject() (*config.Project, error) {
	p, err := config.LoadFrom(a.projectPath(config.DefaultProjectFile))
	if err != nil {
		return nil, fmt.Errorf("not a craftctl project (run 'craftctl init' first): %w", err)
	}
	return p, nil
}
