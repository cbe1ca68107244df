// Package config handles project configuration (mc.toml) and Minecraft
// properties files (server.properties, eula.txt) for craftctl.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultProjectFile is the project manifest in the working directory.
	DefaultProjectFile = "mc.toml"

	// DefaultPropertiesFile is the server's own settings file, generated by
	// the server on first boot.
	DefaultPropertiesFile = "server.properties"

	// DefaultEulaFile is the EULA acknowledgement file.
	DefaultEulaFile = "eula.txt"

	// DefaultLockFile holds the PID of a running server.
	DefaultLockFile = "mc.lock"
)

// Project is the root mc.toml structure: project identity, pinned versions,
// installed content, and the server launch command.
type Project struct {
	Name          string            `toml:"name"`
	Versions      Versions          `toml:"versions"`
	Mods          map[string]string `toml:"mods"`
	Datapacks     map[string]string `toml:"datapacks"`
	Resourcepacks map[string]string `toml:"resourcepacks"`
	Console       Console           `toml:"console"`

	path string
}

// Versions pins the Minecraft and Fabric loader versions the project
// targets, plus the craftctl version that created it.
type Versions struct {
	MCVersion       string `toml:"mc_version"`
	FabricVersion   string `toml:"fabric_version"`
	CraftctlVersion string `toml:"craftctl_version"`
}

// Console holds the server launch command, one argv element per entry.
type Console struct {
	LaunchCmd []string `toml:"launch_cmd"`
}

// DefaultProject returns a fresh project manifest with sensible defaults.
func DefaultProject(name string) *Project {
	return &Project{
		Name: name,
		Versions: Versions{
			MCVersion:       "1.20.1",
			FabricVersion:   "0.15.0",
			CraftctlVersion: "0.1.0",
		},
		Mods:          map[string]string{},
		Datapacks:     map[string]string{},
		Resourcepacks: map[string]string{},
		Console: Console{
			LaunchCmd: []string{"java", "-Xmx2G", "-Xms2G", "-jar", "server.jar", "nogui"},
		},
		path: DefaultProjectFile,
	}
}

// Exists reports whether an mc.toml is present in the working directory.
func Exists() bool {
	_, err := os.Stat(DefaultProjectFile)
	return err == nil
}

// Load reads mc.toml from the working directory.
func Load() (*Project, error) {
	return LoadFrom(DefaultProjectFile)
}

// LoadFrom reads a project manifest from path.
func LoadFrom(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file %s: %w", path, err)
	}

	p := &Project{
		Mods:          map[string]string{},
		Datapacks:     map[string]string{},
		Resourcepacks: map[string]string{},
	}
	if err := toml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, err)
	}

	p.path = path
	log.Debug().Str("path", path).Str("name", p.Name).Msg("project loaded")
	return p, nil
}

// Save writes the manifest back to the path it was loaded from.
func (p *Project) Save() error {
	if p.path == "" {
		p.path = DefaultProjectFile
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file %s: %w", p.path, err)
	}

	log.Debug().Str("path", p.path).Msg("project saved")
	return nil
}

// SaveTo writes the manifest to path and remembers it for later saves.
func (p *Project) SaveTo(path string) error {
	p.path = path
	return p.Save()
}

// Path returns the manifest file path.
func (p *Project) Path() string {
	return p.path
}
