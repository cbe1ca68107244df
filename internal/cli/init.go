package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"

	"github.com/craftctl-project/craftctl/internal/config"
	"github.com/craftctl-project/craftctl/internal/fabric"
	"github.com/craftctl-project/craftctl/internal/runner"
	"github.com/craftctl-project/craftctl/internal/util"
)

const serverJarName = "server.jar"

// InitOptions control project initialization.
type InitOptions struct {
	Name        string
	MCVersion   string // empty means pick interactively
	Interactive bool
}

// Init sets up a new server project in the app directory: picks versions,
// writes mc.toml, downloads the Fabric server launcher, boots it once to
// generate the server files, then accepts the EULA and enables RCON.
func (a *App) Init(ctx context.Context, opts InitOptions) error {
	projectFile := a.projectPath(config.DefaultProjectFile)
	if _, err := os.Stat(projectFile); err == nil {
		return fmt.Errorf("%s already exists, refusing to reinitialize", config.DefaultProjectFile)
	}

	javaBanner, err := util.CheckJava()
	if err != nil {
		return fmt.Errorf("a Java runtime is required to run the server: %w", err)
	}
	fmt.Printf("Found %s\n", javaBanner)

	meta := fabric.NewClient()

	gameVersion, err := a.pickGameVersion(ctx, meta, opts)
	if err != nil {
		return err
	}
	loaderVersion, installerVersion, err := latestStableToolchain(ctx, meta)
	if err != nil {
		return err
	}

	name := opts.Name
	if name == "" {
		name = "minecraft-server"
	}

	project := config.DefaultProject(name)
	project.Versions.MCVersion = gameVersion
	project.Versions.FabricVersion = loaderVersion
	if err := project.SaveTo(projectFile); err != nil {
		return err
	}
	fmt.Printf("Created %s (Minecraft %s, Fabric %s)\n", config.DefaultProjectFile, gameVersion, loaderVersion)

	fmt.Println("Downloading server launcher...")
	jarPath := a.projectPath(serverJarName)
	if err := meta.DownloadServerJar(ctx, gameVersion, loaderVersion, installerVersion, jarPath); err != nil {
		return err
	}

	fmt.Println("Running first boot to generate server files...")
	r := runner.New(a.dir, project.Console.LaunchCmd, config.DefaultLockFile)
	if err := r.Run(ctx); err != nil {
		return fmt.Errorf("first boot failed: %w", err)
	}

	if err := a.acceptEULA(); err != nil {
		return err
	}
	if err := a.configureRCON(); err != nil {
		return err
	}

	fmt.Println("Project initialized. Start the server with 'craftctl run'.")
	return nil
}

func (a *App) pickGameVersion(ctx context.Context, meta *fabric.Client, opts InitOptions) (string, error) {
	if opts.MCVersion != "" {
		return opts.MCVersion, nil
	}

	if !opts.Interactive {
		v, err := meta.LatestStableGame(ctx)
		if err != nil {
			return "", err
		}
		return v.Version, nil
	}

	versions, err := meta.GameVersions(ctx)
	if err != nil {
		return "", err
	}
	var stable []string
	for _, v := range versions {
		if v.Stable {
			stable = append(stable, v.Version)
		}
	}
	if len(stable) == 0 {
		return "", fmt.Errorf("no stable game versions available")
	}

	var picked string
	prompt := &survey.Select{
		Message:  "Minecraft version:",
		Options:  stable,
		Default:  stable[0],
		PageSize: 10,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return "", fmt.Errorf("version selection aborted: %w", err)
	}
	return picked, nil
}

func latestStableToolchain(ctx context.Context, meta *fabric.Client) (loader, installer string, err error) {
	loaders, err := meta.LoaderVersions(ctx)
	if err != nil {
		return "", "", err
	}
	for _, l := range loaders {
		if l.Stable {
			loader = l.Version
			break
		}
	}
	if loader == "" {
		return "", "", fmt.Errorf("no stable loader version available")
	}

	installers, err := meta.InstallerVersions(ctx)
	if err != nil {
		return "", "", err
	}
	for _, i := range installers {
		if i.Stable {
			installer = i.Version
			break
		}
	}
	if installer == "" {
		return "", "", fmt.Errorf("no stable installer version available")
	}
	return loader, installer, nil
}

func (a *App) acceptEULA() error {
	path := a.projectPath(config.DefaultEulaFile)
	eula, err := config.LoadProperties(path)
	if err != nil {
		return fmt.Errorf("first boot did not generate %s: %w", config.DefaultEulaFile, err)
	}
	eula.Set("eula", "true")
	if err := eula.Save(); err != nil {
		return err
	}
	fmt.Println("Accepted the Minecraft EULA (eula.txt).")
	return nil
}

func (a *App) configureRCON() error {
	path := a.projectPath(config.DefaultPropertiesFile)
	props, err := config.LoadProperties(path)
	if err != nil {
		return fmt.Errorf("first boot did not generate %s: %w", config.DefaultPropertiesFile, err)
	}

	password, err := util.GeneratePassword(16)
	if err != nil {
		return err
	}

	props.Set("enable-rcon", "true")
	props.Set("rcon.port", fmt.Sprintf("%d", config.DefaultRCONPort))
	props.Set("rcon.password", password)
	if err := props.Save(); err != nil {
		return err
	}
	fmt.Println("Enabled RCON in server.properties.")
	return nil
}
