package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/craftctl-project/craftctl/internal/config"
	"github.com/craftctl-project/craftctl/internal/runner"
	"github.com/craftctl-project/craftctl/internal/util"
)

const serverLogFile = "craftctl-server.log"

// RunOptions control server startup.
type RunOptions struct {
	Daemon bool
	NoGUI  bool
}

// Run starts the server. Foreground runs inherit the terminal and block
// until the server exits; daemon runs detach and return immediately.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	project, err := a.loadProject()
	if err != nil {
		return err
	}

	result := project.Validate()
	for _, w := range result.Warnings {
		a.logger.Warn().Str("field", w.Field).Msg(w.Message)
	}
	if !result.IsValid() {
		return result.Errors[0]
	}

	launchCmd := project.Console.LaunchCmd
	if opts.NoGUI && !contains(launchCmd, "nogui") {
		launchCmd = append(append([]string{}, launchCmd...), "nogui")
	}

	r := runner.New(a.dir, launchCmd, config.DefaultLockFile)

	if opts.Daemon {
		pid, err := r.Start(serverLogFile)
		if err != nil {
			return err
		}
		fmt.Printf("Server started (pid %d), logging to %s\n", pid, serverLogFile)
		return nil
	}
	return r.Run(ctx)
}

// Stop terminates a running server.
func (a *App) Stop() error {
	project, err := a.loadProject()
	if err != nil {
		return err
	}

	r := runner.New(a.dir, project.Console.LaunchCmd, config.DefaultLockFile)
	if err := r.Stop(); err != nil {
		return err
	}
	fmt.Println("Server stopped.")
	return nil
}

// Status prints the server process state.
func (a *App) Status() error {
	project, err := a.loadProject()
	if err != nil {
		return err
	}

	r := runner.New(a.dir, project.Console.LaunchCmd, config.DefaultLockFile)
	st, err := r.Status()
	if err != nil {
		return err
	}

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Project", "MC Version", "Status", "PID", "Uptime", "CPU", "Memory"})
	tw.SetBorder(true)
	tw.SetAutoWrapText(false)

	if st.Running {
		tw.Append([]string{
			project.Name,
			project.Versions.MCVersion,
			"RUNNING",
			fmt.Sprintf("%d", st.PID),
			st.Uptime.String(),
			fmt.Sprintf("%.1f%%", st.CPUPercent),
			fmt.Sprintf("%.0f MB", st.MemoryMB),
		})
	} else {
		tw.Append([]string{project.Name, project.Versions.MCVersion, "STOPPED", "-", "-", "-", "-"})
	}

	tw.Render()

	sys := util.GetSystemInfo(a.dir)
	fmt.Printf("Host: %s (%s, %d CPUs, %d MB RAM, %d MB free disk)\n",
		sys.Hostname, sys.OS, sys.CPUs, sys.TotalMemoryMB, sys.FreeDiskMB)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
