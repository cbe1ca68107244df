// Package runner manages the Minecraft server OS process: launching it from
// the project's configured command line, tracking it through a PID lock
// file, and stopping or inspecting it via the process table.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/craftctl-project/craftctl/internal/util"
)

const stopGracePeriod = 10 * time.Second

// Runner launches and controls the server process for one project directory.
type Runner struct {
	dir       string
	launchCmd []string
	lockPath  string
	logger    zerolog.Logger
}

// New creates a runner for the project at dir. launchCmd is the full server
// command line, argv style.
func New(dir string, launchCmd []string, lockFile string) *Runner {
	return &Runner{
		dir:       dir,
		launchCmd: launchCmd,
		lockPath:  filepath.Join(dir, lockFile),
		logger:    util.ComponentLogger("runner"),
	}
}

// LockPath returns the location of the PID lock file.
func (r *Runner) LockPath() string {
	return r.lockPath
}

// Running reports whether the lock file points at a live process. A stale
// lock left behind by a crash is cleaned up.
func (r *Runner) Running() (int, bool, error) {
	pid, ok, err := ReadLock(r.lockPath)
	if err != nil || !ok {
		return 0, false, err
	}

	alive, err := process.PidExists(int32(pid))
	if err != nil {
		return 0, false, fmt.Errorf("failed to check pid %d: %w", pid, err)
	}
	if !alive {
		r.logger.Debug().Int("pid", pid).Msg("removing stale lock file")
		if err := RemoveLock(r.lockPath); err != nil {
			return 0, false, err
		}
		return 0, false, nil
	}
	return pid, true, nil
}

// Run starts the server in the foreground, inheriting stdio, and blocks
// until it exits. The lock file exists for the lifetime of the process.
func (r *Runner) Run(ctx context.Context) error {
	if pid, running, err := r.Running(); err != nil {
		return err
	} else if running {
		return fmt.Errorf("server already running (pid %d)", pid)
	}
	if len(r.launchCmd) == 0 {
		return fmt.Errorf("project has no launch command configured")
	}

	cmd := exec.CommandContext(ctx, r.launchCmd[0], r.launchCmd[1:]...)
	cmd.Dir = r.dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	r.logger.Info().Strs("cmd", r.launchCmd).Str("dir", r.dir).Msg("starting server")

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server process: %w", err)
	}
	if err := WriteLock(r.lockPath, cmd.Process.Pid); err != nil {
		cmd.Process.Kill()
		return err
	}
	defer RemoveLock(r.lockPath)

	err := cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Info().Int("exit_code", exitErr.ExitCode()).Msg("server exited")
			return nil
		}
		return fmt.Errorf("server process failed: %w", err)
	}
	r.logger.Info().Msg("server exited")
	return nil
}

// Start launches the server detached, with output redirected to logFile,
// and returns the new PID without waiting.
func (r *Runner) Start(logFile string) (int, error) {
	if pid, running, err := r.Running(); err != nil {
		return 0, err
	} else if running {
		return 0, fmt.Errorf("server already running (pid %d)", pid)
	}
	if len(r.launchCmd) == 0 {
		return 0, fmt.Errorf("project has no launch command configured")
	}

	out, err := os.OpenFile(filepath.Join(r.dir, logFile), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open server log file: %w", err)
	}
	defer out.Close()

	cmd := exec.Command(r.launchCmd[0], r.launchCmd[1:]...)
	cmd.Dir = r.dir
	cmd.Stdout = out
	cmd.Stderr = out
	setDetachedAttrs(cmd)

	r.logger.Info().Strs("cmd", r.launchCmd).Msg("starting server detached")

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start server process: %w", err)
	}
	pid := cmd.Process.Pid
	if err := WriteLock(r.lockPath, pid); err != nil {
		cmd.Process.Kill()
		return 0, err
	}

	// Reap the child when it exits so the lock does not go stale on a
	// clean shutdown triggered from inside the server.
	go func() {
		cmd.Wait()
		RemoveLock(r.lockPath)
	}()

	return pid, nil
}

// Stop terminates the running server, trying SIGTERM first and escalating
// to SIGKILL after a grace period.
func (r *Runner) Stop() error {
	pid, running, err := r.Running()
	if err != nil {
		return err
	}
	if !running {
		return fmt.Errorf("no server is running")
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return fmt.Errorf("failed to open pid %d: %w", pid, err)
	}

	r.logger.Info().Int("pid", pid).Msg("stopping server")

	if err := proc.Terminate(); err != nil {
		r.logger.Warn().Err(err).Msg("graceful shutdown failed, force killing")
		if err := proc.Kill(); err != nil {
			return fmt.Errorf("failed to kill pid %d: %w", pid, err)
		}
		return RemoveLock(r.lockPath)
	}

	deadline := time.Now().Add(stopGracePeriod)
	for time.Now().Before(deadline) {
		alive, _ := process.PidExists(int32(pid))
		if !alive {
			return RemoveLock(r.lockPath)
		}
		time.Sleep(200 * time.Millisecond)
	}

	r.logger.Warn().Int("pid", pid).Msg("server did not stop in time, force killing")
	if err := proc.Kill(); err != nil {
		return fmt.Errorf("failed to kill pid %d: %w", pid, err)
	}
	return RemoveLock(r.lockPath)
}

// Status describes the running server process.
type Status struct {
	Running    bool
	PID        int
	Uptime     time.Duration
	CPUPercent float64
	MemoryMB   float64
}

// Status inspects the server process. When no server is running the zero
// status is returned with Running false.
func (r *Runner) Status() (Status, error) {
	pid, running, err := r.Running()
	if err != nil || !running {
		return Status{}, err
	}

	st := Status{Running: true, PID: pid}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return st, nil
	}
	if created, err := proc.CreateTime(); err == nil {
		st.Uptime = time.Since(time.UnixMilli(created)).Truncate(time.Second)
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		st.MemoryMB = float64(mem.RSS) / (1024 * 1024)
	}
	return st, nil
}
