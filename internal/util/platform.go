package util

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemInfo summarizes the host the server runs on.
type SystemInfo struct {
	OS            string
	Hostname      string
	CPUs          int
	TotalMemoryMB uint64
	FreeDiskMB    uint64
}

// GetSystemInfo gathers host facts. Fields that cannot be read are left at
// their zero value.
func GetSystemInfo(dataDir string) SystemInfo {
	info := SystemInfo{
		OS:   runtime.GOOS,
		CPUs: runtime.NumCPU(),
	}

	if hi, err := host.Info(); err == nil {
		info.Hostname = hi.Hostname
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemoryMB = vm.Total / (1024 * 1024)
	}
	if du, err := disk.Usage(dataDir); err == nil {
		info.FreeDiskMB = du.Free / (1024 * 1024)
	}
	return info
}

// CheckJava verifies a Java runtime is on PATH and returns its version
// banner line.
func CheckJava() (string, error) {
	path, err := exec.LookPath("java")
	if err != nil {
		return "", fmt.Errorf("java not found on PATH: %w", err)
	}

	// java prints its version banner on stderr.
	out, err := exec.Command(path, "-version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to run java -version: %w", err)
	}

	line := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2)[0]
	return strings.TrimSpace(line), nil
}
