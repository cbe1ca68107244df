package runner

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WriteLock records the server PID in the project lock file.
func WriteLock(path string, pid int) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write lock file %s: %w", path, err)
	}
	return nil
}

// ReadLock returns the PID recorded in the lock file. A missing file means
// no server is running.
func ReadLock(path string) (int, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read lock file %s: %w", path, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false, fmt.Errorf("lock file %s is corrupt: %w", path, err)
	}
	return pid, true, nil
}

// RemoveLock deletes the lock file. A missing file is not an error.
func RemoveLock(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file %s: %w", path, err)
	}
	return nil
}
