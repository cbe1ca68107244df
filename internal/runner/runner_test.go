package runner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLockRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mc.lock")

	if _, ok, err := ReadLock(path); err != nil || ok {
		t.Fatalf("ReadLock on missing file = ok=%v err=%v", ok, err)
	}

	if err := WriteLock(path, 4242); err != nil {
		t.Fatalf("WriteLock failed: %s", err)
	}
	pid, ok, err := ReadLock(path)
	if err != nil || !ok || pid != 4242 {
		t.Fatalf("ReadLock = %d, ok=%v, err=%v", pid, ok, err)
	}

	if err := RemoveLock(path); err != nil {
		t.Fatalf("RemoveLock failed: %s", err)
	}
	if _, ok, _ := ReadLock(path); ok {
		t.Error("lock survived removal")
	}

	// Removing twice is fine.
	if err := RemoveLock(path); err != nil {
		t.Errorf("RemoveLock on missing file: %s", err)
	}
}

func TestReadLockCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mc.lock")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadLock(path); err == nil {
		t.Fatal("expected an error for a corrupt lock file")
	}
}

func TestRunningCleansStaleLock(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, []string{"java"}, "mc.lock")

	// A PID that cannot exist on Linux (beyond pid_max) counts as stale.
	if err := WriteLock(r.LockPath(), 1<<30); err != nil {
		t.Fatal(err)
	}

	_, running, err := r.Running()
	if err != nil {
		t.Fatalf("Running failed: %s", err)
	}
	if running {
		t.Fatal("stale lock reported as running")
	}
	if _, err := os.Stat(r.LockPath()); !os.IsNotExist(err) {
		t.Error("stale lock file was not removed")
	}
}

func TestRunningWithLivePID(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, []string{"java"}, "mc.lock")

	if err := WriteLock(r.LockPath(), os.Getpid()); err != nil {
		t.Fatal(err)
	}

	pid, running, err := r.Running()
	if err != nil {
		t.Fatalf("Running failed: %s", err)
	}
	if !running || pid != os.Getpid() {
		t.Fatalf("Running = %d, %v", pid, running)
	}
}

func TestStopWithoutServer(t *testing.T) {
	r := New(t.TempDir(), []string{"java"}, "mc.lock")
	if err := r.Stop(); err == nil {
		t.Fatal("Stop with no server should fail")
	}
}

func TestStatusWithoutServer(t *testing.T) {
	r := New(t.TempDir(), []string{"java"}, "mc.lock")
	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status failed: %s", err)
	}
	if st.Running {
		t.Fatalf("Status = %+v, want not running", st)
	}
}
