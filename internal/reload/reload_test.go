package reload

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestReloadSuccess(t *testing.T) {
	requireShell(t)
	r := New([]string{"sh", "-c", "echo ok"}, time.Second, nil)

	out, err := r.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if out != "ok" {
		t.Errorf("Expected output ok, got %q", out)
	}
}

func TestReloadExitCode(t *testing.T) {
	requireShell(t)
	r := New([]string{"sh", "-c", "echo nope >&2; exit 3"}, time.Second, nil)

	_, err := r.Reload(context.Background())
	var rerr *ReloadError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected ReloadError, got %v", err)
	}
	if rerr.Code != 3 {
		t.Errorf("Expected exit code 3, got %d", rerr.Code)
	}
	if rerr.Output != "nope" {
		t.Errorf("Expected captured stderr, got %q", rerr.Output)
	}
	if !strings.Contains(rerr.Error(), "exited with code 3") {
		t.Errorf("Unexpected message %q", rerr.Error())
	}
}

func TestReloadTimeout(t *testing.T) {
	requireShell(t)
	r := New([]string{"sh", "-c", "exec sleep 5"}, 50*time.Millisecond, nil)

	start := time.Now()
	_, err := r.Reload(context.Background())
	var rerr *ReloadError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected ReloadError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("Reload did not honour its timeout")
	}
}

func TestReloadMissingBinary(t *testing.T) {
	r := New([]string{"hyprconf-no-such-binary"}, time.Second, nil)
	if r.Available() {
		t.Fatal("Expected missing binary to be unavailable")
	}

	_, err := r.Reload(context.Background())
	var rerr *ReloadError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected ReloadError, got %v", err)
	}
	if rerr.Code != -1 {
		t.Errorf("Expected code -1 for a process that never ran, got %d", rerr.Code)
	}
}

func TestNewDefaults(t *testing.T) {
	r := New(nil, 0, nil)
	if strings.Join(r.Command(), " ") != "hyprctl reload" {
		t.Errorf("Expected default command, got %v", r.Command())
	}
	if r.timeout != DefaultTimeout {
		t.Errorf("Expected default timeout, got %s", r.timeout)
	}
}
