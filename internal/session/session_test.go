package session

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyprconf/hyprconf/internal/hypr"
	"github.com/hyprconf/hyprconf/internal/reload"
	"github.com/hyprconf/hyprconf/internal/store"
)

const testConfig = `$terminal = kitty
monitor = DP-1, 2560x1440@144, 0x0, 1.0

decoration {
    rounding = 10
}
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hyprland.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hyprland.conf")

	_, err := Open(path, Options{})
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)

	s, err := Open(path, Options{CreateIfMissing: true})
	require.NoError(t, err)
	require.True(t, s.Created())
	require.False(t, s.Modified())
	require.NotEmpty(t, s.Document().Keybinds())
	require.FileExists(t, path)
}

func TestEditSaveAndReopen(t *testing.T) {
	path := writeTestConfig(t, testConfig)
	s, err := Open(path, Options{Backup: true})
	require.NoError(t, err)
	require.False(t, s.Modified())

	id := s.Document().Monitors()[0].ID()
	require.NoError(t, s.History().SetField(id, hypr.FieldScale, "1.5"))
	require.True(t, s.Modified())

	backup, err := s.Save()
	require.NoError(t, err)
	require.NotEmpty(t, backup)
	require.False(t, s.Modified())

	old, err := os.ReadFile(backup)
	require.NoError(t, err)
	require.Equal(t, testConfig, string(old))

	reopened, err := Open(path, Options{})
	require.NoError(t, err)
	require.Equal(t, "1.5", reopened.Document().Monitors()[0].Scale)
}

func TestUndoBackToSavedIsUnmodified(t *testing.T) {
	s, err := Open(writeTestConfig(t, testConfig), Options{})
	require.NoError(t, err)

	_, err = s.History().SetValue("decoration", "rounding", "4")
	require.NoError(t, err)
	require.True(t, s.Modified())

	_, err = s.History().Undo()
	require.NoError(t, err)
	require.False(t, s.Modified())
}

func TestSaveUnmodifiedWritesNothing(t *testing.T) {
	path := writeTestConfig(t, "monitor=DP-1,preferred,auto,1\n")
	s, err := Open(path, Options{Backup: true})
	require.NoError(t, err)

	backup, err := s.Save()
	require.NoError(t, err)
	require.Empty(t, backup)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "monitor=DP-1,preferred,auto,1\n", string(content), "file left in its original layout")
}

func TestSaveFailureKeepsDocument(t *testing.T) {
	path := writeTestConfig(t, testConfig)
	s, err := Open(path, Options{})
	require.NoError(t, err)

	_, err = s.History().SetValue("general", "gaps_in", "5")
	require.NoError(t, err)
	before := s.Text()

	// Replace the file with a directory so the final rename fails.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0o755))

	_, err = s.Save()
	var werr *store.WriteError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, before, s.Text())
	require.True(t, s.Modified())
	require.True(t, s.History().CanUndo())
}

func TestRevert(t *testing.T) {
	s, err := Open(writeTestConfig(t, testConfig), Options{})
	require.NoError(t, err)

	_, err = s.History().Append(hypr.Root, &hypr.ExecOnce{Command: "waybar"})
	require.NoError(t, err)
	require.Len(t, s.Document().ExecOnce(), 1)

	require.NoError(t, s.Revert())
	require.Empty(t, s.Document().ExecOnce())
	require.False(t, s.History().CanUndo())
	require.False(t, s.Modified())
}

func TestHistoryLimitApplied(t *testing.T) {
	s, err := Open(writeTestConfig(t, testConfig), Options{HistoryLimit: 2})
	require.NoError(t, err)

	for _, v := range []string{"1", "2", "3", "4"} {
		_, err := s.History().SetValue("decoration", "rounding", v)
		require.NoError(t, err)
	}
	undo, _ := s.History().Depth()
	require.Equal(t, 2, undo)
}

func TestApply(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	path := writeTestConfig(t, testConfig)
	s, err := Open(path, Options{
		ReloadCommand: []string{"sh", "-c", "echo reloaded"},
		ReloadTimeout: time.Second,
	})
	require.NoError(t, err)

	_, err = s.History().SetValue("decoration", "rounding", "0")
	require.NoError(t, err)

	out, err := s.Apply(context.Background())
	require.NoError(t, err)
	require.Equal(t, "reloaded", out)
	require.False(t, s.Modified())
}

func TestApplyReloadFailureKeepsSave(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	path := writeTestConfig(t, testConfig)
	s, err := Open(path, Options{
		ReloadCommand: []string{"sh", "-c", "exit 2"},
		ReloadTimeout: time.Second,
	})
	require.NoError(t, err)

	_, err = s.History().SetValue("decoration", "rounding", "0")
	require.NoError(t, err)

	_, err = s.Apply(context.Background())
	var rerr *reload.ReloadError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, 2, rerr.Code)

	reopened, err := Open(path, Options{})
	require.NoError(t, err)
	v, _ := reopened.Document().Value("decoration", "rounding")
	require.Equal(t, "0", v)
}
