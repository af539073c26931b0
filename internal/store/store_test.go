package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyprconf/hyprconf/internal/hypr"
)

// fixedClock returns a Now func that starts at t and advances by step on
// every call.
func fixedClock(t time.Time, step time.Duration) func() time.Time {
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func newTestStore(t *testing.T, opts Options) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hyprland.conf")
	if opts.Now == nil {
		opts.Now = fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local), time.Second)
	}
	return New(path, opts, nil), path
}

func TestLoadMissingFile(t *testing.T) {
	s, path := newTestStore(t, Options{})

	_, _, err := s.Load()
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, path, nf.Path)
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	_, _, err := New(dir, Options{}, nil).Load()
	require.ErrorContains(t, err, "directory")
}

func TestLoadRejectsInvalidUTF8(t *testing.T) {
	s, path := newTestStore(t, Options{})
	require.NoError(t, os.WriteFile(path, []byte{'$', 'a', '=', 0xff}, 0o644))

	_, _, err := s.Load()
	require.ErrorContains(t, err, "UTF-8")
}

func TestLoadStrict(t *testing.T) {
	s, path := newTestStore(t, Options{Strict: true})
	require.NoError(t, os.WriteFile(path, []byte("general {\n"), 0o644))

	_, _, err := s.Load()
	var perr *hypr.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 1, perr.Line)
}

func TestSaveAndLoad(t *testing.T) {
	s, path := newTestStore(t, Options{})
	text := "$terminal = kitty\nbind = SUPER, Return, exec, $terminal\n"

	backup, err := s.Save(text)
	require.NoError(t, err)
	require.Empty(t, backup, "no backup for a file that did not exist")

	doc, raw, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, text, raw)
	require.Len(t, doc.Keybinds(), 1)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, text, string(content))
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hypr", "nested", "hyprland.conf")
	_, err := New(path, Options{}, nil).Save("$a = b\n")
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestSaveKeepsFileMode(t *testing.T) {
	s, path := newTestStore(t, Options{})
	require.NoError(t, os.WriteFile(path, []byte("$a = b\n"), 0o600))

	_, err := s.Save("$a = c\n")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
}

func TestSaveWritesBackup(t *testing.T) {
	s, path := newTestStore(t, Options{Backup: true})
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	backup, err := s.Save("new\n")
	require.NoError(t, err)
	require.Equal(t, path+".bak.20240301_120000", backup)

	old, err := os.ReadFile(backup)
	require.NoError(t, err)
	require.Equal(t, "old\n", string(old))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new\n", string(current))
}

func TestBackupNameCollision(t *testing.T) {
	s, path := newTestStore(t, Options{
		Backup: true,
		Now:    fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local), 0),
	})
	require.NoError(t, os.WriteFile(path, []byte("v0\n"), 0o644))

	var names []string
	for _, text := range []string{"v1\n", "v2\n", "v3\n"} {
		b, err := s.Save(text)
		require.NoError(t, err)
		names = append(names, filepath.Base(b))
	}
	require.Equal(t, []string{
		"hyprland.conf.bak.20240301_120000",
		"hyprland.conf.bak.20240301_120000_1",
		"hyprland.conf.bak.20240301_120000_2",
	}, names)

	backups, err := s.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 3)
	require.Equal(t, names[2], backups[2].Name(), "collision counter orders same-second backups")
}

func TestBackupsAndPrune(t *testing.T) {
	s, path := newTestStore(t, Options{Backup: true})
	require.NoError(t, os.WriteFile(path, []byte("v0\n"), 0o644))
	for _, text := range []string{"v1\n", "v2\n", "v3\n", "v4\n"} {
		_, err := s.Save(text)
		require.NoError(t, err)
	}

	backups, err := s.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 4)
	for i := 1; i < len(backups); i++ {
		require.True(t, backups[i-1].Time.Before(backups[i].Time), "backups sorted oldest first")
	}

	removed, err := s.Prune(2)
	require.NoError(t, err)
	require.Equal(t, []string{backups[0].Path, backups[1].Path}, removed)

	left, err := s.Backups()
	require.NoError(t, err)
	require.Len(t, left, 2)

	latest, ok, err := s.Latest()
	require.NoError(t, err)
	require.True(t, ok)
	content, err := os.ReadFile(latest.Path)
	require.NoError(t, err)
	require.Equal(t, "v3\n", string(content))

	_, err = s.Prune(-1)
	require.Error(t, err)
}

func TestSavePrunesToKeep(t *testing.T) {
	s, path := newTestStore(t, Options{Backup: true, Keep: 2})
	require.NoError(t, os.WriteFile(path, []byte("v0\n"), 0o644))
	for _, text := range []string{"v1\n", "v2\n", "v3\n"} {
		_, err := s.Save(text)
		require.NoError(t, err)
	}

	backups, err := s.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 2)
}

func TestRestore(t *testing.T) {
	s, path := newTestStore(t, Options{Backup: true})
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0o644))

	backup, err := s.Save("edited\n")
	require.NoError(t, err)

	restored, err := s.Restore(filepath.Base(backup))
	require.NoError(t, err)
	require.Equal(t, backup, restored)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "original\n", string(content))

	// Restoring backs up the edited version too.
	backups, err := s.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 2)

	_, err = s.Restore("/etc/passwd")
	require.ErrorContains(t, err, "not a backup")
}

func TestCreateDefault(t *testing.T) {
	s, path := newTestStore(t, Options{Backup: true})

	require.NoError(t, s.CreateDefault(false))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, hypr.DefaultConfig, string(content))

	require.ErrorContains(t, s.CreateDefault(false), "already exists")

	require.NoError(t, os.WriteFile(path, []byte("mine\n"), 0o644))
	require.NoError(t, s.CreateDefault(true))

	latest, ok, err := s.Latest()
	require.NoError(t, err)
	require.True(t, ok)
	old, err := os.ReadFile(latest.Path)
	require.NoError(t, err)
	require.Equal(t, "mine\n", string(old))
}

func TestSplitSuffix(t *testing.T) {
	tests := []struct {
		in    string
		stamp string
		seq   int
	}{
		{"20240301_120000", "20240301_120000", 0},
		{"20240301_120000_7", "20240301_120000", 7},
		{"20240301_120000_x", "20240301_120000_x", 0},
		{"manual", "manual", 0},
	}
	for _, tt := range tests {
		stamp, seq := splitSuffix(tt.in)
		require.Equal(t, tt.stamp, stamp, tt.in)
		require.Equal(t, tt.seq, seq, tt.in)
	}
}

func TestPackageLoadKeepsUnknownDirective(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hyprland.conf")
	require.NoError(t, os.WriteFile(path, []byte("foo_setting = 1\n"), 0o644))

	doc, err := Load(path, Options{})
	require.NoError(t, err)
	require.Equal(t, "foo_setting = 1\n", hypr.Serialize(doc))
}

func TestSaveWritesThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dotfiles-hyprland.conf")
	link := filepath.Join(dir, "hyprland.conf")
	require.NoError(t, os.WriteFile(target, []byte("$a = 1\n"), 0o600))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	s := New(link, Options{
		Backup: true,
		Now:    fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local), time.Second),
	}, nil)
	backup, err := s.Save("$a = 2\n")
	require.NoError(t, err)
	require.Equal(t, link+".bak.20240301_120000", backup)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&fs.ModeSymlink, "the link itself must survive a save")

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "$a = 2\n", string(content))

	targetInfo, err := os.Stat(target)
	require.NoError(t, err)
	require.Equal(t, fs.FileMode(0o600), targetInfo.Mode().Perm())

	old, err := os.ReadFile(backup)
	require.NoError(t, err)
	require.Equal(t, "$a = 1\n", string(old))
}
