package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BackupTimeFormat is the timestamp layout appended to backup file names.
const BackupTimeFormat = "20060102_150405"

// Backup describes one backup file next to the config.
type Backup struct {
	Path string
	Time time.Time // zero if the suffix could not be parsed
	Size int64

	seq int
}

// Name returns the backup's file name.
func (b Backup) Name() string {
	return filepath.Base(b.Path)
}

func (s *Store) backupPrefix() string {
	return s.path + ".bak."
}

// nextBackupPath picks <path>.bak.<timestamp>, adding _N when a backup with
// the same second already exists.
func (s *Store) nextBackupPath() string {
	base := s.backupPrefix() + s.opts.Now().Format(BackupTimeFormat)
	candidate := base
	for n := 1; ; n++ {
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
}

// Backups lists existing backups, oldest first.
func (s *Store) Backups() ([]Backup, error) {
	matches, err := filepath.Glob(globEscape(s.backupPrefix()) + "*")
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	backups := make([]Backup, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		stamp, seq := splitSuffix(strings.TrimPrefix(m, s.backupPrefix()))
		t, _ := time.ParseInLocation(BackupTimeFormat, stamp, time.Local)
		backups = append(backups, Backup{Path: m, Time: t, Size: info.Size(), seq: seq})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].Time.Equal(backups[j].Time) {
			return backups[i].Time.Before(backups[j].Time)
		}
		return backups[i].seq < backups[j].seq
	})
	return backups, nil
}

// Latest returns the newest backup.
func (s *Store) Latest() (Backup, bool, error) {
	backups, err := s.Backups()
	if err != nil || len(backups) == 0 {
		return Backup{}, false, err
	}
	return backups[len(backups)-1], true, nil
}

// Prune removes all but the newest keep backups and returns the removed paths.
func (s *Store) Prune(keep int) ([]string, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep must not be negative, got %d", keep)
	}
	backups, err := s.Backups()
	if err != nil {
		return nil, err
	}
	if len(backups) <= keep {
		return nil, nil
	}

	var removed []string
	for _, b := range backups[:len(backups)-keep] {
		if err := os.Remove(b.Path); err != nil {
			return removed, fmt.Errorf("removing backup %s: %w", b.Path, err)
		}
		removed = append(removed, b.Path)
		s.logger.Debug("Backup removed.", "path", b.Path)
	}
	return removed, nil
}

// Restore replaces the config with the contents of a backup. The name may be
// a full path or a file name from Backups. The current file is backed up
// first when backups are enabled.
func (s *Store) Restore(name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) && !strings.ContainsRune(path, filepath.Separator) {
		path = filepath.Join(filepath.Dir(s.path), name)
	}
	if !strings.HasPrefix(path, s.backupPrefix()) {
		return "", fmt.Errorf("%s is not a backup of %s", name, s.path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading backup: %w", err)
	}
	if _, err := s.Save(string(content)); err != nil {
		return "", err
	}
	s.logger.Info("Backup restored.", "backup", path, "path", s.path)
	return path, nil
}

// copyFile copies src to dst, keeping src's permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// splitSuffix splits "20240101_120000_2" into the timestamp and the collision
// counter.
func splitSuffix(suffix string) (string, int) {
	n := len(BackupTimeFormat)
	if len(suffix) <= n || suffix[n] != '_' {
		return suffix, 0
	}
	seq, err := strconv.Atoi(suffix[n+1:])
	if err != nil {
		return suffix, 0
	}
	return suffix[:n], seq
}

func globEscape(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return r.Replace(s)
}
