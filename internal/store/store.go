package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/hyprconf/hyprconf/internal/hypr"
	"github.com/hyprconf/hyprconf/internal/logging"
)

// NotFoundError is returned by Load when the config file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s (run `hyprconf init` to create one)", e.Path)
}

// Unwrap lets errors.Is(err, fs.ErrNotExist) match.
func (e *NotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// WriteError is returned when saving fails. The in-memory document is never
// touched by a failed save.
type WriteError struct {
	Path string
	Op   string // "backup", "write" or "rename"
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Options controls loading and saving.
type Options struct {
	Strict bool // reject structurally invalid lines
	Backup bool // copy the existing file aside before every overwrite
	Keep   int  // backups to retain after a save; 0 keeps all

	// Now is used for backup timestamps; defaults to time.Now.
	Now func() time.Time
}

// Store reads and writes one config file.
type Store struct {
	path   string
	opts   Options
	logger *slog.Logger
}

// New creates a Store for path. A nil logger discards log output.
func New(path string, opts Options, logger *slog.Logger) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{path: path, opts: opts, logger: logger}
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the config file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and parses the config file. It returns the document and the text
// it was parsed from.
func (s *Store) Load() (*hypr.Document, string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", &NotFoundError{Path: s.path}
		}
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("config path is a directory, not a file: %s", s.path)
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, "", fmt.Errorf("config file is not valid UTF-8: %s", s.path)
	}

	text := string(content)
	doc, err := hypr.Parse(text, hypr.ParseOptions{Strict: s.opts.Strict})
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", s.path, err)
	}

	s.logger.Debug("Config loaded.", "path", s.path, "entries", doc.Len(), "diagnostics", len(doc.Diagnostics()))
	return doc, text, nil
}

// Load reads and parses the config file at path without a Store.
func Load(path string, opts Options) (*hypr.Document, error) {
	doc, _, err := New(path, opts, nil).Load()
	return doc, err
}

// Save writes text to the config file. When backups are enabled and the file
// already exists, it is first copied to a timestamped sibling whose path is
// returned.
func (s *Store) Save(text string) (string, error) {
	var backupPath string
	mode := fs.FileMode(0o644)
	target := s.target()

	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
		if s.opts.Backup {
			backupPath = s.nextBackupPath()
			if err := copyFile(target, backupPath); err != nil {
				return "", &WriteError{Path: backupPath, Op: "backup", Err: err}
			}
			s.logger.Debug("Backup written.", "path", backupPath)
		}
	} else if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", &WriteError{Path: target, Op: "write", Err: err}
	}

	if err := writeAtomic(target, []byte(text), mode); err != nil {
		return backupPath, err
	}
	s.logger.Info("Config saved.", "path", target, "bytes", len(text))

	if s.opts.Backup && s.opts.Keep > 0 {
		if _, err := s.Prune(s.opts.Keep); err != nil {
			// The save itself succeeded; stale backups are not worth failing over.
			s.logger.Warn("Pruning backups failed.", "error", err)
		}
	}
	return backupPath, nil
}

// target is the file a save replaces: the end of the symlink chain when the
// config path is a link, so the link itself survives.
func (s *Store) target() string {
	resolved, err := filepath.EvalSymlinks(s.path)
	if err != nil {
		return s.path
	}
	return resolved
}

// CreateDefault writes the default config. It refuses to overwrite an
// existing file unless force is set, in which case the old file is backed up
// like any other save.
func (s *Store) CreateDefault(force bool) error {
	if s.Exists() && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", s.path)
	}
	_, err := s.Save(hypr.DefaultConfig)
	return err
}

// writeAtomic replaces path with data via a temp file in the same directory.
func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &WriteError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
