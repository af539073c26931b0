// Package session ties one config file to its in-memory document, edit
// history, persistence and reload trigger.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hyprconf/hyprconf/internal/hypr"
	"github.com/hyprconf/hyprconf/internal/logging"
	"github.com/hyprconf/hyprconf/internal/reload"
	"github.com/hyprconf/hyprconf/internal/store"
)

// Options configures Open.
type Options struct {
	Strict          bool
	CreateIfMissing bool // write the default config when the file is absent

	Backup     bool
	BackupKeep int

	HistoryLimit int

	ReloadCommand []string
	ReloadTimeout time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

// Session is an open config file.
type Session struct {
	store    *store.Store
	reloader *reload.Reloader
	logger   *slog.Logger
	limit    int

	history *hypr.History
	saved   string // canonical text of the last load or save
	created bool
}

// Open loads the config at path.
func Open(path string, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Session{
		store: store.New(path, store.Options{
			Strict: opts.Strict,
			Backup: opts.Backup,
			Keep:   opts.BackupKeep,
			Now:    opts.Now,
		}, logger),
		reloader: reload.New(opts.ReloadCommand, opts.ReloadTimeout, logger),
		logger:   logger,
		limit:    opts.HistoryLimit,
	}

	err := s.load()
	var nf *store.NotFoundError
	if errors.As(err, &nf) && opts.CreateIfMissing {
		if err := s.store.CreateDefault(false); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		logger.Info("Created default config.", "path", path)
		s.created = true
		err = s.load()
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load() error {
	doc, _, err := s.store.Load()
	if err != nil {
		return err
	}
	s.history = hypr.NewHistory(doc)
	s.history.SetLimit(s.limit)
	s.saved = hypr.Serialize(doc)
	return nil
}

// Path returns the config file path.
func (s *Session) Path() string {
	return s.store.Path()
}

// Created reports whether Open wrote the default config.
func (s *Session) Created() bool {
	return s.created
}

// Document returns the current document.
func (s *Session) Document() *hypr.Document {
	return s.history.Document()
}

// History returns the edit history. Revert replaces it.
func (s *Session) History() *hypr.History {
	return s.history
}

// Store returns the backing store.
func (s *Session) Store() *store.Store {
	return s.store
}

// Text returns the current serialization.
func (s *Session) Text() string {
	return hypr.Serialize(s.Document())
}

// Modified reports whether the document differs from what was last loaded
// or saved.
func (s *Session) Modified() bool {
	return s.Text() != s.saved
}

// Save writes the document if it has been modified and returns the backup
// path, if any. A failed save leaves the document and history untouched.
func (s *Session) Save() (string, error) {
	if !s.Modified() {
		s.logger.Debug("Nothing to save.", "path", s.Path())
		return "", nil
	}
	text := s.Text()
	backup, err := s.store.Save(text)
	if err != nil {
		return "", err
	}
	s.saved = text
	return backup, nil
}

// Apply saves the document and asks the compositor to reload it. A reload
// failure is returned as a *reload.ReloadError; the save stays committed.
func (s *Session) Apply(ctx context.Context) (string, error) {
	if _, err := s.Save(); err != nil {
		return "", err
	}
	return s.reloader.Reload(ctx)
}

// Reload asks the compositor to re-read the file on disk without saving.
func (s *Session) Reload(ctx context.Context) (string, error) {
	return s.reloader.Reload(ctx)
}

// Revert discards in-memory changes and history by reloading from disk.
func (s *Session) Revert() error {
	if err := s.load(); err != nil {
		return fmt.Errorf("reverting: %w", err)
	}
	s.logger.Info("Reverted to file on disk.", "path", s.Path())
	return nil
}

// Resolve returns the variable resolution for the current document.
func (s *Session) Resolve() hypr.Resolution {
	return hypr.ResolveVariables(s.Document())
}
