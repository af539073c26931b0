package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyprconf/hyprconf/internal/logging"
)

// Config represents the hyprconf tool settings.
type Config struct {
	Hypr    HyprConfig    `yaml:"hypr"`
	Backup  BackupConfig  `yaml:"backup"`
	Reload  ReloadConfig  `yaml:"reload"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
}

// HyprConfig locates the Hyprland config file and sets parse mode.
type HyprConfig struct {
	ConfigPath string `yaml:"config_path"`
	Strict     bool   `yaml:"strict"`
}

// BackupConfig controls backups written before each save.
type BackupConfig struct {
	Enabled bool `yaml:"enabled"`
	Keep    int  `yaml:"keep"` // 0 keeps all
}

// ReloadConfig defines how the compositor is told to re-read its config.
type ReloadConfig struct {
	Command []string      `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	Limit int `yaml:"limit"` // 0 is unbounded
}

// LoggingConfig selects log level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Hypr: HyprConfig{
			ConfigPath: "~/.config/hypr/hyprland.conf",
		},
		Backup: BackupConfig{
			Enabled: true,
			Keep:    10,
		},
		Reload: ReloadConfig{
			Command: []string{"hyprctl", "reload"},
			Timeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: logging.FormatText,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/hyprconf/config.yml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join("~", ".config")
	}
	return filepath.Join(dir, "hyprconf", "config.yml")
}

// Load reads and parses a config file from the given path. Keys missing from
// the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Hypr.ConfigPath = ExpandHome(cfg.Hypr.ConfigPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.Hypr.ConfigPath = ExpandHome(cfg.Hypr.ConfigPath)
		return cfg, nil
	}
	return cfg, err
}

// Validate checks the configuration for required fields and consistency.
func (c *Config) Validate() error {
	if c.Hypr.ConfigPath == "" {
		return fmt.Errorf("hypr.config_path is required")
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep must not be negative, got %d", c.Backup.Keep)
	}

	if len(c.Reload.Command) == 0 || c.Reload.Command[0] == "" {
		return fmt.Errorf("reload.command is required")
	}
	if c.Reload.Timeout <= 0 {
		return fmt.Errorf("reload.timeout must be positive, got %s", c.Reload.Timeout)
	}

	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("logging.format must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.Logging.Format)
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}

	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
