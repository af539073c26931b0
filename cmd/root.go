package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyprconf/hyprconf/internal/config"
	"github.com/hyprconf/hyprconf/internal/logging"
	"github.com/hyprconf/hyprconf/internal/reload"
	"github.com/hyprconf/hyprconf/internal/session"
	"github.com/hyprconf/hyprconf/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	hyprFile  string
	strict    bool
	verbose   bool
	logLevel  string
	logFormat string

	settings *config.Config
	logger   *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hyprconf",
	Short: "Hyprland config editor",
	Long: `hyprconf reads, edits and writes a Hyprland config file.

It performs the following core functions:
  - Structured view of variables, monitors, keybinds and sections
  - Edits with undo/redo that keep comments and unknown lines intact
  - Timestamped backups before every write
  - Reloading the running compositor after a save`,
	SilenceUsage:      true, // Don't print usage on errors unrelated to flags
	PersistentPreRunE: loadSettings,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "hyprconf settings file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVarP(&hyprFile, "file", "f", "", "Hyprland config file (overrides hypr.config_path)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "reject structurally invalid lines instead of keeping them")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
}

// loadSettings reads the settings file and overlays command-line flags.
func loadSettings(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultPath())
	}
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	flags := cmd.Flags()
	if hyprFile != "" {
		cfg.Hypr.ConfigPath = config.ExpandHome(hyprFile)
	}
	if flags.Changed("strict") {
		cfg.Hypr.Strict = strict
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if verbose && logLevel == "" {
		cfg.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings = cfg
	logger = logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	logger.Debug("Settings loaded.", "config_path", cfg.Hypr.ConfigPath, "strict", cfg.Hypr.Strict)
	return nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

func newStore() *store.Store {
	return store.New(settings.Hypr.ConfigPath, store.Options{
		Strict: settings.Hypr.Strict,
		Backup: settings.Backup.Enabled,
		Keep:   settings.Backup.Keep,
	}, logger)
}

func newReloader() *reload.Reloader {
	return reload.New(settings.Reload.Command, settings.Reload.Timeout, logger)
}

func openSession(createIfMissing bool) (*session.Session, error) {
	return session.Open(settings.Hypr.ConfigPath, session.Options{
		Strict:          settings.Hypr.Strict,
		CreateIfMissing: createIfMissing,
		Backup:          settings.Backup.Enabled,
		BackupKeep:      settings.Backup.Keep,
		HistoryLimit:    settings.History.Limit,
		ReloadCommand:   settings.Reload.Command,
		ReloadTimeout:   settings.Reload.Timeout,
		Logger:          logger,
	})
}
