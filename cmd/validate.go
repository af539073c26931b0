package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyprconf/hyprconf/internal/config"
	"github.com/hyprconf/hyprconf/internal/hypr"
	"github.com/hyprconf/hyprconf/internal/store"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the Hyprland config",
	Long: `Check the Hyprland config for structural problems and variables that are
referenced but never defined.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Always load permissively so every problem is listed, not just the first.
		path := settings.Hypr.ConfigPath
		doc, err := store.Load(path, store.Options{})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		problems := 0
		for _, d := range doc.Diagnostics() {
			fmt.Fprintf(out, "❌ %s:%v\n", path, d)
			problems++
		}
		for _, name := range hypr.ResolveVariables(doc).Undefined() {
			fmt.Fprintf(out, "⚠️  $%s is referenced but never defined\n", name)
		}

		if problems > 0 {
			return fmt.Errorf("found %d problems", problems)
		}
		fmt.Fprintln(out, "✅ Config is valid")
		return nil
	},
}

var validateSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Validate the hyprconf settings file",
	Long:  "Validate the hyprconf settings file for required fields and correct format.",
	Args:  cobra.NoArgs,
	// Skip the root hook: a broken settings file is what this reports on.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		// Load() calls Validate() automatically
		_, err := config.Load(path)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(cmd.OutOrStdout(), "No settings file at %s; using defaults\n", filepath.Clean(path))
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✅ Settings are valid")
		return nil
	},
}

func init() {
	validateCmd.AddCommand(validateSettingsCmd)
	rootCmd.AddCommand(validateCmd)
}
