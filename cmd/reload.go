package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var applyForce bool

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the running compositor to reload its config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newReloader()
		if !r.Available() {
			return fmt.Errorf("%s not found in PATH", r.Command()[0])
		}
		out, err := r.Reload(cmd.Context())
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Validate, save and reload",
	Long: `Check that the config parses cleanly, write it if needed and ask the
compositor to reload it. Use --force to reload despite problems.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		if diags := s.Document().Diagnostics(); len(diags) > 0 && !applyForce {
			var lines []string
			for _, d := range diags {
				lines = append(lines, d.Error())
			}
			return fmt.Errorf("config has problems (use --force to reload anyway):\n  %s", strings.Join(lines, "\n  "))
		}

		out, err := s.Apply(cmd.Context())
		if out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Reloaded")
		return nil
	},
}

func init() {
	applyCmd.Flags().BoolVar(&applyForce, "force", false, "reload even if the config has problems")
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(applyCmd)
}
