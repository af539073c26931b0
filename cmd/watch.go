package cmd

import (
	"fmt"

	"github.com/hyprconf/hyprconf/internal/hypr"
	"github.com/hyprconf/hyprconf/internal/watch"
	"github.com/spf13/cobra"
)

var watchReload bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Validate the config whenever it changes",
	Long: `Watch the Hyprland config and validate it after every change.

With --reload, a change that parses cleanly also reloads the compositor.
Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := watch.New(settings.Hypr.ConfigPath, settings.Watch.Debounce, logger)
		if err != nil {
			return err
		}
		defer w.Close()

		out := cmd.OutOrStdout()
		st := newStore()
		r := newReloader()
		fmt.Fprintf(out, "Watching %s\n", w.Path())

		return w.Run(cmd.Context(), func() {
			doc, _, err := st.Load()
			if err != nil {
				fmt.Fprintf(out, "❌ %v\n", err)
				return
			}
			diags := doc.Diagnostics()
			for _, d := range diags {
				fmt.Fprintf(out, "❌ %v\n", d)
			}
			undefined := hypr.ResolveVariables(doc).Undefined()
			for _, name := range undefined {
				fmt.Fprintf(out, "⚠️  $%s is referenced but never defined\n", name)
			}
			if len(diags) > 0 {
				return
			}
			fmt.Fprintln(out, "✅ Config is valid")

			if watchReload {
				if _, err := r.Reload(cmd.Context()); err != nil {
					fmt.Fprintf(out, "❌ %v\n", err)
					return
				}
				fmt.Fprintln(out, "✅ Reloaded")
			}
		})
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchReload, "reload", false, "reload the compositor after each valid change")
	rootCmd.AddCommand(watchCmd)
}
