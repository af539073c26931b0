package cmd

import (
	"fmt"

	"github.com/hyprconf/hyprconf/internal/hypr"
	"github.com/spf13/cobra"
)

var fmtCheck bool

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Rewrite the config in canonical form",
	Long: `Rewrite the config with known directives in canonical form.

Comments, blank lines and unknown directives are kept as they are.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := newStore()
		doc, raw, err := st.Load()
		if err != nil {
			return err
		}
		if n := len(doc.Diagnostics()); n > 0 {
			return fmt.Errorf("config has %d problems; run validate first", n)
		}

		canonical := hypr.Format(doc)
		out := cmd.OutOrStdout()
		if canonical == raw {
			fmt.Fprintln(out, "✅ Already formatted")
			return nil
		}
		if fmtCheck {
			fmt.Fprintf(out, "❌ %s is not formatted\n", st.Path())
			return fmt.Errorf("config needs formatting")
		}

		backup, err := st.Save(canonical)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ Formatted %s\n", st.Path())
		if backup != "" && IsVerbose() {
			fmt.Fprintf(out, "   backup: %s\n", backup)
		}
		return nil
	},
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "report whether the file is formatted without writing it")
	rootCmd.AddCommand(fmtCmd)
}
