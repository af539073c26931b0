package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var pruneKeep int

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage config backups",
	Long:  "List, restore and prune the timestamped backups written before each save.",
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := newStore().Backups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No backups")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, b := range backups {
			when := "unknown"
			if !b.Time.IsZero() {
				when = b.Time.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%s\t%s\t%d bytes\n", b.Name(), when, b.Size)
		}
		return w.Flush()
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup]",
	Short: "Restore a backup (the newest by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := newStore()
		name := ""
		if len(args) == 1 {
			name = args[0]
		} else {
			latest, ok, err := st.Latest()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no backups of %s", st.Path())
			}
			name = latest.Path
		}

		restored, err := st.Restore(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Restored %s\n", restored)
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keep := settings.Backup.Keep
		if cmd.Flags().Changed("keep") {
			keep = pruneKeep
		}
		removed, err := newStore().Prune(keep)
		if err != nil {
			return err
		}
		for _, path := range removed {
			if IsVerbose() {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Removed %d backups\n", len(removed))
		return nil
	},
}

func init() {
	backupPruneCmd.Flags().IntVar(&pruneKeep, "keep", 0, "number of backups to keep (default backup.keep)")

	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}
