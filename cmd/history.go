package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyInterface string
	historyLimit     int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent apply and revert operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true, true)
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.history.List(cmd.Context(), historyInterface, historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TIME\tINTERFACE\tPROFILE\tOUTCOME\tROLLBACK\tDURATION\tERROR")
		for _, e := range entries {
			profile := e.ProfileName
			if e.IsRevert() {
				profile = "(revert)"
			}
			rollback := "-"
			if e.RollbackAttempted {
				rollback = "failed"
				if e.RollbackSucceeded {
					rollback = "restored"
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Time.Local().Format("2006-01-02 15:04:05"), e.Interface, profile, e.Outcome,
				rollback, e.Duration.Round(time.Millisecond), orDash(e.Error))
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyInterface, "interface", "i", "", "Only show operations on this interface")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries, 0 for all")
	rootCmd.AddCommand(historyCmd)
}
