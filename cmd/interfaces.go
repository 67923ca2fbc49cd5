package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var interfacesCmd = &cobra.Command{
	Use:     "interfaces",
	Aliases: []string{"ifaces"},
	Short:   "List network interfaces and their current addressing",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		snapshots, err := a.engine.Interfaces(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "INTERFACE\tMAC\tSTATE\tCARRIER\tDRIVER\tADDRESSING")
		for _, s := range snapshots {
			state := "down"
			if s.IsUp {
				state = "up"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Name, orDash(s.HardwareAddress), state, orDash(string(s.Carrier)), orDash(s.Driver), s.State())
		}
		return w.Flush()
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(interfacesCmd)
}
