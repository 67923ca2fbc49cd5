package cmd

import (
	"fmt"
	"strings"

	"netprofiler/internal/types"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <profile> [interface]",
	Short: "Apply a profile to an interface",
	Long: `Apply a profile to an interface. The interface may be omitted when the
profile's match hint selects exactly one live interface. The previous
configuration is restored if the new one cannot be applied or verified.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true, false)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signalContext()
		defer stop()

		iface := ""
		if len(args) == 2 {
			iface = args[1]
		} else {
			suggested, err := a.engine.SuggestInterfaces(ctx, args[0])
			if err != nil {
				return err
			}
			if len(suggested) != 1 {
				names := make([]string, 0, len(suggested))
				for _, s := range suggested {
					names = append(names, s.Name)
				}
				return types.NewValidationError(fmt.Sprintf(
					"profile %q matches %d interfaces [%s], name the interface explicitly",
					args[0], len(suggested), strings.Join(names, ", ")), nil)
			}
			iface = suggested[0].Name
		}

		result, err := a.engine.Apply(ctx, args[0], iface)
		return reportResult(cmd.OutOrStdout(), result, err)
	},
}

var revertCmd = &cobra.Command{
	Use:   "revert <interface>",
	Short: "Restore the configuration an interface had before its last apply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true, true)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signalContext()
		defer stop()

		last, err := a.history.Last(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reverting %s to its state before %q was applied at %s: %s\n",
			args[0], last.ProfileName, last.Time.Format("2006-01-02 15:04:05"), last.Snapshot.State())

		result, err := a.engine.Revert(ctx, *last.Snapshot)
		return reportResult(cmd.OutOrStdout(), result, err)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd, revertCmd)
}
