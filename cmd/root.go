package cmd

import (
	"errors"
	"fmt"
	"os"

	"netprofiler/internal/pkg/config"
	"netprofiler/internal/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	configFlag string
	cfg        = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "netprofiler",
	Short: "netprofiler switches network interfaces between saved address profiles",
	Long: `netprofiler stores named IPv4 profiles (static address, netmask, gateway and
DNS servers, or DHCP) and applies one to a network interface in a single step.
Every apply is verified and rolled back to the previous configuration if the
interface does not end up as requested.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFlag)
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("config validation error: %w", err)
		}
		logging.InitLogger(loaded.Logging)
		cfg = loaded
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure. Apply
// outcomes have already been printed and are not repeated.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML)")
}
