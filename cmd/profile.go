package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"netprofiler/internal/types"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// profileFlags are the settings shared by profile create and update.
type profileFlags struct {
	dhcp      bool
	address   string
	netmask   string
	gateway   string
	dns       []string
	secondary []string
	dnsPreset string
	matchName string
	matchMAC  string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVar(&f.dhcp, "dhcp", false, "Obtain the address by DHCP")
	flags.StringVar(&f.address, "address", "", "Static IPv4 address, e.g. 192.168.1.50")
	flags.StringVar(&f.netmask, "netmask", "", "Subnet mask, dotted (255.255.255.0) or prefix (/24)")
	flags.StringVar(&f.gateway, "gateway", "", "Default gateway (optional)")
	flags.StringSliceVar(&f.dns, "dns", nil, "DNS server, repeatable and in priority order")
	flags.StringSliceVar(&f.secondary, "secondary", nil, "Additional address with prefix, e.g. 10.0.0.3/24; repeatable")
	flags.StringVar(&f.dnsPreset, "dns-preset", "", "Well-known DNS servers: "+strings.Join(types.DNSPresetNames(), ", "))
	flags.StringVar(&f.matchName, "match-name", "", "Interface name pattern this profile is meant for, e.g. enp*")
	flags.StringVar(&f.matchMAC, "match-mac", "", "Hardware address this profile is meant for")
	cmd.MarkFlagsMutuallyExclusive("dhcp", "address")
	cmd.MarkFlagsMutuallyExclusive("dns", "dns-preset")
}

// apply overlays the flags the user set on base.
func (f *profileFlags) apply(cmd *cobra.Command, base types.NetworkProfile) (types.NetworkProfile, error) {
	p := base.Clone()
	changed := cmd.Flags().Changed

	staticChanged := changed("address") || changed("netmask") || changed("gateway") || changed("dns") || changed("dns-preset") || changed("secondary")
	switch {
	case f.dhcp:
		if staticChanged {
			return p, types.NewValidationError("--dhcp cannot be combined with static settings", nil)
		}
		p.Mode = types.ModeDHCP
		p.Static = nil
	case staticChanged:
		p.Mode = types.ModeStatic
		if p.Static == nil {
			p.Static = &types.StaticConfig{DNS: []string{}}
		}
		if changed("address") {
			p.Static.Address = f.address
		}
		if changed("netmask") {
			p.Static.Netmask = f.netmask
		}
		if changed("gateway") {
			p.Static.Gateway = f.gateway
		}
		if changed("dns") {
			p.Static.DNS = append([]string{}, f.dns...)
		}
		if changed("secondary") {
			p.Static.Secondary = nil
			if len(f.secondary) > 0 {
				p.Static.Secondary = append([]string{}, f.secondary...)
			}
		}
		if changed("dns-preset") {
			servers, err := types.DNSPreset(f.dnsPreset)
			if err != nil {
				return p, err
			}
			p.Static.DNS = servers
		}
	}

	if changed("match-name") || changed("match-mac") {
		hint := types.MatchHint{}
		if p.Match != nil {
			hint = *p.Match
		}
		if changed("match-name") {
			hint.NamePattern = f.matchName
		}
		if changed("match-mac") {
			hint.HardwareAddress = f.matchMAC
		}
		p.Match = &hint
	}
	return p, nil
}

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"profiles"},
	Short:   "Manage stored network profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}
		printProfiles(cmd.OutOrStdout(), a.engine.Profiles())
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Show one profile by id or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}
		p, err := a.engine.Profile(args[0])
		if err != nil {
			return err
		}
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(p)
	},
}

var createFlags profileFlags

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a profile",
	Example: `  netprofiler profile create "ROV tether" --address 192.168.2.10 --netmask /24 --gateway 192.168.2.1 --dns-preset quad9
  netprofiler profile create "Shop" --dhcp --match-name "enx*"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}
		base := types.NetworkProfile{Name: args[0], Mode: types.ModeDHCP}
		p, err := createFlags.apply(cmd, base)
		if err != nil {
			return err
		}
		created, err := a.engine.CreateProfile(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created profile %q (%s): %s\n", created.Name, created.ID, created.Target())
		return nil
	},
}

var (
	updateFlags  profileFlags
	updateDryRun bool
)

var profileUpdateCmd = &cobra.Command{
	Use:   "update <profile>",
	Short: "Change the settings of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}
		current, err := a.engine.Profile(args[0])
		if err != nil {
			return err
		}
		p, err := updateFlags.apply(cmd, current)
		if err != nil {
			return err
		}

		if updateDryRun {
			valid, err := p.Validate()
			if err != nil {
				return err
			}
			return writeProfileDiff(cmd.OutOrStdout(), current, valid)
		}

		updated, err := a.engine.UpdateProfile(current.ID, p)
		if err != nil {
			return err
		}
		if err := writeProfileDiff(cmd.OutOrStdout(), current, updated); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated profile %q: %s\n", updated.Name, updated.Target())
		return nil
	},
}

var profileRenameCmd = &cobra.Command{
	Use:   "rename <profile> <new-name>",
	Short: "Rename a profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}
		renamed, err := a.engine.RenameProfile(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed profile %s to %q\n", renamed.ID, renamed.Name)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:     "delete <profile>",
	Aliases: []string{"rm"},
	Short:   "Delete a profile; no interface is changed",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}
		deleted, err := a.engine.DeleteProfile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q\n", deleted.Name)
		return nil
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file.nprf>",
	Short: "Import profiles from an exchange file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}
		imported, err := a.engine.ImportProfiles(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d profile(s)\n", len(imported))
		printProfiles(cmd.OutOrStdout(), imported)
		return nil
	},
}

var profileExportCmd = &cobra.Command{
	Use:   "export <file> [profile...]",
	Short: "Export profiles, all of them by default, to an exchange file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false, false)
		if err != nil {
			return err
		}
		path, err := a.engine.ExportProfiles(args[0], args[1:]...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported profiles to %s\n", path)
		return nil
	},
}

// writeProfileDiff prints a unified diff of the YAML form of two profiles.
// Nothing is printed when they render identically.
func writeProfileDiff(out io.Writer, before, after types.NetworkProfile) error {
	a, err := yaml.Marshal(before)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	b, err := yaml.Marshal(after)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: before.Name,
		ToFile:   after.Name,
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("failed to diff profile: %w", err)
	}
	_, err = io.WriteString(out, text)
	return err
}

func printProfiles(out io.Writer, profiles []types.NetworkProfile) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tADDRESS\tGATEWAY\tDNS\tMATCH\tID")
	for _, p := range profiles {
		address, gateway, dns := "-", "-", "-"
		if p.Static != nil {
			address = p.Static.Address + "/" + p.Static.Netmask
			if len(p.Static.Secondary) > 0 {
				address += "," + strings.Join(p.Static.Secondary, ",")
			}
			if p.Static.Gateway != "" {
				gateway = p.Static.Gateway
			}
			if len(p.Static.DNS) > 0 {
				dns = strings.Join(p.Static.DNS, ",")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.Name, p.Mode, address, gateway, dns, matchString(p.Match), p.ID)
	}
	w.Flush()
}

func matchString(hint *types.MatchHint) string {
	if hint == nil {
		return "-"
	}
	var parts []string
	if hint.NamePattern != "" {
		parts = append(parts, hint.NamePattern)
	}
	if hint.HardwareAddress != "" {
		parts = append(parts, hint.HardwareAddress)
	}
	return strings.Join(parts, " ")
}

func init() {
	createFlags.register(profileCreateCmd)
	updateFlags.register(profileUpdateCmd)
	profileUpdateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Show the changes without saving them")

	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileCreateCmd, profileUpdateCmd,
		profileRenameCmd, profileDeleteCmd, profileImportCmd, profileExportCmd)
	rootCmd.AddCommand(profileCmd)
}
