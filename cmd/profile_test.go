//go:build unit

package cmd

import (
	"bytes"
	"errors"
	"testing"

	"netprofiler/internal/types"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseProfileFlags(t *testing.T, args ...string) (*cobra.Command, *profileFlags) {
	f := &profileFlags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd, f
}

func TestProfileFlags_CreateStatic(t *testing.T) {
	cmd, f := parseProfileFlags(t, "--address", "192.168.2.10", "--netmask", "/24", "--gateway", "192.168.2.1",
		"--dns-preset", "Quad9", "--match-mac", "00-1A-2B-3C-4D-5E")

	p, err := f.apply(cmd, types.NetworkProfile{Name: "ROV", Mode: types.ModeDHCP})
	require.NoError(t, err)

	assert.Equal(t, types.ModeStatic, p.Mode)
	assert.Equal(t, "192.168.2.10", p.Static.Address)
	assert.Equal(t, "/24", p.Static.Netmask)
	assert.Equal(t, []string{"9.9.9.9", "149.112.112.112"}, p.Static.DNS)
	assert.Equal(t, "00-1A-2B-3C-4D-5E", p.Match.HardwareAddress)

	valid, err := p.Validate()
	require.NoError(t, err)
	assert.Equal(t, "255.255.255.0", valid.Static.Netmask)
	assert.Equal(t, "00:1a:2b:3c:4d:5e", valid.Match.HardwareAddress)
}

func TestProfileFlags_UpdateKeepsUnsetFields(t *testing.T) {
	base := types.NetworkProfile{
		ID: "p1", Name: "Field", Mode: types.ModeStatic,
		Static: &types.StaticConfig{Address: "10.0.0.5", Netmask: "255.255.255.0", Gateway: "10.0.0.1", DNS: []string{"10.0.0.1"}},
		Match:  &types.MatchHint{NamePattern: "enp*"},
	}

	cmd, f := parseProfileFlags(t, "--address", "10.0.0.6", "--dns", "1.1.1.2", "--dns", "1.0.0.2")
	p, err := f.apply(cmd, base)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.6", p.Static.Address)
	assert.Equal(t, "10.0.0.1", p.Static.Gateway)
	assert.Equal(t, []string{"1.1.1.2", "1.0.0.2"}, p.Static.DNS)
	assert.Equal(t, "enp*", p.Match.NamePattern)
	assert.Equal(t, "10.0.0.5", base.Static.Address, "base must not be modified")

	cmd, f = parseProfileFlags(t, "--dhcp", "--match-name", "")
	p, err = f.apply(cmd, base)
	require.NoError(t, err)
	assert.Equal(t, types.ModeDHCP, p.Mode)
	assert.Nil(t, p.Static)
	valid, err := p.Validate()
	require.NoError(t, err)
	assert.Nil(t, valid.Match)
}

func TestProfileFlags_SecondaryAddresses(t *testing.T) {
	base := types.NetworkProfile{
		ID: "p1", Name: "Field", Mode: types.ModeStatic,
		Static: &types.StaticConfig{Address: "10.0.0.5", Netmask: "255.255.255.0", DNS: []string{}},
	}

	cmd, f := parseProfileFlags(t, "--secondary", "10.0.0.6/24", "--secondary", "172.16.0.1/255.255.0.0")
	p, err := f.apply(cmd, base)
	require.NoError(t, err)
	valid, err := p.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.6/24", "172.16.0.1/16"}, valid.Static.Secondary)
	assert.Nil(t, base.Static.Secondary, "base must not be modified")

	cmd, f = parseProfileFlags(t, "--secondary=")
	p, err = f.apply(cmd, valid)
	require.NoError(t, err)
	assert.Nil(t, p.Static.Secondary)
}

func TestProfileFlags_DHCPWithStaticSettings(t *testing.T) {
	cmd, f := parseProfileFlags(t, "--dhcp", "--gateway", "10.0.0.1")
	_, err := f.apply(cmd, types.NetworkProfile{Name: "x"})
	assert.True(t, types.IsValidationError(err))
}

func TestReportResult(t *testing.T) {
	applied := &types.ApplyResult{Outcome: types.OutcomeApplied, ProfileName: "Default", Interface: "eth0", Target: types.DHCPState(), VerifyAttempts: 1}
	var out bytes.Buffer
	assert.NoError(t, reportResult(&out, applied, nil))
	assert.Contains(t, out.String(), `profile "Default" on eth0: dhcp`)

	cause := types.NewApplyError("failed to add address", errors.New("file exists"))
	rolledBack := &types.ApplyResult{Outcome: types.OutcomeRolledBack, Interface: "eth0", Err: cause, RollbackAttempted: true, RollbackSucceeded: true}
	out.Reset()
	err := reportResult(&out, rolledBack, cause)
	assert.ErrorIs(t, err, cause)
	var reported reportedError
	assert.True(t, errors.As(err, &reported))
	assert.Contains(t, out.String(), "the saved snapshot failed on eth0")
	assert.Contains(t, out.String(), "previous configuration was restored")

	failed := &types.ApplyResult{Outcome: types.OutcomeFailed, ProfileName: "Default", Interface: "eth9", Err: types.NewValidationError("interface missing", nil)}
	out.Reset()
	err = reportResult(&out, failed, failed.Err)
	assert.True(t, types.IsValidationError(err))
	assert.Contains(t, out.String(), "No changes were made")
}

func TestWriteProfileDiff(t *testing.T) {
	before := types.NetworkProfile{
		ID: "p1", Name: "Field", Mode: types.ModeStatic,
		Static: &types.StaticConfig{Address: "10.0.0.5", Netmask: "255.255.255.0", DNS: []string{}},
	}
	after := before.Clone()
	after.Static.Address = "10.0.0.6"

	var out bytes.Buffer
	require.NoError(t, writeProfileDiff(&out, before, after))
	assert.Contains(t, out.String(), "-    address: 10.0.0.5")
	assert.Contains(t, out.String(), "+    address: 10.0.0.6")

	out.Reset()
	require.NoError(t, writeProfileDiff(&out, before, before))
	assert.Empty(t, out.String())
}
