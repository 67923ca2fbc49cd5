//go:build unit

package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"netprofiler/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "state", "history.db"), 24*time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func dhcpSnapshot(iface string) *types.InterfaceSnapshot {
	return &types.InterfaceSnapshot{Name: iface, HardwareAddress: "00:1a:2b:3c:4d:5e", IsUp: true, Mode: types.ModeDHCP}
}

func applied(iface, profileID string, at time.Time) *types.ApplyResult {
	return &types.ApplyResult{
		Outcome:     types.OutcomeApplied,
		ProfileID:   profileID,
		ProfileName: "Default",
		Interface:   iface,
		Target: types.StaticState(types.StaticConfig{
			Address: "192.168.1.50", Netmask: "255.255.255.0", Gateway: "192.168.1.1", DNS: []string{},
		}),
		Snapshot:       dhcpSnapshot(iface),
		VerifyAttempts: 2,
		StartedAt:      at.Add(-1500 * time.Millisecond),
		FinishedAt:     at,
	}
}

func TestStore_RecordAndList(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, applied("eth0", "p1", base)))
	require.NoError(t, s.Record(ctx, &types.ApplyResult{
		Outcome:           types.OutcomeRolledBack,
		ProfileID:         "p2",
		ProfileName:       "Broken",
		Interface:         "eth0",
		Target:            types.DHCPState(),
		Snapshot:          dhcpSnapshot("eth0"),
		Err:               types.NewApplyError("failed to add address", errors.New("file exists")),
		RollbackAttempted: true,
		RollbackSucceeded: true,
		StartedAt:         base.Add(time.Minute),
		FinishedAt:        base.Add(time.Minute),
	}))
	require.NoError(t, s.Record(ctx, applied("eth1", "p1", base.Add(2*time.Minute))))

	all, err := s.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "eth1", all[0].Interface)

	eth0, err := s.List(ctx, "eth0", 10)
	require.NoError(t, err)
	require.Len(t, eth0, 2)

	latest := eth0[0]
	assert.Equal(t, types.OutcomeRolledBack, latest.Outcome)
	assert.Contains(t, latest.Error, "failed to add address")
	assert.True(t, latest.RollbackAttempted)
	assert.True(t, latest.RollbackSucceeded)
	assert.Equal(t, types.ModeDHCP, latest.Target.Mode)

	first := eth0[1]
	assert.True(t, first.Time.Equal(base))
	assert.Equal(t, 1500*time.Millisecond, first.Duration)
	assert.Equal(t, 2, first.VerifyAttempts)
	assert.Empty(t, first.Error)
	require.NotNil(t, first.Target.Static)
	assert.Equal(t, "192.168.1.50", first.Target.Static.Address)
	assert.Equal(t, dhcpSnapshot("eth0"), first.Snapshot)

	limited, err := s.List(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStore_LastSkipsFailuresAndReverts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Last(ctx, "eth0")
	assert.True(t, types.IsNotFoundError(err))

	require.NoError(t, s.Record(ctx, applied("eth0", "p1", base)))

	failed := applied("eth0", "p2", base.Add(time.Minute))
	failed.Outcome = types.OutcomeFailed
	failed.Snapshot = nil
	require.NoError(t, s.Record(ctx, failed))

	revert := applied("eth0", "", base.Add(2*time.Minute))
	revert.ProfileName = ""
	require.NoError(t, s.Record(ctx, revert))

	last, err := s.Last(ctx, "eth0")
	require.NoError(t, err)
	assert.Equal(t, "p1", last.ProfileID)
	assert.False(t, last.IsRevert())
	require.NotNil(t, last.Snapshot)
	assert.Equal(t, types.ModeDHCP, last.Snapshot.Mode)

	_, err = s.Last(ctx, "eth1")
	assert.True(t, types.IsNotFoundError(err))
}

func TestStore_Prune(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	s.now = func() time.Time { return base.Add(48 * time.Hour) }

	require.NoError(t, s.Record(ctx, applied("eth0", "p1", base)))
	require.NoError(t, s.Record(ctx, applied("eth0", "p1", base.Add(47*time.Hour))))

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := s.List(ctx, "eth0", 0)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.True(t, left[0].Time.Equal(base.Add(47*time.Hour)))
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRetention, s.retention)
	require.NoError(t, s.Record(ctx, applied("eth0", "p1", base)))
	require.NoError(t, s.Close())

	s, err = Open(path, 0)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.List(ctx, "eth0", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
