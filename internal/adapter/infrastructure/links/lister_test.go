//go:build unit

package links

import (
	"context"
	"errors"
	"testing"

	"netprofiler/internal/types"

	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListerAdapter_ListLinks(t *testing.T) {
	adapter := &ListerAdapter{
		interfaces: func(ctx context.Context) ([]psnet.InterfaceStat, error) {
			return []psnet.InterfaceStat{
				{Index: 2, Name: "eth0", HardwareAddr: "00:1A:2B:3C:4D:5E", Flags: []string{"up", "broadcast", "multicast"}},
				{Index: 1, Name: "lo", Flags: []string{"up", "loopback"}},
				{Index: 3, Name: "eth1", HardwareAddr: "00:1a:2b:3c:4d:5f", Flags: []string{"broadcast"}},
			}, nil
		},
		enrich: func(link *types.Link) {
			if link.Name == "eth0" {
				link.Driver = "igb"
				link.Carrier = types.CarrierUp
			}
		},
	}

	links, err := adapter.ListLinks(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 3)

	assert.Equal(t, "eth0", links[0].Name)
	assert.Equal(t, "00:1a:2b:3c:4d:5e", links[0].HardwareAddress)
	assert.True(t, links[0].IsUp)
	assert.Equal(t, "igb", links[0].Driver)
	assert.Equal(t, types.CarrierUp, links[0].Carrier)

	assert.Equal(t, "eth1", links[1].Name)
	assert.False(t, links[1].IsUp)
	assert.Equal(t, types.CarrierUnknown, links[1].Carrier)

	assert.Equal(t, "lo", links[2].Name)
	assert.True(t, links[2].Loopback)
	assert.Empty(t, links[2].HardwareAddress)
}

func TestListerAdapter_ListLinks_Error(t *testing.T) {
	adapter := &ListerAdapter{
		interfaces: func(ctx context.Context) ([]psnet.InterfaceStat, error) {
			return nil, errors.New("netlink dump failed")
		},
	}

	_, err := adapter.ListLinks(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to enumerate interfaces")
}
