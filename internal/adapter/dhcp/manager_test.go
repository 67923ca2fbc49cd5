//go:build unit

package dhcp

import (
	"context"
	"net"
	"testing"
	"time"

	"netprofiler/internal/mock"
	"netprofiler/internal/port"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"go.uber.org/mock/gomock"
)

const permanent = 0x80

func newTestManager(t *testing.T) (*Manager, *mock.MockDHCPClient, *mock.MockNetworkManager) {
	ctrl := gomock.NewController(t)
	dhcpClient := mock.NewMockDHCPClient(ctrl)
	networkMgr := mock.NewMockNetworkManager(ctrl)

	manager := NewManager(dhcpClient, networkMgr, Options{Timeout: 3 * time.Second, Attempts: 3, RetryDelay: time.Second})
	manager.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return manager, dhcpClient, networkMgr
}

func newACK(t *testing.T) *dhcpv4.DHCPv4 {
	ack := &dhcpv4.DHCPv4{}
	ack.YourIPAddr = net.ParseIP("192.168.1.100")
	// Initialize the Options map before using it
	ack.Options = make(dhcpv4.Options)
	ack.Options.Update(dhcpv4.OptSubnetMask(net.IPv4Mask(255, 255, 255, 0)))
	ack.Options.Update(dhcpv4.OptRouter(net.ParseIP("192.168.1.1")))
	ack.Options.Update(dhcpv4.OptIPAddressLeaseTime(time.Hour))
	return ack
}

func upLink() *netlink.Dummy {
	return &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 2, Name: "eth0", Flags: net.FlagUp}}
}

func TestManager_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("ClearsStaticAndInstallsLease", func(t *testing.T) {
		manager, dhcpClient, networkMgr := newTestManager(t)
		link := upLink()

		staticAddr := netlink.Addr{
			IPNet: &net.IPNet{IP: net.ParseIP("10.0.0.5").To4(), Mask: net.CIDRMask(24, 32)},
			Flags: permanent,
		}
		leasedAddr := netlink.Addr{
			IPNet:    &net.IPNet{IP: net.ParseIP("10.0.0.6").To4(), Mask: net.CIDRMask(24, 32)},
			ValidLft: 100,
		}
		defaultRoute := netlink.Route{LinkIndex: 2, Gw: net.ParseIP("10.0.0.1")}

		networkMgr.EXPECT().GetLinkByName("eth0").Return(link, nil)
		networkMgr.EXPECT().ListAddresses(link).Return([]netlink.Addr{staticAddr, leasedAddr}, nil)
		networkMgr.EXPECT().DeleteAddress(link, &staticAddr).Return(nil)
		networkMgr.EXPECT().ListRoutes(link).Return([]netlink.Route{defaultRoute}, nil)
		networkMgr.EXPECT().DeleteRoute(&defaultRoute).Return(nil)

		ack := newACK(t)
		dhcpClient.EXPECT().RequestLease(ctx, "eth0", 3*time.Second).Return(ack, nil)

		networkMgr.EXPECT().
			AddAddress(link, gomock.Any()).
			DoAndReturn(func(_ netlink.Link, addr *netlink.Addr) error {
				assert.Equal(t, "192.168.1.100/24", addr.IPNet.String())
				assert.Equal(t, 3600, addr.ValidLft)
				return nil
			})
		networkMgr.EXPECT().AddRoute(gomock.Any()).Return(nil)

		got, err := manager.Apply(ctx, "eth0")
		require.NoError(t, err)
		assert.Equal(t, ack, got)
	})

	t.Run("NoLeaseIsNotAnError", func(t *testing.T) {
		manager, dhcpClient, networkMgr := newTestManager(t)
		link := upLink()

		networkMgr.EXPECT().GetLinkByName("eth0").Return(link, nil)
		networkMgr.EXPECT().ListAddresses(link).Return(nil, nil)
		networkMgr.EXPECT().ListRoutes(link).Return(nil, nil)
		dhcpClient.EXPECT().RequestLease(ctx, "eth0", 3*time.Second).Return(nil, assert.AnError).Times(3)

		got, err := manager.Apply(ctx, "eth0")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("LinkDownIsBroughtUpAndLeaseDeferred", func(t *testing.T) {
		manager, _, networkMgr := newTestManager(t)
		link := &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 2, Name: "eth0"}}

		networkMgr.EXPECT().GetLinkByName("eth0").Return(link, nil)
		networkMgr.EXPECT().ListAddresses(link).Return(nil, nil)
		networkMgr.EXPECT().ListRoutes(link).Return(nil, nil)
		networkMgr.EXPECT().SetLinkUp(link).Return(nil)

		got, err := manager.Apply(ctx, "eth0")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("AccessDeniedIsReturned", func(t *testing.T) {
		manager, dhcpClient, networkMgr := newTestManager(t)
		link := upLink()

		networkMgr.EXPECT().GetLinkByName("eth0").Return(link, nil)
		networkMgr.EXPECT().ListAddresses(link).Return(nil, nil)
		networkMgr.EXPECT().ListRoutes(link).Return(nil, nil)
		dhcpClient.EXPECT().RequestLease(ctx, "eth0", 3*time.Second).Return(nil, port.ErrAccessDenied)

		_, err := manager.Apply(ctx, "eth0")
		assert.ErrorIs(t, err, port.ErrAccessDenied)
	})

	t.Run("DeleteFailureIsReturned", func(t *testing.T) {
		manager, _, networkMgr := newTestManager(t)
		link := upLink()

		staticAddr := netlink.Addr{
			IPNet: &net.IPNet{IP: net.ParseIP("10.0.0.5").To4(), Mask: net.CIDRMask(24, 32)},
			Flags: permanent,
		}

		networkMgr.EXPECT().GetLinkByName("eth0").Return(link, nil)
		networkMgr.EXPECT().ListAddresses(link).Return([]netlink.Addr{staticAddr}, nil)
		networkMgr.EXPECT().DeleteAddress(link, &staticAddr).Return(assert.AnError)

		_, err := manager.Apply(ctx, "eth0")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to remove static address")
	})
}

func TestManager_getDHCPLease(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessAfterRetry", func(t *testing.T) {
		manager, dhcpClient, _ := newTestManager(t)
		ack := newACK(t)

		gomock.InOrder(
			dhcpClient.EXPECT().RequestLease(ctx, "eth0", 3*time.Second).Return(nil, assert.AnError),
			dhcpClient.EXPECT().RequestLease(ctx, "eth0", 3*time.Second).Return(ack, nil),
		)

		got, err := manager.getDHCPLease(ctx, "eth0", manager.getLogger("eth0"))
		require.NoError(t, err)
		assert.Equal(t, ack, got)
	})

	t.Run("FailedLeaseWithRetries", func(t *testing.T) {
		manager, dhcpClient, _ := newTestManager(t)

		dhcpClient.EXPECT().RequestLease(ctx, "eth0", 3*time.Second).Return(nil, assert.AnError).Times(3)

		ack, err := manager.getDHCPLease(ctx, "eth0", manager.getLogger("eth0"))
		assert.Error(t, err)
		assert.Nil(t, ack)
		assert.Contains(t, err.Error(), "DHCP lease request failed after 3 attempts")
	})
}

func TestNewManager_AttemptsFloor(t *testing.T) {
	manager := NewManager(nil, nil, Options{})
	assert.Equal(t, 1, manager.opts.Attempts)
}
