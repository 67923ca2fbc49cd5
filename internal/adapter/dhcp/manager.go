// Package dhcp switches a Linux link to DHCP addressing: it clears static
// configuration and installs one lease obtained with the DHCPv4 client.
package dhcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"netprofiler/internal/adapter/static"
	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/port"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// Options bounds lease acquisition.
type Options struct {
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
}

// DefaultOptions returns the lease bounds used when none are configured.
func DefaultOptions() Options {
	return Options{Timeout: 5 * time.Second, Attempts: 2, RetryDelay: 2 * time.Second}
}

// Manager applies DHCP mode to a link. Renewal is left to the host's DHCP
// client; the installed address simply expires with its lease.
type Manager struct {
	dhcpClient port.DHCPClient
	networkMgr port.NetworkManager
	opts       Options
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewManager creates a DHCP addressing manager.
func NewManager(dhcpClient port.DHCPClient, networkMgr port.NetworkManager, opts Options) *Manager {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	return &Manager{
		dhcpClient: dhcpClient,
		networkMgr: networkMgr,
		opts:       opts,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Apply removes static addresses and the link's default routes, then tries to
// obtain and install a lease. The returned ACK is nil when no lease could be
// obtained; that is not an error, the link stays in DHCP mode awaiting a server.
func (m *Manager) Apply(ctx context.Context, ifaceName string) (*dhcpv4.DHCPv4, error) {
	logger := m.getLogger(ifaceName)

	link, err := m.networkMgr.GetLinkByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("failed to get netlink interface: %w", err)
	}

	if err := m.clearStatic(link); err != nil {
		return nil, err
	}

	// Carrier takes a moment to come up after the link does; the lease is
	// left to the host DHCP client rather than waited for here.
	if link.Attrs().Flags&net.FlagUp == 0 {
		if err := m.networkMgr.SetLinkUp(link); err != nil {
			return nil, fmt.Errorf("failed to bring interface up: %w", err)
		}
		logger.Warn("Interface was administratively down, brought it up and deferred the lease request to the host DHCP client")
		return nil, nil
	}

	ack, err := m.getDHCPLease(ctx, ifaceName, logger)
	if err != nil {
		if errors.Is(err, port.ErrAccessDenied) {
			return nil, err
		}
		logger.WithError(err).Warn("No DHCP lease obtained, interface left awaiting a server")
		return nil, nil
	}

	if err := m.applyDHCPLease(ctx, link, ack); err != nil {
		return nil, err
	}
	return ack, nil
}

// clearStatic deletes permanent IPv4 addresses and every default route on the link.
func (m *Manager) clearStatic(link netlink.Link) error {
	logger := m.getLogger(link.Attrs().Name)

	addrs, err := m.networkMgr.ListAddresses(link)
	if err != nil {
		return fmt.Errorf("failed to list existing addresses: %w", err)
	}
	for _, addr := range addrs {
		if !static.IsPermanent(addr) || addr.IPNet == nil {
			continue
		}
		addr := addr
		if err := m.networkMgr.DeleteAddress(link, &addr); err != nil {
			return fmt.Errorf("failed to remove static address %s: %w", addr.IPNet.String(), err)
		}
		logger.WithField("address", addr.IPNet.String()).Debug("Removed static address")
	}

	routes, err := m.networkMgr.ListRoutes(link)
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}
	for _, route := range routes {
		if !static.IsDefaultRoute(route) || route.LinkIndex != link.Attrs().Index {
			continue
		}
		route := route
		if err := m.networkMgr.DeleteRoute(&route); err != nil {
			return fmt.Errorf("failed to remove default route: %w", err)
		}
		logger.Debug("Removed default route")
	}
	return nil
}

// getDHCPLease performs the DISCOVER/OFFER/REQUEST/ACK sequence with bounded retries.
func (m *Manager) getDHCPLease(ctx context.Context, ifaceName string, logger *logrus.Entry) (*dhcpv4.DHCPv4, error) {
	var lastErr error
	for attempt := 1; attempt <= m.opts.Attempts; attempt++ {
		logger.WithField("attempt", fmt.Sprintf("%d/%d", attempt, m.opts.Attempts)).Debug("Attempting DHCP lease")

		ack, err := m.dhcpClient.RequestLease(ctx, ifaceName, m.opts.Timeout)
		if err == nil {
			logger.WithField("ip", ack.YourIPAddr.String()).Info("Successfully obtained DHCP lease")
			return ack, nil
		}
		lastErr = err
		if errors.Is(err, port.ErrAccessDenied) {
			return nil, err
		}
		logger.WithError(err).WithField("attempt", attempt).Debug("DHCP lease request failed")

		if attempt < m.opts.Attempts {
			if err := m.sleep(ctx, m.opts.RetryDelay); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("DHCP lease request failed after %d attempts: %w", m.opts.Attempts, lastErr)
}

// applyDHCPLease installs the leased address with its lifetime and the router as default route.
func (m *Manager) applyDHCPLease(ctx context.Context, link netlink.Link, ack *dhcpv4.DHCPv4) error {
	logger := m.getLogger(link.Attrs().Name)

	subnetMask := ack.SubnetMask()
	if subnetMask == nil {
		// Default to /24 if no subnet mask provided
		subnetMask = net.IPv4Mask(255, 255, 255, 0)
	}
	ipNet := &net.IPNet{IP: ack.YourIPAddr.To4(), Mask: subnetMask}

	leaseTime := ack.IPAddressLeaseTime(60 * time.Second)
	logger.WithFields(logrus.Fields{"ip": ipNet.String(), "lease_time": leaseTime.String()}).Info("Configuring interface with leased IP")

	addr := &netlink.Addr{
		IPNet:       ipNet,
		ValidLft:    int(leaseTime.Seconds()),
		PreferedLft: int(leaseTime.Seconds()),
	}
	if err := m.networkMgr.AddAddress(link, addr); err != nil && !errors.Is(err, syscall.EEXIST) {
		return fmt.Errorf("failed to add IP address %s: %w", ipNet.String(), err)
	}

	routers := ack.Router()
	if len(routers) == 0 {
		return nil
	}
	route := &netlink.Route{LinkIndex: link.Attrs().Index, Gw: routers[0]}
	if err := m.networkMgr.AddRoute(route); err != nil && !errors.Is(err, syscall.EEXIST) {
		return fmt.Errorf("failed to add default route: %w", err)
	}
	logger.WithField("gateway", routers[0].String()).Info("Successfully added default route")
	return nil
}

func (m *Manager) getLogger(ifaceName string) *logrus.Entry {
	return logging.WithComponentAndInterface("dhcp", ifaceName)
}
