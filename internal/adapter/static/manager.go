// Package static configures static IPv4 addressing on a Linux link through netlink.
package static

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/pkg/netaddr"
	"netprofiler/internal/port"
	"netprofiler/internal/types"

	"github.com/vishvananda/netlink"
)

// ifaFPermanent mirrors IFA_F_PERMANENT from linux/if_addr.h. The kernel sets
// it on addresses added without a lifetime, i.e. administratively static ones.
const ifaFPermanent = 0x80

// IsPermanent reports whether addr was configured statically rather than
// installed with a lease lifetime.
func IsPermanent(addr netlink.Addr) bool {
	return addr.Flags&ifaFPermanent != 0
}

// IsDefaultRoute reports whether route is an IPv4 default route.
func IsDefaultRoute(route netlink.Route) bool {
	if route.Dst == nil {
		return true
	}
	ones, _ := route.Dst.Mask.Size()
	return ones == 0 && route.Dst.IP.To4() != nil && route.Dst.IP.To4().Equal(net.IPv4zero)
}

// Manager applies a StaticConfig to one link. Every failing step is returned;
// the link is never left silently half-configured.
type Manager struct {
	networkMgr port.NetworkManager
}

// NewManager creates a static addressing manager.
func NewManager(networkMgr port.NetworkManager) *Manager {
	return &Manager{networkMgr: networkMgr}
}

// Apply makes cfg's addresses the only IPv4 addresses on the link and makes
// cfg's gateway the link's only default route. DNS is not handled here.
//
// An administratively down link is brought up first: the kernel installs no
// connected route on a down link and refuses gateway routes through it. A
// link that is up without carrier is configured as is.
func (m *Manager) Apply(ctx context.Context, ifaceName string, cfg types.StaticConfig) error {
	logger := logging.WithComponentAndInterface("static", ifaceName)

	link, err := m.networkMgr.GetLinkByName(ifaceName)
	if err != nil {
		return fmt.Errorf("failed to get netlink interface: %w", err)
	}

	wanted, err := addressesOf(cfg)
	if err != nil {
		return err
	}

	if link.Attrs().Flags&net.FlagUp == 0 {
		if err := m.networkMgr.SetLinkUp(link); err != nil {
			return fmt.Errorf("failed to bring interface up: %w", err)
		}
		logger.Warn("Interface was administratively down, brought it up")
	}

	logger.WithField("ip", wanted[0].String()).Info("Configuring interface with IP")
	if err := m.applyAddress(link, wanted); err != nil {
		return err
	}

	var gateway net.IP
	if cfg.Gateway != "" {
		if gateway, err = netaddr.ParseIPv4(cfg.Gateway); err != nil {
			return err
		}
	}
	if err := m.configureDefaultRoute(link, gateway); err != nil {
		return fmt.Errorf("failed to set default gateway: %w", err)
	}

	return nil
}

// addressesOf returns the primary address of cfg followed by its secondaries.
func addressesOf(cfg types.StaticConfig) ([]*net.IPNet, error) {
	ip, err := netaddr.ParseIPv4(cfg.Address)
	if err != nil {
		return nil, err
	}
	mask, err := netaddr.ParseMask(cfg.Netmask)
	if err != nil {
		return nil, err
	}
	out := []*net.IPNet{{IP: ip, Mask: mask}}
	for _, extra := range cfg.Secondary {
		sip, smask, err := netaddr.ParseCIDR(extra)
		if err != nil {
			return nil, err
		}
		out = append(out, &net.IPNet{IP: sip, Mask: smask})
	}
	return out, nil
}

// applyAddress removes every IPv4 address not in wanted and adds the wanted
// ones that are not already present as permanent addresses, in order.
func (m *Manager) applyAddress(link netlink.Link, wanted []*net.IPNet) error {
	logger := logging.WithComponentAndInterface("static", link.Attrs().Name)

	existingAddrs, err := m.networkMgr.ListAddresses(link)
	if err != nil {
		return fmt.Errorf("failed to list existing addresses: %w", err)
	}

	removed := false
	for _, addr := range existingAddrs {
		if addr.IPNet == nil {
			continue
		}
		// A leased copy of a wanted address is replaced so it becomes permanent
		if IsPermanent(addr) && contains(wanted, addr.IPNet) {
			continue
		}

		addr := addr
		if err := m.networkMgr.DeleteAddress(link, &addr); err != nil {
			return fmt.Errorf("failed to remove existing address %s: %w", addr.IPNet.String(), err)
		}
		removed = true
		logger.WithField("address", addr.IPNet.String()).Debug("Removed existing address")
	}

	// Removing a primary address takes its subnet's secondaries with it
	// unless promote_secondaries is set, so look again.
	if removed {
		if existingAddrs, err = m.networkMgr.ListAddresses(link); err != nil {
			return fmt.Errorf("failed to list existing addresses: %w", err)
		}
	}
	configured := make(map[string]bool, len(wanted))
	for _, addr := range existingAddrs {
		if addr.IPNet != nil && IsPermanent(addr) && contains(wanted, addr.IPNet) {
			configured[addr.IPNet.String()] = true
		}
	}

	for _, ipNet := range wanted {
		if configured[ipNet.String()] {
			logger.WithField("ip", ipNet.String()).Debug("IP address already configured, skipping")
			continue
		}
		if err := m.networkMgr.AddAddress(link, &netlink.Addr{IPNet: ipNet}); err != nil {
			return fmt.Errorf("failed to add IP address %s: %w", ipNet.String(), err)
		}
		logger.WithField("ip", ipNet.String()).Info("Successfully added IP address")
	}
	return nil
}

func contains(wanted []*net.IPNet, ipNet *net.IPNet) bool {
	for _, w := range wanted {
		if w.IP.Equal(ipNet.IP) && w.Mask.String() == ipNet.Mask.String() {
			return true
		}
	}
	return false
}

// configureDefaultRoute leaves at most one default route on the link, via
// gateway. A nil gateway removes the link's default routes.
func (m *Manager) configureDefaultRoute(link netlink.Link, gateway net.IP) error {
	logger := logging.WithComponentAndInterface("static", link.Attrs().Name)

	routes, err := m.networkMgr.ListRoutes(link)
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	hasDefaultRoute := false
	for _, route := range routes {
		if !IsDefaultRoute(route) || route.LinkIndex != link.Attrs().Index {
			continue
		}
		if gateway != nil && route.Gw != nil && route.Gw.Equal(gateway) && !hasDefaultRoute {
			logger.WithField("gateway", gateway.String()).Debug("Default route already configured, skipping")
			hasDefaultRoute = true
			continue
		}

		route := route
		if err := m.networkMgr.DeleteRoute(&route); err != nil {
			return fmt.Errorf("failed to remove existing default route: %w", err)
		}
		if route.Gw != nil {
			logger.WithField("existing_gateway", route.Gw.String()).Debug("Removed conflicting default route")
		}
	}

	if gateway == nil || hasDefaultRoute {
		return nil
	}

	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        gateway,
	}
	if err := m.networkMgr.AddRoute(route); err != nil {
		if errors.Is(err, syscall.EEXIST) {
			logger.WithField("gateway", gateway.String()).Debug("Default route already exists, ignoring error")
			return nil
		}
		return fmt.Errorf("failed to add default route: %w", err)
	}
	logger.WithField("gateway", gateway.String()).Info("Successfully configured default route")
	return nil
}
