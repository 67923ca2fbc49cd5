// Package linux implements the PlatformAdapter for Linux hosts on top of
// netlink, a one-shot DHCPv4 client and resolv.conf.
package linux

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"netprofiler/internal/adapter/dhcp"
	"netprofiler/internal/adapter/resolv"
	"netprofiler/internal/adapter/static"
	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/pkg/netaddr"
	"netprofiler/internal/port"
	"netprofiler/internal/types"

	"github.com/vishvananda/netlink"
)

// Name is the backend identifier.
const Name = "linux"

// Options configures the Linux backend.
type Options struct {
	ResolvConf string
	DHCP       dhcp.Options
}

// Backend reads and writes IPv4 addressing of Linux links.
type Backend struct {
	networkMgr port.NetworkManager
	static     *static.Manager
	dhcp       *dhcp.Manager
	resolv     *resolv.Manager
}

// Ensure Backend implements the PlatformAdapter port
var _ port.PlatformAdapter = (*Backend)(nil)

// NewBackend wires the Linux backend from its infrastructure ports.
func NewBackend(networkMgr port.NetworkManager, dhcpClient port.DHCPClient, fileMgr port.FileManager, opts Options) *Backend {
	if opts.ResolvConf == "" {
		opts.ResolvConf = "/etc/resolv.conf"
	}
	return &Backend{
		networkMgr: networkMgr,
		static:     static.NewManager(networkMgr),
		dhcp:       dhcp.NewManager(dhcpClient, networkMgr, opts.DHCP),
		resolv:     resolv.NewManager(fileMgr, opts.ResolvConf),
	}
}

// Name returns "linux".
func (b *Backend) Name() string {
	return Name
}

// CanonicalName returns interfaceName unchanged; Linux link names are case
// sensitive.
func (b *Backend) CanonicalName(interfaceName string) string {
	return interfaceName
}

// ReadState reads the link's addressing. The first permanent IPv4 address
// makes the link static and further permanent ones are kept as secondary
// addresses; without one the link is reported as DHCP.
func (b *Backend) ReadState(ctx context.Context, interfaceName string) (types.InterfaceSnapshot, error) {
	logger := logging.WithComponentAndInterface("linux", interfaceName)

	link, err := b.networkMgr.GetLinkByName(interfaceName)
	if err != nil {
		if errors.Is(err, port.ErrLinkNotFound) {
			return types.InterfaceSnapshot{}, types.NewInterfaceNotFoundError(interfaceName, err)
		}
		return types.InterfaceSnapshot{}, types.NewEnumerationError("failed to read interface "+interfaceName, err)
	}

	attrs := link.Attrs()
	snap := types.InterfaceSnapshot{
		Name:    interfaceName,
		IsUp:    attrs.Flags&net.FlagUp != 0,
		Mode:    types.ModeDHCP,
		Carrier: carrierOf(attrs.OperState),
	}
	if len(attrs.HardwareAddr) > 0 {
		snap.HardwareAddress = attrs.HardwareAddr.String()
	}

	addrs, err := b.networkMgr.ListAddresses(link)
	if err != nil {
		return types.InterfaceSnapshot{}, types.NewEnumerationError("failed to list addresses of "+interfaceName, err)
	}

	var cfg *types.StaticConfig
	for _, addr := range addrs {
		if addr.IPNet == nil || addr.IPNet.IP.To4() == nil || !static.IsPermanent(addr) {
			continue
		}
		if cfg == nil {
			cfg = &types.StaticConfig{
				Address: addr.IPNet.IP.To4().String(),
				Netmask: netaddr.MaskString(addr.IPNet.Mask),
				DNS:     []string{},
			}
			continue
		}
		cfg.Secondary = append(cfg.Secondary, netaddr.CIDRString(addr.IPNet.IP, addr.IPNet.Mask))
	}
	if cfg == nil {
		return snap, nil
	}

	routes, err := b.networkMgr.ListRoutes(link)
	if err != nil {
		return types.InterfaceSnapshot{}, types.NewEnumerationError("failed to list routes of "+interfaceName, err)
	}
	ip := net.ParseIP(cfg.Address)
	for _, route := range routes {
		if !static.IsDefaultRoute(route) || route.Gw == nil || route.LinkIndex != attrs.Index {
			continue
		}
		// An off-link gateway cannot be reapplied, so a rollback to this
		// snapshot leaves the interface without it
		if !netaddr.SameSubnet(ip, route.Gw, net.IPMask(net.ParseIP(cfg.Netmask).To4())) {
			logger.WithField("gateway", route.Gw.String()).Warn("Default route outside the interface subnet is not part of the snapshot and will not be restored")
			continue
		}
		cfg.Gateway = route.Gw.To4().String()
		break
	}

	if servers, ok := b.resolv.Nameservers(interfaceName); ok {
		cfg.DNS = servers
	}

	snap.Mode = types.ModeStatic
	snap.Static = cfg
	return snap, nil
}

func carrierOf(state netlink.LinkOperState) types.CarrierState {
	switch state {
	case netlink.OperUp:
		return types.CarrierUp
	case netlink.OperDown, netlink.OperLowerLayerDown:
		return types.CarrierDown
	default:
		return types.CarrierUnknown
	}
}

// ApplyState reconfigures the link to target. DNS follows the addressing:
// static servers are written to resolv.conf, DHCP-provided ones likewise, and
// a target without servers releases resolv.conf.
func (b *Backend) ApplyState(ctx context.Context, interfaceName string, target types.AddressingState) error {
	logger := logging.WithComponentAndInterface("linux", interfaceName).WithField("target", target.String())

	target, err := target.Validate()
	if err != nil {
		return types.NewValidationError("invalid target state", err)
	}

	switch target.Mode {
	case types.ModeStatic:
		if err := b.static.Apply(ctx, interfaceName, *target.Static); err != nil {
			return classify(interfaceName, "static configuration failed", err)
		}
		if err := b.resolv.Set(interfaceName, target.Static.DNS); err != nil {
			return classify(interfaceName, "DNS configuration failed", err)
		}

	case types.ModeDHCP:
		if err := b.resolv.Release(interfaceName); err != nil {
			return classify(interfaceName, "DNS release failed", err)
		}
		ack, err := b.dhcp.Apply(ctx, interfaceName)
		if err != nil {
			return classify(interfaceName, "DHCP configuration failed", err)
		}
		if ack != nil && len(ack.DNS()) > 0 {
			servers := make([]string, 0, len(ack.DNS()))
			for _, ip := range ack.DNS() {
				servers = append(servers, ip.String())
			}
			if err := b.resolv.Set(interfaceName, servers); err != nil {
				logger.WithError(err).Warn("Failed to write DHCP-provided DNS servers")
			}
		}
	}

	logger.Debug("Addressing applied")
	return nil
}

func classify(interfaceName, message string, err error) error {
	switch {
	case errors.Is(err, port.ErrLinkNotFound):
		return types.NewInterfaceNotFoundError(interfaceName, err)
	case errors.Is(err, port.ErrAccessDenied), errors.Is(err, syscall.EPERM), errors.Is(err, syscall.EACCES):
		return types.NewInsufficientPrivilegeError(message, err)
	default:
		return types.NewApplyError(fmt.Sprintf("%s on %s", message, interfaceName), err)
	}
}
