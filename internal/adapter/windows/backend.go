// Package windows implements the PlatformAdapter for Windows hosts. Addressing
// is persisted in the Tcpip registry parameters and takes effect when the
// interface is restarted with netsh.
package windows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/pkg/netaddr"
	"netprofiler/internal/port"
	"netprofiler/internal/types"
)

// Name is the backend identifier.
const Name = "windows"

const (
	networkClassKey    = `SYSTEM\CurrentControlSet\Control\Network\{4D36E972-E325-11CE-BFC1-08002BE10318}`
	tcpipInterfacesKey = `SYSTEM\CurrentControlSet\Services\Tcpip\Parameters\Interfaces`
	unspecified        = "0.0.0.0"
)

// Backend reads and writes IPv4 addressing of Windows network adapters.
type Backend struct {
	registry port.Registry
	executor port.CommandExecutor
	links    port.LinkLister
}

// Ensure Backend implements the PlatformAdapter port
var _ port.PlatformAdapter = (*Backend)(nil)

// NewBackend wires the Windows backend from its infrastructure ports.
func NewBackend(registry port.Registry, executor port.CommandExecutor, links port.LinkLister) *Backend {
	return &Backend{registry: registry, executor: executor, links: links}
}

// Name returns "windows".
func (b *Backend) Name() string {
	return Name
}

// CanonicalName folds case: connection names are matched case-insensitively,
// so "Ethernet" and "ethernet" are one adapter.
func (b *Backend) CanonicalName(interfaceName string) string {
	return strings.ToLower(interfaceName)
}

// resolveGUID maps a connection's friendly name to its adapter GUID.
func (b *Backend) resolveGUID(interfaceName string) (string, error) {
	guids, err := b.registry.SubKeyNames(networkClassKey)
	if err != nil {
		return "", types.NewEnumerationError("failed to enumerate network connections", err)
	}
	for _, guid := range guids {
		if !strings.HasPrefix(guid, "{") {
			continue
		}
		name, err := b.registry.GetString(networkClassKey+`\`+guid+`\Connection`, "Name")
		if err != nil {
			continue
		}
		if strings.EqualFold(name, interfaceName) {
			return guid, nil
		}
	}
	return "", types.NewInterfaceNotFoundError(interfaceName, nil)
}

func interfaceKey(guid string) string {
	return tcpipInterfacesKey + `\` + guid
}

// ReadState reads the adapter's persisted addressing. EnableDHCP=1, or no
// usable address, is reported as DHCP.
func (b *Backend) ReadState(ctx context.Context, interfaceName string) (types.InterfaceSnapshot, error) {
	guid, err := b.resolveGUID(interfaceName)
	if err != nil {
		return types.InterfaceSnapshot{}, err
	}

	snap := types.InterfaceSnapshot{Name: interfaceName, Mode: types.ModeDHCP, Carrier: types.CarrierUnknown}
	b.fillLink(ctx, &snap)

	key := interfaceKey(guid)
	enableDHCP, err := b.registry.GetInteger(key, "EnableDHCP")
	if err != nil && !errors.Is(err, port.ErrRegistryValueNotFound) {
		return types.InterfaceSnapshot{}, types.NewEnumerationError("failed to read "+interfaceName, err)
	}
	if enableDHCP == 1 {
		return snap, nil
	}

	addresses := usablePairs(b.multiString(key, "IPAddress"), b.multiString(key, "SubnetMask"))
	if len(addresses) == 0 {
		return snap, nil
	}

	cfg := types.StaticConfig{
		Address: addresses[0][0],
		Netmask: addresses[0][1],
		DNS:     []string{},
	}
	for _, pair := range addresses[1:] {
		ip, mask, err := netaddr.ParseCIDR(pair[0] + "/" + pair[1])
		if err != nil {
			return types.InterfaceSnapshot{}, types.NewEnumerationError("unreadable address on "+interfaceName, err)
		}
		cfg.Secondary = append(cfg.Secondary, netaddr.CIDRString(ip, mask))
	}

	gateways := b.multiString(key, "DefaultGateway")
	cfg.Gateway = firstUsable(gateways)
	if len(gateways) > 1 {
		logging.WithComponentAndInterface("windows", interfaceName).
			WithField("gateways", strings.Join(gateways, ",")).
			Warn("Only the first default gateway is part of the snapshot, the others will not be restored")
	}
	if servers, err := b.registry.GetString(key, "NameServer"); err == nil {
		cfg.DNS = splitServers(servers)
	}

	snap.Mode = types.ModeStatic
	snap.Static = &cfg
	return snap, nil
}

// fillLink adds hardware address and up state from the link lister.
func (b *Backend) fillLink(ctx context.Context, snap *types.InterfaceSnapshot) {
	if b.links == nil {
		return
	}
	links, err := b.links.ListLinks(ctx)
	if err != nil {
		logging.WithComponentAndInterface("windows", snap.Name).WithError(err).Debug("Link details unavailable")
		return
	}
	for _, l := range links {
		if strings.EqualFold(l.Name, snap.Name) {
			snap.HardwareAddress = l.HardwareAddress
			snap.IsUp = l.IsUp
			snap.Carrier = l.Carrier
			snap.Driver = l.Driver
			return
		}
	}
}

func (b *Backend) multiString(key, name string) []string {
	values, err := b.registry.GetStrings(key, name)
	if err != nil {
		return nil
	}
	return values
}

func firstUsable(values []string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && v != unspecified {
			return v
		}
	}
	return ""
}

// usablePairs zips the IPAddress and SubnetMask lists, skipping unset entries.
func usablePairs(addresses, masks []string) [][2]string {
	var out [][2]string
	for i, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" || a == unspecified || i >= len(masks) {
			continue
		}
		out = append(out, [2]string{a, strings.TrimSpace(masks[i])})
	}
	return out
}

// splitServers parses the NameServer value, which Windows writes comma or
// space separated.
func splitServers(value string) []string {
	servers := []string{}
	for _, s := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }) {
		servers = append(servers, s)
	}
	return servers
}

// ApplyState writes target to the registry and restarts the interface.
func (b *Backend) ApplyState(ctx context.Context, interfaceName string, target types.AddressingState) error {
	logger := logging.WithComponentAndInterface("windows", interfaceName).WithField("target", target.String())

	target, err := target.Validate()
	if err != nil {
		return types.NewValidationError("invalid target state", err)
	}

	guid, err := b.resolveGUID(interfaceName)
	if err != nil {
		return err
	}
	key := interfaceKey(guid)

	if err := b.writeState(key, target); err != nil {
		return classify(interfaceName, "registry update failed", err)
	}
	logger.Debug("Registry updated, restarting interface")

	if err := b.restart(ctx, interfaceName); err != nil {
		return classify(interfaceName, "interface restart failed", err)
	}

	logger.Info("Addressing applied")
	return nil
}

func (b *Backend) writeState(key string, target types.AddressingState) error {
	if target.Mode == types.ModeDHCP {
		if err := b.registry.SetDWord(key, "EnableDHCP", 1); err != nil {
			return err
		}
		if err := b.registry.SetStrings(key, "IPAddress", []string{unspecified}); err != nil {
			return err
		}
		if err := b.registry.SetStrings(key, "SubnetMask", []string{unspecified}); err != nil {
			return err
		}
		if err := b.registry.SetStrings(key, "DefaultGateway", []string{}); err != nil {
			return err
		}
		return b.registry.SetString(key, "NameServer", "")
	}

	cfg := target.Static
	if err := b.registry.SetDWord(key, "EnableDHCP", 0); err != nil {
		return err
	}
	addresses := []string{cfg.Address}
	masks := []string{cfg.Netmask}
	for _, extra := range cfg.Secondary {
		ip, mask, err := netaddr.ParseCIDR(extra)
		if err != nil {
			return err
		}
		addresses = append(addresses, ip.String())
		masks = append(masks, netaddr.MaskString(mask))
	}
	if err := b.registry.SetStrings(key, "IPAddress", addresses); err != nil {
		return err
	}
	if err := b.registry.SetStrings(key, "SubnetMask", masks); err != nil {
		return err
	}
	gateways := []string{}
	if cfg.Gateway != "" {
		gateways = append(gateways, cfg.Gateway)
	}
	if err := b.registry.SetStrings(key, "DefaultGateway", gateways); err != nil {
		return err
	}
	return b.registry.SetString(key, "NameServer", strings.Join(cfg.DNS, ","))
}

func (b *Backend) restart(ctx context.Context, interfaceName string) error {
	for _, state := range []string{"disabled", "enabled"} {
		_, err := b.executor.Execute(ctx, "netsh", "interface", "set", "interface",
			"name="+interfaceName, "admin="+state)
		if err != nil {
			return fmt.Errorf("failed to set %s admin=%s: %w", interfaceName, state, err)
		}
	}
	return nil
}

func classify(interfaceName, message string, err error) error {
	if errors.Is(err, port.ErrAccessDenied) {
		return types.NewInsufficientPrivilegeError(message, err)
	}
	return types.NewApplyError(fmt.Sprintf("%s on %s", message, interfaceName), err)
}
