// Package inventory enumerates the host's network interfaces together with
// their live addressing state. It never mutates anything.
package inventory

import (
	"context"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/port"
	"netprofiler/internal/types"
)

// Inventory implements the InterfaceInventory port.
type Inventory struct {
	links    port.LinkLister
	platform port.PlatformAdapter
}

// Ensure Inventory implements the InterfaceInventory port
var _ port.InterfaceInventory = (*Inventory)(nil)

// New creates an inventory reading links from links and addressing from platform.
func New(links port.LinkLister, platform port.PlatformAdapter) *Inventory {
	return &Inventory{links: links, platform: platform}
}

// ListInterfaces returns every non-loopback interface, down ones included,
// sorted by name. Interfaces that vanish while being read are skipped.
func (i *Inventory) ListInterfaces(ctx context.Context) ([]types.InterfaceSnapshot, error) {
	links, err := i.listLinks(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]types.InterfaceSnapshot, 0, len(links))
	for _, link := range links {
		snap, err := i.read(ctx, link)
		if err != nil {
			if types.IsInterfaceNotFoundError(err) {
				logging.WithComponentAndInterface("inventory", link.Name).Debug("Interface disappeared while listing, skipping")
				continue
			}
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Lookup returns the entry for one interface name.
func (i *Inventory) Lookup(ctx context.Context, interfaceName string) (types.InterfaceSnapshot, error) {
	links, err := i.listLinks(ctx)
	if err != nil {
		return types.InterfaceSnapshot{}, err
	}
	for _, link := range links {
		if link.Name == interfaceName {
			return i.read(ctx, link)
		}
	}
	return types.InterfaceSnapshot{}, types.NewInterfaceNotFoundError(interfaceName, nil)
}

// Suggest returns the interfaces a profile's match hint selects. A nil hint
// selects nothing.
func (i *Inventory) Suggest(ctx context.Context, hint *types.MatchHint) ([]types.InterfaceSnapshot, error) {
	if hint == nil {
		return nil, nil
	}
	all, err := i.ListInterfaces(ctx)
	if err != nil {
		return nil, err
	}
	var matches []types.InterfaceSnapshot
	for _, snap := range all {
		if hint.Matches(snap.Name, snap.HardwareAddress) {
			matches = append(matches, snap)
		}
	}
	return matches, nil
}

func (i *Inventory) listLinks(ctx context.Context) ([]types.Link, error) {
	all, err := i.links.ListLinks(ctx)
	if err != nil {
		return nil, types.NewEnumerationError("failed to enumerate network interfaces", err)
	}
	links := all[:0:0]
	for _, l := range all {
		if !l.Loopback {
			links = append(links, l)
		}
	}
	return links, nil
}

// read fills the link's addressing from the platform; link details back up
// whatever the platform leaves empty.
func (i *Inventory) read(ctx context.Context, link types.Link) (types.InterfaceSnapshot, error) {
	snap, err := i.platform.ReadState(ctx, link.Name)
	if err != nil {
		if types.KindOf(err) != "" {
			return types.InterfaceSnapshot{}, err
		}
		return types.InterfaceSnapshot{}, types.NewEnumerationError("failed to read interface "+link.Name, err)
	}

	if snap.HardwareAddress == "" {
		snap.HardwareAddress = link.HardwareAddress
	}
	if !snap.IsUp {
		snap.IsUp = link.IsUp
	}
	if snap.Carrier == "" || snap.Carrier == types.CarrierUnknown {
		snap.Carrier = link.Carrier
	}
	if snap.Driver == "" {
		snap.Driver = link.Driver
	}
	return snap, nil
}
