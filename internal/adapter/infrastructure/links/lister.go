// Package links provides the link enumeration adapter implementation.
package links

import (
	"context"
	"fmt"
	"sort"

	"netprofiler/internal/pkg/netaddr"
	"netprofiler/internal/port"
	"netprofiler/internal/types"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// ListerAdapter is an adapter that implements the LinkLister port using gopsutil,
// enriched with driver and carrier details where the host exposes them.
type ListerAdapter struct {
	interfaces func(ctx context.Context) ([]psnet.InterfaceStat, error)
	enrich     func(link *types.Link)
}

// Ensure ListerAdapter implements the LinkLister port
var _ port.LinkLister = (*ListerAdapter)(nil)

// NewListerAdapter creates a new link lister adapter.
func NewListerAdapter() *ListerAdapter {
	return &ListerAdapter{
		interfaces: func(ctx context.Context) ([]psnet.InterfaceStat, error) {
			return psnet.InterfacesWithContext(ctx)
		},
		enrich: enrichLink,
	}
}

// ListLinks returns every link sorted by name, including down ones.
func (l *ListerAdapter) ListLinks(ctx context.Context) ([]types.Link, error) {
	stats, err := l.interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate interfaces: %w", err)
	}

	links := make([]types.Link, 0, len(stats))
	for _, s := range stats {
		link := toLink(s)
		if l.enrich != nil {
			l.enrich(&link)
		}
		links = append(links, link)
	}

	sort.Slice(links, func(i, j int) bool { return links[i].Name < links[j].Name })
	return links, nil
}

func toLink(s psnet.InterfaceStat) types.Link {
	link := types.Link{
		Name:    s.Name,
		Index:   s.Index,
		Carrier: types.CarrierUnknown,
	}
	if mac, err := netaddr.NormalizeMAC(s.HardwareAddr); err == nil {
		link.HardwareAddress = mac
	}
	for _, f := range s.Flags {
		switch f {
		case "up":
			link.IsUp = true
		case "loopback":
			link.Loopback = true
		}
	}
	return link
}
