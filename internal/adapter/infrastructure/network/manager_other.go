//go:build !linux

package network

import (
	"netprofiler/internal/port"

	"github.com/vishvananda/netlink"
)

// GetLinkByName is not available without netlink.
func (n *ManagerAdapter) GetLinkByName(interfaceName string) (netlink.Link, error) {
	return nil, port.ErrNotSupported
}

// ListAddresses is not available without netlink.
func (n *ManagerAdapter) ListAddresses(link netlink.Link) ([]netlink.Addr, error) {
	return nil, port.ErrNotSupported
}

// AddAddress is not available without netlink.
func (n *ManagerAdapter) AddAddress(link netlink.Link, addr *netlink.Addr) error {
	return port.ErrNotSupported
}

// DeleteAddress is not available without netlink.
func (n *ManagerAdapter) DeleteAddress(link netlink.Link, addr *netlink.Addr) error {
	return port.ErrNotSupported
}

// ListRoutes is not available without netlink.
func (n *ManagerAdapter) ListRoutes(link netlink.Link) ([]netlink.Route, error) {
	return nil, port.ErrNotSupported
}

// AddRoute is not available without netlink.
func (n *ManagerAdapter) AddRoute(route *netlink.Route) error {
	return port.ErrNotSupported
}

// DeleteRoute is not available without netlink.
func (n *ManagerAdapter) DeleteRoute(route *netlink.Route) error {
	return port.ErrNotSupported
}

// SetLinkUp is not available without netlink.
func (n *ManagerAdapter) SetLinkUp(link netlink.Link) error {
	return port.ErrNotSupported
}
