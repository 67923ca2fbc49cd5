//go:build !linux

package dhcp

import (
	"context"
	"time"

	"netprofiler/internal/port"

	"github.com/insomniacslk/dhcp/dhcpv4"
)

// RequestLease is only implemented on Linux; other hosts run their own DHCP client.
func (c *ClientAdapter) RequestLease(ctx context.Context, interfaceName string, timeout time.Duration) (*dhcpv4.DHCPv4, error) {
	return nil, port.ErrNotSupported
}
