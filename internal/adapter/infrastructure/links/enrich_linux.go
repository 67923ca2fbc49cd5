//go:build linux

package links

import (
	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/types"

	"github.com/safchain/ethtool"
)

// enrichLink fills driver and carrier from ethtool. Virtual links without
// driver info keep their defaults.
func enrichLink(link *types.Link) {
	if link.Loopback {
		return
	}

	handle, err := ethtool.NewEthtool()
	if err != nil {
		logging.WithComponentAndInterface("links", link.Name).Debugf("ethtool unavailable: %v", err)
		return
	}
	defer handle.Close()

	if driver, err := handle.DriverName(link.Name); err == nil {
		link.Driver = driver
	}
	if state, err := handle.LinkState(link.Name); err == nil {
		if state == 1 {
			link.Carrier = types.CarrierUp
		} else {
			link.Carrier = types.CarrierDown
		}
	}
}
