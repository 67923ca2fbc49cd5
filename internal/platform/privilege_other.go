//go:build !windows

package platform

import "os"

// IsElevated reports whether the process runs as root. Changing addresses,
// routes and resolv.conf needs it.
func IsElevated() bool {
	return os.Geteuid() == 0
}
