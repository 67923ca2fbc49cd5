// Package winreg provides the Windows registry adapter implementation.
// All paths are relative to HKEY_LOCAL_MACHINE.
package winreg

import (
	"netprofiler/internal/port"
)

// RegistryAdapter is an adapter that implements the Registry port using golang.org/x/sys/windows/registry.
type RegistryAdapter struct{}

// Ensure RegistryAdapter implements the Registry port
var _ port.Registry = (*RegistryAdapter)(nil)

// NewRegistryAdapter creates a new registry adapter.
func NewRegistryAdapter() *RegistryAdapter {
	return &RegistryAdapter{}
}
