// Package unsupported is the PlatformAdapter for hosts without a backend.
// Every call fails with an UnsupportedPlatformError.
package unsupported

import (
	"context"

	"netprofiler/internal/port"
	"netprofiler/internal/types"
)

// Name is the backend identifier.
const Name = "unsupported"

// Backend rejects every operation.
type Backend struct {
	goos string
}

// Ensure Backend implements the PlatformAdapter port
var _ port.PlatformAdapter = (*Backend)(nil)

// NewBackend creates the backend for goos.
func NewBackend(goos string) *Backend {
	return &Backend{goos: goos}
}

// Name returns "unsupported".
func (b *Backend) Name() string {
	return Name
}

func (b *Backend) CanonicalName(interfaceName string) string {
	return interfaceName
}

// ReadState always fails.
func (b *Backend) ReadState(ctx context.Context, interfaceName string) (types.InterfaceSnapshot, error) {
	return types.InterfaceSnapshot{}, types.NewUnsupportedPlatformError(b.goos)
}

// ApplyState always fails.
func (b *Backend) ApplyState(ctx context.Context, interfaceName string, target types.AddressingState) error {
	return types.NewUnsupportedPlatformError(b.goos)
}
