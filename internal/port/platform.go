// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

//go:generate mockgen -source=platform.go -destination=../mock/platform.go -package=mock

import (
	"context"

	"netprofiler/internal/types"
)

// PlatformAdapter is the only component permitted to mutate live OS network
// configuration. Implementations are stateless per call and selected once at
// process start (Linux, Windows or Unsupported).
type PlatformAdapter interface {
	// Name identifies the backend, e.g. "linux".
	Name() string

	// CanonicalName returns the key under which the backend identifies an
	// interface: two names with the same canonical name are the same interface.
	CanonicalName(interfaceName string) string

	// ReadState reads the current addressing state of one interface.
	// It fails with an InterfaceNotFoundError if the name no longer resolves.
	ReadState(ctx context.Context, interfaceName string) (types.InterfaceSnapshot, error)

	// ApplyState makes the interface's addressing match target. Either the
	// whole target is in effect afterwards or an ApplyError is returned.
	ApplyState(ctx context.Context, interfaceName string, target types.AddressingState) error
}

// InterfaceInventory enumerates the host's network interfaces and their
// current addressing state. It never mutates.
type InterfaceInventory interface {
	// ListInterfaces returns every interface, including down ones.
	ListInterfaces(ctx context.Context) ([]types.InterfaceSnapshot, error)

	// Lookup returns the entry for one interface name.
	Lookup(ctx context.Context, interfaceName string) (types.InterfaceSnapshot, error)

	// Suggest returns the interfaces a profile's match hint selects.
	Suggest(ctx context.Context, hint *types.MatchHint) ([]types.InterfaceSnapshot, error)
}

// LinkLister enumerates OS network links without addressing detail.
type LinkLister interface {
	ListLinks(ctx context.Context) ([]types.Link, error)
}

// ApplyRecorder receives the result of every finished apply or revert.
type ApplyRecorder interface {
	Record(ctx context.Context, result *types.ApplyResult) error
}

// PrivilegeChecker reports whether the process may change interface addressing.
type PrivilegeChecker func() bool
