// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

//go:generate mockgen -source=infrastructure.go -destination=../mock/infrastructure.go -package=mock

import (
	"context"
	"errors"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/vishvananda/netlink"
)

// ErrAccessDenied is wrapped by infrastructure adapters when the OS refuses
// an operation for lack of privilege.
var ErrAccessDenied = errors.New("access denied")

// ErrLinkNotFound is wrapped by infrastructure adapters when an interface
// name does not resolve to a link.
var ErrLinkNotFound = errors.New("link not found")

// ErrNotSupported is returned by infrastructure adapters on hosts they cannot serve.
var ErrNotSupported = errors.New("not supported on this platform")

// DHCPClient is a port for DHCP client operations.
// This interface abstracts DHCP lease acquisition.
type DHCPClient interface {
	// RequestLease performs DHCP DISCOVER/OFFER/REQUEST/ACK sequence
	RequestLease(ctx context.Context, interfaceName string, timeout time.Duration) (*dhcpv4.DHCPv4, error)
}

// NetworkManager is a port for network interface operations.
// This interface abstracts netlink operations for network configuration.
type NetworkManager interface {
	// GetLinkByName returns a network link by interface name
	GetLinkByName(interfaceName string) (netlink.Link, error)

	// ListAddresses returns IPv4 addresses configured on the link
	ListAddresses(link netlink.Link) ([]netlink.Addr, error)

	// AddAddress adds an IP address to the interface
	AddAddress(link netlink.Link, addr *netlink.Addr) error

	// DeleteAddress removes an IP address from the interface
	DeleteAddress(link netlink.Link, addr *netlink.Addr) error

	// ListRoutes returns IPv4 routes bound to the link
	ListRoutes(link netlink.Link) ([]netlink.Route, error)

	// AddRoute adds a route
	AddRoute(route *netlink.Route) error

	// DeleteRoute removes a route
	DeleteRoute(route *netlink.Route) error

	// SetLinkUp brings the link administratively up
	SetLinkUp(link netlink.Link) error
}

// FileManager is a port for file system operations.
// This interface abstracts file read/write operations.
type FileManager interface {
	// ReadFile reads the contents of a file
	ReadFile(filename string) ([]byte, error)

	// WriteFile atomically replaces a file with data and the given permissions
	WriteFile(filename string, data []byte, perm int) error

	// FileExists checks if a file exists
	FileExists(filename string) bool

	// Remove deletes a file; a missing file is not an error
	Remove(filename string) error

	// LinkTarget returns the target of a symbolic link, or "" when filename
	// is not a link or does not exist
	LinkTarget(filename string) (string, error)

	// Symlink atomically replaces filename with a symbolic link to target
	Symlink(target, filename string) error
}

// CommandExecutor is a port for running system commands.
type CommandExecutor interface {
	// Execute runs the command and returns its standard output
	Execute(ctx context.Context, command string, args ...string) ([]byte, error)
}

// Registry is a port for reading and writing values under HKEY_LOCAL_MACHINE.
type Registry interface {
	// SubKeyNames lists the sub keys of path
	SubKeyNames(path string) ([]string, error)

	// GetString reads a REG_SZ value
	GetString(path, name string) (string, error)

	// GetStrings reads a REG_MULTI_SZ value
	GetStrings(path, name string) ([]string, error)

	// GetInteger reads a REG_DWORD value
	GetInteger(path, name string) (uint64, error)

	// SetString writes a REG_SZ value
	SetString(path, name, value string) error

	// SetStrings writes a REG_MULTI_SZ value
	SetStrings(path, name string, values []string) error

	// SetDWord writes a REG_DWORD value
	SetDWord(path, name string, value uint32) error
}

// ErrRegistryValueNotFound is returned by Registry getters for missing values.
var ErrRegistryValueNotFound = errors.New("registry value not found")
