// Package platform selects the PlatformAdapter for the host OS once at start up.
package platform

import (
	"runtime"
	"time"

	"netprofiler/internal/adapter/dhcp"
	"netprofiler/internal/adapter/infrastructure/command"
	dhcpclient "netprofiler/internal/adapter/infrastructure/dhcp"
	"netprofiler/internal/adapter/infrastructure/file"
	"netprofiler/internal/adapter/infrastructure/links"
	"netprofiler/internal/adapter/infrastructure/network"
	"netprofiler/internal/adapter/infrastructure/winreg"
	"netprofiler/internal/adapter/linux"
	"netprofiler/internal/adapter/unsupported"
	"netprofiler/internal/adapter/windows"
	"netprofiler/internal/pkg/config"
	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/port"
)

// Deps are the infrastructure adapters the backends are built from.
type Deps struct {
	NetworkManager  port.NetworkManager
	DHCPClient      port.DHCPClient
	FileManager     port.FileManager
	CommandExecutor port.CommandExecutor
	Registry        port.Registry
	LinkLister      port.LinkLister
	Linux           linux.Options
}

// DefaultDeps builds the real infrastructure adapters configured from cfg.
func DefaultDeps(cfg *config.Config) Deps {
	return Deps{
		NetworkManager:  network.NewManagerAdapter(),
		DHCPClient:      dhcpclient.NewClientAdapter(),
		FileManager:     file.NewManagerAdapter(),
		CommandExecutor: command.NewExecutorAdapter(),
		Registry:        winreg.NewRegistryAdapter(),
		LinkLister:      links.NewListerAdapter(),
		Linux: linux.Options{
			ResolvConf: cfg.Linux.ResolvConf,
			DHCP: dhcp.Options{
				Timeout:    cfg.DHCP.Timeout,
				Attempts:   cfg.DHCP.Attempts,
				RetryDelay: 2 * time.Second,
			},
		},
	}
}

// New returns the backend for goos.
func New(goos string, deps Deps) port.PlatformAdapter {
	var adapter port.PlatformAdapter
	switch goos {
	case "linux":
		adapter = linux.NewBackend(deps.NetworkManager, deps.DHCPClient, deps.FileManager, deps.Linux)
	case "windows":
		adapter = windows.NewBackend(deps.Registry, deps.CommandExecutor, deps.LinkLister)
	default:
		adapter = unsupported.NewBackend(goos)
	}
	logging.WithComponent("platform").WithField("backend", adapter.Name()).Debug("Platform backend selected")
	return adapter
}

// ForHost returns the backend for the running OS.
func ForHost(cfg *config.Config) port.PlatformAdapter {
	return New(runtime.GOOS, DefaultDeps(cfg))
}
