// Package resolv manages DNS servers on Linux by taking ownership of
// resolv.conf for one interface at a time.
package resolv

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/port"
)

const headerPrefix = "# Generated by netprofiler for "

// BackupSuffix is appended to the resolv.conf path for the pre-ownership copy.
const BackupSuffix = ".netprofiler.bak"

// Manager owns resolv.conf on behalf of one interface. The original file is
// kept next to it and restored on release.
type Manager struct {
	fileMgr port.FileManager
	path    string
}

// NewManager creates a resolv.conf manager for path.
func NewManager(fileMgr port.FileManager, path string) *Manager {
	return &Manager{fileMgr: fileMgr, path: path}
}

// Path returns the managed resolv.conf path.
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) backupPath() string {
	return m.path + BackupSuffix
}

// Owner returns the interface that currently owns resolv.conf, if any.
func (m *Manager) Owner() (string, bool) {
	data, err := m.fileMgr.ReadFile(m.path)
	if err != nil {
		return "", false
	}
	return parseOwner(data)
}

func parseOwner(data []byte) (string, bool) {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	s := strings.TrimSpace(string(line))
	if !strings.HasPrefix(s, headerPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(s, headerPrefix)), true
}

// Nameservers returns the servers written for iface. ok is false when
// resolv.conf is not owned by iface; DNS is then unknown for that interface.
func (m *Manager) Nameservers(iface string) (servers []string, ok bool) {
	data, err := m.fileMgr.ReadFile(m.path)
	if err != nil {
		return nil, false
	}
	if owner, owned := parseOwner(data); !owned || owner != iface {
		return nil, false
	}
	return parseNameservers(data), true
}

func parseNameservers(data []byte) []string {
	servers := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "nameserver" {
			servers = append(servers, fields[1])
		}
	}
	return servers
}

// Set writes servers for iface, backing up a foreign resolv.conf first.
// An empty list releases ownership instead.
func (m *Manager) Set(iface string, servers []string) error {
	if len(servers) == 0 {
		return m.Release(iface)
	}
	logger := logging.WithComponentAndInterface("resolv", iface)

	newContent := render(iface, servers)

	current, err := m.fileMgr.ReadFile(m.path)
	exists := err == nil
	if exists && bytes.Equal(current, newContent) {
		logger.Debug("DNS configuration already up to date, skipping")
		return nil
	}

	if _, owned := parseOwner(current); !owned && !m.hasBackup() {
		if err := m.backup(current, exists); err != nil {
			return err
		}
	}

	if err := m.fileMgr.WriteFile(m.path, newContent, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.path, err)
	}

	logger.WithField("dns_servers", strings.Join(servers, ", ")).Info("Updated resolv.conf with DNS servers")
	return nil
}

// Release restores the backed up resolv.conf when iface owns it. A file owned
// by another interface, or not by netprofiler at all, is left untouched.
func (m *Manager) Release(iface string) error {
	logger := logging.WithComponentAndInterface("resolv", iface)

	owner, owned := m.Owner()
	if !owned || owner != iface {
		return nil
	}

	target, err := m.fileMgr.LinkTarget(m.backupPath())
	if err != nil {
		return fmt.Errorf("failed to inspect backup of %s: %w", m.path, err)
	}
	if target != "" {
		if err := m.fileMgr.Symlink(target, m.path); err != nil {
			return fmt.Errorf("failed to restore %s: %w", m.path, err)
		}
		if err := m.fileMgr.Remove(m.backupPath()); err != nil {
			return fmt.Errorf("failed to remove backup of %s: %w", m.path, err)
		}
		logger.WithField("target", target).Info("Restored resolv.conf symlink")
		return nil
	}

	if !m.fileMgr.FileExists(m.backupPath()) {
		if err := m.fileMgr.Remove(m.path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", m.path, err)
		}
		logger.Info("Removed generated resolv.conf")
		return nil
	}

	backup, err := m.fileMgr.ReadFile(m.backupPath())
	if err != nil {
		return fmt.Errorf("failed to read backup of %s: %w", m.path, err)
	}
	if err := m.fileMgr.WriteFile(m.path, backup, 0644); err != nil {
		return fmt.Errorf("failed to restore %s: %w", m.path, err)
	}
	if err := m.fileMgr.Remove(m.backupPath()); err != nil {
		return fmt.Errorf("failed to remove backup of %s: %w", m.path, err)
	}

	logger.Info("Restored original resolv.conf")
	return nil
}

// hasBackup reports whether a backup exists, including a backup symlink
// whose target is currently missing.
func (m *Manager) hasBackup() bool {
	if m.fileMgr.FileExists(m.backupPath()) {
		return true
	}
	target, err := m.fileMgr.LinkTarget(m.backupPath())
	return err == nil && target != ""
}

// backup preserves the host's resolv.conf. A symlink, as installed by
// systemd-resolved, is kept as a symlink so that releasing points the host
// back at its resolver instead of a stale copy.
func (m *Manager) backup(current []byte, exists bool) error {
	logger := logging.WithComponent("resolv").WithField("backup", m.backupPath())

	target, err := m.fileMgr.LinkTarget(m.path)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", m.path, err)
	}
	switch {
	case target != "":
		if err := m.fileMgr.Symlink(target, m.backupPath()); err != nil {
			return fmt.Errorf("failed to back up %s: %w", m.path, err)
		}
		logger.WithField("target", target).Debug("Backed up resolv.conf symlink")
	case exists:
		if err := m.fileMgr.WriteFile(m.backupPath(), current, 0644); err != nil {
			return fmt.Errorf("failed to back up %s: %w", m.path, err)
		}
		logger.Debug("Backed up resolv.conf")
	}
	return nil
}

func render(iface string, servers []string) []byte {
	var b bytes.Buffer
	b.WriteString(headerPrefix + iface + "\n")
	for _, s := range servers {
		fmt.Fprintf(&b, "nameserver %s\n", s)
	}
	return b.Bytes()
}
