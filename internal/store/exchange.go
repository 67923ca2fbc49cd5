package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/pkg/netaddr"
	"netprofiler/internal/types"
)

// ExchangeExtension is the file extension of exported profile files.
const ExchangeExtension = ".nprf"

// legacyProfile is the exchange shape written by earlier releases.
type legacyProfile struct {
	Name     string          `json:"name"`
	IPs      []legacyIP      `json:"ips"`
	Gateways []string        `json:"gateways"`
	DNS      json.RawMessage `json:"dns"`
	MAC      *struct {
		Address string `json:"address"`
	} `json:"mac"`
}

type legacyIP struct {
	Address string `json:"address"`
	Subnet  string `json:"subnet"`
}

type legacyCustomDNS struct {
	Custom *struct {
		Primary   string `json:"primary"`
		Secondary string `json:"secondary"`
	} `json:"Custom"`
}

// Export writes profiles as a JSON array to path, forcing the .nprf
// extension, and returns the path written.
func (s *Store) Export(path string, profiles []types.NetworkProfile) (string, error) {
	if filepath.Ext(path) != ExchangeExtension {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ExchangeExtension
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode profiles: %w", err)
	}
	if err := s.files.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to export profiles: %w", err)
	}

	logging.WithComponent("store").WithField("path", path).WithField("count", len(profiles)).Info("Profiles exported")
	return path, nil
}

// Import reads an exchange file and adds its profiles to the mapping. Every
// imported profile gets a fresh id; a clashing name gets a numeric suffix.
// Entries that do not validate are skipped.
func (s *Store) Import(path string) ([]types.NetworkProfile, error) {
	data, err := s.files.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to import profiles: %w", err)
	}

	parsed, err := ParseExchange(data)
	if err != nil {
		return nil, types.NewValidationError(fmt.Sprintf("cannot import %s", path), err)
	}

	logger := logging.WithComponent("store")

	s.mu.Lock()
	defer s.mu.Unlock()

	imported := make([]types.NetworkProfile, 0, len(parsed))
	for _, p := range parsed {
		valid, err := p.Validate()
		if err != nil {
			logger.WithField("profile", p.Name).WithError(err).Warn("Skipping invalid imported profile")
			continue
		}
		valid.Name = s.uniqueName(valid.Name)
		valid.ID = s.newID()
		s.profiles[valid.ID] = valid
		imported = append(imported, valid.Clone())
	}

	logger.WithField("path", path).WithField("count", len(imported)).Info("Profiles imported")
	return imported, nil
}

func (s *Store) uniqueName(name string) string {
	if !s.nameTaken(name, "") {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !s.nameTaken(candidate, "") {
			return candidate
		}
	}
}

// ParseExchange decodes a JSON array of profiles in either the current or
// the legacy shape. Ids are not preserved.
func ParseExchange(data []byte) ([]types.NetworkProfile, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("not a profile list: %w", err)
	}

	profiles := make([]types.NetworkProfile, 0, len(entries))
	for i, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		var (
			p   types.NetworkProfile
			err error
		)
		if isLegacy(fields) {
			p, err = parseLegacy(entry)
		} else {
			err = json.Unmarshal(entry, &p)
			inferMode(&p)
		}
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		p.ID = ""
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func isLegacy(fields map[string]json.RawMessage) bool {
	if _, ok := fields["mode"]; ok {
		return false
	}
	for _, key := range []string{"ips", "gateways", "mac"} {
		if _, ok := fields[key]; ok {
			return true
		}
	}
	if raw, ok := fields["dns"]; ok {
		return bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) || bytes.Contains(raw, []byte(`"Custom"`))
	}
	return false
}

// parseLegacy converts the legacy shape: the first address is the primary and
// further ones become secondary addresses, presets are expanded and a profile
// without addresses becomes DHCP. Only one gateway is kept.
func parseLegacy(data []byte) (types.NetworkProfile, error) {
	var lp legacyProfile
	if err := json.Unmarshal(data, &lp); err != nil {
		return types.NetworkProfile{}, err
	}

	p := types.NetworkProfile{Name: lp.Name, Mode: types.ModeDHCP}
	if lp.MAC != nil && strings.TrimSpace(lp.MAC.Address) != "" {
		p.Match = &types.MatchHint{HardwareAddress: lp.MAC.Address}
	}
	if len(lp.IPs) == 0 {
		return p, nil
	}

	dns, err := legacyDNS(lp.DNS)
	if err != nil {
		return types.NetworkProfile{}, err
	}

	netmask, err := netaddr.NormalizeMask(lp.IPs[0].Subnet)
	if err != nil {
		return types.NetworkProfile{}, err
	}
	cfg := &types.StaticConfig{Address: lp.IPs[0].Address, Netmask: netmask, DNS: dns}
	for _, extra := range lp.IPs[1:] {
		mask, err := netaddr.NormalizeMask(extra.Subnet)
		if err != nil {
			return types.NetworkProfile{}, err
		}
		cfg.Secondary = append(cfg.Secondary, strings.TrimSpace(extra.Address)+"/"+mask)
	}
	if len(lp.Gateways) > 0 {
		cfg.Gateway = lp.Gateways[0]
	}
	if len(lp.Gateways) > 1 {
		logging.WithComponent("store").
			WithField("profile", lp.Name).
			WithField("kept", lp.Gateways[0]).
			WithField("dropped", strings.Join(lp.Gateways[1:], ",")).
			Warn("Legacy profile lists several gateways, only the first is imported")
	}
	p.Mode = types.ModeStatic
	p.Static = cfg
	return p, nil
}

func legacyDNS(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}, nil
	}

	var preset string
	if err := json.Unmarshal(raw, &preset); err == nil {
		if strings.EqualFold(preset, "None") {
			return []string{}, nil
		}
		return types.DNSPreset(preset)
	}

	var custom legacyCustomDNS
	if err := json.Unmarshal(raw, &custom); err != nil || custom.Custom == nil {
		return nil, fmt.Errorf("unrecognized dns setting %s", raw)
	}
	servers := []string{}
	for _, server := range []string{custom.Custom.Primary, custom.Custom.Secondary} {
		if strings.TrimSpace(server) != "" {
			servers = append(servers, strings.TrimSpace(server))
		}
	}
	return servers, nil
}
