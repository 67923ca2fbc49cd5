package types

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"netprofiler/internal/pkg/netaddr"
)

// NetworkProfile is a named, persisted declaration of the addressing an
// interface should have.
type NetworkProfile struct {
	ID     string         `yaml:"id" json:"id"`
	Name   string         `yaml:"name" json:"name"`
	Mode   AddressingMode `yaml:"mode" json:"mode"`
	Static *StaticConfig  `yaml:"static,omitempty" json:"static,omitempty"`
	Match  *MatchHint     `yaml:"match,omitempty" json:"match,omitempty"`
}

// MatchHint describes which interfaces a profile is meant for.
type MatchHint struct {
	NamePattern     string `yaml:"name_pattern,omitempty" json:"name_pattern,omitempty"`         // shell glob, e.g. "enp*"
	HardwareAddress string `yaml:"hardware_address,omitempty" json:"hardware_address,omitempty"` // colon separated hex
}

// Target returns the addressing state the profile declares.
func (p NetworkProfile) Target() AddressingState {
	if p.Mode == ModeStatic && p.Static != nil {
		return StaticState(*p.Static)
	}
	return AddressingState{Mode: p.Mode, Static: p.Static}
}

// Validate checks the profile invariants and returns a normalized copy.
func (p NetworkProfile) Validate() (NetworkProfile, error) {
	out := p
	out.Name = strings.TrimSpace(p.Name)
	if out.Name == "" {
		return NetworkProfile{}, NewValidationError("profile name is required", nil)
	}

	state, err := AddressingState{Mode: p.Mode, Static: p.Static}.Validate()
	if err != nil {
		return NetworkProfile{}, NewValidationError(fmt.Sprintf("profile %q", out.Name), err)
	}
	out.Mode = state.Mode
	out.Static = state.Static

	if p.Match != nil {
		hint, err := p.Match.Validate()
		if err != nil {
			return NetworkProfile{}, NewValidationError(fmt.Sprintf("profile %q", out.Name), err)
		}
		out.Match = hint
	}

	return out, nil
}

// Clone returns a deep copy of the profile.
func (p NetworkProfile) Clone() NetworkProfile {
	if p.Static != nil {
		s := p.Static.Clone()
		p.Static = &s
	}
	if p.Match != nil {
		m := *p.Match
		p.Match = &m
	}
	return p
}

// Validate normalizes the hint; an empty hint becomes nil.
func (h MatchHint) Validate() (*MatchHint, error) {
	out := MatchHint{NamePattern: strings.TrimSpace(h.NamePattern)}
	if out.NamePattern != "" {
		if _, err := path.Match(out.NamePattern, ""); err != nil {
			return nil, fmt.Errorf("match name pattern %q: %w", out.NamePattern, err)
		}
	}
	if strings.TrimSpace(h.HardwareAddress) != "" {
		mac, err := netaddr.NormalizeMAC(h.HardwareAddress)
		if err != nil {
			return nil, fmt.Errorf("match: %w", err)
		}
		out.HardwareAddress = mac
	}
	if out.NamePattern == "" && out.HardwareAddress == "" {
		return nil, nil
	}
	return &out, nil
}

// Matches reports whether the interface satisfies every criterion of the hint.
func (h MatchHint) Matches(name, hardwareAddress string) bool {
	if h.NamePattern != "" {
		ok, err := path.Match(h.NamePattern, name)
		if err != nil || !ok {
			return false
		}
	}
	if h.HardwareAddress != "" && !strings.EqualFold(h.HardwareAddress, hardwareAddress) {
		return false
	}
	return true
}

// DNS server pairs of the well-known public resolvers.
var DNSPresets = map[string][]string{
	"quad9":      {"9.9.9.9", "149.112.112.112"},
	"google":     {"8.8.8.8", "8.8.4.4"},
	"cloudflare": {"1.1.1.2", "1.0.0.2"},
	"opendns":    {"208.67.222.222", "208.67.220.220"},
}

// DNSPreset returns the servers of a named preset (case-insensitive).
func DNSPreset(name string) ([]string, error) {
	servers, ok := DNSPresets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("unknown DNS preset %q (known: %s)", name, strings.Join(DNSPresetNames(), ", ")), nil)
	}
	return append([]string{}, servers...), nil
}

// DNSPresetNames lists the preset names in sorted order.
func DNSPresetNames() []string {
	names := make([]string, 0, len(DNSPresets))
	for name := range DNSPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
