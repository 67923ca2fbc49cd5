// Package types defines common types used across the application.
package types

import (
	"fmt"
	"sort"
	"strings"

	"netprofiler/internal/pkg/netaddr"
)

// AddressingMode selects how an interface obtains its IPv4 address.
type AddressingMode string

const (
	ModeDHCP   AddressingMode = "dhcp"
	ModeStatic AddressingMode = "static"
)

// StaticConfig represents static IPv4 configuration parameters.
type StaticConfig struct {
	Address string   `yaml:"address" json:"address"`                     // IP address in dotted decimal notation (e.g., "192.168.1.50")
	Netmask string   `yaml:"netmask" json:"netmask"`                     // Subnet mask in dotted decimal notation (e.g., "255.255.255.0")
	Gateway string   `yaml:"gateway,omitempty" json:"gateway,omitempty"` // Default gateway IP address (optional)
	DNS     []string `yaml:"dns" json:"dns"`                             // DNS servers in priority order, may be empty

	// Secondary holds further addresses on the same interface in prefix
	// notation ("10.0.0.3/24"). The primary address is not repeated here.
	Secondary []string `yaml:"secondary,omitempty" json:"secondary,omitempty"`
}

// Validate checks every field and returns a normalized copy: the netmask in
// dotted decimal and addresses in canonical form.
func (c StaticConfig) Validate() (StaticConfig, error) {
	ip, err := netaddr.ParseIPv4(c.Address)
	if err != nil {
		return StaticConfig{}, fmt.Errorf("address: %w", err)
	}
	if ip.IsUnspecified() || ip.IsMulticast() || ip.Equal([]byte{255, 255, 255, 255}) {
		return StaticConfig{}, fmt.Errorf("address: %s is not a unicast address", ip)
	}

	mask, err := netaddr.ParseMask(c.Netmask)
	if err != nil {
		return StaticConfig{}, fmt.Errorf("netmask: %w", err)
	}

	out := StaticConfig{
		Address: ip.String(),
		Netmask: netaddr.MaskString(mask),
		DNS:     []string{},
	}

	if strings.TrimSpace(c.Gateway) != "" {
		gw, err := netaddr.ParseIPv4(c.Gateway)
		if err != nil {
			return StaticConfig{}, fmt.Errorf("gateway: %w", err)
		}
		if !netaddr.SameSubnet(ip, gw, mask) {
			return StaticConfig{}, fmt.Errorf("gateway: %s is outside %s/%d", gw, ip.Mask(mask), netaddr.PrefixLength(mask))
		}
		out.Gateway = gw.String()
	}

	for _, server := range c.DNS {
		dns, err := netaddr.ParseIPv4(server)
		if err != nil {
			return StaticConfig{}, fmt.Errorf("dns: %w", err)
		}
		out.DNS = append(out.DNS, dns.String())
	}

	primary := netaddr.CIDRString(ip, mask)
	seen := map[string]bool{primary: true}
	for _, extra := range c.Secondary {
		sip, smask, err := netaddr.ParseCIDR(extra)
		if err != nil {
			return StaticConfig{}, fmt.Errorf("secondary: %w", err)
		}
		if sip.IsUnspecified() || sip.IsMulticast() {
			return StaticConfig{}, fmt.Errorf("secondary: %s is not a unicast address", sip)
		}
		if sip.Equal(ip) {
			return StaticConfig{}, fmt.Errorf("secondary: %s is the primary address", sip)
		}
		cidr := netaddr.CIDRString(sip, smask)
		if seen[cidr] {
			return StaticConfig{}, fmt.Errorf("secondary: %s is listed twice", cidr)
		}
		seen[cidr] = true
		out.Secondary = append(out.Secondary, cidr)
	}

	return out, nil
}

// Equal compares two configurations field by field. DNS servers and secondary
// addresses are compared as sets.
func (c StaticConfig) Equal(other StaticConfig) bool {
	return len(c.Diff(other)) == 0
}

// Diff lists the names of the fields that differ between c and other.
func (c StaticConfig) Diff(other StaticConfig) []string {
	var fields []string
	if c.Address != other.Address {
		fields = append(fields, "address")
	}
	if c.Netmask != other.Netmask {
		fields = append(fields, "netmask")
	}
	if c.Gateway != other.Gateway {
		fields = append(fields, "gateway")
	}
	if !sameSet(c.DNS, other.DNS) {
		fields = append(fields, "dns")
	}
	if !sameSet(c.Secondary, other.Secondary) {
		fields = append(fields, "secondary")
	}
	return fields
}

// Clone returns a deep copy.
func (c StaticConfig) Clone() StaticConfig {
	c.DNS = append([]string{}, c.DNS...)
	if c.Secondary != nil {
		c.Secondary = append([]string{}, c.Secondary...)
	}
	return c
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string{}, a...)
	y := append([]string{}, b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// AddressingState is the addressing configuration of one interface: either
// DHCP, or static with a fully valid StaticConfig.
type AddressingState struct {
	Mode   AddressingMode `json:"mode"`
	Static *StaticConfig  `json:"static,omitempty"`
}

// DHCPState returns the DHCP addressing state.
func DHCPState() AddressingState {
	return AddressingState{Mode: ModeDHCP}
}

// StaticState returns a static addressing state for cfg.
func StaticState(cfg StaticConfig) AddressingState {
	c := cfg.Clone()
	return AddressingState{Mode: ModeStatic, Static: &c}
}

// Validate enforces that exactly one of {DHCP without static fields, static
// with valid fields} holds, and returns the normalized state.
func (s AddressingState) Validate() (AddressingState, error) {
	switch s.Mode {
	case ModeDHCP:
		if s.Static != nil {
			return AddressingState{}, fmt.Errorf("dhcp mode must not carry static settings")
		}
		return DHCPState(), nil
	case ModeStatic:
		if s.Static == nil {
			return AddressingState{}, fmt.Errorf("static mode requires address and netmask")
		}
		cfg, err := s.Static.Validate()
		if err != nil {
			return AddressingState{}, err
		}
		return StaticState(cfg), nil
	default:
		return AddressingState{}, fmt.Errorf("unknown addressing mode %q", s.Mode)
	}
}

// Diff lists the fields in which actual differs from s.
func (s AddressingState) Diff(actual AddressingState) []string {
	if s.Mode != actual.Mode {
		return []string{"mode"}
	}
	if s.Mode != ModeStatic {
		return nil
	}
	if s.Static == nil || actual.Static == nil {
		if s.Static == actual.Static {
			return nil
		}
		return []string{"static"}
	}
	return s.Static.Diff(*actual.Static)
}

// String renders the state for log lines and CLI output.
func (s AddressingState) String() string {
	if s.Mode != ModeStatic || s.Static == nil {
		return string(s.Mode)
	}
	out := fmt.Sprintf("static %s/%s", s.Static.Address, s.Static.Netmask)
	if s.Static.Gateway != "" {
		out += " gw " + s.Static.Gateway
	}
	if len(s.Static.Secondary) > 0 {
		out += " +" + strings.Join(s.Static.Secondary, ",")
	}
	if len(s.Static.DNS) > 0 {
		out += " dns " + strings.Join(s.Static.DNS, ",")
	}
	return out
}
