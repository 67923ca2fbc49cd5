// Package netaddr holds the IPv4 address and subnet mask helpers shared by the
// profile model and the platform backends.
package netaddr

import (
	"fmt"
	"math/bits"
	"net"
	"strconv"
	"strings"
)

// ParseIPv4 parses a dotted-decimal IPv4 address.
func ParseIPv4(s string) (net.IP, error) {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address: %q", s)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("only IPv4 addresses are supported: %q", s)
	}
	return ip4, nil
}

// ParseMask accepts a subnet mask in dotted decimal ("255.255.255.0") or CIDR
// prefix notation ("/24" or "24") and returns it as an IPv4 mask.
// Non-contiguous masks are rejected.
func ParseMask(s string) (net.IPMask, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("netmask is required")
	}

	if prefix := strings.TrimPrefix(s, "/"); !strings.Contains(prefix, ".") {
		n, err := strconv.Atoi(prefix)
		if err != nil || n < 0 || n > 32 {
			return nil, fmt.Errorf("invalid CIDR prefix: %q", s)
		}
		return net.CIDRMask(n, 32), nil
	}

	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("invalid netmask: %q", s)
	}
	mask := net.IPMask(ip.To4())
	if _, b := mask.Size(); b == 0 {
		return nil, fmt.Errorf("netmask is not contiguous: %q", s)
	}
	return mask, nil
}

// MaskString renders an IPv4 mask in dotted decimal.
func MaskString(mask net.IPMask) string {
	if len(mask) != net.IPv4len {
		mask = mask[len(mask)-net.IPv4len:]
	}
	return net.IP(mask).String()
}

// NormalizeMask converts any accepted mask notation to dotted decimal.
func NormalizeMask(s string) (string, error) {
	mask, err := ParseMask(s)
	if err != nil {
		return "", err
	}
	return MaskString(mask), nil
}

// PrefixLength returns the number of leading one bits of a contiguous mask.
func PrefixLength(mask net.IPMask) int {
	ones := 0
	for _, b := range mask {
		ones += bits.OnesCount8(b)
	}
	return ones
}

// SameSubnet reports whether a and b fall inside the same network under mask.
func SameSubnet(a, b net.IP, mask net.IPMask) bool {
	return a.To4().Mask(mask).Equal(b.To4().Mask(mask))
}

// ParseCIDR parses an IPv4 address with its mask, written as "10.0.0.3/24" or
// "10.0.0.3/255.255.255.0".
func ParseCIDR(s string) (net.IP, net.IPMask, error) {
	addr, maskPart, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return nil, nil, fmt.Errorf("address %q has no mask", s)
	}
	ip, err := ParseIPv4(addr)
	if err != nil {
		return nil, nil, err
	}
	mask, err := ParseMask(maskPart)
	if err != nil {
		return nil, nil, err
	}
	return ip, mask, nil
}

// CIDRString renders ip and mask in prefix notation.
func CIDRString(ip net.IP, mask net.IPMask) string {
	return fmt.Sprintf("%s/%d", ip.To4(), PrefixLength(mask))
}

// NormalizeMAC lowercases a hardware address and renders it colon separated.
// Windows-style dash separators are accepted.
func NormalizeMAC(s string) (string, error) {
	hw, err := net.ParseMAC(strings.ReplaceAll(strings.TrimSpace(s), "-", ":"))
	if err != nil {
		return "", fmt.Errorf("invalid hardware address: %q", s)
	}
	return hw.String(), nil
}
