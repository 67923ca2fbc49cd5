//go:build unit

package netaddr

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMask(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"255.255.255.0", "255.255.255.0", false},
		{"/24", "255.255.255.0", false},
		{"16", "255.255.0.0", false},
		{" /30 ", "255.255.255.252", false},
		{"0", "0.0.0.0", false},
		{"/33", "", true},
		{"255.0.255.0", "", true},
		{"", "", true},
		{"abc", "", true},
		{"ffff::", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeMask(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIPv4(t *testing.T) {
	ip, err := ParseIPv4(" 192.168.1.50 ")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.50", ip.String())
	assert.Len(t, ip, net.IPv4len)

	_, err = ParseIPv4("fe80::1")
	assert.Error(t, err)
	_, err = ParseIPv4("192.168.1")
	assert.Error(t, err)
}

func TestSubnetHelpers(t *testing.T) {
	mask, err := ParseMask("/24")
	require.NoError(t, err)
	assert.Equal(t, 24, PrefixLength(mask))

	assert.True(t, SameSubnet(net.ParseIP("192.168.1.50"), net.ParseIP("192.168.1.1"), mask))
	assert.False(t, SameSubnet(net.ParseIP("192.168.1.50"), net.ParseIP("192.168.2.1"), mask))

	assert.Equal(t, "255.255.255.0", MaskString(net.CIDRMask(24, 32)))
}

func TestParseCIDR(t *testing.T) {
	for _, in := range []string{"10.0.0.3/24", " 10.0.0.3/255.255.255.0"} {
		ip, mask, err := ParseCIDR(in)
		require.NoError(t, err, in)
		assert.Equal(t, "10.0.0.3/24", CIDRString(ip, mask))
	}

	for _, in := range []string{"10.0.0.3", "10.0.0.3/33", "fe80::1/64", "/24"} {
		_, _, err := ParseCIDR(in)
		assert.Error(t, err, in)
	}
}

func TestNormalizeMAC(t *testing.T) {
	got, err := NormalizeMAC("00-1A-2B-3C-4D-5E")
	require.NoError(t, err)
	assert.Equal(t, "00:1a:2b:3c:4d:5e", got)

	_, err = NormalizeMAC("00:1a:2b")
	assert.Error(t, err)
}
