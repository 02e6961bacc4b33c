package middleware

import (
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nashr/pkg/config"
)

func TestRemoteAddrExtractor(t *testing.T) {
	extractor := &RemoteAddrExtractor{}

	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"IPv4 with port", "192.168.1.1:54321", "192.168.1.1"},
		{"IPv4 without port", "127.0.0.1", "127.0.0.1"},
		{"IPv6 with port", "[::1]:8080", "::1"},
		{"IPv6 full address", "[2001:db8::1]:443", "2001:db8::1"},
		{"IPv6 bracketed without port", "[2001:db8::1]", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/run", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("X-Forwarded-For", "1.2.3.4")

			ip, err := extractor.ExtractIP(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ip)
		})
	}

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/run", nil)
		req.RemoteAddr = "not-an-address"
		_, err := extractor.ExtractIP(req)
		assert.Error(t, err)
	})
}

func TestTrustedProxyExtractor(t *testing.T) {
	extractor := NewTrustedProxyExtractor(TrustedProxyConfig{
		Enabled: true,
		AllowedCIDRs: []netip.Prefix{
			netip.MustParsePrefix("10.0.0.0/8"),
			netip.MustParsePrefix("2001:db8::/32"),
		},
	})

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		want       string
	}{
		{name: "trusted proxy with XFF", remoteAddr: "10.0.0.5:54321", xff: "203.0.113.7", want: "203.0.113.7"},
		{name: "first hop of XFF chain", remoteAddr: "10.0.0.5:54321", xff: "203.0.113.7, 10.0.0.9, 10.0.0.5", want: "203.0.113.7"},
		{name: "XFF wins over X-Real-IP", remoteAddr: "10.0.0.5:54321", xff: "203.0.113.7", xRealIP: "198.51.100.1", want: "203.0.113.7"},
		{name: "X-Real-IP fallback", remoteAddr: "10.0.0.5:54321", xRealIP: "198.51.100.1", want: "198.51.100.1"},
		{name: "invalid XFF falls to X-Real-IP", remoteAddr: "10.0.0.5:54321", xff: "garbage, 1.1.1.1", xRealIP: "198.51.100.1", want: "198.51.100.1"},
		{name: "invalid headers fall to RemoteAddr", remoteAddr: "10.0.0.5:54321", xff: "garbage", xRealIP: "also-garbage", want: "10.0.0.5"},
		{name: "no headers", remoteAddr: "10.0.0.5:54321", want: "10.0.0.5"},
		{name: "untrusted peer ignores XFF", remoteAddr: "203.0.113.50:1234", xff: "1.2.3.4", want: "203.0.113.50"},
		{name: "untrusted peer ignores X-Real-IP", remoteAddr: "203.0.113.50:1234", xRealIP: "1.2.3.4", want: "203.0.113.50"},
		{name: "IPv6 trusted proxy", remoteAddr: "[2001:db8::10]:443", xff: "2001:db8:ffff::1", want: "2001:db8:ffff::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/run", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			ip, err := extractor.ExtractIP(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ip)
		})
	}
}

func TestTrustedProxyExtractor_Disabled(t *testing.T) {
	extractor := NewTrustedProxyExtractor(TrustedProxyConfig{
		AllowedCIDRs: []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")},
	})
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "10.0.0.5:1"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")

	ip, err := extractor.ExtractIP(req)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", ip)
}

func TestNewTrustedProxyConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.UsageConfig
		want    []netip.Prefix
		enabled bool
		wantErr string
	}{
		{name: "nil config", cfg: nil},
		{name: "trust disabled ignores list", cfg: &config.UsageConfig{TrustedProxies: []string{"10.0.0.0/8"}}},
		{
			name:    "single IPv4 becomes /32",
			cfg:     &config.UsageConfig{TrustProxy: true, TrustedProxies: []string{"192.168.1.1"}},
			enabled: true,
			want:    []netip.Prefix{netip.MustParsePrefix("192.168.1.1/32")},
		},
		{
			name:    "single IPv6 becomes /128",
			cfg:     &config.UsageConfig{TrustProxy: true, TrustedProxies: []string{"2001:db8::1"}},
			enabled: true,
			want:    []netip.Prefix{netip.MustParsePrefix("2001:db8::1/128")},
		},
		{
			name:    "CIDRs are masked and blanks skipped",
			cfg:     &config.UsageConfig{TrustProxy: true, TrustedProxies: []string{"10.1.2.3/8", " ", "172.16.0.0/12"}},
			enabled: true,
			want:    []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("172.16.0.0/12")},
		},
		{
			name:    "enabled without proxies",
			cfg:     &config.UsageConfig{TrustProxy: true},
			wantErr: "RATE_LIMIT_TRUSTED_PROXIES is empty",
		},
		{
			name:    "invalid entry",
			cfg:     &config.UsageConfig{TrustProxy: true, TrustedProxies: []string{"10.0.0.0/99"}},
			wantErr: "invalid IP or CIDR format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := NewTrustedProxyConfig(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.enabled, tp.Enabled)
			assert.Equal(t, tt.want, tp.AllowedCIDRs)
		})
	}
}

func TestTrustedProxyConfig_IsTrusted(t *testing.T) {
	tp := &TrustedProxyConfig{
		Enabled: true,
		AllowedCIDRs: []netip.Prefix{
			netip.MustParsePrefix("10.0.0.0/8"),
			netip.MustParsePrefix("192.168.1.1/32"),
		},
	}

	assert.True(t, tp.IsTrusted("10.20.30.40:80"))
	assert.True(t, tp.IsTrusted("192.168.1.1"))
	assert.True(t, tp.IsTrusted("[::ffff:10.0.0.1]:80"))
	assert.False(t, tp.IsTrusted("192.168.1.2:80"))
	assert.False(t, tp.IsTrusted("garbage"))
}

func TestNewIPExtractor(t *testing.T) {
	e, err := NewIPExtractor(&config.UsageConfig{})
	require.NoError(t, err)
	assert.IsType(t, &RemoteAddrExtractor{}, e)

	e, err = NewIPExtractor(&config.UsageConfig{TrustProxy: true, TrustedProxies: []string{"10.0.0.0/8"}})
	require.NoError(t, err)
	assert.IsType(t, &TrustedProxyExtractor{}, e)

	_, err = NewIPExtractor(&config.UsageConfig{TrustProxy: true})
	assert.Error(t, err)
}

func TestParseFirstIP(t *testing.T) {
	assert.Equal(t, "192.168.1.1", parseFirstIP("192.168.1.1, 10.0.0.1"))
	assert.Equal(t, "2001:db8::1", parseFirstIP(" 2001:db8::1 ,10.0.0.1"))
	assert.Equal(t, "", parseFirstIP("invalid, 10.0.0.1"))
	assert.Equal(t, "", parseFirstIP(""))
}
