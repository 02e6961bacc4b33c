package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearUsageEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"USAGE_DAILY_LIMIT", "USAGE_STORE", "USAGE_MAX_KEYS", "USAGE_PURGE_CRON",
		"REDIS_URL", "DATABASE_URL", "RATE_LIMIT_TRUST_PROXY", "RATE_LIMIT_TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadUsageConfig_Defaults(t *testing.T) {
	clearUsageEnv(t)

	cfg, err := LoadUsageConfig()
	require.NoError(t, err)

	assert.False(t, cfg.Enabled())
	assert.Equal(t, UsageStoreMemory, cfg.Store)
	assert.Equal(t, 10000, cfg.MaxKeys)
	assert.Equal(t, "@daily", cfg.PurgeCron)
	assert.False(t, cfg.TrustProxy)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadUsageConfig_Custom(t *testing.T) {
	clearUsageEnv(t)
	t.Setenv("USAGE_DAILY_LIMIT", "20")
	t.Setenv("USAGE_STORE", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("USAGE_PURGE_CRON", "0 3 * * *")
	t.Setenv("RATE_LIMIT_TRUST_PROXY", "true")
	t.Setenv("RATE_LIMIT_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")

	cfg, err := LoadUsageConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Enabled())
	assert.Equal(t, 20, cfg.DailyLimit)
	assert.Equal(t, UsageStoreRedis, cfg.Store)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)
}

func TestLoadUsageConfig_FallsBack(t *testing.T) {
	clearUsageEnv(t)
	t.Setenv("USAGE_DAILY_LIMIT", "-3")
	t.Setenv("USAGE_MAX_KEYS", "0")

	cfg, err := LoadUsageConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.DailyLimit)
	assert.Equal(t, 10000, cfg.MaxKeys)
}

func TestLoadUsageConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "unknown store", env: map[string]string{"USAGE_STORE": "etcd"}, wantErr: "unknown USAGE_STORE"},
		{name: "redis without url", env: map[string]string{"USAGE_DAILY_LIMIT": "5", "USAGE_STORE": "redis"}, wantErr: "REDIS_URL"},
		{name: "postgres without url", env: map[string]string{"USAGE_DAILY_LIMIT": "5", "USAGE_STORE": "postgres"}, wantErr: "DATABASE_URL"},
		{name: "bad cron", env: map[string]string{"USAGE_PURGE_CRON": "every day"}, wantErr: "USAGE_PURGE_CRON"},
		{name: "bad proxy", env: map[string]string{"RATE_LIMIT_TRUSTED_PROXIES": "10.0.0.0/99"}, wantErr: "RATE_LIMIT_TRUSTED_PROXIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearUsageEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadUsageConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTrustedProxies(t *testing.T) {
	assert.NoError(t, ValidateTrustedProxies(nil))
	assert.NoError(t, ValidateTrustedProxies([]string{"10.0.0.0/8", "::1", "2001:db8::/32"}))
	assert.Error(t, ValidateTrustedProxies([]string{""}))
	assert.Error(t, ValidateTrustedProxies([]string{"not-an-ip"}))
}
