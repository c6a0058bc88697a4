package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env
	for _, k := range []string{"SHOP_SESSION_BACKEND", "SHOP_SESSION_TTL", "PORT", "SHOP_ADMIN_PASSWORD", "TRUST_PROXY_HEADERS"} {
		t.Setenv(k, "") // restored after the test
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "shop.db", cfg.DatabaseFile)
	require.Equal(t, SessionBackendSQLite, cfg.SessionBackend)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, "Fruit Shop", cfg.OTPIssuer)
	require.Equal(t, 8080, cfg.Port)
	require.Empty(t, cfg.AdminPassword)
	require.False(t, cfg.TrustProxyHeaders)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHOP_SESSION_BACKEND", "redis")
	t.Setenv("SHOP_REDIS_ADDR", "cache:6379")
	t.Setenv("SHOP_SESSION_TTL", "30m")
	t.Setenv("SHOP_SECURE_COOKIES", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	require.Equal(t, "cache:6379", cfg.RedisAddr)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.True(t, cfg.SecureCookies)
	require.Equal(t, 9090, cfg.Port)
	require.True(t, cfg.TrustProxyHeaders)
}

func TestLoadConfigRejects(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := map[string][2]string{
		"unknown backend": {"SHOP_SESSION_BACKEND", "memcached"},
		"bad duration":    {"SHOP_SESSION_TTL", "soon"},
		"negative ttl":    {"SHOP_SESSION_TTL", "-1h"},
		"port":            {"PORT", "70000"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
