package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvHost, EnvPort, EnvPassword, EnvDB} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestResolveDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Resolve(Config{})
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Host)
	assert.Equal(t, 6379, cfg.Port)
	assert.Equal(t, 0, cfg.DB)
	assert.Equal(t, "", cfg.Password)
	assert.Equal(t, 3600*time.Second, cfg.DefaultTTL)
	assert.Equal(t, DefaultDialAttempts, cfg.DialAttempts)
	assert.Equal(t, "redis:6379", cfg.Addr())
}

func TestResolveEnvironmentOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHost, "cache.internal")
	t.Setenv(EnvPort, "6380")
	t.Setenv(EnvPassword, "s3cret")
	t.Setenv(EnvDB, "4")

	cfg, err := Resolve(Config{})
	require.NoError(t, err)

	assert.Equal(t, "cache.internal", cfg.Host)
	assert.Equal(t, 6380, cfg.Port)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, 4, cfg.DB)
}

func TestResolveExplicitOverridesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHost, "from-env")
	t.Setenv(EnvPort, "7000")

	cfg, err := Resolve(Config{Host: "explicit", DefaultTTL: 5 * time.Minute})
	require.NoError(t, err)

	assert.Equal(t, "explicit", cfg.Host)
	assert.Equal(t, 7000, cfg.Port, "unset explicit field falls back to env")
	assert.Equal(t, 5*time.Minute, cfg.DefaultTTL)
}

func TestResolveNegativeTTLKeptAsNoExpiry(t *testing.T) {
	clearEnv(t)

	cfg, err := Resolve(Config{DefaultTTL: -1})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), cfg.DefaultTTL)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDB, "2")

	path := filepath.Join(t.TempDir(), "cache.yaml")
	body := "host: file-host\nport: 6390\ndb: 9\ndefault_ttl: 30m\ndial_attempts: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path, Config{})
	require.NoError(t, err)

	assert.Equal(t, "file-host", cfg.Host)
	assert.Equal(t, 6390, cfg.Port)
	assert.Equal(t, 2, cfg.DB, "environment wins over file")
	assert.Equal(t, 30*time.Minute, cfg.DefaultTTL)
	assert.Equal(t, 3, cfg.DialAttempts)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), Config{})
	require.Error(t, err)
}

func TestResolveRejectsBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "70000")

	_, err := Resolve(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port 70000 out of range")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty_host", func(c *Config) { c.Host = "" }, true},
		{"zero_port", func(c *Config) { c.Port = 0 }, true},
		{"negative_db", func(c *Config) { c.DB = -1 }, true},
		{"negative_attempts", func(c *Config) { c.DialAttempts = -2 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
