package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ZEALOT_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.GuestMode)
	assert.Equal(t, filepath.Join("public", "uploads"), cfg.UploadsRoot)
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenLifetime())
	assert.Equal(t, "default", cfg.Source("guest_mode"))
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ZEALOT_CONFIG_PATH", dir)
	writeConfigFile(t, dir, `
guest_mode: true
uploads_root: /var/lib/zealot/uploads
default_locale: zh-CN
token_ttl: 60
`)
	t.Setenv("ZEALOT_TOKEN_TTL", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.GuestMode)
	assert.Equal(t, "file", cfg.Source("guest_mode"))
	assert.Equal(t, "/var/lib/zealot/uploads", cfg.UploadsRoot)
	assert.Equal(t, "zh-CN", cfg.DefaultLocale)
	assert.Equal(t, 120, cfg.TokenTTL)
	assert.Equal(t, "environment", cfg.Source("token_ttl"))
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFilePath())
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ZEALOT_CONFIG_PATH", dir)
	writeConfigFile(t, dir, "guest_mode: [not, a, bool")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_GuestModeFromEnvironment(t *testing.T) {
	t.Setenv("ZEALOT_CONFIG_PATH", t.TempDir())

	for _, tt := range []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"no", false},
	} {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ZEALOT_GUEST_MODE", tt.value)
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.GuestMode)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ZealotConfig)
		wantErr string
	}{
		{
			name:    "unknown storage backend",
			mutate:  func(c *ZealotConfig) { c.StorageBackend = "ftp" },
			wantErr: "invalid storage_backend",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *ZealotConfig) { c.StorageBackend = StorageS3 },
			wantErr: "s3_bucket is required",
		},
		{
			name:    "bad trusted proxy",
			mutate:  func(c *ZealotConfig) { c.TrustedProxies = []string{"not-a-cidr"} },
			wantErr: "invalid trusted_proxies",
		},
		{
			name:    "non positive ttl",
			mutate:  func(c *ZealotConfig) { c.TokenTTL = 0 },
			wantErr: "token_ttl must be positive",
		},
		{
			name:    "bad log level",
			mutate:  func(c *ZealotConfig) { c.LogLevel = "loud" },
			wantErr: "invalid log_level",
		},
		{
			name: "s3 with bucket",
			mutate: func(c *ZealotConfig) {
				c.StorageBackend = StorageS3
				c.S3Bucket = "zealot-assets"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	assert.False(t, cfg.IsTrustedProxy("10.0.0.1"))

	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.10"}
	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.10"))
	assert.False(t, cfg.IsTrustedProxy("192.168.1.11"))
	assert.False(t, cfg.IsTrustedProxy("garbage"))
}

func TestFormatText(t *testing.T) {
	cfg := newDefault()
	out := cfg.FormatText()

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "guest_mode")
	assert.Contains(t, out, "(not set)")
}

func TestFormatJSON(t *testing.T) {
	cfg := newDefault()
	out, err := cfg.FormatJSON()
	require.NoError(t, err)

	assert.Contains(t, out, `"config_file"`)
	assert.Contains(t, out, `"name": "storage_backend"`)
}

func TestChanged(t *testing.T) {
	a := newDefault()
	b := newDefault()
	b.DefaultLocale = "zh-CN"
	b.GuestMode = true

	assert.ElementsMatch(t, []string{"default_locale", "guest_mode"}, Changed(a, b))
	assert.Empty(t, Changed(a, a))
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ZEALOT_CONFIG_PATH", dir)
	writeConfigFile(t, dir, "default_locale: en\n")
	require.NoError(t, Reload())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *ZealotConfig, 4)
	go func() {
		_ = Watch(ctx, func(_, next *ZealotConfig) { reloaded <- next }, nil)
	}()

	// Give the watcher a moment to register before writing
	time.Sleep(100 * time.Millisecond)
	writeConfigFile(t, dir, "default_locale: zh-CN\n")

	// A truncating write may surface as more than one event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.DefaultLocale == "zh-CN" {
				return
			}
		case <-timeout:
			t.Fatal("config was not reloaded")
		}
	}
}

func TestReloadValid(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("ZEALOT_CONFIG_PATH", dir)
		writeConfigFile(t, dir, "default_locale: zh-CN\n")

		cfg, err := reloadValid(filepath.Join(dir, ConfigFileName))
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "zh-CN", cfg.DefaultLocale)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("ZEALOT_CONFIG_PATH", dir)
		writeConfigFile(t, dir, "log_level: loud\ntrusted_proxies: [not-a-cidr]\n")

		cfg, err := reloadValid(filepath.Join(dir, ConfigFileName))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("missing file is skipped", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("ZEALOT_CONFIG_PATH", dir)

		cfg, err := reloadValid(filepath.Join(dir, ConfigFileName))
		assert.NoError(t, err)
		assert.Nil(t, cfg)
	})
}

func TestWatch_KeepsConfigOnInvalidEdit(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ZEALOT_CONFIG_PATH", dir)
	writeConfigFile(t, dir, "default_locale: en\n")
	require.NoError(t, Reload())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failures := make(chan error, 4)
	reloaded := make(chan *ZealotConfig, 4)
	go func() {
		_ = Watch(ctx,
			func(_, next *ZealotConfig) { reloaded <- next },
			func(err error) { failures <- err })
	}()

	time.Sleep(100 * time.Millisecond)
	writeConfigFile(t, dir, "default_locale: zh-CN\nlog_level: loud\n")

	// A truncating write may first surface as an empty, valid file
	timeout := time.After(5 * time.Second)
	for {
		select {
		case err := <-failures:
			assert.Contains(t, err.Error(), "invalid log_level")
			assert.NotEqual(t, "loud", Get().LogLevel)
			return
		case cfg := <-reloaded:
			require.NotEqual(t, "loud", cfg.LogLevel, "invalid config was installed")
		case <-timeout:
			t.Fatal("invalid edit was not reported")
		}
	}
}
