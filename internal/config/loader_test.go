// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalYAML = `
upstream:
  baseURL: https://catalog.example/api
`

func TestLoadDefaultsWithEnvOnly(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvUpstreamURL, "https://catalog.example/api")

	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, ":4343", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "v1.2.3", cfg.Version)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.False(t, cfg.Upstream.InsecureSkipVerify)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadRequiresUpstream(t *testing.T) {
	_, err := NewLoader("", "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upstream.BaseURL")
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
listenAddr: 127.0.0.1:9000
logLevel: debug
upstream:
  baseURL: https://catalog.example/api
  timeout: 5s
  rateLimit: 4
  burst: 2
  insecureSkipVerify: true
  headers:
    X-Client-Id: dramahub
breaker:
  threshold: 3
  resetTimeout: 1m
cache:
  ttl: 30s
  redisAddr: localhost:6379
  redisDB: 2
rateLimit:
  enabled: false
cors:
  allowedOrigins: ["https://drama.example"]
tracing:
  enabled: true
  endpoint: localhost:4318
`)

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, UpstreamConfig{
		BaseURL:            "https://catalog.example/api",
		Timeout:            5 * time.Second,
		RateLimit:          4,
		Burst:              2,
		InsecureSkipVerify: true,
		Headers:            map[string]string{"X-Client-Id": "dramahub"},
	}, cfg.Upstream)
	assert.Equal(t, BreakerConfig{Threshold: 3, ResetTimeout: time.Minute}, cfg.Breaker)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2, cfg.Cache.RedisDB)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"https://drama.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "dramahub", cfg.Tracing.ServiceName)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, minimalYAML+"logLevel: warn\n")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvUpstreamURL, "http://override.example")
	t.Setenv(EnvCORSOrigins, "https://a.example, ,https://b.example")
	t.Setenv(EnvUpstreamBurst, "not-a-number")

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://override.example", cfg.Upstream.BaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.Upstream.Burst, "malformed env falls back")
}

func TestLoadPortAlias(t *testing.T) {
	t.Setenv(EnvUpstreamURL, "https://catalog.example")

	t.Run("port only", func(t *testing.T) {
		t.Setenv(EnvPort, "8080")
		cfg, err := NewLoader("", "").Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.ListenAddr)
	})

	t.Run("explicit listen addr wins", func(t *testing.T) {
		t.Setenv(EnvPort, "8080")
		t.Setenv(EnvListenAddr, "127.0.0.1:9999")
		cfg, err := NewLoader("", "").Load()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	})
}

func TestLoadFileStrict(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		path    string
		unknown bool
	}{
		{name: "unknown key", body: minimalYAML + "bogus: 1\n", unknown: true},
		{name: "unknown nested key", body: "upstream:\n  baseURL: https://x.example\n  retries: 3\n", unknown: true},
		{name: "multiple documents", body: minimalYAML + "---\nlogLevel: debug\n"},
		{name: "bad duration", body: "upstream:\n  baseURL: https://x.example\n  timeout: soon\n"},
		{name: "wrong extension", body: minimalYAML, path: "config.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			if tt.path != "" {
				renamed := filepath.Join(filepath.Dir(path), tt.path)
				require.NoError(t, os.Rename(path, renamed))
				path = renamed
			}
			_, err := NewLoader(path, "").Load()
			require.Error(t, err)
			assert.Equal(t, tt.unknown, errorsIs(err, ErrUnknownConfigField))
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvUpstreamURL, "https://catalog.example")
	cfg, err := NewLoader(writeConfig(t, ""), "").Load()
	require.NoError(t, err)
	assert.Equal(t, ":4343", cfg.ListenAddr)
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	valid.Upstream.BaseURL = "https://catalog.example"
	require.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"listen addr", func(c *AppConfig) { c.ListenAddr = "4343" }, "ListenAddr"},
		{"log level", func(c *AppConfig) { c.LogLevel = "loud" }, "LogLevel"},
		{"scheme", func(c *AppConfig) { c.Upstream.BaseURL = "ftp://x" }, "Upstream.BaseURL"},
		{"timeout", func(c *AppConfig) { c.Upstream.Timeout = 0 }, "Upstream.Timeout"},
		{"rate", func(c *AppConfig) { c.Upstream.RateLimit = -1 }, "Upstream.RateLimit"},
		{"breaker", func(c *AppConfig) { c.Breaker.Threshold = 0 }, "Breaker.Threshold"},
		{"cache ttl", func(c *AppConfig) { c.Cache.TTL = -time.Second }, "Cache.TTL"},
		{"rpm", func(c *AppConfig) { c.RateLimit.RequestsPerMinute = 0 }, "RateLimit.RequestsPerMinute"},
		{"cors", func(c *AppConfig) { c.CORS.AllowedOrigins = nil }, "CORS.AllowedOrigins"},
		{"tracing endpoint", func(c *AppConfig) { c.Tracing.Enabled = true }, "Tracing.Endpoint"},
		{"sample rate", func(c *AppConfig) { c.Tracing.SampleRate = 2 }, "Tracing.SampleRate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Upstream.BaseURL = "https://catalog.example"
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
