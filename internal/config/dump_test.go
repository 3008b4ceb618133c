// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestToFileConfigRoundTrip(t *testing.T) {
	t.Setenv(EnvPort, "")
	cfg := Defaults()
	cfg.Upstream.BaseURL = "https://catalog.example/api"
	cfg.Upstream.Timeout = 7 * time.Second
	cfg.Cache.TTL = time.Minute
	cfg.Upstream.Headers = map[string]string{"X-Region": "id"}

	out, err := yaml.Marshal(ToFileConfig(cfg))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o600))

	loaded, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Upstream.BaseURL, loaded.Upstream.BaseURL)
	assert.Equal(t, 7*time.Second, loaded.Upstream.Timeout)
	assert.Equal(t, time.Minute, loaded.Cache.TTL)
	assert.Equal(t, cfg.Breaker, loaded.Breaker)
	assert.Equal(t, "id", loaded.Upstream.Headers["X-Region"])
}

func TestRedactMasksSecrets(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.RedisPassword = "hunter2"
	cfg.Upstream.Headers = map[string]string{"X-Api-Token": "abc", "Accept": "json"}

	fc := ToFileConfig(cfg)
	fc.Redact()

	assert.Equal(t, "***", fc.Cache.RedisPassword)
	assert.Equal(t, "***", fc.Upstream.Headers["X-Api-Token"])
	assert.Equal(t, "json", fc.Upstream.Headers["Accept"])
	assert.Equal(t, "abc", cfg.Upstream.Headers["X-Api-Token"], "source config must stay intact")
}
