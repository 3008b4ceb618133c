// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/dramahub/internal/config"
	"github.com/ManuGH/dramahub/internal/health"
	"github.com/ManuGH/dramahub/internal/provider"
)

func testConfig(upstream string) config.AppConfig {
	cfg := config.Defaults()
	cfg.Version = "test"
	cfg.Upstream.BaseURL = upstream
	cfg.RateLimit.Enabled = false
	return cfg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestBuild_WithoutCache(t *testing.T) {
	upstream := provider.NewMockServer()
	defer upstream.Close()

	gw, err := Build(context.Background(), testConfig(upstream.URL()))
	require.NoError(t, err)
	defer func() { assert.NoError(t, gw.Close(context.Background())) }()

	assert.Nil(t, gw.Cache)
	for i := 0; i < 2; i++ {
		w := get(t, gw.Handler, "/api/latest")
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 2, upstream.Requests(provider.OpLatest))
}

func TestBuild_MemoryCache(t *testing.T) {
	upstream := provider.NewMockServer()
	defer upstream.Close()

	cfg := testConfig(upstream.URL())
	cfg.Cache.TTL = time.Minute
	gw, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, gw.Close(context.Background())) }()

	require.NotNil(t, gw.Cache)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, get(t, gw.Handler, "/api/trending").Code)
	}
	assert.Equal(t, 1, upstream.Requests(provider.OpTrending))

	// random is never cached
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, get(t, gw.Handler, "/api/random").Code)
	}
	assert.Equal(t, 2, upstream.Requests(provider.OpRandom))
}

func TestBuild_RedisCacheAndReadiness(t *testing.T) {
	upstream := provider.NewMockServer()
	defer upstream.Close()
	mr := miniredis.RunT(t)

	cfg := testConfig(upstream.URL())
	cfg.Cache.TTL = time.Minute
	cfg.Cache.RedisAddr = mr.Addr()
	gw, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, gw.Close(context.Background())) }()

	require.Equal(t, http.StatusOK, get(t, gw.Handler, "/api/vip").Code)
	require.Equal(t, http.StatusOK, get(t, gw.Handler, "/api/vip").Code)
	assert.Equal(t, 1, upstream.Requests(provider.OpVIP))
	assert.NotEmpty(t, mr.Keys())

	resp := gw.Health.Health(context.Background(), true)
	assert.Equal(t, health.StatusHealthy, resp.Status)
	assert.Contains(t, resp.Checks, "breaker_provider")
	assert.Len(t, resp.Checks, 2)

	w := get(t, gw.Handler, "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
	var ready map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
}

func TestBuild_Errors(t *testing.T) {
	tests := map[string]func(*config.AppConfig){
		"bad upstream":           func(c *config.AppConfig) { c.Upstream.BaseURL = "::not a url" },
		"tracing without target": func(c *config.AppConfig) { c.Tracing.Enabled = true; c.Tracing.Endpoint = "" },
		"redis unreachable":      func(c *config.AppConfig) { c.Cache.TTL = time.Minute; c.Cache.RedisAddr = "127.0.0.1:1" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig("http://127.0.0.1:9")
			mutate(&cfg)
			_, err := Build(context.Background(), cfg)
			assert.Error(t, err)
		})
	}
}
