// SPDX-License-Identifier: MIT

// Package daemon wires the gateway components and runs them.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ManuGH/dramahub/internal/api"
	"github.com/ManuGH/dramahub/internal/cache"
	"github.com/ManuGH/dramahub/internal/config"
	"github.com/ManuGH/dramahub/internal/health"
	"github.com/ManuGH/dramahub/internal/log"
	"github.com/ManuGH/dramahub/internal/provider"
	"github.com/ManuGH/dramahub/internal/telemetry"
)

const cacheCleanupInterval = time.Minute

// Gateway bundles the wired gateway components.
type Gateway struct {
	Handler  http.Handler
	Health   *health.Manager
	Provider *provider.Client
	Cache    cache.Cache // nil when response caching is off
	tracing  *telemetry.Provider
}

// Build wires tracing, the upstream client, the response cache, health
// checks and the HTTP surface from cfg.
func Build(ctx context.Context, cfg config.AppConfig) (*Gateway, error) {
	logger := log.WithComponent("daemon")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: cfg.Version,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	client, err := provider.New(provider.Config{
		BaseURL:            cfg.Upstream.BaseURL,
		Timeout:            cfg.Upstream.Timeout,
		RateLimit:          cfg.Upstream.RateLimit,
		Burst:              cfg.Upstream.Burst,
		InsecureSkipVerify: cfg.Upstream.InsecureSkipVerify,
		Headers:            cfg.Upstream.Headers,
		BreakerThreshold:   cfg.Breaker.Threshold,
		BreakerReset:       cfg.Breaker.ResetTimeout,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init provider: %w", err)
	}

	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewBreakerChecker(client.Breaker()))
	if pinger, ok := store.(health.Pinger); ok {
		hm.RegisterChecker(health.NewCacheChecker(pinger))
	}

	tracingService := ""
	if cfg.Tracing.Enabled {
		tracingService = cfg.Tracing.ServiceName
	}
	srv := api.New(api.Config{
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		RateLimitEnabled:  cfg.RateLimit.Enabled,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		TracingService:    tracingService,
	}, provider.NewCached(client, store, cfg.Cache.TTL), hm)

	logger.Info().
		Str(log.FieldBaseURL, cfg.Upstream.BaseURL).
		Dur("cache_ttl", cfg.Cache.TTL).
		Bool("redis", cfg.Cache.RedisAddr != "").
		Bool("tracing", cfg.Tracing.Enabled).
		Str(log.FieldEvent, "daemon.wired").
		Msg("gateway components ready")

	return &Gateway{
		Handler:  srv.Handler(),
		Health:   hm,
		Provider: client,
		Cache:    store,
		tracing:  tp,
	}, nil
}

// newCache returns nil when caching is disabled, Redis when an address is
// configured, and an in-process cache otherwise.
func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch {
	case cfg.TTL <= 0:
		return nil, nil
	case cfg.RedisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log.WithComponent("cache"))
		if err != nil {
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
		return rc, nil
	default:
		return cache.NewMemoryCache(cacheCleanupInterval), nil
	}
}

// Close releases the cache and flushes pending spans.
func (g *Gateway) Close(ctx context.Context) error {
	var errs []error
	if g.Cache != nil {
		if err := g.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if g.tracing != nil {
		if err := g.tracing.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
	}
	return errors.Join(errs...)
}
