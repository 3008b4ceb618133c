// SPDX-License-Identifier: MIT

package config

import (
	"strings"

	"github.com/ManuGH/dramahub/internal/validate"
)

// Validate checks a merged AppConfig.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.ListenAddr("ListenAddr", cfg.ListenAddr)
	v.OneOf("LogLevel", strings.ToLower(cfg.LogLevel), validate.LogLevels)

	v.URL("Upstream.BaseURL", cfg.Upstream.BaseURL, []string{"http", "https"})
	v.Duration("Upstream.Timeout", cfg.Upstream.Timeout)
	if cfg.Upstream.RateLimit < 0 {
		v.AddError("Upstream.RateLimit", "cannot be negative", cfg.Upstream.RateLimit)
	}
	v.Positive("Upstream.Burst", cfg.Upstream.Burst)

	v.Range("Breaker.Threshold", cfg.Breaker.Threshold, 1, 100)
	v.Duration("Breaker.ResetTimeout", cfg.Breaker.ResetTimeout)

	if cfg.Cache.TTL < 0 {
		v.AddError("Cache.TTL", "cannot be negative", cfg.Cache.TTL)
	}
	v.Range("Cache.RedisDB", cfg.Cache.RedisDB, 0, 15)

	if cfg.RateLimit.Enabled {
		v.Positive("RateLimit.RequestsPerMinute", cfg.RateLimit.RequestsPerMinute)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		v.AddError("CORS.AllowedOrigins", "at least one origin is required", cfg.CORS.AllowedOrigins)
	}

	if cfg.Tracing.Enabled {
		v.NotEmpty("Tracing.Endpoint", cfg.Tracing.Endpoint)
		v.NotEmpty("Tracing.ServiceName", cfg.Tracing.ServiceName)
	}
	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
		v.AddError("Tracing.SampleRate", "must be between 0 and 1", cfg.Tracing.SampleRate)
	}

	return v.Err()
}
