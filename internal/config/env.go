// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/dramahub/internal/log"
)

// Environment keys. PORT is honoured as a listen port alias.
const (
	EnvPrefix = "DRAMAHUB_"

	EnvConfigFile         = EnvPrefix + "CONFIG"
	EnvGatewayURL         = EnvPrefix + "GATEWAY_URL"
	EnvListenAddr         = EnvPrefix + "LISTEN_ADDR"
	EnvPort               = "PORT"
	EnvLogLevel           = EnvPrefix + "LOG_LEVEL"
	EnvLogFile            = EnvPrefix + "LOG_FILE"
	EnvUpstreamURL        = EnvPrefix + "UPSTREAM_URL"
	EnvUpstreamTimeout    = EnvPrefix + "UPSTREAM_TIMEOUT"
	EnvUpstreamRate       = EnvPrefix + "UPSTREAM_RATE"
	EnvUpstreamBurst      = EnvPrefix + "UPSTREAM_BURST"
	EnvUpstreamInsecure   = EnvPrefix + "UPSTREAM_INSECURE_SKIP_VERIFY"
	EnvBreakerThreshold   = EnvPrefix + "BREAKER_THRESHOLD"
	EnvBreakerReset       = EnvPrefix + "BREAKER_RESET"
	EnvCacheTTL           = EnvPrefix + "CACHE_TTL"
	EnvRedisAddr          = EnvPrefix + "REDIS_ADDR"
	EnvRedisPassword      = EnvPrefix + "REDIS_PASSWORD"
	EnvRedisDB            = EnvPrefix + "REDIS_DB"
	EnvRateLimitEnabled   = EnvPrefix + "RATELIMIT_ENABLED"
	EnvRateLimitRPM       = EnvPrefix + "RATELIMIT_RPM"
	EnvCORSOrigins        = EnvPrefix + "CORS_ORIGINS"
	EnvTracingEnabled     = EnvPrefix + "TRACING_ENABLED"
	EnvTracingEndpoint    = EnvPrefix + "TRACING_ENDPOINT"
	EnvTracingServiceName = EnvPrefix + "TRACING_SERVICE_NAME"
	EnvTracingSampleRate  = EnvPrefix + "TRACING_SAMPLE_RATE"
)

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		logger.Debug().Str("key", key).Str("source", "default").Msg("using default value")
		return defaultValue
	}
	ev := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitive(key) {
		ev.Bool("sensitive", true)
	} else {
		ev.Str("value", value)
	}
	ev.Msg("using environment variable")
	return value
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "token") || strings.Contains(k, "password")
}

// parseEnv reads key with parse, falling back to defaultValue when the
// variable is unset, empty or malformed.
func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().Str("key", key).Interface("default", defaultValue).Str("source", "default").Msg("using default value")
		return defaultValue
	}
	parsed, err := parse(v)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Interface("default", defaultValue).
			Msg("invalid value in environment variable, using default")
		return defaultValue
	}
	logger.Debug().Str("key", key).Interface("value", parsed).Str("source", "environment").Msg("using environment variable")
	return parsed
}

// ParseInt reads an integer from environment variable or returns default value.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// ParseDuration reads a duration in Go duration format (e.g. "5s").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, strconv.ErrSyntax
	})
}

// ParseList reads a comma separated list, dropping blank entries.
func ParseList(key string, defaultValue []string) []string {
	return parseEnv(key, defaultValue, func(s string) ([]string, error) {
		out := make([]string, 0, 4)
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	})
}
