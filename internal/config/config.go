// SPDX-License-Identifier: MIT

// Package config provides configuration management for dramahub.
package config

import "time"

// AppConfig is the effective, merged configuration.
type AppConfig struct {
	Version    string
	ListenAddr string
	LogLevel   string
	LogFile    string

	Upstream  UpstreamConfig
	Breaker   BreakerConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Tracing   TracingConfig
}

// UpstreamConfig describes the catalog provider.
type UpstreamConfig struct {
	BaseURL            string
	Timeout            time.Duration
	RateLimit          float64 // requests per second, 0 = unlimited
	Burst              int
	InsecureSkipVerify bool
	Headers            map[string]string
}

// BreakerConfig tunes the upstream circuit breaker.
type BreakerConfig struct {
	Threshold    int
	ResetTimeout time.Duration
}

// CacheConfig controls the optional response cache. TTL 0 disables storage.
type CacheConfig struct {
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RateLimitConfig is the inbound per-IP limit on /api.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

// CORSConfig lists allowed browser origins.
type CORSConfig struct {
	AllowedOrigins []string
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRate  float64
}

// FileConfig is the YAML shape. Pointers mark keys that were present.
type FileConfig struct {
	ListenAddr string         `yaml:"listenAddr"`
	LogLevel   string         `yaml:"logLevel"`
	LogFile    string         `yaml:"logFile"`
	Upstream   *fileUpstream  `yaml:"upstream"`
	Breaker    *fileBreaker   `yaml:"breaker"`
	Cache      *fileCache     `yaml:"cache"`
	RateLimit  *fileRateLimit `yaml:"rateLimit"`
	CORS       *fileCORS      `yaml:"cors"`
	Tracing    *fileTracing   `yaml:"tracing"`
}

type fileUpstream struct {
	BaseURL            string            `yaml:"baseURL"`
	Timeout            string            `yaml:"timeout"`
	RateLimit          *float64          `yaml:"rateLimit"`
	Burst              *int              `yaml:"burst"`
	InsecureSkipVerify *bool             `yaml:"insecureSkipVerify"`
	Headers            map[string]string `yaml:"headers"`
}

type fileBreaker struct {
	Threshold    *int   `yaml:"threshold"`
	ResetTimeout string `yaml:"resetTimeout"`
}

type fileCache struct {
	TTL           string `yaml:"ttl"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       *int   `yaml:"redisDB"`
}

type fileRateLimit struct {
	Enabled           *bool `yaml:"enabled"`
	RequestsPerMinute *int  `yaml:"requestsPerMinute"`
}

type fileCORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type fileTracing struct {
	Enabled     *bool    `yaml:"enabled"`
	Endpoint    string   `yaml:"endpoint"`
	ServiceName string   `yaml:"serviceName"`
	SampleRate  *float64 `yaml:"sampleRate"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ListenAddr: ":4343",
		LogLevel:   "info",
		Upstream: UpstreamConfig{
			Timeout: 15 * time.Second,
			Burst:   5,
		},
		Breaker: BreakerConfig{
			Threshold:    5,
			ResetTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Tracing: TracingConfig{
			ServiceName: "dramahub",
			SampleRate:  1.0,
		},
	}
}
