// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence ENV > file > defaults.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader. configPath may be empty.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Path returns the watched config file, if any.
func (l *Loader) Path() string { return l.configPath }

// Load parses the file strictly, applies the environment and validates.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields cause an error to prevent silent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, fc *FileConfig) error {
	setString(&cfg.ListenAddr, fc.ListenAddr)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFile, fc.LogFile)

	if u := fc.Upstream; u != nil {
		setString(&cfg.Upstream.BaseURL, u.BaseURL)
		if err := setDuration(&cfg.Upstream.Timeout, "upstream.timeout", u.Timeout); err != nil {
			return err
		}
		setPtr(&cfg.Upstream.RateLimit, u.RateLimit)
		setPtr(&cfg.Upstream.Burst, u.Burst)
		setPtr(&cfg.Upstream.InsecureSkipVerify, u.InsecureSkipVerify)
		if len(u.Headers) > 0 {
			cfg.Upstream.Headers = u.Headers
		}
	}
	if b := fc.Breaker; b != nil {
		setPtr(&cfg.Breaker.Threshold, b.Threshold)
		if err := setDuration(&cfg.Breaker.ResetTimeout, "breaker.resetTimeout", b.ResetTimeout); err != nil {
			return err
		}
	}
	if c := fc.Cache; c != nil {
		if err := setDuration(&cfg.Cache.TTL, "cache.ttl", c.TTL); err != nil {
			return err
		}
		setString(&cfg.Cache.RedisAddr, c.RedisAddr)
		setString(&cfg.Cache.RedisPassword, c.RedisPassword)
		setPtr(&cfg.Cache.RedisDB, c.RedisDB)
	}
	if r := fc.RateLimit; r != nil {
		setPtr(&cfg.RateLimit.Enabled, r.Enabled)
		setPtr(&cfg.RateLimit.RequestsPerMinute, r.RequestsPerMinute)
	}
	if c := fc.CORS; c != nil && c.AllowedOrigins != nil {
		cfg.CORS.AllowedOrigins = c.AllowedOrigins
	}
	if t := fc.Tracing; t != nil {
		setPtr(&cfg.Tracing.Enabled, t.Enabled)
		setString(&cfg.Tracing.Endpoint, t.Endpoint)
		setString(&cfg.Tracing.ServiceName, t.ServiceName)
		setPtr(&cfg.Tracing.SampleRate, t.SampleRate)
	}
	return nil
}

func mergeEnvConfig(cfg *AppConfig) {
	if port, ok := os.LookupEnv(EnvPort); ok && port != "" {
		cfg.ListenAddr = ":" + port
	}
	cfg.ListenAddr = ParseString(EnvListenAddr, cfg.ListenAddr)
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)
	cfg.LogFile = ParseString(EnvLogFile, cfg.LogFile)

	cfg.Upstream.BaseURL = ParseString(EnvUpstreamURL, cfg.Upstream.BaseURL)
	cfg.Upstream.Timeout = ParseDuration(EnvUpstreamTimeout, cfg.Upstream.Timeout)
	cfg.Upstream.RateLimit = ParseFloat(EnvUpstreamRate, cfg.Upstream.RateLimit)
	cfg.Upstream.Burst = ParseInt(EnvUpstreamBurst, cfg.Upstream.Burst)
	cfg.Upstream.InsecureSkipVerify = ParseBool(EnvUpstreamInsecure, cfg.Upstream.InsecureSkipVerify)

	cfg.Breaker.Threshold = ParseInt(EnvBreakerThreshold, cfg.Breaker.Threshold)
	cfg.Breaker.ResetTimeout = ParseDuration(EnvBreakerReset, cfg.Breaker.ResetTimeout)

	cfg.Cache.TTL = ParseDuration(EnvCacheTTL, cfg.Cache.TTL)
	cfg.Cache.RedisAddr = ParseString(EnvRedisAddr, cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = ParseString(EnvRedisPassword, cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = ParseInt(EnvRedisDB, cfg.Cache.RedisDB)

	cfg.RateLimit.Enabled = ParseBool(EnvRateLimitEnabled, cfg.RateLimit.Enabled)
	cfg.RateLimit.RequestsPerMinute = ParseInt(EnvRateLimitRPM, cfg.RateLimit.RequestsPerMinute)

	cfg.CORS.AllowedOrigins = ParseList(EnvCORSOrigins, cfg.CORS.AllowedOrigins)

	cfg.Tracing.Enabled = ParseBool(EnvTracingEnabled, cfg.Tracing.Enabled)
	cfg.Tracing.Endpoint = ParseString(EnvTracingEndpoint, cfg.Tracing.Endpoint)
	cfg.Tracing.ServiceName = ParseString(EnvTracingServiceName, cfg.Tracing.ServiceName)
	cfg.Tracing.SampleRate = ParseFloat(EnvTracingSampleRate, cfg.Tracing.SampleRate)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, key, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	*dst = d
	return nil
}
