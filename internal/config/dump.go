// SPDX-License-Identifier: MIT

package config

// ToFileConfig renders an effective configuration in the YAML file shape,
// so it can be dumped and loaded again.
func ToFileConfig(cfg AppConfig) FileConfig {
	rate := cfg.Upstream.RateLimit
	burst := cfg.Upstream.Burst
	insecure := cfg.Upstream.InsecureSkipVerify
	threshold := cfg.Breaker.Threshold
	redisDB := cfg.Cache.RedisDB
	rlEnabled := cfg.RateLimit.Enabled
	rpm := cfg.RateLimit.RequestsPerMinute
	tracing := cfg.Tracing.Enabled
	sample := cfg.Tracing.SampleRate

	var headers map[string]string
	if len(cfg.Upstream.Headers) > 0 {
		headers = make(map[string]string, len(cfg.Upstream.Headers))
		for k, v := range cfg.Upstream.Headers {
			headers[k] = v
		}
	}

	return FileConfig{
		ListenAddr: cfg.ListenAddr,
		LogLevel:   cfg.LogLevel,
		LogFile:    cfg.LogFile,
		Upstream: &fileUpstream{
			BaseURL:            cfg.Upstream.BaseURL,
			Timeout:            cfg.Upstream.Timeout.String(),
			RateLimit:          &rate,
			Burst:              &burst,
			InsecureSkipVerify: &insecure,
			Headers:            headers,
		},
		Breaker: &fileBreaker{
			Threshold:    &threshold,
			ResetTimeout: cfg.Breaker.ResetTimeout.String(),
		},
		Cache: &fileCache{
			TTL:           cfg.Cache.TTL.String(),
			RedisAddr:     cfg.Cache.RedisAddr,
			RedisPassword: cfg.Cache.RedisPassword,
			RedisDB:       &redisDB,
		},
		RateLimit: &fileRateLimit{
			Enabled:           &rlEnabled,
			RequestsPerMinute: &rpm,
		},
		CORS: &fileCORS{
			AllowedOrigins: append([]string(nil), cfg.CORS.AllowedOrigins...),
		},
		Tracing: &fileTracing{
			Enabled:     &tracing,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.Tracing.ServiceName,
			SampleRate:  &sample,
		},
	}
}

// Redact masks secrets before a FileConfig is shown.
func (fc *FileConfig) Redact() {
	if fc == nil {
		return
	}
	if fc.Cache != nil && fc.Cache.RedisPassword != "" {
		fc.Cache.RedisPassword = "***"
	}
	if fc.Upstream != nil {
		for k := range fc.Upstream.Headers {
			if isSensitive(k) {
				fc.Upstream.Headers[k] = "***"
			}
		}
	}
}
