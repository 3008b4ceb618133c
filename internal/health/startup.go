// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/dramahub/internal/config"
	"github.com/ManuGH/dramahub/internal/log"
)

// PerformStartupChecks validates the runtime environment before the server starts.
// Only a missing log directory fails startup; everything else is a warning.
func PerformStartupChecks(ctx context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("running pre-flight startup checks")

	if cfg.LogFile != "" {
		if err := checkWritableDir(logger, filepath.Dir(cfg.LogFile)); err != nil {
			return fmt.Errorf("log directory check failed: %w", err)
		}
	}

	checkUpstreamResolves(ctx, logger, cfg.Upstream.BaseURL)

	if cfg.Upstream.InsecureSkipVerify {
		logger.Warn().Msg("upstream TLS verification is disabled (upstream.insecureSkipVerify)")
	}
	if slices.Contains(cfg.CORS.AllowedOrigins, "*") {
		logger.Info().Msg("CORS open to all origins")
	}
	if cfg.Cache.TTL > 0 && cfg.Cache.RedisAddr == "" {
		logger.Info().Dur("ttl", cfg.Cache.TTL).Msg("response cache is process-local")
	}

	logger.Info().Msg("all startup checks passed")
	return nil
}

func checkWritableDir(logger zerolog.Logger, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	f, err := os.CreateTemp(path, ".write_test")
	if err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	_ = f.Close()
	_ = os.Remove(f.Name())

	logger.Info().Str("path", path).Msg("log directory is writable")
	return nil
}

// checkUpstreamResolves only warns: the upstream may come up after the gateway.
func checkUpstreamResolves(ctx context.Context, logger zerolog.Logger, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return
	}
	if net.ParseIP(u.Hostname()) != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := net.DefaultResolver.LookupHost(ctx, u.Hostname()); err != nil {
		logger.Warn().Err(err).Str("host", u.Hostname()).Msg("upstream host does not resolve yet")
		return
	}
	logger.Info().Str("host", u.Hostname()).Msg("upstream host resolves")
}
