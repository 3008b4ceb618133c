// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/dramahub/internal/config"
	"github.com/ManuGH/dramahub/internal/daemon"
	"github.com/ManuGH/dramahub/internal/health"
	"github.com/ManuGH/dramahub/internal/log"
	"github.com/ManuGH/dramahub/internal/version"
)

// maskURL strips credentials from an upstream URL before it is logged.
// Query values are hidden as well since providers often take keys there.
func maskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	u.User = nil
	if q := u.Query(); len(q) > 0 {
		for k := range q {
			q.Set(k, "redacted")
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	log.Configure(log.Config{
		Level:   "info",
		Service: "dramahub",
		Version: version.Version,
	})
	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration with precedence: ENV > File > Defaults
	path := strings.TrimSpace(*configPath)
	if path == "" {
		path = strings.TrimSpace(config.ParseString(config.EnvConfigFile, ""))
	}
	loader := config.NewLoader(path, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
	}

	if cfg.LogFile != "" {
		// the file writer can only be attached on a fresh configuration
		log.Reset()
	}
	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Service: "dramahub",
		Version: cfg.Version,
	})
	logger = log.WithComponent("daemon")

	if path != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", path).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.check_failed").
			Msg("Startup checks failed. Please verify configuration and permissions.")
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version.Version).
		Str("commit", version.Commit).
		Str("build_date", version.Date).
		Str("addr", cfg.ListenAddr).
		Msg("starting dramahub gateway")
	logger.Info().Msgf("→ Upstream: %s (timeout %s)", maskURL(cfg.Upstream.BaseURL), cfg.Upstream.Timeout)
	if cfg.Upstream.InsecureSkipVerify {
		logger.Warn().
			Str("security", "weak").
			Msg("→ Upstream TLS verification: DISABLED")
	}
	if cfg.Cache.TTL > 0 {
		logger.Info().Msgf("→ Response cache: %s (redis: %v)", cfg.Cache.TTL, cfg.Cache.RedisAddr != "")
	} else {
		logger.Info().Msg("→ Response cache: off (identical requests are still coalesced)")
	}
	if cfg.RateLimit.Enabled {
		logger.Info().Msgf("→ Rate limit: %d req/min per IP", cfg.RateLimit.RequestsPerMinute)
	}

	gw, err := daemon.Build(ctx, cfg)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.build_failed").
			Msg("failed to wire gateway")
	}

	mgr, err := daemon.NewManager(daemon.DefaultServerConfig(cfg.ListenAddr), daemon.Deps{
		Logger:     logger,
		APIHandler: gw.Handler,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation.failed").
			Msg("failed to create daemon manager")
	}
	mgr.RegisterShutdownHook("gateway", gw.Close)

	app := daemon.NewApp(logger, mgr, config.NewConfigHolder(cfg, loader))
	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon app failed")
	}

	logger.Info().Msg("server exiting")
}
