// SPDX-License-Identifier: MIT

// Command dramactl browses the catalog through a running gateway from a
// terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/ManuGH/dramahub/internal/apiclient"
	"github.com/ManuGH/dramahub/internal/config"
	"github.com/ManuGH/dramahub/internal/console"
	"github.com/ManuGH/dramahub/internal/log"
	"github.com/ManuGH/dramahub/internal/session"
	"github.com/ManuGH/dramahub/internal/version"
)

func main() {
	gateway := flag.String("gateway", "", "gateway base URL (default $DRAMAHUB_GATEWAY_URL or http://localhost:4343)")
	timeout := flag.Duration("timeout", 20*time.Second, "per-request timeout")
	width := flag.Int("width", 48, "truncate titles to this many characters (0 = never)")
	logLevel := flag.String("log-level", "warn", "log level for diagnostics on stderr")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	log.Configure(log.Config{
		Level:   *logLevel,
		Output:  os.Stderr,
		Service: "dramactl",
		Version: version.Version,
	})
	logger := log.WithComponent("dramactl")

	base := strings.TrimSpace(*gateway)
	if base == "" {
		base = os.Getenv(config.EnvGatewayURL)
	}
	if base == "" {
		base = "http://localhost:4343"
	}

	client, err := apiclient.New(base, apiclient.Options{Timeout: *timeout})
	if err != nil {
		logger.Fatal().Err(err).Str("event", "dramactl.gateway_invalid").Msg("invalid gateway URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	view := console.New(os.Stdout, console.Options{ShowLoading: interactive, Width: *width})
	sess := session.New(client, view)

	if err := sess.Start(ctx); err != nil {
		logger.Warn().Err(err).Str("event", "dramactl.home_failed").Msg("home section did not load completely")
	}

	sh := &shell{sess: sess, extra: client, out: os.Stdout}
	if interactive {
		sh.prompt = "dramahub> "
		fmt.Println(`Type "help" for commands.`)
	}
	if err := sh.run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("input failed")
		os.Exit(1)
	}
}
