// SPDX-License-Identifier: MIT

// Package api implements the catalog gateway HTTP surface.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/dramahub/internal/api/middleware"
	"github.com/ManuGH/dramahub/internal/health"
	"github.com/ManuGH/dramahub/internal/log"
	"github.com/ManuGH/dramahub/internal/provider"
)

// Config configures the gateway router.
type Config struct {
	AllowedOrigins    []string
	RateLimitEnabled  bool
	RequestsPerMinute int
	TracingService    string // empty disables tracing
}

// Server serves the catalog endpoints in front of a Provider.
type Server struct {
	cfg      Config
	provider provider.Provider
	health   *health.Manager
	logger   zerolog.Logger
	handler  http.Handler
}

// New builds the gateway. hm may be nil, in which case probes report healthy.
func New(cfg Config, p provider.Provider, hm *health.Manager) *Server {
	if hm == nil {
		hm = health.NewManager("")
	}
	s := &Server{
		cfg:      cfg,
		provider: p,
		health:   hm,
		logger:   log.WithComponent("api"),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableCORS:            true,
		AllowedOrigins:        s.cfg.AllowedOrigins,
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.cfg.TracingService,
		EnableLogging:         true,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.cfg.RateLimitEnabled && s.cfg.RequestsPerMinute > 0 {
			r.Use(middleware.APIRateLimit(s.cfg.RequestsPerMinute))
		}
		r.Get("/latest", s.handleList(provider.OpLatest, s.provider.Latest))
		r.Get("/trending", s.handleList(provider.OpTrending, s.provider.Trending))
		r.Get("/for-you", s.handleList(provider.OpForYou, s.provider.ForYou))
		r.Get("/vip", s.handleVIP)
		r.Get("/random", s.handleList(provider.OpRandom, s.provider.Random))
		r.Get("/popular-searches", s.handleList(provider.OpPopularSearches, s.provider.PopularSearches))
		r.Get("/search", s.handleSearch)
		r.Get("/detail", s.handleByBookID(provider.OpDetail, s.provider.Detail))
		r.Get("/episodes", s.handleByBookID(provider.OpEpisodes, s.provider.Episodes))
		r.Get("/dubbed", s.handleDubbed)
	})

	return r
}
