// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ShutdownHook releases a resource when the gateway stops. Hooks run in
// reverse registration order after the HTTP server has drained.
type ShutdownHook func(ctx context.Context) error

// Manager runs the gateway HTTP server.
type Manager interface {
	// Start binds the listener, serves until ctx is cancelled or the server
	// fails, then shuts down.
	Start(ctx context.Context) error
	// Shutdown drains in-flight requests and runs the hooks. Calling it
	// again after a shutdown began is a no-op.
	Shutdown(ctx context.Context) error
	RegisterShutdownHook(name string, hook ShutdownHook)
	// Addr is the bound listen address, empty before Start.
	Addr() string
}

type namedHook struct {
	name string
	hook ShutdownHook
}

type manager struct {
	cfg    ServerConfig
	deps   Deps
	logger zerolog.Logger

	mu       sync.Mutex
	srv      *http.Server
	addr     string
	hooks    []namedHook
	started  bool
	stopping bool
}

// NewManager validates deps and returns a Manager for cfg.
func NewManager(cfg ServerConfig, deps Deps) (Manager, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	return &manager{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger.With().Str("component", "manager").Logger(),
	}, nil
}

func (m *manager) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

func (m *manager) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("start context is nil")
	}

	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errors.New("manager already started")
	}
	m.started = true
	m.mu.Unlock()

	ln, err := net.Listen("tcp", m.cfg.ListenAddr)
	if err != nil {
		m.logger.Error().Err(err).
			Str("event", "gateway.listen_failed").
			Str("addr", m.cfg.ListenAddr).
			Msg("cannot bind gateway listener")
		m.mu.Lock()
		m.stopping = true
		m.mu.Unlock()
		return fmt.Errorf("listen %s: %w", m.cfg.ListenAddr, err)
	}

	srv := &http.Server{
		Handler:           m.deps.APIHandler,
		ReadTimeout:       m.cfg.ReadTimeout,
		ReadHeaderTimeout: m.cfg.ReadTimeout / 2,
		WriteTimeout:      m.cfg.WriteTimeout,
		IdleTimeout:       m.cfg.IdleTimeout,
		MaxHeaderBytes:    m.cfg.MaxHeaderBytes,
	}
	m.mu.Lock()
	m.srv = srv
	m.addr = ln.Addr().String()
	m.mu.Unlock()

	m.logger.Info().
		Str("event", "gateway.listening").
		Str("addr", m.addr).
		Dur("write_timeout", m.cfg.WriteTimeout).
		Msg("gateway listening")

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if !ok {
			return nil
		}
		m.logger.Error().Err(err).Str("event", "gateway.serve_failed").Msg("gateway server failed")
		if shutdownErr := m.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			return fmt.Errorf("serve: %w", errors.Join(err, shutdownErr))
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		m.logger.Info().Str("event", "gateway.stopping").Msg("shutdown requested")
		err := m.Shutdown(context.WithoutCancel(ctx))
		<-serveErr
		return err
	}
}

func (m *manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return errors.New("shutdown context is nil")
	}

	m.mu.Lock()
	switch {
	case m.stopping:
		m.mu.Unlock()
		return nil
	case !m.started:
		m.mu.Unlock()
		return ErrManagerNotStarted
	}
	m.stopping = true
	srv := m.srv
	hooks := append([]namedHook(nil), m.hooks...)
	m.mu.Unlock()

	timeout := m.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var errs []error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			// drain timed out; cut the remaining connections
			_ = srv.Close()
			errs = append(errs, fmt.Errorf("drain: %w", err))
		}
	}

	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		began := time.Now()
		err := h.hook(ctx)
		ev := m.logger.Debug()
		if err != nil {
			ev = m.logger.Error().Err(err)
			errs = append(errs, fmt.Errorf("hook %s: %w", h.name, err))
		}
		ev.Str("hook", h.name).Dur("duration", time.Since(began)).Msg("shutdown hook finished")
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	m.logger.Info().Str("event", "gateway.stopped").Msg("gateway stopped cleanly")
	return nil
}

func (m *manager) RegisterShutdownHook(name string, hook ShutdownHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, namedHook{name: name, hook: hook})
}
