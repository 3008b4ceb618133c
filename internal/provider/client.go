// SPDX-License-Identifier: MIT

package provider

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ManuGH/dramahub/internal/classify"
	"github.com/ManuGH/dramahub/internal/log"
	"github.com/ManuGH/dramahub/internal/metrics"
	"github.com/ManuGH/dramahub/internal/resilience"
	"github.com/ManuGH/dramahub/internal/telemetry"
)

const (
	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 8 << 20
	maxErrorBody     = 256
)

// upstream paths per operation
var paths = map[string]string{
	OpLatest:          "/latest",
	OpTrending:        "/trending",
	OpForYou:          "/foryou",
	OpVIP:             "/vip",
	OpRandom:          "/randomdrama",
	OpPopularSearches: "/populersearch",
	OpSearch:          "/search",
	OpDetail:          "/detail",
	OpEpisodes:        "/stream",
	OpDubbed:          "/dubindo",
}

// Config configures the upstream HTTP client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is the outbound request rate per second; 0 disables limiting.
	RateLimit          float64
	Burst              int
	InsecureSkipVerify bool
	Headers            map[string]string
	BreakerThreshold   int
	BreakerReset       time.Duration
}

// Client is the HTTP implementation of Provider.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	headers map[string]string
	tracer  trace.Tracer
	logger  zerolog.Logger
}

var _ Provider = (*Client)(nil)

// New creates a Client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream base URL %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in for self-signed upstreams
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(base),
		},
		limiter: rate.NewLimiter(limit, burst),
		breaker: resilience.NewCircuitBreaker("provider", cfg.BreakerThreshold, cfg.BreakerReset),
		headers: cfg.Headers,
		tracer:  telemetry.Tracer("dramahub/provider"),
		logger:  log.WithComponent("provider"),
	}, nil
}

// Breaker exposes the upstream circuit breaker for health checks.
func (c *Client) Breaker() *resilience.CircuitBreaker { return c.breaker }

func (c *Client) Latest(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, OpLatest, nil)
}

func (c *Client) Trending(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, OpTrending, nil)
}

func (c *Client) ForYou(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, OpForYou, nil)
}

func (c *Client) VIP(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, OpVIP, nil)
}

func (c *Client) Random(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, OpRandom, nil)
}

func (c *Client) PopularSearches(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, OpPopularSearches, nil)
}

func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	return c.get(ctx, OpSearch, url.Values{"query": {query}})
}

func (c *Client) Detail(ctx context.Context, bookID string) (json.RawMessage, error) {
	return c.get(ctx, OpDetail, url.Values{"bookId": {bookID}})
}

func (c *Client) Episodes(ctx context.Context, bookID string) (json.RawMessage, error) {
	return c.get(ctx, OpEpisodes, url.Values{"bookId": {bookID}})
}

func (c *Client) Dubbed(ctx context.Context, code classify.Code, page int) (json.RawMessage, error) {
	return c.get(ctx, OpDubbed, url.Values{
		"classify": {strconv.Itoa(int(code))},
		"page":     {strconv.Itoa(page)},
	})
}

func (c *Client) get(ctx context.Context, op string, q url.Values) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "provider."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.ProviderOperationKey, op))

	start := time.Now()
	body, err := c.do(ctx, op, q)
	elapsed := time.Since(start)
	kind := Kind(err)
	metrics.ObserveProviderCall(op, kind, elapsed)

	logger := log.WithContext(ctx, c.logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		span.SetAttributes(telemetry.ErrorAttributes(kind)...)
		logger.Warn().
			Err(err).
			Str(log.FieldOperation, op).
			Str("kind", kind).
			Dur(log.FieldDuration, elapsed).
			Msg("provider.call_failed")
		return nil, err
	}

	logger.Debug().
		Str(log.FieldOperation, op).
		Int("bytes", len(body)).
		Dur(log.FieldDuration, elapsed).
		Msg("provider.call_ok")
	return body, nil
}

func (c *Client) do(ctx context.Context, op string, q url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, transportError(op, ctx.Err())
		}
		return nil, &Error{Sentinel: ErrRateLimited, Operation: op, Err: err}
	}

	var body json.RawMessage
	err := c.breaker.Execute(func() error {
		var callErr error
		body, callErr = c.roundTrip(ctx, op, q)
		return callErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, &Error{Sentinel: resilience.ErrCircuitOpen, Operation: op}
	}
	return body, err
}

func (c *Client) roundTrip(ctx context.Context, op string, q url.Values) (json.RawMessage, error) {
	target := c.base + paths[op]
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Sentinel: ErrUpstreamUnavailable, Operation: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, &Error{
			Sentinel:  ErrUpstreamStatus,
			Operation: op,
			Status:    res.StatusCode,
			Body:      strings.TrimSpace(string(snippet)),
		}
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes+1))
	if err != nil {
		return nil, transportError(op, err)
	}
	if len(data) > maxResponseBytes {
		return nil, &Error{Sentinel: ErrBadResponse, Operation: op, Err: fmt.Errorf("response exceeds %d bytes", maxResponseBytes)}
	}
	if !json.Valid(data) {
		return nil, &Error{Sentinel: ErrBadResponse, Operation: op, Err: fmt.Errorf("body is not valid JSON")}
	}
	return json.RawMessage(data), nil
}
