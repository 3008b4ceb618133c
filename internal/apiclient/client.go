// SPDX-License-Identifier: MIT

// Package apiclient talks to the dramahub gateway over HTTP and decodes its
// payloads into catalog records.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ManuGH/dramahub/internal/catalog"
	"github.com/ManuGH/dramahub/internal/log"
)

const (
	defaultTimeout   = 20 * time.Second
	maxResponseBytes = 8 << 20
)

// StatusError is returned for every non-2xx gateway answer.
type StatusError struct {
	Path    string
	Status  int
	Message string // "error" field of the envelope
	Detail  string // "message" field of the envelope, if any
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gateway %s: %d %s (%s)", e.Path, e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("gateway %s: %d %s", e.Path, e.Status, e.Message)
}

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client // overrides Timeout when set
}

// Client is a typed client for the gateway's /api endpoints.
type Client struct {
	base   string
	http   *http.Client
	logger zerolog.Logger
}

// New returns a Client for the gateway at baseURL (scheme and host, with or
// without a trailing slash).
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("gateway url %q must be absolute http(s)", baseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		base:   strings.TrimRight(u.String(), "/"),
		http:   hc,
		logger: log.WithComponent("apiclient"),
	}, nil
}

// Latest returns the newest dramas.
func (c *Client) Latest(ctx context.Context) ([]catalog.Item, error) {
	return c.items(ctx, "/api/latest", nil)
}

// Trending returns the trending dramas.
func (c *Client) Trending(ctx context.Context) ([]catalog.Item, error) {
	return c.items(ctx, "/api/trending", nil)
}

// ForYou returns the recommended dramas.
func (c *Client) ForYou(ctx context.Context) ([]catalog.Item, error) {
	return c.items(ctx, "/api/for-you", nil)
}

// VIP returns the VIP dramas. Every payload shape the provider has used is
// accepted, not just the normalized array.
func (c *Client) VIP(ctx context.Context) ([]catalog.Item, error) {
	raw, err := c.get(ctx, "/api/vip", nil)
	if err != nil {
		return nil, err
	}
	return catalog.ParseVIP(raw)
}

// Dubbed returns one page of dubbed dramas for a classification token.
func (c *Client) Dubbed(ctx context.Context, token string, page int) ([]catalog.Item, error) {
	q := url.Values{}
	q.Set("classify", token)
	q.Set("page", strconv.Itoa(page))
	return c.items(ctx, "/api/dubbed", q)
}

// Search runs a title search.
func (c *Client) Search(ctx context.Context, query string) ([]catalog.Item, error) {
	q := url.Values{}
	q.Set("query", query)
	return c.items(ctx, "/api/search", q)
}

// Detail fetches a drama record; nil means the gateway had no record for id.
func (c *Client) Detail(ctx context.Context, id string) (*catalog.Item, error) {
	q := url.Values{}
	q.Set("bookId", id)
	raw, err := c.get(ctx, "/api/detail", q)
	if err != nil {
		return nil, err
	}
	return catalog.ParseDetail(raw)
}

// Episodes fetches the episode list with stream links.
func (c *Client) Episodes(ctx context.Context, id string) ([]catalog.Episode, error) {
	q := url.Values{}
	q.Set("bookId", id)
	raw, err := c.get(ctx, "/api/episodes", q)
	if err != nil {
		return nil, err
	}
	return catalog.ParseEpisodes(raw)
}

// PopularSearches returns the suggested search keywords.
func (c *Client) PopularSearches(ctx context.Context) ([]string, error) {
	raw, err := c.get(ctx, "/api/popular-searches", nil)
	if err != nil {
		return nil, err
	}
	return catalog.Keywords(raw), nil
}

// Random returns one random drama record as the provider sent it.
func (c *Client) Random(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/random", nil)
}

func (c *Client) items(ctx context.Context, path string, q url.Values) ([]catalog.Item, error) {
	raw, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	return catalog.ParseItems(raw)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	target := c.base + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway %s: %w", path, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("gateway %s: read body: %w", path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		se := &StatusError{Path: path, Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}
		var env struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &env) == nil && env.Error != "" {
			se.Message = env.Error
			se.Detail = env.Message
		}
		c.logger.Warn().
			Str(log.FieldPath, path).
			Int(log.FieldStatus, res.StatusCode).
			Dur(log.FieldDuration, time.Since(start)).
			Str(log.FieldEvent, "apiclient.request_failed").
			Msg(se.Message)
		return nil, se
	}

	c.logger.Debug().
		Str(log.FieldPath, path).
		Dur(log.FieldDuration, time.Since(start)).
		Str(log.FieldEvent, "apiclient.request_ok").
		Msg("gateway call ok")
	return json.RawMessage(body), nil
}
