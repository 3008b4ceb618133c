// SPDX-License-Identifier: MIT

package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/dramahub/internal/classify"
	"github.com/ManuGH/dramahub/internal/resilience"
)

func newTestClient(t *testing.T, base string, mutate ...func(*Config)) *Client {
	t.Helper()
	cfg := Config{BaseURL: base, Timeout: 2 * time.Second, BreakerThreshold: 3, BreakerReset: time.Minute}
	for _, fn := range mutate {
		fn(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative"} {
		_, err := New(Config{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestClientOperations(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	c := newTestClient(t, mock.URL())
	ctx := context.Background()

	calls := map[string]func() error{
		OpLatest:          func() error { _, err := c.Latest(ctx); return err },
		OpTrending:        func() error { _, err := c.Trending(ctx); return err },
		OpForYou:          func() error { _, err := c.ForYou(ctx); return err },
		OpVIP:             func() error { _, err := c.VIP(ctx); return err },
		OpRandom:          func() error { _, err := c.Random(ctx); return err },
		OpPopularSearches: func() error { _, err := c.PopularSearches(ctx); return err },
		OpSearch:          func() error { _, err := c.Search(ctx, "ceo"); return err },
		OpDetail:          func() error { _, err := c.Detail(ctx, "41000201"); return err },
		OpEpisodes:        func() error { _, err := c.Episodes(ctx, "41000201"); return err },
		OpDubbed:          func() error { _, err := c.Dubbed(ctx, classify.Newest, 2); return err },
	}
	for op, call := range calls {
		require.NoError(t, call(), op)
		assert.Equal(t, 1, mock.Requests(op), op)
	}

	assert.Equal(t, "query=ceo", mock.LastQuery(OpSearch))
	assert.Equal(t, "bookId=41000201", mock.LastQuery(OpDetail))
	assert.Equal(t, "bookId=41000201", mock.LastQuery(OpEpisodes))
	assert.Equal(t, "classify=2&page=2", mock.LastQuery(OpDubbed))
}

func TestClientPassesPayloadThrough(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetPayload(OpVIP, `{"theaterList":[{"bookId":"9"}]}`)

	body, err := newTestClient(t, mock.URL()).VIP(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"theaterList":[{"bookId":"9"}]}`, string(body))
}

func TestClientUpstreamStatus(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetFailures(OpLatest, 1)

	_, err := newTestClient(t, mock.URL()).Latest(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamStatus)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusInternalServerError, perr.Status)
	assert.Equal(t, OpLatest, perr.Operation)
	assert.Contains(t, err.Error(), "HTTP 500")
	assert.Equal(t, "status", Kind(err))
}

func TestClientBadResponse(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetPayload(OpTrending, `<html>blocked</html>`)

	_, err := newTestClient(t, mock.URL()).Trending(context.Background())
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestClientTimeout(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetDelay(OpDetail, 500*time.Millisecond)

	c := newTestClient(t, mock.URL(), func(cfg *Config) { cfg.Timeout = 50 * time.Millisecond })
	_, err := c.Detail(context.Background(), "1")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "timeout", Kind(err))
}

func TestClientUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := newTestClient(t, base).Latest(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestClientBreakerOpens(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetFailures(OpLatest, 10)
	c := newTestClient(t, mock.URL())

	for i := 0; i < 3; i++ {
		_, err := c.Latest(context.Background())
		require.ErrorIs(t, err, ErrUpstreamStatus)
	}

	_, err := c.Latest(context.Background())
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, "circuit_open", Kind(err))
	assert.Equal(t, 3, mock.Requests(OpLatest))
	assert.Equal(t, resilience.StateOpen, c.Breaker().State())
}

func TestClientRateLimited(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	c := newTestClient(t, mock.URL(), func(cfg *Config) {
		cfg.RateLimit = 0.01
		cfg.Burst = 1
	})

	_, err := c.Latest(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = c.Latest(ctx)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, mock.Requests(OpLatest))
}

func TestClientSendsConfiguredHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.Headers = map[string]string{"X-Client-Id": "dramahub"}
	})
	_, err := c.ForYou(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dramahub", got.Get("X-Client-Id"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "unavailable", Kind(&Error{Sentinel: ErrUpstreamUnavailable, Operation: OpLatest}))
	assert.Equal(t, "rate_limited", Kind(&Error{Sentinel: ErrRateLimited, Operation: OpLatest}))
	assert.Equal(t, "canceled", Kind(transportError(OpLatest, context.Canceled)))
	assert.Equal(t, "timeout", Kind(transportError(OpLatest, context.DeadlineExceeded)))
}
