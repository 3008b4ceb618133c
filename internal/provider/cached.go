// SPDX-License-Identifier: MIT

package provider

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/dramahub/internal/cache"
	"github.com/ManuGH/dramahub/internal/classify"
	"github.com/ManuGH/dramahub/internal/log"
	"github.com/ManuGH/dramahub/internal/metrics"
)

// Cached decorates a Provider: identical in-flight calls share one upstream
// request, and successful payloads are kept for ttl. Errors are never cached.
// Random is passed straight through.
type Cached struct {
	next   Provider
	store  cache.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger zerolog.Logger
}

var _ Provider = (*Cached)(nil)

// NewCached wraps next. A nil store or a non-positive ttl disables storage
// and leaves only request coalescing.
func NewCached(next Provider, store cache.Cache, ttl time.Duration) *Cached {
	if store == nil || ttl <= 0 {
		store = cache.NewNoOpCache()
		ttl = 0
	}
	return &Cached{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: log.WithComponent("provider.cache"),
	}
}

func (c *Cached) Latest(ctx context.Context) (json.RawMessage, error) {
	return c.load(ctx, OpLatest, "", c.next.Latest)
}

func (c *Cached) Trending(ctx context.Context) (json.RawMessage, error) {
	return c.load(ctx, OpTrending, "", c.next.Trending)
}

func (c *Cached) ForYou(ctx context.Context) (json.RawMessage, error) {
	return c.load(ctx, OpForYou, "", c.next.ForYou)
}

func (c *Cached) VIP(ctx context.Context) (json.RawMessage, error) {
	return c.load(ctx, OpVIP, "", c.next.VIP)
}

func (c *Cached) Random(ctx context.Context) (json.RawMessage, error) {
	return c.next.Random(ctx)
}

func (c *Cached) PopularSearches(ctx context.Context) (json.RawMessage, error) {
	return c.load(ctx, OpPopularSearches, "", c.next.PopularSearches)
}

func (c *Cached) Search(ctx context.Context, query string) (json.RawMessage, error) {
	return c.load(ctx, OpSearch, query, func(ctx context.Context) (json.RawMessage, error) {
		return c.next.Search(ctx, query)
	})
}

func (c *Cached) Detail(ctx context.Context, bookID string) (json.RawMessage, error) {
	return c.load(ctx, OpDetail, bookID, func(ctx context.Context) (json.RawMessage, error) {
		return c.next.Detail(ctx, bookID)
	})
}

func (c *Cached) Episodes(ctx context.Context, bookID string) (json.RawMessage, error) {
	return c.load(ctx, OpEpisodes, bookID, func(ctx context.Context) (json.RawMessage, error) {
		return c.next.Episodes(ctx, bookID)
	})
}

func (c *Cached) Dubbed(ctx context.Context, code classify.Code, page int) (json.RawMessage, error) {
	arg := strconv.Itoa(int(code)) + ":" + strconv.Itoa(page)
	return c.load(ctx, OpDubbed, arg, func(ctx context.Context) (json.RawMessage, error) {
		return c.next.Dubbed(ctx, code, page)
	})
}

func (c *Cached) load(ctx context.Context, op, arg string, fetch func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	key := op + "|" + arg

	if c.ttl > 0 {
		if data, ok := c.store.Get(ctx, key); ok {
			metrics.RecordCacheLookup(op, "hit")
			return json.RawMessage(data), nil
		}
		metrics.RecordCacheLookup(op, "miss")
	}

	// The shared call must not die with whichever caller started it.
	ch := c.group.DoChan(key, func() (any, error) {
		data, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.store.Set(context.WithoutCancel(ctx), key, data, c.ttl)
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, transportError(op, ctx.Err())
	case res := <-ch:
		if res.Shared {
			metrics.RecordCacheLookup(op, "shared")
			logger := log.WithContext(ctx, c.logger)
			logger.Debug().Str(log.FieldOperation, op).Msg("provider.call_shared")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}
