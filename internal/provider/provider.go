// SPDX-License-Identifier: MIT

// Package provider talks to the upstream drama catalog service.
package provider

import (
	"context"
	"encoding/json"

	"github.com/ManuGH/dramahub/internal/classify"
)

// Operation names, shared by metrics, logs and cache keys.
const (
	OpLatest          = "latest"
	OpTrending        = "trending"
	OpForYou          = "for-you"
	OpVIP             = "vip"
	OpRandom          = "random"
	OpPopularSearches = "popular-searches"
	OpSearch          = "search"
	OpDetail          = "detail"
	OpEpisodes        = "episodes"
	OpDubbed          = "dubbed"
)

// Provider is the upstream catalog. Payloads are passed through undecoded;
// callers that need structure decode with the catalog package.
type Provider interface {
	Latest(ctx context.Context) (json.RawMessage, error)
	Trending(ctx context.Context) (json.RawMessage, error)
	ForYou(ctx context.Context) (json.RawMessage, error)
	VIP(ctx context.Context) (json.RawMessage, error)
	Random(ctx context.Context) (json.RawMessage, error)
	PopularSearches(ctx context.Context) (json.RawMessage, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
	Detail(ctx context.Context, bookID string) (json.RawMessage, error)
	// Episodes returns the episode list of a drama with stream links resolved.
	Episodes(ctx context.Context, bookID string) (json.RawMessage, error)
	Dubbed(ctx context.Context, code classify.Code, page int) (json.RawMessage, error)
}
