// SPDX-License-Identifier: MIT

// Package session drives one client's catalog browsing: section loading and
// caching, the detail/episode/player flow, and search, rendered through a
// View against the gateway.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/dramahub/internal/catalog"
	"github.com/ManuGH/dramahub/internal/fsm"
	"github.com/ManuGH/dramahub/internal/log"
)

// Gateway is the subset of the gateway API a session consumes.
type Gateway interface {
	Latest(ctx context.Context) ([]catalog.Item, error)
	Trending(ctx context.Context) ([]catalog.Item, error)
	ForYou(ctx context.Context) ([]catalog.Item, error)
	VIP(ctx context.Context) ([]catalog.Item, error)
	Dubbed(ctx context.Context, classify string, page int) ([]catalog.Item, error)
	Search(ctx context.Context, query string) ([]catalog.Item, error)
	Detail(ctx context.Context, id string) (*catalog.Item, error)
	Episodes(ctx context.Context, id string) ([]catalog.Episode, error)
}

// Session owns the state of one connected client. All methods are safe for
// concurrent use.
type Session struct {
	gw      Gateway
	view    View
	logger  zerolog.Logger
	loading *loader
	loads   singleflight.Group
	flow    *fsm.Machine[Mode, Trigger, flowInput]
	gen     atomic.Uint64

	// fireMu serialises flow transitions so one transition's view effects
	// and state commit never interleave with another's.
	fireMu sync.Mutex

	mu    sync.Mutex
	state State
	grids map[Container][]catalog.Item
	hero  *catalog.Item
}

// New creates a session in the catalog mode with the home section active
// and nothing loaded yet.
func New(gw Gateway, view View) *Session {
	s := &Session{
		gw:      gw,
		view:    view,
		logger:  log.WithComponent("session"),
		loading: &loader{view: view},
		state: State{
			ActiveSection: SectionHome,
			Populated:     make(map[Section]bool, len(Sections)),
		},
		grids: make(map[Container][]catalog.Item),
	}
	flow, err := fsm.New(ModeCatalog, s.transitions())
	if err != nil {
		// the transition table is static
		panic(fmt.Sprintf("session: %v", err))
	}
	flow.OnChange(func(from, to Mode, event Trigger) {
		s.logger.Debug().
			Str(log.FieldOldState, string(from)).
			Str(log.FieldNewState, string(to)).
			Str(log.FieldEvent, string(event)).
			Msg("flow transition")
	})
	s.flow = flow
	return s
}

// Start performs the initial home load.
func (s *Session) Start(ctx context.Context) error {
	return s.EnterSection(ctx, string(SectionHome))
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	st := s.state.clone()
	s.mu.Unlock()
	st.Mode = s.flow.State()
	return st
}

// GridItem returns the item rendered at position i of a grid.
func (s *Session) GridItem(c Container, i int) (catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.grids[c]
	if i < 0 || i >= len(items) {
		return catalog.Item{}, fmt.Errorf("%w: %s[%d]", ErrOutOfRange, c, i)
	}
	return items[i], nil
}

// renderGrid shows at most limit items (limit <= 0 shows all) and remembers
// them for selection.
func (s *Session) renderGrid(c Container, items []catalog.Item, limit int) {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	cards := make([]catalog.Card, 0, len(items))
	for _, it := range items {
		cards = append(cards, it.Card())
	}
	s.mu.Lock()
	s.grids[c] = append([]catalog.Item(nil), items...)
	s.mu.Unlock()
	s.view.RenderGrid(c, cards)
}

func (s *Session) showMessage(c Container, text string) {
	s.mu.Lock()
	delete(s.grids, c)
	s.mu.Unlock()
	s.view.ShowMessage(c, text)
}

func (s *Session) setHero(it catalog.Item) {
	s.mu.Lock()
	s.hero = &it
	s.mu.Unlock()
	s.view.SetHero(it.Hero())
}
