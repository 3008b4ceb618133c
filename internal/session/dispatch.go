// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned by Dispatch for unrouted (target, action) pairs.
var ErrUnknownEvent = errors.New("unknown ui event")

// Target is the UI element an event originates from.
type Target string

const (
	TargetNav      Target = "nav"
	TargetSearch   Target = "search"
	TargetGrid     Target = "grid"
	TargetHero     Target = "hero"
	TargetDetail   Target = "detail"
	TargetPlayer   Target = "player"
	TargetBackdrop Target = "backdrop"
)

// Action is what happened on a Target.
type Action string

const (
	ActionSelect  Action = "select"
	ActionSubmit  Action = "submit"
	ActionPlay    Action = "play"
	ActionWatch   Action = "watch"
	ActionEpisode Action = "episode"
	ActionClose   Action = "close"
	ActionClick   Action = "click"
)

// Event is one user interaction.
type Event struct {
	Target Target
	Action Action
	// Value carries the section name for nav/select and the query for
	// search/submit.
	Value     string
	Container Container // grid/select
	Index     int       // grid/select position, detail/episode position
}

type route struct {
	target Target
	action Action
}

var routes = map[route]func(*Session, context.Context, Event) error{
	{TargetNav, ActionSelect}: func(s *Session, ctx context.Context, ev Event) error {
		return s.EnterSection(ctx, ev.Value)
	},
	{TargetSearch, ActionSubmit}: func(s *Session, ctx context.Context, ev Event) error {
		return s.Search(ctx, ev.Value)
	},
	{TargetGrid, ActionSelect}: func(s *Session, ctx context.Context, ev Event) error {
		item, err := s.GridItem(ev.Container, ev.Index)
		if err != nil {
			return err
		}
		return s.Open(ctx, item)
	},
	{TargetHero, ActionPlay}: func(s *Session, ctx context.Context, _ Event) error {
		s.mu.Lock()
		hero := s.hero
		s.mu.Unlock()
		if hero == nil {
			return nil
		}
		return s.Open(ctx, *hero)
	},
	{TargetDetail, ActionWatch}: func(s *Session, ctx context.Context, _ Event) error {
		return s.WatchNow(ctx)
	},
	{TargetDetail, ActionEpisode}: func(s *Session, ctx context.Context, ev Event) error {
		return s.Play(ctx, ev.Index)
	},
	{TargetDetail, ActionClose}: func(s *Session, ctx context.Context, _ Event) error {
		return s.CloseDetail(ctx)
	},
	{TargetPlayer, ActionClose}: func(s *Session, ctx context.Context, _ Event) error {
		return s.ClosePlayer(ctx)
	},
	{TargetBackdrop, ActionClick}: func(s *Session, ctx context.Context, _ Event) error {
		return s.CloseTop(ctx)
	},
}

// Dispatch routes a UI event to the matching session operation.
func (s *Session) Dispatch(ctx context.Context, ev Event) error {
	h, ok := routes[route{ev.Target, ev.Action}]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownEvent, ev.Target, ev.Action)
	}
	return h(s, ctx, ev)
}
