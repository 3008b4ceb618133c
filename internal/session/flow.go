// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/ManuGH/dramahub/internal/catalog"
	"github.com/ManuGH/dramahub/internal/fsm"
	"github.com/ManuGH/dramahub/internal/log"
	"github.com/ManuGH/dramahub/internal/metrics"
)

// flowInput is the payload of a flow transition.
type flowInput struct {
	gen      uint64
	drama    *catalog.Item
	episodes []catalog.Episode
	episode  catalog.Episode
}

func (s *Session) transitions() []fsm.Transition[Mode, Trigger, flowInput] {
	open := func(from Mode) fsm.Transition[Mode, Trigger, flowInput] {
		return fsm.Transition[Mode, Trigger, flowInput]{
			From:   from,
			Event:  TriggerOpen,
			To:     ModeDetailOpen,
			Guard:  s.guardCurrent,
			Action: s.showDetail,
		}
	}
	return []fsm.Transition[Mode, Trigger, flowInput]{
		open(ModeCatalog),
		open(ModeDetailOpen),
		{
			From:  ModeDetailOpen,
			Event: TriggerPlay,
			To:    ModePlayerOpen,
			Guard: func(_ context.Context, _ Mode, _ Trigger, in flowInput) error {
				if !catalog.Playable(in.episode.StreamURL()) {
					return ErrLinkUnavailable
				}
				return nil
			},
			Action: s.showPlayer,
		},
		{
			From:  ModePlayerOpen,
			Event: TriggerClosePlayer,
			To:    ModeDetailOpen,
			Action: func(context.Context, Mode, Mode, Trigger, flowInput) error {
				s.view.HidePlayer()
				return nil
			},
		},
		{
			From:  ModeDetailOpen,
			Event: TriggerCloseDetail,
			To:    ModeCatalog,
			Action: func(context.Context, Mode, Mode, Trigger, flowInput) error {
				s.view.HideDetail()
				return nil
			},
		},
	}
}

// Open loads a drama's detail and episodes and shows the detail view. Of
// several overlapping opens only the newest one is shown; the others return
// ErrSuperseded. The previous drama stays current until the load succeeds.
func (s *Session) Open(ctx context.Context, item catalog.Item) error {
	id := item.ID()
	if id == "" {
		s.logger.Error().
			Str(log.FieldEvent, "detail.no_id").
			Str("title", string(item.BookName)).
			Msg("no ID found for drama")
		metrics.RecordTransition(string(TriggerOpen), "rejected")
		return ErrNoID
	}
	if !s.flow.Can(TriggerOpen) {
		metrics.RecordTransition(string(TriggerOpen), "invalid")
		return fmt.Errorf("%w: state=%s event=%s", fsm.ErrInvalidTransition, s.flow.State(), TriggerOpen)
	}

	gen := s.gen.Add(1)
	done := s.loading.begin()
	defer done()

	var (
		drama    *catalog.Item
		episodes []catalog.Episode
		epErr    error
		err      error
	)
	p := pool.New()
	p.Go(func() { drama, err = s.gw.Detail(ctx, id) })
	p.Go(func() { episodes, epErr = s.gw.Episodes(ctx, id) })
	p.Wait()

	if s.gen.Load() != gen {
		metrics.RecordTransition(string(TriggerOpen), "superseded")
		return ErrSuperseded
	}
	if epErr != nil {
		s.logger.Warn().
			Err(epErr).
			Str(log.FieldBookID, id).
			Str(log.FieldEvent, "detail.episodes_failed").
			Msg("episode list unavailable, showing none")
		episodes = nil
	}
	if err == nil && drama == nil {
		err = fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str(log.FieldBookID, id).
			Str(log.FieldEvent, "detail.load_failed").
			Msg("detail load error")
		s.view.Alert(MsgDetailFailed)
		metrics.RecordTransition(string(TriggerOpen), "failed")
		return err
	}

	err = s.fire(ctx, TriggerOpen, flowInput{gen: gen, drama: drama, episodes: episodes})
	s.record(TriggerOpen, err)
	return err
}

// fire applies a flow event. Guards and actions run while fireMu is held,
// so the drama and view they update always match the committed mode.
func (s *Session) fire(ctx context.Context, t Trigger, in flowInput) error {
	s.fireMu.Lock()
	defer s.fireMu.Unlock()
	_, err := s.flow.Fire(ctx, t, in)
	return err
}

func (s *Session) guardCurrent(_ context.Context, _ Mode, _ Trigger, in flowInput) error {
	if s.gen.Load() != in.gen {
		return ErrSuperseded
	}
	return nil
}

func (s *Session) showDetail(_ context.Context, _, _ Mode, _ Trigger, in flowInput) error {
	s.mu.Lock()
	s.state.CurrentDrama = in.drama
	s.state.Episodes = in.episodes
	s.mu.Unlock()
	s.view.ShowDetail(in.drama.Detail(len(in.episodes)), in.episodes)
	return nil
}

func (s *Session) showPlayer(_ context.Context, _, _ Mode, _ Trigger, in flowInput) error {
	s.mu.Lock()
	title := catalog.DefaultDetailTitle
	if s.state.CurrentDrama != nil {
		title = s.state.CurrentDrama.Detail(0).Title
	}
	s.mu.Unlock()
	s.view.ShowPlayer(fmt.Sprintf("%s - Episod %s", title, in.episode.Label()), in.episode.StreamURL())
	return nil
}

// Play starts the episode at position i of the open drama's list.
func (s *Session) Play(ctx context.Context, i int) error {
	s.mu.Lock()
	eps := s.state.Episodes
	s.mu.Unlock()
	if i < 0 || i >= len(eps) {
		return fmt.Errorf("%w: episode %d of %d", ErrOutOfRange, i, len(eps))
	}

	err := s.fire(ctx, TriggerPlay, flowInput{episode: eps[i]})
	if errors.Is(err, ErrLinkUnavailable) {
		s.view.Alert(MsgVideoUnavailable)
	}
	s.record(TriggerPlay, err)
	return err
}

// WatchNow plays the first episode. Without episodes it does nothing.
func (s *Session) WatchNow(ctx context.Context) error {
	s.mu.Lock()
	n := len(s.state.Episodes)
	s.mu.Unlock()
	if n == 0 {
		return nil
	}
	return s.Play(ctx, 0)
}

// ClosePlayer returns from the player to the detail view.
func (s *Session) ClosePlayer(ctx context.Context) error {
	err := s.fire(ctx, TriggerClosePlayer, flowInput{})
	s.record(TriggerClosePlayer, err)
	return err
}

// CloseDetail returns from the detail view to the catalog.
func (s *Session) CloseDetail(ctx context.Context) error {
	err := s.fire(ctx, TriggerCloseDetail, flowInput{})
	s.record(TriggerCloseDetail, err)
	return err
}

// CloseTop closes the topmost open modal, the player before the detail view.
func (s *Session) CloseTop(ctx context.Context) error {
	switch s.flow.State() {
	case ModePlayerOpen:
		return s.ClosePlayer(ctx)
	case ModeDetailOpen:
		return s.CloseDetail(ctx)
	}
	return nil
}

func (s *Session) record(t Trigger, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, fsm.ErrInvalidTransition):
		result = "invalid"
	case errors.Is(err, ErrSuperseded), errors.Is(err, fsm.ErrConcurrentTransition):
		result = "superseded"
	default:
		result = "rejected"
	}
	metrics.RecordTransition(string(t), result)
}
