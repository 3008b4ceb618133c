// SPDX-License-Identifier: MIT

package session

import (
	"context"

	"github.com/ManuGH/dramahub/internal/log"
	"github.com/ManuGH/dramahub/internal/metrics"
)

// EnterSection makes a section active and loads it unless an earlier load
// completed successfully. A failed load leaves the section unpopulated so the
// next entry retries; concurrent entries share one in-flight load.
func (s *Session) EnterSection(ctx context.Context, name string) error {
	sec, err := ParseSection(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state.ActiveSection = sec
	populated := s.state.Populated[sec]
	s.mu.Unlock()

	s.view.ShowSection(sec)

	if !populated {
		_, err, _ = s.loads.Do(string(sec), func() (any, error) {
			return nil, s.loadSection(ctx, sec)
		})
		if err != nil {
			s.logger.Error().
				Err(err).
				Str(log.FieldSection, string(sec)).
				Str(log.FieldEvent, "section.load_failed").
				Msg("section load failed")
		}
	}

	s.view.ScrollTop()
	return err
}

// Populated reports whether a section has been loaded successfully.
func (s *Session) Populated(sec Section) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Populated[sec]
}

func (s *Session) loadSection(ctx context.Context, sec Section) error {
	done := s.loading.begin()
	defer done()

	var (
		err     error
		partial bool
	)
	switch sec {
	case SectionHome:
		partial, err = s.loadHome(ctx)
	case SectionVIP:
		err = s.loadVIP(ctx)
	case SectionDub:
		err = s.loadDub(ctx)
	}

	switch {
	case err == nil:
		s.mu.Lock()
		s.state.Populated[sec] = true
		s.mu.Unlock()
		metrics.RecordSectionLoad(string(sec), "ok")
	case partial:
		metrics.RecordSectionLoad(string(sec), "partial")
	default:
		metrics.RecordSectionLoad(string(sec), "failed")
	}
	return err
}
