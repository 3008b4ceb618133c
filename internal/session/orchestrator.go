// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/ManuGH/dramahub/internal/catalog"
	"github.com/ManuGH/dramahub/internal/classify"
)

// loadHome fetches the three home collections concurrently and renders each
// grid from its own result. It reports partial when at least one fetch
// succeeded but another failed; only a full success populates home.
func (s *Session) loadHome(ctx context.Context) (partial bool, err error) {
	var (
		trending, latest, recommended          []catalog.Item
		trendingErr, latestErr, recommendedErr error
	)

	p := pool.New()
	p.Go(func() { trending, trendingErr = s.gw.Trending(ctx) })
	p.Go(func() { latest, latestErr = s.gw.Latest(ctx) })
	p.Go(func() { recommended, recommendedErr = s.gw.ForYou(ctx) })
	p.Wait()

	if trendingErr == nil {
		if len(trending) > 0 {
			s.setHero(trending[0])
		}
		s.renderGrid(ContainerTrending, trending, capTrending)
	}
	if latestErr == nil {
		s.renderGrid(ContainerLatest, latest, capLatest)
	}
	if recommendedErr == nil {
		// a previous search may have retitled the grid
		s.view.SetHeading(ContainerRecommended, HeadingRecommended)
		s.renderGrid(ContainerRecommended, recommended, capRecommended)
	}

	var errs []error
	if trendingErr != nil {
		errs = append(errs, fmt.Errorf("trending: %w", trendingErr))
	}
	if latestErr != nil {
		errs = append(errs, fmt.Errorf("latest: %w", latestErr))
	}
	if recommendedErr != nil {
		errs = append(errs, fmt.Errorf("recommended: %w", recommendedErr))
	}
	return len(errs) > 0 && len(errs) < 3, errors.Join(errs...)
}

func (s *Session) loadVIP(ctx context.Context) error {
	items, err := s.gw.VIP(ctx)
	if err != nil {
		return fmt.Errorf("vip: %w", err)
	}
	s.renderGrid(ContainerVIP, items, capVIP)
	return nil
}

func (s *Session) loadDub(ctx context.Context) error {
	items, err := s.gw.Dubbed(ctx, classify.TokenPopular, 1)
	if err != nil {
		return fmt.Errorf("dub: %w", err)
	}
	s.renderGrid(ContainerDub, items, capDub)
	return nil
}
