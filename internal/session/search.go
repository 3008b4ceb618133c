// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/ManuGH/dramahub/internal/log"
)

// Search shows the results for query in the home page's recommended grid,
// loading home first when needed. A blank query does nothing. A failed
// search is shown like an empty one.
func (s *Session) Search(ctx context.Context, query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	// held across the home load so the indicator stays up until results show
	done := s.loading.begin()
	defer done()

	// a failed home load is logged by EnterSection and must not block the search
	_ = s.EnterSection(ctx, string(SectionHome))

	items, err := s.gw.Search(ctx, q)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str(log.FieldQuery, q).
			Str(log.FieldEvent, "search.failed").
			Msg("search failed, showing no results")
		items = nil
	}

	s.view.SetHeading(ContainerRecommended, fmt.Sprintf(searchHeading, q))
	if len(items) == 0 {
		s.showMessage(ContainerRecommended, MsgNoResults)
		return nil
	}
	s.renderGrid(ContainerRecommended, items, 0)
	s.view.ScrollTo(ContainerRecommended)
	return nil
}
