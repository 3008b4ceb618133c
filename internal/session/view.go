// SPDX-License-Identifier: MIT

package session

import (
	"sync"

	"github.com/ManuGH/dramahub/internal/catalog"
)

// Container is a grid on one of the section pages.
type Container string

const (
	ContainerTrending    Container = "trending"
	ContainerLatest      Container = "latest"
	ContainerRecommended Container = "recommended"
	ContainerVIP         Container = "vip"
	ContainerDub         Container = "dub"
)

// View receives everything the session wants shown. Implementations must be
// safe for concurrent use; section loads and detail opens may overlap.
type View interface {
	// SetLoading shows or hides the loading indicator.
	SetLoading(on bool)
	// ShowSection makes one section page visible and hides the others.
	ShowSection(s Section)
	ScrollTop()
	ScrollTo(c Container)
	SetHero(h catalog.Hero)
	// RenderGrid replaces the contents of a grid.
	RenderGrid(c Container, cards []catalog.Card)
	SetHeading(c Container, text string)
	// ShowMessage replaces the contents of a grid with an inline message.
	ShowMessage(c Container, text string)
	ShowDetail(d catalog.Detail, episodes []catalog.Episode)
	HideDetail()
	ShowPlayer(heading, url string)
	// HidePlayer hides the player and drops its content.
	HidePlayer()
	Alert(text string)
}

// loader reference-counts the loading indicator so overlapping operations
// keep it visible until the last one settles.
type loader struct {
	mu   sync.Mutex
	n    int
	view View
}

// begin raises the indicator and returns its release. Release is idempotent.
func (l *loader) begin() func() {
	l.mu.Lock()
	l.n++
	if l.n == 1 {
		l.view.SetLoading(true)
	}
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.n--
			if l.n == 0 {
				l.view.SetLoading(false)
			}
			l.mu.Unlock()
		})
	}
}
