// SPDX-License-Identifier: MIT

package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/dramahub/internal/catalog"
)

// Section is a top-level catalog page.
type Section string

const (
	SectionHome Section = "home"
	SectionVIP  Section = "vip"
	SectionDub  Section = "dub"
)

// Sections lists every section in navigation order.
var Sections = []Section{SectionHome, SectionVIP, SectionDub}

// ParseSection resolves a navigation name. "dub-indo" is accepted as an
// alias for the dub section.
func ParseSection(name string) (Section, error) {
	switch strings.TrimSpace(name) {
	case "home":
		return SectionHome, nil
	case "vip":
		return SectionVIP, nil
	case "dub", "dub-indo":
		return SectionDub, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// Mode is the modal state of the detail/player flow.
type Mode string

const (
	ModeCatalog    Mode = "catalog"
	ModeDetailOpen Mode = "detail_open"
	ModePlayerOpen Mode = "player_open"
)

// Trigger is an event of the detail/player flow.
type Trigger string

const (
	TriggerOpen        Trigger = "open"
	TriggerPlay        Trigger = "play"
	TriggerClosePlayer Trigger = "close-player"
	TriggerCloseDetail Trigger = "close-detail"
)

var (
	// ErrNoID is returned when an item without bookId or id is opened.
	ErrNoID = errors.New("drama has no id")
	// ErrNotFound is returned when the gateway has no detail record.
	ErrNotFound = errors.New("drama detail not found")
	// ErrLinkUnavailable is returned for episodes without a playable URL.
	ErrLinkUnavailable = errors.New("episode stream unavailable")
	// ErrSuperseded is returned by a detail open that a newer open overtook.
	ErrSuperseded = errors.New("superseded by a newer open")
	// ErrUnknownSection is returned for navigation names outside the table.
	ErrUnknownSection = errors.New("unknown section")
	// ErrOutOfRange is returned when a grid or episode position is not shown.
	ErrOutOfRange = errors.New("no entry at position")
)

// User-facing texts.
const (
	MsgDetailFailed     = "Maaf, gagal memuatkan butiran drama."
	MsgVideoUnavailable = "Maaf, video untuk episod ini tidak tersedia."
	MsgNoResults        = "Drama tidak ditemui."
	// HeadingRecommended titles the recommended grid outside of a search.
	HeadingRecommended = "Untuk Anda"
	searchHeading      = `Hasil Carian: "%s"`
)

// Per-grid item caps.
const (
	capTrending    = 10
	capLatest      = 10
	capRecommended = 15
	capVIP         = 20
	capDub         = 20
)

// State is a snapshot of one client's application state.
type State struct {
	// CurrentDrama is the last successfully opened drama. It is replaced on
	// each successful open and never cleared.
	CurrentDrama  *catalog.Item
	Episodes      []catalog.Episode
	ActiveSection Section
	Populated     map[Section]bool
	Mode          Mode
}

func (st State) clone() State {
	out := st
	if st.CurrentDrama != nil {
		d := *st.CurrentDrama
		out.CurrentDrama = &d
	}
	out.Episodes = append([]catalog.Episode(nil), st.Episodes...)
	out.Populated = make(map[Section]bool, len(st.Populated))
	for k, v := range st.Populated {
		out.Populated[k] = v
	}
	return out
}
