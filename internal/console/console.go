// SPDX-License-Identifier: MIT

// Package console renders a session as plain text on a line-oriented
// terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ManuGH/dramahub/internal/catalog"
	"github.com/ManuGH/dramahub/internal/session"
)

var defaultHeadings = map[session.Container]string{
	session.ContainerTrending:    "Trending",
	session.ContainerLatest:      "Terbaru",
	session.ContainerRecommended: session.HeadingRecommended,
	session.ContainerVIP:         "VIP",
	session.ContainerDub:         "Dub Indo",
}

// Options tune a Renderer.
type Options struct {
	// ShowLoading prints a line whenever the loading indicator turns on.
	ShowLoading bool
	// Width truncates titles; 0 keeps them whole.
	Width int
}

// Renderer implements session.View by writing to w.
type Renderer struct {
	mu       sync.Mutex
	w        io.Writer
	opts     Options
	headings map[session.Container]string
	loading  bool
	detail   bool
	playing  string
}

var _ session.View = (*Renderer)(nil)

// New returns a Renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	headings := make(map[session.Container]string, len(defaultHeadings))
	for c, h := range defaultHeadings {
		headings[c] = h
	}
	return &Renderer{w: w, opts: opts, headings: headings}
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) SetLoading(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if on && !r.loading && r.opts.ShowLoading {
		r.printf("… memuatkan\n")
	}
	r.loading = on
}

func (r *Renderer) ShowSection(s session.Section) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("\n== %s ==\n", strings.ToUpper(string(s)))
}

// ScrollTop has nothing to move on a terminal.
func (r *Renderer) ScrollTop() {}

func (r *Renderer) ScrollTo(c session.Container) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("-> %s\n", r.headings[c])
}

func (r *Renderer) SetHero(h catalog.Hero) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("\n★ %s\n  %s\n", r.clip(h.Title), h.Blurb)
}

func (r *Renderer) RenderGrid(c session.Container, cards []catalog.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("\n[%s] %s\n", c, r.headings[c])
	for i, card := range cards {
		line := fmt.Sprintf("%3d. %s  (%s ep, %s)", i+1, r.clip(card.Title), card.Episodes, card.Badge)
		if card.Protagonist != "" {
			line += "  " + card.Protagonist
		}
		r.printf("%s\n", line)
	}
}

func (r *Renderer) SetHeading(c session.Container, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.headings[c] == text {
		return
	}
	r.headings[c] = text
	r.printf("[%s] %s\n", c, text)
}

func (r *Renderer) ShowMessage(c session.Container, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("\n[%s] %s\n     %s\n", c, r.headings[c], text)
}

func (r *Renderer) ShowDetail(d catalog.Detail, episodes []catalog.Episode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detail = true

	r.printf("\n┌ %s\n", d.Title)
	r.printf("│ Rating %s · %s episod\n", d.Rating, d.Episodes)
	if len(d.Tags) > 0 {
		r.printf("│ %s\n", strings.Join(d.Tags, ", "))
	}
	r.printf("│ %s\n", d.Synopsis)
	if len(episodes) == 0 {
		r.printf("└ (tiada episod)\n")
		return
	}
	labels := make([]string, 0, len(episodes))
	for i, ep := range episodes {
		label := ep.Label()
		if label == "" {
			label = fmt.Sprint(i + 1)
		}
		if !catalog.Playable(ep.StreamURL()) {
			label += "×"
		}
		labels = append(labels, label)
	}
	r.printf("└ Episod: %s\n", strings.Join(labels, " "))
}

func (r *Renderer) HideDetail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detail {
		r.printf("× tutup\n")
	}
	r.detail = false
}

func (r *Renderer) ShowPlayer(heading, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playing = url
	r.printf("\n▶ %s\n  %s\n", heading, url)
}

func (r *Renderer) HidePlayer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.playing != "" {
		r.printf("■ stopped\n")
	}
	r.playing = ""
}

func (r *Renderer) Alert(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("! %s\n", text)
}

// Playing returns the stream currently handed to the player, if any.
func (r *Renderer) Playing() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

// Loading reports whether the indicator is raised.
func (r *Renderer) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

func (r *Renderer) clip(s string) string {
	if r.opts.Width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= r.opts.Width {
		return s
	}
	if r.opts.Width == 1 {
		return "…"
	}
	return string(runes[:r.opts.Width-1]) + "…"
}
