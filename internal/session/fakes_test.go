// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/ManuGH/dramahub/internal/catalog"
)

func makeItems(prefix string, n int) []catalog.Item {
	out := make([]catalog.Item, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, catalog.Item{
			BookID:   catalog.Text(fmt.Sprintf("%s-%d", prefix, i)),
			BookName: catalog.Text(fmt.Sprintf("%s drama %d", prefix, i)),
		})
	}
	return out
}

// fakeGateway serves canned data. Calls can be held open with gate.
type fakeGateway struct {
	mu       sync.Mutex
	lists    map[string][]catalog.Item
	details  map[string]*catalog.Item
	episodes map[string][]catalog.Episode
	errs     map[string]error
	gates    map[string]chan struct{}
	calls    map[string]int
	dubArgs  []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		lists: map[string][]catalog.Item{
			"trending": makeItems("trending", 12),
			"latest":   makeItems("latest", 12),
			"foryou":   makeItems("foryou", 20),
			"vip":      makeItems("vip", 25),
			"dubbed":   makeItems("dub", 25),
			"search":   makeItems("search", 20),
		},
		details: map[string]*catalog.Item{
			"41000201": {
				BookID:       "41000201",
				BookName:     "Istri Sang CEO",
				Introduction: "Pernikahan kontrak.",
				Tags:         []catalog.Tag{"Romansa", "CEO"},
			},
			"41000202": {BookID: "41000202", BookName: "Balas Dendam Putri"},
		},
		episodes: map[string][]catalog.Episode{
			"41000201": {
				{ChapterIndex: "1", PlayURL: "https://cdn.example/201/1.m3u8"},
				{ChapterIndex: "2", PlayURLV3: "https://cdn.example/201/2.m3u8"},
				{ChapterIndex: "3", PlayURL: "undefined"},
			},
		},
		errs:  make(map[string]error),
		gates: make(map[string]chan struct{}),
		calls: make(map[string]int),
	}
}

func (g *fakeGateway) setErr(key string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.errs, key)
		return
	}
	g.errs[key] = err
}

// hold blocks calls for key until the returned release is called.
func (g *fakeGateway) hold(key string) (release func()) {
	ch := make(chan struct{})
	g.mu.Lock()
	g.gates[key] = ch
	g.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (g *fakeGateway) count(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[key]
}

func (g *fakeGateway) enter(ctx context.Context, key string) error {
	g.mu.Lock()
	g.calls[key]++
	gate := g.gates[key]
	err := g.errs[key]
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (g *fakeGateway) list(ctx context.Context, key string) ([]catalog.Item, error) {
	if err := g.enter(ctx, key); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lists[key], nil
}

func (g *fakeGateway) Latest(ctx context.Context) ([]catalog.Item, error) {
	return g.list(ctx, "latest")
}

func (g *fakeGateway) Trending(ctx context.Context) ([]catalog.Item, error) {
	return g.list(ctx, "trending")
}

func (g *fakeGateway) ForYou(ctx context.Context) ([]catalog.Item, error) {
	return g.list(ctx, "foryou")
}

func (g *fakeGateway) VIP(ctx context.Context) ([]catalog.Item, error) {
	return g.list(ctx, "vip")
}

func (g *fakeGateway) Dubbed(ctx context.Context, classify string, page int) ([]catalog.Item, error) {
	g.mu.Lock()
	g.dubArgs = append(g.dubArgs, fmt.Sprintf("%s/%d", classify, page))
	g.mu.Unlock()
	return g.list(ctx, "dubbed")
}

func (g *fakeGateway) Search(ctx context.Context, query string) ([]catalog.Item, error) {
	return g.list(ctx, "search")
}

func (g *fakeGateway) Detail(ctx context.Context, id string) (*catalog.Item, error) {
	if err := g.enter(ctx, "detail:"+id); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.details[id], nil
}

func (g *fakeGateway) Episodes(ctx context.Context, id string) ([]catalog.Episode, error) {
	if err := g.enter(ctx, "episodes:"+id); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.episodes[id], nil
}

// recordingView keeps what was last shown plus an ordered call log.
type recordingView struct {
	mu       sync.Mutex
	log      []string
	loading  []bool
	sections []Section
	hero     *catalog.Hero
	grids    map[Container][]catalog.Card
	headings map[Container]string
	messages map[Container]string
	detail   *catalog.Detail
	episodes []catalog.Episode
	details  int
	player   [2]string
	alerts   []string
}

func newRecordingView() *recordingView {
	return &recordingView{
		grids:    make(map[Container][]catalog.Card),
		headings: make(map[Container]string),
		messages: make(map[Container]string),
	}
}

func (v *recordingView) record(format string, args ...any) {
	v.log = append(v.log, fmt.Sprintf(format, args...))
}

func (v *recordingView) SetLoading(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = append(v.loading, on)
	v.record("loading:%t", on)
}

func (v *recordingView) ShowSection(s Section) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sections = append(v.sections, s)
	v.record("section:%s", s)
}

func (v *recordingView) ScrollTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("scroll:top")
}

func (v *recordingView) ScrollTo(c Container) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("scroll:%s", c)
}

func (v *recordingView) SetHero(h catalog.Hero) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hero = &h
	v.record("hero:%s", h.ID)
}

func (v *recordingView) RenderGrid(c Container, cards []catalog.Card) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.grids[c] = cards
	delete(v.messages, c)
	v.record("grid:%s:%d", c, len(cards))
}

func (v *recordingView) SetHeading(c Container, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.headings[c] = text
	v.record("heading:%s", c)
}

func (v *recordingView) ShowMessage(c Container, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.grids, c)
	v.messages[c] = text
	v.record("message:%s", c)
}

func (v *recordingView) ShowDetail(d catalog.Detail, episodes []catalog.Episode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.detail = &d
	v.episodes = episodes
	v.details++
	v.record("detail:%s", d.ID)
}

func (v *recordingView) HideDetail() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("hide:detail")
}

func (v *recordingView) ShowPlayer(heading, url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.player = [2]string{heading, url}
	v.record("player")
}

func (v *recordingView) HidePlayer() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.player = [2]string{}
	v.record("hide:player")
}

func (v *recordingView) Alert(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, text)
	v.record("alert")
}

func (v *recordingView) snapshotLog() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.log...)
}

func (v *recordingView) gridLen(c Container) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.grids[c])
}

// loadingIdle reports whether the indicator was raised and is now down.
func (v *recordingView) loadingIdle() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.loading) > 0 && !v.loading[len(v.loading)-1]
}

func (v *recordingView) sectionCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.sections)
}
