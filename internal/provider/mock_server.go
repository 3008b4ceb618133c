// SPDX-License-Identifier: MIT

package provider

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer is a configurable upstream catalog for tests and local runs.
type MockServer struct {
	*httptest.Server
	mu       sync.RWMutex
	payloads map[string]json.RawMessage // keyed by upstream path
	delay    map[string]time.Duration
	failures map[string]int // number of 500s before success per path
	requests map[string]int
	lastQry  map[string]string
}

// NewMockServer starts a mock upstream with default catalog data.
func NewMockServer() *MockServer {
	m := &MockServer{}
	m.Reset()

	mux := http.NewServeMux()
	for _, p := range paths {
		mux.HandleFunc(p, m.handle)
	}
	m.Server = httptest.NewServer(mux)
	return m
}

// SetDefaultData restores the default payloads without touching counters.
func (m *MockServer) SetDefaultData() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setDefaultDataNoLock()
}

func (m *MockServer) setDefaultDataNoLock() {
	m.payloads = map[string]json.RawMessage{
		paths[OpLatest]: json.RawMessage(`[
			{"bookId":"41000101","bookName":"Cinta di Ujung Senja","coverWap":"https://img.example/101.jpg","chapterCount":60},
			{"bookId":"41000102","bookName":"Pewaris Tersembunyi","cover":"https://img.example/102.jpg","totalChapter":"82"}
		]`),
		paths[OpTrending]: json.RawMessage(`[
			{"bookId":"41000201","bookName":"Istri Sang CEO","cover":"https://img.example/201.jpg","introduction":"Pernikahan kontrak yang berubah jadi cinta.","score":"9.1"},
			{"bookId":"41000202","bookName":"Balas Dendam Putri","bookCover":"https://img.example/202.jpg","hotCode":"HOT"}
		]`),
		paths[OpForYou]: json.RawMessage(`[
			{"bookId":"41000301","bookName":"Kembalinya Sang Legenda","protagonist":"Lin Feng"}
		]`),
		paths[OpVIP]: json.RawMessage(`{"records":[
			{"bookId":"41000401","bookName":"Ratu Tanpa Mahkota","chapterCount":45}
		]}`),
		paths[OpRandom]: json.RawMessage(`{"bookId":"41000501","bookName":"Takdir Kedua","videoUrl":"https://cdn.example/501/1.m3u8"}`),
		paths[OpPopularSearches]: json.RawMessage(`["ceo","balas dendam","pernikahan kontrak"]`),
		paths[OpSearch]: json.RawMessage(`[
			{"bookId":"41000201","bookName":"Istri Sang CEO"}
		]`),
		paths[OpDetail]: json.RawMessage(`{"data":{
			"bookId":"41000201","bookName":"Istri Sang CEO","cover":"https://img.example/201.jpg",
			"introduction":"Pernikahan kontrak yang berubah jadi cinta.","chapterCount":3,
			"tags":["Romansa",{"tagName":"CEO"}],"score":"9.1"
		}}`),
		paths[OpEpisodes]: json.RawMessage(`[
			{"chapterIndex":1,"chapterName":"EP 1","playUrl":"https://cdn.example/201/1.m3u8"},
			{"chapterIndex":2,"chapterName":"EP 2","playUrlV3":"https://cdn.example/201/2.m3u8"},
			{"chapterIndex":3,"chapterName":"EP 3","playUrl":"undefined"}
		]`),
		paths[OpDubbed]: json.RawMessage(`[
			{"bookId":"41000601","bookName":"Cinta Sang Jenderal (Dub)","chapterCount":70}
		]`),
	}
}

// SetPayload replaces the JSON body served for an operation.
func (m *MockServer) SetPayload(op string, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[paths[op]] = json.RawMessage(body)
}

// SetDelay delays every response of an operation.
func (m *MockServer) SetDelay(op string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay[paths[op]] = d
}

// SetFailures makes the next count calls of an operation answer 500.
func (m *MockServer) SetFailures(op string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[paths[op]] = count
}

// Requests returns how many calls reached an operation.
func (m *MockServer) Requests(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[paths[op]]
}

// LastQuery returns the raw query string of the latest call to an operation.
func (m *MockServer) LastQuery(op string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQry[paths[op]]
}

func (m *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	m.mu.Lock()
	m.requests[path]++
	m.lastQry[path] = r.URL.RawQuery
	delay := m.delay[path]
	fail := m.failures[path] > 0
	if fail {
		m.failures[path]--
	}
	body := m.payloads[path]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if fail {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// Reset clears counters and restores the default data.
func (m *MockServer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.delay = make(map[string]time.Duration)
	m.failures = make(map[string]int)
	m.requests = make(map[string]int)
	m.lastQry = make(map[string]string)
	m.setDefaultDataNoLock()
}

// URL returns the mock server's base URL.
func (m *MockServer) URL() string {
	return m.Server.URL
}
