package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockFetcher implements driven.PageFetcher for testing.
type mockFetcher struct {
	pages map[string]string
	errs  map[string]error
	seed  *domain.Page
	delay time.Duration
	// gate, when set, blocks every fetch until it is closed.
	gate chan struct{}

	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	m.calls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	html, ok := m.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s: status 404", domain.ErrFetchFailed, url)
	}
	return &domain.RawDocument{URI: url, MIMEType: "text/html", Content: []byte(html)}, nil
}

func (m *mockFetcher) LoadPage(_ context.Context, seed string) (*domain.Page, error) {
	if m.seed == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrFetchFailed, seed)
	}
	return m.seed, nil
}

// mockFetcherFactory hands out the same fetcher for every session.
type mockFetcherFactory struct {
	fetcher *mockFetcher
}

func (f *mockFetcherFactory) NewPageFetcher(_ domain.CrawlSettings) driven.PageFetcher {
	return f.fetcher
}

// mockDiscoverer implements driven.LinkDiscoverer for testing.
type mockDiscoverer struct {
	links     []string
	lastLimit int
}

func (m *mockDiscoverer) Discover(_ *domain.Page, limit int) []string {
	m.lastLimit = limit
	if len(m.links) > limit {
		return m.links[:limit]
	}
	return m.links
}

// mockSearchEngine implements driven.SearchEngine for testing.
type mockSearchEngine struct {
	mu        sync.Mutex
	results   []domain.SearchResult
	addErr    error
	searchErr error
	added     []domain.Document
	searches  int
	closed    bool
}

func (m *mockSearchEngine) AddAll(_ context.Context, docs []domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, docs...)
	return nil
}

func (m *mockSearchEngine) Search(_ context.Context, _ string) ([]domain.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockSearchEngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSearchEngine) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// mockEngineFactory implements driven.SearchEngineFactory for testing.
// With a nil engine it creates a fresh one per call and records it.
type mockEngineFactory struct {
	engine  *mockSearchEngine
	err     error
	created []*mockSearchEngine
}

func (f *mockEngineFactory) NewEngine(_ domain.IndexSettings) (driven.SearchEngine, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.engine != nil {
		return f.engine, nil
	}
	engine := &mockSearchEngine{}
	f.created = append(f.created, engine)
	return engine, nil
}

// mockSignals implements driven.SignalExtractor for testing.
type mockSignals struct {
	signals       domain.PageSignals
	lastAttribute string
}

func (m *mockSignals) Signals(_ *domain.Page, attribute string) domain.PageSignals {
	m.lastAttribute = attribute
	return m.signals
}

// mockCache implements driven.AnswerCache for testing.
type mockCache struct {
	mu      sync.Mutex
	entries map[string]*domain.Answer
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*domain.Answer)}
}

func (m *mockCache) Get(query string) (*domain.Answer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.entries[query]
	return a, ok
}

func (m *mockCache) Add(query string, answer *domain.Answer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[query] = answer
}

func (m *mockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// mockNormaliser implements driven.Normaliser for testing.
// It treats markup as plain text and splits sentences on ". ".
type mockNormaliser struct {
	err error
}

func (m *mockNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	content := string(raw.Content)
	return &driven.NormaliseResult{
		Document: domain.Document{ID: raw.URI, URL: raw.URI, Title: raw.URI, Content: content},
	}, nil
}

func (m *mockNormaliser) Sentences(content string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '.' && content[i+1] == ' ' {
			out = append(out, content[start:i+1])
			start = i + 2
		}
	}
	if start < len(content) {
		out = append(out, content[start:])
	}
	return out
}
