package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	htmlnorm "github.com/custodia-labs/sercha-assist/internal/normalisers/html"
)

// mockCacheFactory implements driven.AnswerCacheFactory for testing.
type mockCacheFactory struct {
	err     error
	created int
}

func (f *mockCacheFactory) NewCache(_ int) (driven.AnswerCache, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created++
	return newMockCache(), nil
}

func newSessionDeps() SessionDeps {
	return SessionDeps{
		Fetchers: &mockFetcherFactory{fetcher: &mockFetcher{
			seed: &domain.Page{URL: "https://yoga.test/", HTML: seedHTML},
		}},
		Discoverer: &mockDiscoverer{},
		Normaliser: htmlnorm.New(),
		Signals:    &mockSignals{},
		Engines:    &mockEngineFactory{engine: &mockSearchEngine{}},
		Caches:     &mockCacheFactory{},
	}
}

func TestSessionService_OpenGetClose(t *testing.T) {
	svc := NewSessionService(newSessionDeps(), domain.DefaultAppSettings())

	id, assistant, err := svc.Open(context.Background(), "https://yoga.test/")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NotNil(t, assistant)
	assert.Equal(t, domain.CrawlNotStarted, assistant.State())

	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.Same(t, assistant, got)
	assert.Equal(t, []string{id}, svc.IDs())

	require.NoError(t, svc.Close(id))
	_, err = svc.Get(id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Close(id), domain.ErrNotFound)
}

func TestSessionService_IDsAreUnique(t *testing.T) {
	svc := NewSessionService(newSessionDeps(), domain.DefaultAppSettings())
	t.Cleanup(svc.CloseAll)

	a, _, err := svc.Open(context.Background(), "https://yoga.test/")
	require.NoError(t, err)
	b, _, err := svc.Open(context.Background(), "https://yoga.test/")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, svc.IDs(), 2)
}

func TestSessionService_SeedLoadFailure(t *testing.T) {
	deps := newSessionDeps()
	deps.Fetchers = &mockFetcherFactory{fetcher: &mockFetcher{}}
	svc := NewSessionService(deps, domain.DefaultAppSettings())

	_, _, err := svc.Open(context.Background(), "https://yoga.test/")
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Empty(t, svc.IDs())
}

func TestSessionService_MissingAdapters(t *testing.T) {
	deps := newSessionDeps()
	deps.Engines = nil
	svc := NewSessionService(deps, domain.DefaultAppSettings())

	_, _, err := svc.Open(context.Background(), "https://yoga.test/")
	assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
}

func TestSessionService_EngineFailure(t *testing.T) {
	boom := errors.New("no engine")
	deps := newSessionDeps()
	deps.Engines = &mockEngineFactory{err: boom}
	svc := NewSessionService(deps, domain.DefaultAppSettings())

	_, _, err := svc.Open(context.Background(), "https://yoga.test/")
	assert.ErrorIs(t, err, boom)
}

func TestSessionService_CachePerSession(t *testing.T) {
	deps := newSessionDeps()
	caches := &mockCacheFactory{}
	deps.Caches = caches
	svc := NewSessionService(deps, domain.DefaultAppSettings())
	t.Cleanup(svc.CloseAll)

	for i := 0; i < 2; i++ {
		_, _, err := svc.Open(context.Background(), "https://yoga.test/")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, caches.created)
}

func TestSessionService_CacheDisabled(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Answer.CacheSize = 0

	deps := newSessionDeps()
	caches := &mockCacheFactory{}
	deps.Caches = caches
	svc := NewSessionService(deps, settings)
	t.Cleanup(svc.CloseAll)

	_, _, err := svc.Open(context.Background(), "https://yoga.test/")
	require.NoError(t, err)
	assert.Equal(t, 0, caches.created)
}

func TestSessionService_CacheFailureIsNotFatal(t *testing.T) {
	deps := newSessionDeps()
	deps.Caches = &mockCacheFactory{err: errors.New("bad size")}
	svc := NewSessionService(deps, domain.DefaultAppSettings())
	t.Cleanup(svc.CloseAll)

	_, _, err := svc.Open(context.Background(), "https://yoga.test/")
	assert.NoError(t, err)
}

func TestSessionService_CloseAll(t *testing.T) {
	svc := NewSessionService(newSessionDeps(), domain.DefaultAppSettings())

	for i := 0; i < 3; i++ {
		_, _, err := svc.Open(context.Background(), "https://yoga.test/")
		require.NoError(t, err)
	}
	svc.CloseAll()

	assert.Empty(t, svc.IDs())
}

func TestSessionService_OpenPage(t *testing.T) {
	svc := NewSessionService(newSessionDeps(), domain.DefaultAppSettings())
	t.Cleanup(svc.CloseAll)

	page := &domain.Page{URL: "file:///srv/site/index.html", HTML: seedHTML}
	id, assistant, err := svc.OpenPage(page)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, svc.IDs())
	assert.Same(t, page, assistant.(*Session).Page())

	_, _, err = svc.OpenPage(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	deps := newSessionDeps()
	deps.Engines = nil
	_, _, err = NewSessionService(deps, domain.DefaultAppSettings()).OpenPage(page)
	assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
}

func TestSessionService_EvictionClosesLeastRecentlyUsed(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Sessions.MaxOpen = 2

	deps := newSessionDeps()
	engines := &mockEngineFactory{}
	deps.Engines = engines
	svc := NewSessionService(deps, settings)
	t.Cleanup(svc.CloseAll)

	first, _, err := svc.Open(context.Background(), "https://yoga.test/")
	require.NoError(t, err)
	second, _, err := svc.Open(context.Background(), "https://yoga.test/")
	require.NoError(t, err)

	// Touching the first session makes the second the oldest.
	_, err = svc.Get(first)
	require.NoError(t, err)

	third, _, err := svc.Open(context.Background(), "https://yoga.test/")
	require.NoError(t, err)
	require.Len(t, engines.created, 3)

	assert.Len(t, svc.IDs(), 2)
	_, err = svc.Get(second)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Eventually(t, engines.created[1].isClosed, time.Second, 5*time.Millisecond)

	for _, id := range []string{first, third} {
		_, err = svc.Get(id)
		assert.NoError(t, err)
	}
	assert.False(t, engines.created[0].isClosed())
	assert.False(t, engines.created[2].isClosed())
}

func TestSessionService_IdleSessionsExpire(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Sessions.IdleTimeout = 50 * time.Millisecond

	deps := newSessionDeps()
	engines := &mockEngineFactory{}
	deps.Engines = engines
	svc := NewSessionService(deps, settings)
	t.Cleanup(svc.CloseAll)

	id, _, err := svc.Open(context.Background(), "https://yoga.test/")
	require.NoError(t, err)
	require.Len(t, engines.created, 1)

	assert.Eventually(t, engines.created[0].isClosed, 2*time.Second, 10*time.Millisecond)
	_, err = svc.Get(id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionService_CloseIsIdempotentForTheSession(t *testing.T) {
	deps := newSessionDeps()
	engines := &mockEngineFactory{}
	deps.Engines = engines
	svc := NewSessionService(deps, domain.DefaultAppSettings())

	id, assistant, err := svc.Open(context.Background(), "https://yoga.test/")
	require.NoError(t, err)

	require.NoError(t, svc.Close(id))
	assert.True(t, engines.created[0].isClosed())
	assert.NoError(t, assistant.(*Session).Close())
}
