package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-assist/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionDeps are the shared adapters sessions are built from.
// Fetchers, engines and caches are created per session.
type SessionDeps struct {
	Fetchers   driven.PageFetcherFactory
	Discoverer driven.LinkDiscoverer
	Normaliser driven.Normaliser
	Signals    driven.SignalExtractor
	Engines    driven.SearchEngineFactory
	// Caches is optional.
	Caches driven.AnswerCacheFactory
}

// SessionService opens and tracks sessions by ID. Sessions live in an
// expirable LRU: opening past Sessions.MaxOpen closes the least recently used
// one and a session idle for Sessions.IdleTimeout is closed.
type SessionService struct {
	deps     SessionDeps
	settings domain.AppSettings
	sessions *expirable.LRU[string, *Session]
}

// NewSessionService creates a new session service.
func NewSessionService(deps SessionDeps, settings domain.AppSettings) *SessionService {
	return &SessionService{
		deps:     deps,
		settings: settings,
		sessions: expirable.NewLRU[string, *Session](settings.Sessions.MaxOpen, evictSession, settings.Sessions.IdleTimeout),
	}
}

// evictSession runs under the LRU lock, so the close happens off it.
func evictSession(id string, session *Session) {
	session.evicted.Store(true)
	go func() {
		if err := session.Close(); err != nil {
			logger.Warn("Close session %s: %v", id, err)
		}
	}()
}

// Open fetches the seed page and registers a new session for it.
func (s *SessionService) Open(ctx context.Context, seedURL string) (string, driving.Assistant, error) {
	session, err := s.NewSession(ctx, seedURL)
	if err != nil {
		return "", nil, err
	}
	return s.register(session), session, nil
}

// OpenPage registers a new session for a page the caller already loaded,
// such as a local file read by the CLI.
func (s *SessionService) OpenPage(page *domain.Page) (string, driving.Assistant, error) {
	if page == nil || page.URL == "" {
		return "", nil, fmt.Errorf("%w: empty page", domain.ErrInvalidInput)
	}
	if s.deps.Fetchers == nil || s.deps.Engines == nil {
		return "", nil, domain.ErrSearchUnavailable
	}
	session, err := s.newSession(page, s.deps.Fetchers.NewPageFetcher(s.settings.Crawl))
	if err != nil {
		return "", nil, err
	}
	return s.register(session), session, nil
}

func (s *SessionService) register(session *Session) string {
	id := uuid.NewString()
	if s.sessions.Add(id, session) {
		logger.Debug("Session limit %d reached, closed the least recently used", s.settings.Sessions.MaxOpen)
	}
	logger.Debug("Opened session %s for %s", id, session.Page().URL)
	return id
}

// NewSession builds an unregistered session for seedURL.
func (s *SessionService) NewSession(ctx context.Context, seedURL string) (*Session, error) {
	if s.deps.Fetchers == nil || s.deps.Engines == nil {
		return nil, domain.ErrSearchUnavailable
	}

	fetcher := s.deps.Fetchers.NewPageFetcher(s.settings.Crawl)

	page, err := fetcher.LoadPage(ctx, seedURL)
	if err != nil {
		return nil, fmt.Errorf("load seed page: %w", err)
	}

	return s.newSession(page, fetcher)
}

func (s *SessionService) newSession(page *domain.Page, fetcher driven.PageFetcher) (*Session, error) {
	engine, err := s.deps.Engines.NewEngine(s.settings.Index)
	if err != nil {
		return nil, fmt.Errorf("create search engine: %w", err)
	}

	var cache driven.AnswerCache
	if s.deps.Caches != nil && s.settings.Answer.CacheSize > 0 {
		cache, err = s.deps.Caches.NewCache(s.settings.Answer.CacheSize)
		if err != nil {
			logger.Warn("Answer cache disabled: %v", err)
			cache = nil
		}
	}

	return NewSession(page, s.settings, SessionComponents{
		Fetcher:    fetcher,
		Discoverer: s.deps.Discoverer,
		Normaliser: s.deps.Normaliser,
		Signals:    s.deps.Signals,
		Engine:     engine,
		Cache:      cache,
	}), nil
}

// Get returns the session with the given ID and restarts its idle timer.
func (s *SessionService) Get(id string) (driving.Assistant, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}

	// Re-adding renews the expiry. An entry evicted in between was put back
	// closed, so drop it again.
	s.sessions.Add(id, session)
	if session.evicted.Load() {
		s.sessions.Remove(id)
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return session, nil
}

// Close forgets a session and releases its index.
func (s *SessionService) Close(id string) error {
	session, ok := s.sessions.Peek(id)
	if !ok || !s.sessions.Remove(id) {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return session.Close()
}

// IDs returns the open session IDs, sorted.
func (s *SessionService) IDs() []string {
	ids := s.sessions.Keys()
	sort.Strings(ids)
	return ids
}

// CloseAll closes every open session.
func (s *SessionService) CloseAll() {
	for _, id := range s.IDs() {
		if err := s.Close(id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Close session %s: %v", id, err)
		}
	}
}
