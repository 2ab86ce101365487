package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-assist/internal/events"
	"github.com/custodia-labs/sercha-assist/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.Assistant = (*Session)(nil)

// SessionComponents are the collaborators a session is built from.
type SessionComponents struct {
	Fetcher    driven.PageFetcher
	Discoverer driven.LinkDiscoverer
	Normaliser driven.Normaliser
	Signals    driven.SignalExtractor
	Engine     driven.SearchEngine
	// Cache is optional.
	Cache driven.AnswerCache
}

// Session is one visitor's assistant. It owns the seed page, the corpus
// and the crawl lifecycle; nothing is shared between sessions.
//
// The corpus is built at most once. Activate flips an atomic latch and
// starts the crawl in the background; the ready channel is closed exactly
// once when the build finishes, whether or not it succeeded.
type Session struct {
	page     *domain.Page
	settings domain.AppSettings

	crawler  *CrawlService
	corpus   *Corpus
	answerer *Answerer
	router   *IntentRouter
	contacts *ContactResolver
	signals  driven.SignalExtractor
	bus      *events.Bus

	started atomic.Bool
	state   atomic.Int32
	ready   chan struct{}

	// written before ready is closed
	stats    domain.CrawlStats
	buildErr error

	mu     sync.Mutex
	outbox []*domain.Reply
	unsubs []func()

	// set once the session service has dropped it
	evicted   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewSession creates a session for page. The crawl does not start until
// Activate is called or TopicActivate is published.
func NewSession(page *domain.Page, settings domain.AppSettings, c SessionComponents) *Session {
	corpus := NewCorpus(c.Engine)
	answerer := NewAnswerer(corpus, c.Normaliser, settings.Answer)
	if c.Cache != nil {
		answerer.SetCache(c.Cache)
	}

	if settings.Answer.ReadyTimeout <= 0 {
		settings.Answer.ReadyTimeout = domain.DefaultAppSettings().Answer.ReadyTimeout
	}

	s := &Session{
		page:     page,
		settings: settings,
		crawler:  NewCrawlService(c.Fetcher, c.Discoverer, c.Normaliser, settings.Crawl),
		corpus:   corpus,
		answerer: answerer,
		router:   NewIntentRouter(),
		contacts: NewContactResolver(settings.Contact.Message),
		signals:  c.Signals,
		bus:      events.New(),
		ready:    make(chan struct{}),
	}

	s.unsubs = append(s.unsubs,
		s.bus.Subscribe(domain.TopicActivate, s.Activate),
		s.bus.Subscribe(domain.TopicOpenEscalation, s.openEscalation),
	)

	return s
}

// Page returns the seed page.
func (s *Session) Page() *domain.Page {
	return s.page
}

// Activate starts the crawl and index build. Only the first call has an
// effect. The crawl runs on a background context so it outlives the
// request that triggered it.
func (s *Session) Activate() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.state.Store(int32(domain.CrawlInProgress))
	logger.Debug("Session for %s activated", s.page.URL)

	go s.build(context.Background())
}

func (s *Session) build(ctx context.Context) {
	defer close(s.ready)

	docs, stats := s.crawler.Crawl(ctx, s.page)
	s.stats = stats

	if err := s.corpus.Build(ctx, docs); err != nil {
		logger.Error("Build index for %s: %v", s.page.URL, err)
		s.buildErr = err
		return
	}

	s.state.Store(int32(domain.CrawlReady))
}

// WaitReady blocks until the build finishes or bound elapses. It returns
// domain.ErrIndexNotReady on timeout, ctx.Err() on cancellation and the
// build error if the index could not be built.
func (s *Session) WaitReady(ctx context.Context, bound time.Duration) error {
	timer := time.NewTimer(bound)
	defer timer.Stop()

	select {
	case <-s.ready:
		return s.buildErr
	case <-timer.C:
		return domain.ErrIndexNotReady
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ask routes query to escalation or search.
func (s *Session) Ask(ctx context.Context, query string) (*domain.Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &domain.Reply{Kind: domain.ReplyIgnored}, nil
	}

	if s.router.Classify(query) == domain.IntentEscalate {
		logger.Debug("Escalating %q", query)
		return s.Escalate(""), nil
	}

	var notices []string
	select {
	case <-s.ready:
	default:
		s.Activate()
		notices = append(notices, domain.MessageScanning)

		err := s.WaitReady(ctx, s.settings.Answer.ReadyTimeout)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			logger.Warn("Index for %s not ready: %v", s.page.URL, err)
			return notReady(notices), nil
		}
	}

	if s.buildErr != nil {
		return notReady(notices), nil
	}

	answer, err := s.answerer.Answer(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Error("Answer %q: %v", query, err)
		return notReady(notices), nil
	}

	return &domain.Reply{
		Kind:    replyKind(answer.Kind),
		Message: answer.Message,
		Answer:  answer,
		Notices: notices,
	}, nil
}

// Escalate resolves the page's contact number. It never touches the index.
func (s *Session) Escalate(message string) *domain.Reply {
	signals := s.signals.Signals(s.page, s.settings.Contact.Attribute)

	contact, link, err := s.contacts.Resolve(signals, message)
	if err != nil {
		if !errors.Is(err, domain.ErrNoContact) {
			logger.Warn("Resolve contact on %s: %v", s.page.URL, err)
		}
		return &domain.Reply{Kind: domain.ReplyNoContact, Message: domain.MessageNoContact}
	}

	return &domain.Reply{
		Kind:     domain.ReplyEscalation,
		Message:  domain.MessageEscalation,
		DeepLink: link,
		Contact:  contact,
	}
}

func (s *Session) openEscalation() {
	reply := s.Escalate("")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, reply)
}

// Publish raises a session signal on the session's bus.
func (s *Session) Publish(topic domain.Topic) error {
	if !topic.IsValid() {
		return domain.ErrInvalidInput
	}
	s.bus.Publish(topic)
	return nil
}

// Subscribe registers an extra handler on the session's bus.
func (s *Session) Subscribe(topic domain.Topic, handler events.Handler) func() {
	return s.bus.Subscribe(topic, handler)
}

// Drain returns and clears replies produced by signals.
func (s *Session) Drain() []*domain.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.outbox
	s.outbox = nil
	return out
}

// State returns the crawl lifecycle state.
func (s *Session) State() domain.CrawlState {
	return domain.CrawlState(s.state.Load())
}

// Documents returns the corpus once ready, or nil before.
func (s *Session) Documents() []domain.Document {
	return s.corpus.Documents()
}

// Stats returns the crawl summary once the build has finished.
func (s *Session) Stats() domain.CrawlStats {
	select {
	case <-s.ready:
		return s.stats
	default:
		return domain.CrawlStats{}
	}
}

// Close detaches the session from its bus and releases the index once any
// running build has finished. Later calls return the first call's result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		for _, unsub := range s.unsubs {
			unsub()
		}
		m := s.bus.Metrics()
		s.bus.Close()

		if s.started.Load() {
			<-s.ready
		}
		s.closeErr = s.corpus.Close()
		logger.Debug("Session for %s closed (%d signals, %d deliveries)", s.page.URL, m.Published, m.Delivered)
	})
	return s.closeErr
}

func notReady(notices []string) *domain.Reply {
	return &domain.Reply{Kind: domain.ReplyNotReady, Message: domain.MessageNotReady, Notices: notices}
}

func replyKind(kind domain.AnswerKind) domain.ReplyKind {
	switch kind {
	case domain.AnswerNoMatch:
		return domain.ReplyNoMatch
	case domain.AnswerNoExcerpt:
		return domain.ReplyNoExcerpt
	default:
		return domain.ReplyAnswer
	}
}
