package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// Assistant answers visitor queries for one session.
type Assistant interface {
	// Activate starts the crawl and index build. Only the first call has an effect.
	Activate()

	// WaitReady blocks until the index is built or bound elapses.
	WaitReady(ctx context.Context, bound time.Duration) error

	// Ask routes a query to escalation or search and returns the reply.
	// An error is returned only when ctx is cancelled.
	Ask(ctx context.Context, query string) (*domain.Reply, error)

	// Escalate resolves the page contact and builds a deep link.
	// An empty message uses the configured default.
	Escalate(message string) *domain.Reply

	// State returns the crawl lifecycle state.
	State() domain.CrawlState

	// Documents returns a copy of the corpus once ready, or nil before.
	Documents() []domain.Document

	// Stats returns the crawl summary once ready.
	Stats() domain.CrawlStats

	// Publish raises a session signal. Unknown topics return domain.ErrInvalidInput.
	Publish(topic domain.Topic) error

	// Drain returns and clears replies produced by signals since the last call.
	Drain() []*domain.Reply
}

// SessionService opens and tracks assistant sessions.
type SessionService interface {
	// Open fetches the seed page and returns a new session. The seed must be
	// an absolute http(s) URL.
	Open(ctx context.Context, seedURL string) (string, Assistant, error)
	// OpenPage returns a new session for a page the caller already loaded.
	OpenPage(page *domain.Page) (string, Assistant, error)

	// Get returns an existing session.
	Get(id string) (Assistant, error)

	// Close forgets a session and releases its index.
	Close(id string) error

	// CloseAll closes every open session.
	CloseAll()
}
