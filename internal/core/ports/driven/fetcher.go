package driven

import (
	"context"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// PageFetcher retrieves a single page.
// Non-success statuses and transport failures are returned as errors
// wrapping domain.ErrFetchFailed.
// A fetcher carries one session's cookies, so every request made through it
// is credentialed the same way.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)
	// LoadPage fetches the seed page a session is opened on. Seeds that are
	// not absolute http(s) URLs return domain.ErrInvalidInput.
	LoadPage(ctx context.Context, seed string) (*domain.Page, error)
}

// PageFetcherFactory creates a fetcher with a fresh cookie jar.
type PageFetcherFactory interface {
	NewPageFetcher(settings domain.CrawlSettings) PageFetcher
}

// LinkDiscoverer enumerates candidate same-origin page URLs from a page.
type LinkDiscoverer interface {
	// Discover returns at most limit deduplicated URLs.
	Discover(page *domain.Page, limit int) []string
}

// SignalExtractor reads contact hints from a page.
type SignalExtractor interface {
	Signals(page *domain.Page, attribute string) domain.PageSignals
}
