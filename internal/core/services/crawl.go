package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-assist/internal/logger"
)

// CrawlService assembles a session's documents: the seed page first, then
// every same-origin page it links to that fetched successfully and carries
// enough text.
type CrawlService struct {
	fetcher    driven.PageFetcher
	discoverer driven.LinkDiscoverer
	normaliser driven.Normaliser
	settings   domain.CrawlSettings
}

// NewCrawlService creates a new crawl service.
func NewCrawlService(
	fetcher driven.PageFetcher,
	discoverer driven.LinkDiscoverer,
	normaliser driven.Normaliser,
	settings domain.CrawlSettings,
) *CrawlService {
	defaults := domain.DefaultAppSettings().Crawl
	if settings.LinkLimit <= 0 {
		settings.LinkLimit = defaults.LinkLimit
	}
	if settings.Concurrency <= 0 {
		settings.Concurrency = defaults.Concurrency
	}
	if settings.MinContentLength < 0 {
		settings.MinContentLength = 0
	}

	return &CrawlService{
		fetcher:    fetcher,
		discoverer: discoverer,
		normaliser: normaliser,
		settings:   settings,
	}
}

// Crawl builds the ordered document list for a page. It never fails: the
// seed page is always document 0, so the result is never empty.
func (c *CrawlService) Crawl(ctx context.Context, page *domain.Page) ([]domain.Document, domain.CrawlStats) {
	logger.Section("Crawl")

	seed := c.SeedDocument(ctx, page)
	docs := []domain.Document{seed}

	links := c.discoverer.Discover(page, c.settings.LinkLimit)
	logger.Debug("Discovered %d same-origin links on %s", len(links), page.URL)

	stats := domain.CrawlStats{Discovered: len(links)}

	for i, doc := range c.FetchAll(ctx, links) {
		if doc == nil {
			stats.Failed++
			continue
		}
		stats.Fetched++

		if utf8.RuneCountInString(doc.Content) < c.settings.MinContentLength {
			logger.Debug("Dropping %s: %d characters of text", links[i], utf8.RuneCountInString(doc.Content))
			stats.Dropped++
			continue
		}
		docs = append(docs, *doc)
	}

	stats.Documents = len(docs)
	logger.Info("Crawl of %s finished: %d documents, %d failed, %d dropped",
		page.URL, stats.Documents, stats.Failed, stats.Dropped)

	return docs, stats
}

// SeedDocument builds a document from the page's in-memory markup.
// The page is never re-fetched.
func (c *CrawlService) SeedDocument(ctx context.Context, page *domain.Page) domain.Document {
	raw := &domain.RawDocument{
		URI:      page.URL,
		MIMEType: "text/html",
		Content:  []byte(page.HTML),
	}

	result, err := c.normaliser.Normalise(ctx, raw)
	if err != nil {
		logger.Warn("Normalise seed page %s: %v", page.URL, err)
		return domain.Document{ID: page.URL, URL: page.URL, Title: domain.CurrentPageTitle}
	}

	doc := result.Document
	if !result.HasTitle {
		doc.Title = domain.CurrentPageTitle
	}
	return doc
}

// FetchAll fetches urls concurrently and returns one slot per input URL,
// in input order. Failed fetches leave a nil slot. Every fetch settles
// before FetchAll returns.
func (c *CrawlService) FetchAll(ctx context.Context, urls []string) []*domain.Document {
	docs := make([]*domain.Document, len(urls))
	if len(urls) == 0 {
		return docs
	}

	var g errgroup.Group
	g.SetLimit(c.settings.Concurrency)

	for i, u := range urls {
		g.Go(func() error {
			docs[i] = c.fetchOne(ctx, u)
			return nil
		})
	}

	// fetchOne never returns an error into the group
	_ = g.Wait()

	return docs
}

func (c *CrawlService) fetchOne(ctx context.Context, url string) *domain.Document {
	raw, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, domain.ErrFetchFailed) {
			logger.Debug("Skipping %s: %v", url, err)
		} else {
			logger.Warn("Fetch %s: %v", url, err)
		}
		return nil
	}

	result, err := c.normaliser.Normalise(ctx, raw)
	if err != nil {
		logger.Warn("Normalise %s: %v", url, err)
		return nil
	}

	return &result.Document
}
