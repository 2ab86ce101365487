package driven

import (
	"context"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// SearchEngine provides full-text search over a batch of documents.
// Engines index the title and content fields; boosts, fuzzy and prefix
// behaviour are fixed when the engine is created.
type SearchEngine interface {
	// AddAll indexes a batch of documents.
	AddAll(ctx context.Context, docs []domain.Document) error

	// Search returns matching documents ordered by descending score.
	// Ordering must be deterministic for identical inputs.
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)

	// Close releases resources.
	Close() error
}

// SearchEngineFactory creates a new, empty engine.
// Each session owns its engine; engines are never shared.
type SearchEngineFactory interface {
	NewEngine(settings domain.IndexSettings) (SearchEngine, error)
}
