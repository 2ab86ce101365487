package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-assist/internal/logger"
)

// Corpus holds a session's documents and the index built over them.
// It is written once by Build and only read afterwards.
type Corpus struct {
	engine driven.SearchEngine
	built  atomic.Bool
	ready  atomic.Bool
	docs   []domain.Document
	byID   map[string]int
}

// NewCorpus creates an empty corpus over engine.
func NewCorpus(engine driven.SearchEngine) *Corpus {
	return &Corpus{engine: engine}
}

// Build indexes docs. It may be called once; later calls return
// domain.ErrIndexAlreadyBuilt without touching the index.
func (c *Corpus) Build(ctx context.Context, docs []domain.Document) error {
	if c.engine == nil {
		return domain.ErrSearchUnavailable
	}
	if !c.built.CompareAndSwap(false, true) {
		return domain.ErrIndexAlreadyBuilt
	}

	c.docs = make([]domain.Document, len(docs))
	copy(c.docs, docs)

	c.byID = make(map[string]int, len(docs))
	for i, d := range c.docs {
		if _, dup := c.byID[d.ID]; !dup {
			c.byID[d.ID] = i
		}
	}

	if err := c.engine.AddAll(ctx, c.docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	c.ready.Store(true)
	logger.Debug("Indexed %d documents", len(c.docs))
	return nil
}

// Search queries the index.
func (c *Corpus) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if !c.ready.Load() {
		return nil, domain.ErrIndexNotReady
	}
	return c.engine.Search(ctx, query)
}

// Document returns the document with the given ID.
func (c *Corpus) Document(id string) (domain.Document, bool) {
	if !c.ready.Load() {
		return domain.Document{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return domain.Document{}, false
	}
	return c.docs[i], true
}

// Documents returns a copy of the indexed documents in corpus order.
func (c *Corpus) Documents() []domain.Document {
	if !c.ready.Load() {
		return nil
	}
	out := make([]domain.Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Len returns the number of indexed documents.
func (c *Corpus) Len() int {
	if !c.ready.Load() {
		return 0
	}
	return len(c.docs)
}

// Close releases the index.
func (c *Corpus) Close() error {
	if c.engine == nil {
		return nil
	}
	return c.engine.Close()
}
