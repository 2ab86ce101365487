// Package lru provides a bounded answer cache.
package lru

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.AnswerCache        = (*Cache)(nil)
	_ driven.AnswerCacheFactory = (*Factory)(nil)
)

// Cache keeps the most recently used answers. It is safe for concurrent use.
// Answers are copied in and out, so callers may modify what they get.
type Cache struct {
	entries *lru.Cache[string, *domain.Answer]
}

// New creates a cache holding at most size answers.
func New(size int) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: cache size must be greater than zero", domain.ErrInvalidInput)
	}
	entries, err := lru.New[string, *domain.Answer](size)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached answer for query.
func (c *Cache) Get(query string) (*domain.Answer, bool) {
	answer, ok := c.entries.Get(query)
	if !ok {
		return nil, false
	}
	return answer.Clone(), true
}

// Add stores answer, evicting the least recently used entry when full.
func (c *Cache) Add(query string, answer *domain.Answer) {
	c.entries.Add(query, answer.Clone())
}

// Len returns the number of cached answers.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Factory creates caches.
type Factory struct{}

// NewCache creates a cache holding at most size answers.
func (Factory) NewCache(size int) (driven.AnswerCache, error) {
	return New(size)
}
