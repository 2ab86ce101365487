package driven

import "github.com/custodia-labs/sercha-assist/internal/core/domain"

// AnswerCache memoises answers by normalised query.
// Implementations must be safe for concurrent use and must copy answers on
// Add and Get so no two callers share one.
type AnswerCache interface {
	Get(query string) (*domain.Answer, bool)
	Add(query string, answer *domain.Answer)
	Len() int
}

// AnswerCacheFactory creates a cache holding at most size answers.
type AnswerCacheFactory interface {
	NewCache(size int) (AnswerCache, error)
}
