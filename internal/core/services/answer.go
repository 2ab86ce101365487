package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-assist/internal/logger"
)

// idealSentenceLength is the sentence length that receives no penalty.
const idealSentenceLength = 140

// fallbackPartTitle labels a part whose document has no title.
const fallbackPartTitle = "From page"

// Answerer turns a query into an Answer using the corpus index for
// document selection and sentence ranking for snippets.
type Answerer struct {
	corpus       *Corpus
	normaliser   driven.Normaliser
	cache        driven.AnswerCache
	maxDocuments int
	maxSnippets  int
}

// NewAnswerer creates a new answerer.
func NewAnswerer(corpus *Corpus, normaliser driven.Normaliser, settings domain.AnswerSettings) *Answerer {
	defaults := domain.DefaultAppSettings().Answer
	if settings.MaxDocuments <= 0 {
		settings.MaxDocuments = defaults.MaxDocuments
	}
	if settings.MaxSnippets <= 0 {
		settings.MaxSnippets = defaults.MaxSnippets
	}

	return &Answerer{
		corpus:       corpus,
		normaliser:   normaliser,
		maxDocuments: settings.MaxDocuments,
		maxSnippets:  settings.MaxSnippets,
	}
}

// SetCache sets the optional answer cache.
func (a *Answerer) SetCache(cache driven.AnswerCache) {
	a.cache = cache
}

// Answer answers query from the corpus. Empty or whitespace-only queries
// return nil with no error.
func (a *Answerer) Answer(ctx context.Context, query string) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	key := cacheKey(query)
	if a.cache != nil {
		if cached, ok := a.cache.Get(key); ok {
			logger.Debug("Answer cache hit for %q", key)
			return cached, nil
		}
	}

	results, err := a.corpus.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search corpus: %w", err)
	}
	logger.Debug("Index returned %d results for %q", len(results), query)

	answer := a.compose(query, results)

	if a.cache != nil {
		a.cache.Add(key, answer)
	}
	return answer, nil
}

func (a *Answerer) compose(query string, results []domain.SearchResult) *domain.Answer {
	if len(results) == 0 {
		return &domain.Answer{Kind: domain.AnswerNoMatch, Message: domain.MessageNoMatch}
	}

	if len(results) > a.maxDocuments {
		results = results[:a.maxDocuments]
	}

	terms := QueryTerms(query)
	parts := make([]domain.AnswerPart, 0, len(results))
	candidates := make([]string, 0, len(results))

	for _, r := range results {
		doc, ok := a.corpus.Document(r.DocumentID)
		if !ok {
			doc = domain.Document{ID: r.DocumentID, URL: r.DocumentID, Title: r.DocumentID}
		}
		candidates = append(candidates, doc.URL)

		snippets := TopSnippets(terms, doc.ID, a.normaliser.Sentences(doc.Content), a.maxSnippets)
		if len(snippets) == 0 {
			continue
		}
		parts = append(parts, domain.AnswerPart{Document: doc, Snippets: snippets})
	}

	if len(parts) == 0 {
		return &domain.Answer{
			Kind:          domain.AnswerNoExcerpt,
			CandidateURLs: candidates,
			Message:       domain.MessageNoExcerpt + strings.Join(candidates, ", "),
		}
	}

	return &domain.Answer{
		Kind:    domain.AnswerFound,
		Parts:   parts,
		Message: ComposeText(parts),
	}
}

// ComposeText renders answer parts as plain text, one line per document:
// "Title: snippet snippet (url)".
func ComposeText(parts []domain.AnswerPart) string {
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		title := p.Document.Title
		if title == "" {
			title = fallbackPartTitle
		}

		texts := make([]string, len(p.Snippets))
		for i, s := range p.Snippets {
			texts[i] = s.Text
		}

		lines = append(lines, fmt.Sprintf("%s: %s (%s)", title, strings.Join(texts, " "), p.Document.URL))
	}
	return strings.Join(lines, "\n")
}

// Term is a lower-cased query token with its whole-word matcher.
type Term struct {
	Text  string
	Whole *regexp.Regexp
}

// QueryTerms splits a query on whitespace into lower-cased terms.
func QueryTerms(query string) []Term {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]Term, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, Term{
			Text:  f,
			Whole: regexp.MustCompile(`\b` + regexp.QuoteMeta(f) + `\b`),
		})
	}
	return terms
}

// ScoreSentence scores one sentence against terms. Each whole-word
// occurrence adds 2, containing the term anywhere adds 1 more, and the
// distance from 140 characters is subtracted as a fraction of 140.
func ScoreSentence(sentence string, terms []Term) float64 {
	lower := strings.ToLower(sentence)

	var score float64
	for _, t := range terms {
		if n := len(t.Whole.FindAllStringIndex(lower, -1)); n > 0 {
			score += float64(2 * n)
		}
		if strings.Contains(lower, t.Text) {
			score++
		}
	}

	length := utf8.RuneCountInString(sentence)
	score -= math.Abs(float64(idealSentenceLength-length)) / idealSentenceLength

	return score
}

// TopSnippets ranks sentences by ScoreSentence and returns the best limit of
// them. Equal scores keep their original order.
func TopSnippets(terms []Term, docID string, sentences []string, limit int) []domain.Snippet {
	snippets := make([]domain.Snippet, len(sentences))
	for i, s := range sentences {
		snippets[i] = domain.Snippet{
			SourceDocumentID: docID,
			Text:             s,
			Score:            ScoreSentence(s, terms),
		}
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].Score > snippets[j].Score
	})

	if limit >= 0 && len(snippets) > limit {
		snippets = snippets[:limit]
	}
	return snippets
}

func cacheKey(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
