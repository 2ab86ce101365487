// Package memory implements an in-process full-text search engine.
//
// Documents are indexed per field (title and content) into an inverted
// index. Queries are tokenised the same way as documents; every query term
// is expanded to prefix and fuzzy matches from the vocabulary, each match
// is scored with per-field BM25 and the results are OR-combined. A
// document's total is multiplied by the number of query terms it matched.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// BM25 tuning.
const (
	bm25K1 = 1.2
	bm25B  = 0.7
	bm25D  = 0.5
)

// Weights applied to expanded terms relative to an exact match.
const (
	prefixWeight = 0.375
	fuzzyWeight  = 0.45
)

// maxFuzzyDistance caps the edit distance for long terms.
const maxFuzzyDistance = 6

const (
	fieldTitle = iota
	fieldContent
	numFields
)

// Engine is an in-memory inverted index.
type Engine struct {
	mu sync.RWMutex

	boosts [numFields]float64
	fuzzy  float64
	prefix bool

	ids []string
	// postings maps term -> field -> document index -> term frequency.
	postings    map[string]*[numFields]map[int]int
	vocabulary  []string
	fieldLength [][numFields]int
	totalLength [numFields]int
	closed      bool
}

// New creates an engine configured by settings.
func New(settings domain.IndexSettings) *Engine {
	titleBoost := settings.TitleBoost
	if titleBoost <= 0 {
		titleBoost = 1
	}

	return &Engine{
		boosts:   [numFields]float64{fieldTitle: titleBoost, fieldContent: 1},
		fuzzy:    settings.Fuzzy,
		prefix:   settings.Prefix,
		postings: make(map[string]*[numFields]map[int]int),
	}
}

// AddAll indexes docs in order.
func (e *Engine) AddAll(ctx context.Context, docs []domain.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return domain.ErrSearchUnavailable
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.add(doc)
	}

	e.vocabulary = e.vocabulary[:0]
	for term := range e.postings {
		e.vocabulary = append(e.vocabulary, term)
	}
	sort.Strings(e.vocabulary)

	return nil
}

func (e *Engine) add(doc domain.Document) {
	idx := len(e.ids)
	e.ids = append(e.ids, doc.ID)

	var lengths [numFields]int
	for field, text := range [numFields]string{fieldTitle: doc.Title, fieldContent: doc.Content} {
		tokens := Tokenize(text)
		lengths[field] = len(tokens)
		e.totalLength[field] += len(tokens)

		for _, tok := range tokens {
			p, ok := e.postings[tok]
			if !ok {
				p = &[numFields]map[int]int{}
				e.postings[tok] = p
			}
			if p[field] == nil {
				p[field] = make(map[int]int)
			}
			p[field][idx]++
		}
	}
	e.fieldLength = append(e.fieldLength, lengths)
}

// Search returns documents matching any query term, best first. Equal
// scores keep insertion order.
func (e *Engine) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return nil, domain.ErrSearchUnavailable
	}

	terms := uniqueTokens(query)
	if len(terms) == 0 || len(e.ids) == 0 {
		return []domain.SearchResult{}, nil
	}

	scores := make(map[int]float64)
	matched := make(map[int]int)

	for _, q := range terms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Matches are summed in vocabulary order so equal inputs give
		// bit-identical scores.
		expanded := e.expand(q)
		matchedTerms := make([]string, 0, len(expanded))
		for term := range expanded {
			matchedTerms = append(matchedTerms, term)
		}
		sort.Strings(matchedTerms)

		termScores := make(map[int]float64)
		for _, term := range matchedTerms {
			e.scoreTerm(term, expanded[term], termScores)
		}
		for idx, s := range termScores {
			scores[idx] += s
			matched[idx]++
		}
	}

	results := make([]scoredDoc, 0, len(scores))
	for idx, s := range scores {
		results = append(results, scoredDoc{idx: idx, score: s * float64(matched[idx])})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].idx < results[j].idx
	})

	out := make([]domain.SearchResult, len(results))
	for i, r := range results {
		out[i] = domain.SearchResult{DocumentID: e.ids[r.idx], Score: r.score}
	}
	return out, nil
}

type scoredDoc struct {
	idx   int
	score float64
}

// expand maps a query term to the vocabulary terms it matches and their
// weights. Exact beats prefix beats fuzzy for the same vocabulary term.
func (e *Engine) expand(q string) map[string]float64 {
	matches := make(map[string]float64)

	if _, ok := e.postings[q]; ok {
		matches[q] = 1
	}

	qLen := len([]rune(q))

	if e.prefix {
		start := sort.SearchStrings(e.vocabulary, q)
		for i := start; i < len(e.vocabulary) && strings.HasPrefix(e.vocabulary[i], q); i++ {
			term := e.vocabulary[i]
			if term == q {
				continue
			}
			tLen := len([]rune(term))
			distance := float64(tLen - qLen)
			matches[term] = prefixWeight * float64(tLen) / (float64(tLen) + 0.3*distance)
		}
	}

	maxDistance := e.maxDistance(qLen)
	if maxDistance > 0 {
		for _, term := range e.vocabulary {
			if _, ok := matches[term]; ok {
				continue
			}
			d := Distance(q, term, maxDistance)
			if d < 0 {
				continue
			}
			tLen := float64(len([]rune(term)))
			matches[term] = fuzzyWeight * tLen / (tLen + float64(d))
		}
	}

	return matches
}

func (e *Engine) maxDistance(termLength int) int {
	if e.fuzzy <= 0 {
		return 0
	}
	d := int(math.Round(e.fuzzy * float64(termLength)))
	if e.fuzzy >= 1 {
		d = int(e.fuzzy)
	}
	if d > maxFuzzyDistance {
		d = maxFuzzyDistance
	}
	return d
}

// scoreTerm adds the boosted BM25 contribution of term in every field.
func (e *Engine) scoreTerm(term string, weight float64, into map[int]float64) {
	p, ok := e.postings[term]
	if !ok {
		return
	}

	total := float64(len(e.ids))
	for field := 0; field < numFields; field++ {
		docs := p[field]
		if len(docs) == 0 {
			continue
		}
		avgLen := float64(e.totalLength[field]) / total
		idf := calcIDF(total, float64(len(docs)))

		for idx, tf := range docs {
			s := idf * (bm25D + calcTF(float64(tf), float64(e.fieldLength[idx][field]), avgLen))
			into[idx] += s * e.boosts[field] * weight
		}
	}
}

// calcIDF computes inverse document frequency for a term.
func calcIDF(numDocs, docFreq float64) float64 {
	return math.Log(1.0 + (numDocs-docFreq+0.5)/(docFreq+0.5))
}

// calcTF computes the BM25 term frequency component.
func calcTF(termCount, fieldLen, avgLen float64) float64 {
	if avgLen == 0 {
		avgLen = 1
	}
	denominator := termCount + bm25K1*(1.0-bm25B+bm25B*(fieldLen/avgLen))
	if denominator == 0 {
		return 0
	}
	return (termCount * (bm25K1 + 1.0)) / denominator
}

// Len returns the number of indexed documents.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.ids)
}

// Close releases the index.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.postings = nil
	e.vocabulary = nil
	e.ids = nil
	e.fieldLength = nil
	return nil
}

// Tokenize lower-cases text and splits it on anything that is not a
// letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func uniqueTokens(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
