package domain

import "time"

const unknownDescription = "Unknown"

// SearchEngineKind selects the full-text engine backing the corpus index.
type SearchEngineKind string

// Available search engines.
const (
	// SearchEngineMemory is the in-process inverted index with fuzzy and prefix matching.
	SearchEngineMemory SearchEngineKind = "memory"

	// SearchEngineSQLite is an in-memory SQLite FTS5 table with prefix matching.
	SearchEngineSQLite SearchEngineKind = "sqlite"
)

// IsValid returns true if the engine is recognised.
func (k SearchEngineKind) IsValid() bool {
	switch k {
	case SearchEngineMemory, SearchEngineSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SearchEngineKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the engine.
func (k SearchEngineKind) Description() string {
	switch k {
	case SearchEngineMemory:
		return "Memory (fuzzy + prefix, BM25)"
	case SearchEngineSQLite:
		return "SQLite FTS5 (prefix, BM25)"
	default:
		return unknownDescription
	}
}

// CrawlSettings controls link discovery and fetching.
type CrawlSettings struct {
	// LinkLimit caps the number of same-origin links fetched per crawl.
	LinkLimit int

	// MinContentLength drops fetched pages with less normalised text than this.
	MinContentLength int

	// Concurrency bounds the number of in-flight fetches.
	Concurrency int

	// RequestsPerSecond throttles fetches; zero means unlimited.
	RequestsPerSecond float64

	// Timeout bounds a single fetch.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// IndexSettings configures the corpus index.
type IndexSettings struct {
	// Engine selects the search engine implementation.
	Engine SearchEngineKind

	// TitleBoost weights title matches relative to content (content is 1).
	TitleBoost float64

	// Fuzzy is the edit distance allowed per term as a fraction of its length.
	Fuzzy float64

	// Prefix enables prefix matching of query terms.
	Prefix bool
}

// AnswerSettings configures the query answerer.
type AnswerSettings struct {
	// MaxDocuments is the number of top search results used for an answer.
	MaxDocuments int

	// MaxSnippets is the number of sentences surfaced per document.
	MaxSnippets int

	// ReadyTimeout bounds how long a query waits for the index.
	ReadyTimeout time.Duration

	// CacheSize is the number of answers memoised per session; zero disables.
	CacheSize int
}

// ContactSettings configures escalation.
type ContactSettings struct {
	// Attribute is the <body> attribute holding the contact number.
	Attribute string

	// Message is prefilled into the deep link.
	Message string
}

// SessionSettings bounds the sessions a long-running server keeps open.
type SessionSettings struct {
	// MaxOpen is the number of open sessions; opening one more closes the
	// least recently used.
	MaxOpen int

	// IdleTimeout closes a session that has not been used for this long.
	IdleTimeout time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	Crawl    CrawlSettings
	Index    IndexSettings
	Answer   AnswerSettings
	Contact  ContactSettings
	Sessions SessionSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Crawl: CrawlSettings{
			LinkLimit:         25,
			MinContentLength:  30,
			Concurrency:       8,
			RequestsPerSecond: 0,
			Timeout:           15 * time.Second,
			UserAgent:         "sercha-assist",
		},
		Index: IndexSettings{
			Engine:     SearchEngineMemory,
			TitleBoost: 2,
			Fuzzy:      0.2,
			Prefix:     true,
		},
		Answer: AnswerSettings{
			MaxDocuments: 3,
			MaxSnippets:  2,
			ReadyTimeout: 8 * time.Second,
			CacheSize:    128,
		},
		Contact: ContactSettings{
			Attribute: DefaultContactAttribute,
			Message:   DefaultEscalationMessage,
		},
		Sessions: SessionSettings{
			MaxOpen:     256,
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// AllSearchEngines returns all available search engines.
func AllSearchEngines() []SearchEngineKind {
	return []SearchEngineKind{
		SearchEngineMemory,
		SearchEngineSQLite,
	}
}
