// Package sqlite implements a search engine on SQLite FTS5.
//
// Each engine opens a private in-memory database, so nothing is written to
// disk and sessions never see each other's documents. Ranking uses FTS5's
// bm25() with the title column weighted by the configured boost. Prefix
// matching is supported; fuzzy matching is not.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"unicode"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-assist/internal/adapters/driven/search/sqlite/schema"
	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// Engine is an FTS5-backed search engine over an in-memory database.
type Engine struct {
	db         *sql.DB
	titleBoost float64
	prefix     bool
}

// New opens a fresh in-memory database and applies the schema.
func New(settings domain.IndexSettings) (*Engine, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	titleBoost := settings.TitleBoost
	if titleBoost <= 0 {
		titleBoost = 1
	}

	e := &Engine{
		db:         db,
		titleBoost: titleBoost,
		prefix:     settings.Prefix,
	}

	if err := e.migrate(schema.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return e, nil
}

// migrate applies every *.up.sql file newer than the recorded version.
func (e *Engine) migrate(fsys fs.FS) error {
	_, err := e.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := e.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := e.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := e.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// AddAll inserts docs in one transaction. Insertion order becomes rowid
// order, which breaks score ties.
func (e *Engine) AddAll(ctx context.Context, docs []domain.Document) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO documents (doc_id, title, content) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Title, doc.Content); err != nil {
			return fmt.Errorf("insert %s: %w", doc.ID, err)
		}
	}

	return tx.Commit()
}

// Search runs query as an OR of its terms. Scores are the negated bm25()
// rank, so larger is better.
func (e *Engine) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	match := MatchExpression(query, e.prefix)
	if match == "" {
		return []domain.SearchResult{}, nil
	}

	weights := "0, " + strconv.FormatFloat(e.titleBoost, 'f', -1, 64) + ", 1.0"
	rows, err := e.db.QueryContext(ctx, `
		SELECT doc_id, bm25(documents, `+weights+`) AS rank
		FROM documents
		WHERE documents MATCH ?
		ORDER BY rank, rowid
	`, match)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	results := []domain.SearchResult{}
	for rows.Next() {
		var id string
		var rank float64
		if err := rows.Scan(&id, &rank); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, domain.SearchResult{DocumentID: id, Score: -rank})
	}
	return results, rows.Err()
}

// Close closes the database.
func (e *Engine) Close() error {
	return e.db.Close()
}

// MatchExpression builds an FTS5 MATCH expression from free text. Each
// letter/digit run becomes a quoted term, optionally with a prefix star;
// terms are OR-ed. Text with no terms yields "".
func MatchExpression(query string, prefix bool) string {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true

		term := `"` + tok + `"`
		if prefix {
			term += "*"
		}
		terms = append(terms, term)
	}
	return strings.Join(terms, " OR ")
}
