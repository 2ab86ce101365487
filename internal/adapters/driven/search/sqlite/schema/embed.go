// Package schema embeds the SQL migrations for the SQLite search engine.
package schema

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
