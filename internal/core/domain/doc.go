// Package domain defines the core business entities for Sercha Assist.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: The seed page a session is opened on, with its live markup
//   - Document: A normalised page in the corpus
//   - SearchResult: A document-level hit returned by the search engine
//   - Snippet: A ranked sentence extracted from a document
//   - Answer: Up to three documents with their best snippets
//   - Reply: The outcome of one visitor query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
