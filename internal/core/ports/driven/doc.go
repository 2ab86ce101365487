// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SearchEngine: Full-text index over the corpus (memory or SQLite FTS5)
//   - SearchEngineFactory: Creates a fresh engine for each session
//   - Normaliser: Turns page markup into plain text and sentences
//   - PageFetcher: Retrieves pages over HTTP with a per-session cookie jar
//   - PageFetcherFactory: Creates a fetcher for each session
//   - LinkDiscoverer: Enumerates same-origin links from the seed page
//   - SignalExtractor: Reads contact hints from the seed page
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AnswerCache: Memoises answers per query for one session
//   - AnswerCacheFactory: Creates a cache for each session
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
