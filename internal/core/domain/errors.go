package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexNotReady indicates the corpus index did not become ready in time.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrIndexAlreadyBuilt indicates a second build was attempted on a corpus.
	// The session latch makes this a caller bug.
	ErrIndexAlreadyBuilt = errors.New("index already built")

	// ErrSearchUnavailable indicates the search engine is not configured.
	ErrSearchUnavailable = errors.New("search engine unavailable")

	// ErrFetchFailed indicates a page could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrNoContact indicates no usable contact number was found on the page.
	ErrNoContact = errors.New("no contact found")
)
