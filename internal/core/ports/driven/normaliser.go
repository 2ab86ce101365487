package driven

import (
	"context"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// Normaliser transforms raw page markup into indexable text.
type Normaliser interface {
	// Normalise converts a raw page into a document.
	// Title falls back to the URI when the page has no <title>.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Sentences splits plain text into sentence-like units, in order.
	Sentences(content string) []string
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Document is the normalised document with Content populated.
	Document domain.Document

	// HasTitle reports whether the markup carried a <title>.
	HasTitle bool
}
