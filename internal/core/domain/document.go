package domain

// Document represents a crawled page after normalisation.
// Documents are immutable once created and owned by the corpus.
type Document struct {
	// ID is the canonical URL and is unique within a corpus.
	ID string `json:"id"`

	// URL is the location the document was read from.
	URL string `json:"url"`

	// Title is the page <title>, or the URL when the page has none.
	Title string `json:"title"`

	// Content is whitespace-collapsed plain text with no markup. It stays out
	// of JSON so replies cite pages by title and URL only.
	Content string `json:"-"`
}

// CurrentPageTitle is used for the seed page when it has no <title>.
const CurrentPageTitle = "Current page"
